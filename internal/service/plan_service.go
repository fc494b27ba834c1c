package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"path"
	"time"

	"gymovoo/workout-engine/internal/domain"
	"gymovoo/workout-engine/internal/planner"
	"gymovoo/workout-engine/internal/questionnaire"
	"gymovoo/workout-engine/internal/repository"
	"gymovoo/workout-engine/internal/slots"
	"gymovoo/workout-engine/internal/storage"
)

// --- Error Definitions ---
var (
	ErrPlanNotFound         = errors.New("plan not found")
	ErrProfileNotFound      = errors.New("no questionnaire answers stored for this user")
	ErrSlotsFull            = errors.New("all plan slots are occupied")
	ErrInvalidSlot          = errors.New("invalid plan slot")
	ErrInvalidTier          = errors.New("invalid plan tier")
	ErrSubscriptionRequired = errors.New("a premium subscription is required for smart plans")
	ErrExportUnavailable    = errors.New("plan export storage is not configured")
	ErrSmartUnavailable     = errors.New("no smart plan could be built for this slot")
)

// SlotSummary describes one plan slot for listings.
type SlotSummary struct {
	slots.Entry
	PlanID          string       `json:"planId,omitempty"`
	Goal            domain.Goal  `json:"goal,omitempty"`
	Experience      domain.Level `json:"experience,omitempty"`
	SessionsPerWeek int          `json:"sessionsPerWeek,omitempty"`
	CreatedAt       *time.Time   `json:"createdAt,omitempty"`
}

// SlotsFullError is returned when a new plan needs a slot and the caller did
// not say which stored plan to replace.
type SlotsFullError struct {
	Slots []SlotSummary
}

func (e *SlotsFullError) Error() string {
	return fmt.Sprintf("%v: choose a slot between 0 and %d to replace", ErrSlotsFull, len(e.Slots)-1)
}

func (e *SlotsFullError) Is(target error) bool {
	return target == ErrSlotsFull
}

// PlanPreview is a generation that was not stored.
type PlanPreview struct {
	Profile domain.UserProfile `json:"profile"`
	Plans   planner.PlanSet    `json:"plans"`
}

// GenerateResult reports where a generated plan ended up.
type GenerateResult struct {
	Outcome slots.Outcome      `json:"outcome"`
	Plan    *domain.StoredPlan `json:"plan"`
}

// --- Service Interface ---
type PlanService interface {
	Preview(ctx context.Context, answers map[string]any) (*PlanPreview, error)
	Generate(ctx context.Context, userID string, answers map[string]any, replaceSlot *int) (*GenerateResult, error)
	Regenerate(ctx context.Context, userID string, replaceSlot *int) (*GenerateResult, error)
	ListPlans(ctx context.Context, userID string) ([]SlotSummary, error)
	GetPlan(ctx context.Context, userID string, slot int) (*domain.StoredPlan, error)
	DeletePlan(ctx context.Context, userID string, slot int) error
	ExportPlan(ctx context.Context, userID string, slot int, tier domain.Tier, sub domain.Subscription) (*domain.PlanExport, error)
	GetProfile(ctx context.Context, userID string) (*domain.StoredProfile, error)
}

// PlanServiceConfig carries the tunables of the plan service.
type PlanServiceConfig struct {
	ExportExpiry time.Duration
	ExportPrefix string
	Now          func() time.Time
}

// --- Service Implementation ---

type planService struct {
	engine       *planner.Engine
	plans        repository.PlanSlotRepository
	profiles     repository.ProfileRepository
	fileStorage  storage.FileStorage // nil disables exports
	exportExpiry time.Duration
	exportPrefix string
	now          func() time.Time
	observer     UseCaseObserver
}

// NewPlanService creates a new plan service.
func NewPlanService(
	engine *planner.Engine,
	plans repository.PlanSlotRepository,
	profiles repository.ProfileRepository,
	fileStorage storage.FileStorage,
	cfg PlanServiceConfig,
	observers ...UseCaseObserver,
) PlanService {
	if cfg.ExportExpiry <= 0 {
		cfg.ExportExpiry = storage.DefaultPresignedURLExpiry
	}
	if cfg.ExportPrefix == "" {
		cfg.ExportPrefix = "plan-exports"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &planService{
		engine:       engine,
		plans:        plans,
		profiles:     profiles,
		fileStorage:  fileStorage,
		exportExpiry: cfg.ExportExpiry,
		exportPrefix: cfg.ExportPrefix,
		now:          cfg.Now,
		observer:     useCaseObserverOrNoop(observers),
	}
}

// Preview normalizes answers and generates both tiers without touching storage.
func (s *planService) Preview(ctx context.Context, answers map[string]any) (preview *PlanPreview, err error) {
	fields := map[string]any{}
	done := track(ctx, s.observer, "plans.preview", fields)
	defer func() { done(err) }()

	normalized, set, err := s.generate(answers)
	if err != nil {
		return nil, err
	}
	fields["hash"] = set.Basic.SourceAnswersHash
	return &PlanPreview{Profile: normalized.Profile, Plans: set}, nil
}

// Generate creates plans from questionnaire answers and stores them in a slot.
// When every slot is occupied replaceSlot chooses the plan to overwrite; nil
// yields a *SlotsFullError.
func (s *planService) Generate(ctx context.Context, userID string, answers map[string]any, replaceSlot *int) (result *GenerateResult, err error) {
	fields := map[string]any{"user_id": userID}
	done := track(ctx, s.observer, "plans.generate", fields)
	defer func() { done(err) }()

	if err = checkSlot(replaceSlot); err != nil {
		return nil, err
	}
	normalized, set, err := s.generate(answers)
	if err != nil {
		return nil, err
	}
	result, err = s.place(ctx, userID, set, replaceSlot, false)
	if err != nil {
		return nil, err
	}
	s.saveProfile(ctx, userID, normalized.Profile)

	fields["outcome"] = result.Outcome
	fields["slot"] = result.Plan.Slot
	return result, nil
}

// Regenerate rebuilds plans from the user's last stored answers, for instance
// after the exercise catalog changed. The slot already holding those answers
// is overwritten in place (OutcomeRefreshed).
func (s *planService) Regenerate(ctx context.Context, userID string, replaceSlot *int) (result *GenerateResult, err error) {
	fields := map[string]any{"user_id": userID}
	done := track(ctx, s.observer, "plans.regenerate", fields)
	defer func() { done(err) }()

	if err = checkSlot(replaceSlot); err != nil {
		return nil, err
	}
	stored, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	set, err := s.engine.Generate(stored.Profile)
	if err != nil {
		return nil, err
	}
	result, err = s.place(ctx, userID, set, replaceSlot, true)
	if err != nil {
		return nil, err
	}
	fields["outcome"] = result.Outcome
	fields["slot"] = result.Plan.Slot
	return result, nil
}

// ListPlans returns every slot of the user, empty ones included.
func (s *planService) ListPlans(ctx context.Context, userID string) ([]SlotSummary, error) {
	stored, err := s.plans.ListByUser(ctx, userID)
	if err != nil {
		log.Printf("ERROR: Failed to list plans for user %s: %v", userID, err)
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return summarize(s.board(userID, stored), stored), nil
}

// GetPlan retrieves the plans stored in one slot.
func (s *planService) GetPlan(ctx context.Context, userID string, slot int) (*domain.StoredPlan, error) {
	if err := checkSlot(&slot); err != nil {
		return nil, err
	}
	plan, err := s.plans.GetBySlot(ctx, userID, slot)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		log.Printf("ERROR: Failed to get plan slot %d for user %s: %v", slot, userID, err)
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return plan, nil
}

// DeletePlan empties a slot and removes any exports made from it.
func (s *planService) DeletePlan(ctx context.Context, userID string, slot int) (err error) {
	done := track(ctx, s.observer, "plans.delete", map[string]any{"user_id": userID, "slot": slot})
	defer func() { done(err) }()

	if err = checkSlot(&slot); err != nil {
		return err
	}
	if err = s.plans.Delete(ctx, userID, slot); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlanNotFound
		}
		return fmt.Errorf("failed to delete plan: %w", err)
	}

	if s.fileStorage != nil {
		for _, tier := range []domain.Tier{domain.TierBasic, domain.TierSmart} {
			if delErr := s.fileStorage.DeleteObject(ctx, s.exportKey(userID, slot, tier)); delErr != nil {
				log.Printf("WARN: Failed to delete %s export of slot %d for user %s: %v", tier, slot, userID, delErr)
			}
		}
	}
	return nil
}

// ExportPlan uploads one tier of a stored plan as JSON and returns a
// temporary download link.
func (s *planService) ExportPlan(ctx context.Context, userID string, slot int, tier domain.Tier, sub domain.Subscription) (export *domain.PlanExport, err error) {
	done := track(ctx, s.observer, "plans.export", map[string]any{"user_id": userID, "slot": slot, "tier": tier})
	defer func() { done(err) }()

	if s.fileStorage == nil {
		return nil, ErrExportUnavailable
	}
	switch tier {
	case domain.TierBasic:
	case domain.TierSmart:
		if !sub.CanUseSmartPlans() {
			return nil, ErrSubscriptionRequired
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidTier, tier)
	}

	stored, err := s.GetPlan(ctx, userID, slot)
	if err != nil {
		return nil, err
	}
	plan := stored.Basic
	if tier == domain.TierSmart {
		if !stored.HasSmart() {
			return nil, ErrSmartUnavailable
		}
		plan = stored.Smart
	}

	body, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode plan: %w", err)
	}
	key := s.exportKey(userID, slot, tier)
	if err = s.fileStorage.PutObject(ctx, key, "application/json", body); err != nil {
		return nil, fmt.Errorf("failed to upload plan export: %w", err)
	}
	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, key, s.exportExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to sign plan export: %w", err)
	}

	return &domain.PlanExport{
		ObjectKey:   key,
		Tier:        tier,
		DownloadURL: url,
		ExpiresAt:   s.now().Add(s.exportExpiry).UTC(),
	}, nil
}

// GetProfile returns the last answers the user generated plans from.
func (s *planService) GetProfile(ctx context.Context, userID string) (*domain.StoredProfile, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

func (s *planService) generate(answers map[string]any) (questionnaire.Result, planner.PlanSet, error) {
	normalized, err := questionnaire.NormalizeMap(answers)
	if err != nil {
		return questionnaire.Result{}, planner.PlanSet{}, err
	}
	set, err := s.engine.Generate(normalized.Profile)
	if err != nil {
		return questionnaire.Result{}, planner.PlanSet{}, err
	}
	set.Warnings = append(normalized.Warnings, set.Warnings...)
	return normalized, set, nil
}

// placeAttempts bounds how often place re-reads the slots after a concurrent
// request filled the empty slot it picked.
const placeAttempts = 3

// place runs the slot state machine over the user's stored plans and
// persists the outcome. refresh rebuilds a slot holding the same answers
// instead of reporting it unchanged.
func (s *planService) place(ctx context.Context, userID string, set planner.PlanSet, replaceSlot *int, refresh bool) (*GenerateResult, error) {
	for attempt := 1; ; attempt++ {
		result, err := s.placeOnce(ctx, userID, set, replaceSlot, refresh)
		if !errors.Is(err, repository.ErrDuplicate) || attempt == placeAttempts {
			return result, err
		}
		log.Printf("WARN: Slot picked for user %s was filled concurrently, retrying (%d/%d)", userID, attempt, placeAttempts)
	}
}

func (s *planService) placeOnce(ctx context.Context, userID string, set planner.PlanSet, replaceSlot *int, refresh bool) (*GenerateResult, error) {
	stored, err := s.plans.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load plan slots: %w", err)
	}
	board := s.board(userID, stored)

	offer := board.Offer
	if refresh {
		offer = board.Refresh
	}
	decision, err := offer(set.Basic.SourceAnswersHash)
	if err != nil {
		return nil, err
	}
	switch decision.Outcome {
	case slots.OutcomeUnchanged:
		return &GenerateResult{Outcome: decision.Outcome, Plan: findSlot(stored, decision.Slot)}, nil
	case slots.OutcomeNeedsConfirmation:
		if replaceSlot == nil {
			board.Cancel()
			return nil, &SlotsFullError{Slots: summarize(board, stored)}
		}
		if decision, err = board.Replace(*replaceSlot); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSlot, err)
		}
	}

	plan := &domain.StoredPlan{
		UserID:            userID,
		Slot:              decision.Slot,
		SourceAnswersHash: set.Basic.SourceAnswersHash,
		Basic:             set.Basic,
		Smart:             set.Smart,
		Warnings:          set.Warnings,
	}
	// An empty slot is only claimed with an insert so a concurrent request
	// cannot silently overwrite it.
	write := s.plans.Insert
	if existing := findSlot(stored, decision.Slot); existing != nil {
		plan.ID = existing.ID
		write = s.plans.Put
	}
	if err := write(ctx, plan); err != nil {
		if !errors.Is(err, repository.ErrDuplicate) {
			log.Printf("ERROR: Failed to store plan in slot %d for user %s: %v", decision.Slot, userID, err)
		}
		return nil, fmt.Errorf("failed to store plan: %w", err)
	}
	return &GenerateResult{Outcome: decision.Outcome, Plan: plan}, nil
}

func (s *planService) board(userID string, stored []domain.StoredPlan) *slots.Board {
	board := slots.NewBoard(domain.MaxStoredPlans, s.now)
	for _, p := range stored {
		if err := board.Restore(p.Slot, p.SourceAnswersHash, p.UpdatedAt); err != nil {
			log.Printf("WARN: Ignoring stored plan %s of user %s: %v", p.ID.Hex(), userID, err)
		}
	}
	return board
}

// saveProfile is best effort; a failure only disables Regenerate.
func (s *planService) saveProfile(ctx context.Context, userID string, profile domain.UserProfile) {
	if err := s.profiles.Save(ctx, &domain.StoredProfile{UserID: userID, Profile: profile}); err != nil {
		log.Printf("WARN: Failed to store questionnaire profile for user %s: %v", userID, err)
	}
}

func (s *planService) exportKey(userID string, slot int, tier domain.Tier) string {
	return path.Join(s.exportPrefix, userID, fmt.Sprintf("slot-%d-%s.json", slot, tier))
}

func checkSlot(slot *int) error {
	if slot != nil && (*slot < 0 || *slot >= domain.MaxStoredPlans) {
		return fmt.Errorf("%w: %d is not between 0 and %d", ErrInvalidSlot, *slot, domain.MaxStoredPlans-1)
	}
	return nil
}

func findSlot(stored []domain.StoredPlan, slot int) *domain.StoredPlan {
	for i := range stored {
		if stored[i].Slot == slot {
			return &stored[i]
		}
	}
	return nil
}

func summarize(board *slots.Board, stored []domain.StoredPlan) []SlotSummary {
	entries := board.Entries()
	out := make([]SlotSummary, len(entries))
	for i, e := range entries {
		out[i] = SlotSummary{Entry: e}
		if p := findSlot(stored, e.Slot); p != nil && e.State == slots.StateOccupied {
			created := p.CreatedAt
			out[i].PlanID = p.Basic.ID
			out[i].Goal = p.Basic.Goal
			out[i].Experience = p.Basic.Experience
			out[i].SessionsPerWeek = len(p.Basic.Sessions)
			out[i].CreatedAt = &created
		}
	}
	return out
}
