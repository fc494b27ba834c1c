// Package planner turns a validated user profile into basic and smart
// workout plans. Every step is a pure computation over the read-only catalog,
// so one Engine can serve concurrent callers.
package planner

import (
	"log/slog"
	"time"

	"gymovoo/workout-engine/internal/catalog"
	"gymovoo/workout-engine/internal/domain"
)

// PlanSet is the outcome of one generation: both tiers plus every non-fatal
// correction made along the way.
type PlanSet struct {
	Basic       domain.WorkoutPlan         `json:"basic"`
	Smart       domain.WorkoutPlan         `json:"smart"` // Zero when the catalog has no fitting cooldown
	Warnings    []domain.ValidationWarning `json:"warnings,omitempty"`
	Adjustments []domain.SafetyAdjustment  `json:"adjustments,omitempty"`
}

// HasSmart reports whether the smart tier was built.
func (s PlanSet) HasSmart() bool {
	return !s.Smart.IsZero()
}

// Engine chains resolver, assembler, tier generator and versioner.
type Engine struct {
	catalog   *catalog.Catalog
	resolver  *EquipmentResolver
	safety    *SafetyFilter
	assembler *Assembler
	tiers     *TierGenerator
	versioner *Versioner
	logger    *slog.Logger

	now   func() time.Time
	newID func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger routes engine diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithClock overrides the time source used for createdAt.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator overrides plan id generation.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// NewEngine builds an engine over c.
func NewEngine(c *catalog.Catalog, opts ...Option) *Engine {
	e := &Engine{catalog: c}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = orDiscard(e.logger)
	e.resolver = NewEquipmentResolver(e.logger)
	e.safety = NewSafetyFilter(c, e.logger)
	e.assembler = NewAssembler(c, e.safety)
	e.tiers = NewTierGenerator(c, e.logger)
	e.versioner = NewVersioner(e.now, e.newID)
	return e
}

// Catalog returns the catalog the engine was built with.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// ResolveEquipment exposes the resolver for callers that only need the
// equipment profile (catalog browsing).
func (e *Engine) ResolveEquipment(location domain.Location, selections []domain.EquipmentSelection) (domain.EquipmentProfile, []domain.ValidationWarning, error) {
	return e.resolver.Resolve(location, selections)
}

// Generate produces both plan tiers for profile. It fails with
// *InvalidProfileError before doing any work, and with
// *InsufficientCatalogError when any session cannot be filled. A catalog
// without a fitting cooldown exercise only costs the smart tier: the set
// carries the basic plan and a WarnSmartUnavailable warning.
func (e *Engine) Generate(profile domain.UserProfile) (PlanSet, error) {
	if err := profile.Validate(); err != nil {
		return PlanSet{}, err
	}

	equipment, warnings, err := e.resolver.Resolve(profile.Location, profile.Equipment)
	if err != nil {
		return PlanSet{}, err
	}
	injuries := NormalizeInjuries(profile.Injuries)
	warnings = append(warnings, e.safety.CheckInjuries(injuries)...)

	sessions, adjustments, err := e.assembler.Assemble(AssemblyInput{
		SessionsPerWeek:        profile.SessionsPerWeek,
		SessionDurationMinutes: profile.SessionDurationMinutes,
		Goal:                   profile.Goal,
		Experience:             profile.Experience,
		Equipment:              equipment,
		Injuries:               injuries,
	})
	if err != nil {
		e.logger.Error("plan assembly failed", "goal", profile.Goal, "experience", profile.Experience,
			"environment", equipment.Environment, "error", err)
		return PlanSet{}, err
	}

	basic, smart, err := e.tiers.GenerateBoth(sessions, TierInput{
		Goal:        profile.Goal,
		Experience:  profile.Experience,
		Equipment:   equipment,
		Injuries:    injuries,
		Adjustments: adjustments,
	})
	stamp := []*domain.WorkoutPlan{&basic, &smart}
	if err != nil {
		if !IsInsufficientCatalog(err) {
			return PlanSet{}, err
		}
		e.logger.Warn("smart plan unavailable, keeping basic plan", "environment", equipment.Environment, "error", err)
		warnings = append(warnings, domain.ValidationWarning{
			Code:    domain.WarnSmartUnavailable,
			Field:   "tier",
			Value:   string(domain.TierSmart),
			Message: "no recovery or flexibility exercise fits this setup, only the basic plan was generated",
		})
		smart = domain.WorkoutPlan{}
		stamp = stamp[:1]
	}

	if err := e.versioner.StampAll(profile, stamp...); err != nil {
		return PlanSet{}, err
	}

	e.logger.Info("plans generated",
		"hash", basic.SourceAnswersHash, "sessions", len(basic.Sessions),
		"exercises", basic.ExerciseCount(), "adjustments", len(adjustments), "warnings", len(warnings))
	return PlanSet{Basic: basic, Smart: smart, Warnings: warnings, Adjustments: adjustments}, nil
}
