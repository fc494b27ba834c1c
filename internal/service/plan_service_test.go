package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"gymovoo/workout-engine/internal/catalog"
	"gymovoo/workout-engine/internal/domain"
	"gymovoo/workout-engine/internal/planner"
	"gymovoo/workout-engine/internal/slots"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type planFixture struct {
	svc      PlanService
	plans    *fakePlanRepo
	profiles *fakeProfileRepo
	storage  *fakeStorage
	observer *recordingObserver
}

func newPlanFixture(withStorage bool) *planFixture {
	return newPlanFixtureFor(newTestEngine(), withStorage)
}

func newPlanFixtureFor(engine *planner.Engine, withStorage bool) *planFixture {
	f := &planFixture{
		plans:    newFakePlanRepo(),
		profiles: newFakeProfileRepo(),
		observer: &recordingObserver{},
	}
	if withStorage {
		f.storage = newFakeStorage()
	}
	f.svc = f.serviceWith(engine)
	return f
}

// serviceWith builds another service over the fixture's repositories.
func (f *planFixture) serviceWith(engine *planner.Engine) PlanService {
	cfg := PlanServiceConfig{ExportExpiry: 10 * time.Minute, Now: testClock}
	if f.storage == nil {
		return NewPlanService(engine, f.plans, f.profiles, nil, cfg, f.observer)
	}
	return NewPlanService(engine, f.plans, f.profiles, f.storage, cfg, f.observer)
}

func intPtr(v int) *int { return &v }

func TestGenerateFillsSlotsThenAsksForConfirmation(t *testing.T) {
	f := newPlanFixture(false)
	ctx := context.Background()

	for i, sessions := range []int{2, 3, 4} {
		res, err := f.svc.Generate(ctx, "u1", answers(sessions), nil)
		require.NoError(t, err)
		assert.Equal(t, slots.OutcomePlaced, res.Outcome)
		assert.Equal(t, i, res.Plan.Slot)
		assert.Len(t, res.Plan.Basic.Sessions, sessions)
	}

	_, err := f.svc.Generate(ctx, "u1", answers(5), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSlotsFull))
	var full *SlotsFullError
	require.ErrorAs(t, err, &full)
	require.Len(t, full.Slots, domain.MaxStoredPlans)
	for _, s := range full.Slots {
		assert.Equal(t, slots.StateOccupied, s.State)
		assert.Equal(t, domain.GoalBuildMuscle, s.Goal)
	}
	assert.Equal(t, 3, f.plans.puts)

	before := f.plans.plans["u1"][1]
	res, err := f.svc.Generate(ctx, "u1", answers(5), intPtr(1))
	require.NoError(t, err)
	assert.Equal(t, slots.OutcomeReplaced, res.Outcome)
	assert.Equal(t, 1, res.Plan.Slot)

	after := f.plans.plans["u1"][1]
	assert.Equal(t, before.ID, after.ID)
	assert.NotEqual(t, before.SourceAnswersHash, after.SourceAnswersHash)
	assert.Len(t, after.Basic.Sessions, 5)
	assert.Len(t, f.plans.plans["u1"], domain.MaxStoredPlans)
}

func TestGenerateSameAnswersIsUnchanged(t *testing.T) {
	f := newPlanFixture(false)
	ctx := context.Background()

	first, err := f.svc.Generate(ctx, "u1", answers(3), nil)
	require.NoError(t, err)

	// Same answers in a different shape hash equally.
	second, err := f.svc.Generate(ctx, "u1", map[string]any{
		"questionnaireData": map[string]any{
			"fitness_goal": "hypertrophy", "experience_level": "novice", "location": "bodyweight",
			"frequency": "3", "duration": "45 min",
		},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, slots.OutcomeUnchanged, second.Outcome)
	assert.Equal(t, first.Plan.Slot, second.Plan.Slot)
	assert.Equal(t, first.Plan.Basic.ID, second.Plan.Basic.ID)
	assert.Equal(t, 1, f.plans.puts)
}

func TestGenerateRejectsBadInput(t *testing.T) {
	f := newPlanFixture(false)
	ctx := context.Background()

	_, err := f.svc.Generate(ctx, "u1", answers(3), intPtr(domain.MaxStoredPlans))
	assert.ErrorIs(t, err, ErrInvalidSlot)

	bad := answers(3)
	bad["goal"] = "world_domination"
	_, err = f.svc.Generate(ctx, "u1", bad, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidProfile)

	event := f.observer.last()
	assert.Equal(t, "plans.generate", event.Name)
	assert.False(t, event.Success)
	assert.Equal(t, 0, f.plans.puts)
}

func TestRegenerateRebuildsFromChangedCatalog(t *testing.T) {
	f := newPlanFixture(false)
	ctx := context.Background()

	_, err := f.svc.Regenerate(ctx, "u1", nil)
	assert.ErrorIs(t, err, ErrProfileNotFound)

	first, err := f.svc.Generate(ctx, "u1", answers(4), nil)
	require.NoError(t, err)
	stored, err := f.svc.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 4, stored.Profile.SessionsPerWeek)

	removed := first.Plan.Basic.Sessions[0].Exercises[0].ExerciseID
	trimmed := catalog.Default().Filter(func(ex domain.Exercise) bool { return ex.ID != removed })
	svc := f.serviceWith(newTestEngineFor(trimmed))

	res, err := svc.Regenerate(ctx, "u1", nil)
	require.NoError(t, err)
	assert.Equal(t, slots.OutcomeRefreshed, res.Outcome)
	assert.Equal(t, first.Plan.Slot, res.Plan.Slot)
	assert.Equal(t, 2, f.plans.puts)
	require.Len(t, f.plans.plans["u1"], 1)

	saved := f.plans.plans["u1"][first.Plan.Slot]
	assert.Equal(t, first.Plan.ID, saved.ID)
	assert.Equal(t, first.Plan.SourceAnswersHash, saved.SourceAnswersHash)
	require.Len(t, saved.Basic.Sessions, 4)
	for _, tier := range []domain.WorkoutPlan{saved.Basic, saved.Smart} {
		for _, s := range tier.Sessions {
			assert.NotContains(t, s.ExerciseIDs(), removed)
		}
	}
}

// Regenerating after the slot was deleted places the plan again.
func TestRegenerateIntoEmptySlot(t *testing.T) {
	f := newPlanFixture(false)
	ctx := context.Background()

	_, err := f.svc.Generate(ctx, "u1", answers(3), nil)
	require.NoError(t, err)
	require.NoError(t, f.svc.DeletePlan(ctx, "u1", 0))

	res, err := f.svc.Regenerate(ctx, "u1", nil)
	require.NoError(t, err)
	assert.Equal(t, slots.OutcomePlaced, res.Outcome)
	assert.Equal(t, 0, res.Plan.Slot)
}

func TestGenerateRetriesWhenSlotFilledConcurrently(t *testing.T) {
	f := newPlanFixture(false)
	ctx := context.Background()

	f.plans.beforeInsert = func() {
		f.plans.plans["u1"] = map[int]domain.StoredPlan{
			0: {ID: primitive.NewObjectID(), UserID: "u1", Slot: 0, SourceAnswersHash: "written-by-other-request"},
		}
	}

	res, err := f.svc.Generate(ctx, "u1", answers(3), nil)
	require.NoError(t, err)
	assert.Equal(t, slots.OutcomePlaced, res.Outcome)
	assert.Equal(t, 1, res.Plan.Slot)

	assert.Equal(t, "written-by-other-request", f.plans.plans["u1"][0].SourceAnswersHash)
	assert.Equal(t, res.Plan.SourceAnswersHash, f.plans.plans["u1"][1].SourceAnswersHash)
	assert.Equal(t, 1, f.plans.puts)
}

func TestPreviewDoesNotStore(t *testing.T) {
	f := newPlanFixture(false)

	preview, err := f.svc.Preview(context.Background(), map[string]any{"goal": "strength"})
	require.NoError(t, err)

	assert.Equal(t, domain.GoalIncreaseStrength, preview.Profile.Goal)
	assert.Equal(t, preview.Plans.Basic.SourceAnswersHash, preview.Plans.Smart.SourceAnswersHash)
	var defaulted int
	for _, w := range preview.Plans.Warnings {
		if w.Code == domain.WarnDefaultedField {
			defaulted++
		}
	}
	assert.Equal(t, 4, defaulted)
	assert.Zero(t, f.plans.puts)
	assert.Empty(t, f.profiles.profiles)
	assert.Equal(t, "plans.preview", f.observer.last().Name)
}

func TestListAndGetPlans(t *testing.T) {
	f := newPlanFixture(false)
	ctx := context.Background()

	_, err := f.svc.Generate(ctx, "u1", answers(3), nil)
	require.NoError(t, err)

	list, err := f.svc.ListPlans(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, domain.MaxStoredPlans)
	assert.Equal(t, slots.StateOccupied, list[0].State)
	assert.Equal(t, 3, list[0].SessionsPerWeek)
	assert.Equal(t, "plan-1", list[0].PlanID)
	assert.Equal(t, slots.StateEmpty, list[1].State)
	assert.Nil(t, list[1].CreatedAt)

	plan, err := f.svc.GetPlan(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Equal(t, domain.TierSmart, plan.Smart.Tier)

	_, err = f.svc.GetPlan(ctx, "u1", 1)
	assert.ErrorIs(t, err, ErrPlanNotFound)
	_, err = f.svc.GetPlan(ctx, "u1", -1)
	assert.ErrorIs(t, err, ErrInvalidSlot)
}

func TestDeletePlanRemovesExports(t *testing.T) {
	f := newPlanFixture(true)
	ctx := context.Background()

	assert.ErrorIs(t, f.svc.DeletePlan(ctx, "u1", 0), ErrPlanNotFound)

	_, err := f.svc.Generate(ctx, "u1", answers(3), nil)
	require.NoError(t, err)
	_, err = f.svc.ExportPlan(ctx, "u1", 0, domain.TierBasic, domain.SubscriptionFree)
	require.NoError(t, err)

	require.NoError(t, f.svc.DeletePlan(ctx, "u1", 0))
	assert.Empty(t, f.plans.plans["u1"])
	assert.ElementsMatch(t, []string{
		"plan-exports/u1/slot-0-basic.json",
		"plan-exports/u1/slot-0-smart.json",
	}, f.storage.deleted)
	assert.Empty(t, f.storage.objects)
}

func TestExportPlan(t *testing.T) {
	f := newPlanFixture(true)
	ctx := context.Background()
	_, err := f.svc.Generate(ctx, "u1", answers(3), nil)
	require.NoError(t, err)

	_, err = f.svc.ExportPlan(ctx, "u1", 0, domain.TierSmart, domain.SubscriptionFree)
	assert.ErrorIs(t, err, ErrSubscriptionRequired)
	_, err = f.svc.ExportPlan(ctx, "u1", 0, "deluxe", domain.SubscriptionPremium)
	assert.ErrorIs(t, err, ErrInvalidTier)
	_, err = f.svc.ExportPlan(ctx, "u1", 2, domain.TierBasic, domain.SubscriptionFree)
	assert.ErrorIs(t, err, ErrPlanNotFound)

	export, err := f.svc.ExportPlan(ctx, "u1", 0, domain.TierSmart, domain.SubscriptionPremium)
	require.NoError(t, err)
	assert.Equal(t, "plan-exports/u1/slot-0-smart.json", export.ObjectKey)
	assert.Equal(t, "https://storage.test/plan-exports/u1/slot-0-smart.json?expires=600", export.DownloadURL)
	assert.Equal(t, testNow.Add(10*time.Minute), export.ExpiresAt)

	var uploaded domain.WorkoutPlan
	require.NoError(t, json.Unmarshal(f.storage.objects[export.ObjectKey], &uploaded))
	assert.Equal(t, domain.TierSmart, uploaded.Tier)
	require.NotNil(t, uploaded.Features)
}

func TestExportWithoutSmartTier(t *testing.T) {
	noCooldowns := catalog.Default().Filter(func(ex domain.Exercise) bool { return !ex.Category.IsCooldown() })
	f := newPlanFixtureFor(newTestEngineFor(noCooldowns), true)
	ctx := context.Background()

	res, err := f.svc.Generate(ctx, "u1", answers(3), nil)
	require.NoError(t, err)
	assert.False(t, res.Plan.HasSmart())

	_, err = f.svc.ExportPlan(ctx, "u1", 0, domain.TierSmart, domain.SubscriptionPremium)
	assert.ErrorIs(t, err, ErrSmartUnavailable)

	export, err := f.svc.ExportPlan(ctx, "u1", 0, domain.TierBasic, domain.SubscriptionPremium)
	require.NoError(t, err)
	assert.Equal(t, "plan-exports/u1/slot-0-basic.json", export.ObjectKey)
}

func TestExportWithoutStorage(t *testing.T) {
	f := newPlanFixture(false)
	_, err := f.svc.ExportPlan(context.Background(), "u1", 0, domain.TierBasic, domain.SubscriptionFree)
	assert.ErrorIs(t, err, ErrExportUnavailable)
}
