package planner

import (
	"fmt"
	"log/slog"
	"sort"

	"gymovoo/workout-engine/internal/catalog"
	"gymovoo/workout-engine/internal/domain"
)

// TierInput carries the profile facts the tier generator needs.
type TierInput struct {
	Goal        domain.Goal
	Experience  domain.Level
	Equipment   domain.EquipmentProfile
	Injuries    []string // Normalized
	Adjustments []domain.SafetyAdjustment
}

// TierGenerator derives the basic and smart plans from one set of sessions.
type TierGenerator struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// NewTierGenerator creates a generator. A nil logger discards diagnostics.
func NewTierGenerator(c *catalog.Catalog, logger *slog.Logger) *TierGenerator {
	return &TierGenerator{catalog: c, logger: orDiscard(logger)}
}

// GenerateBoth returns the basic plan (sessions as given) and the smart plan:
// a deep copy with one cooldown exercise appended to every session, the
// feature flags set and equipment-optimization notes. Neither plan is stamped.
//
// The error only concerns the smart tier: when no cooldown exercise fits it is
// an *InsufficientCatalogError, the smart plan is zero and the basic plan is
// still returned.
func (g *TierGenerator) GenerateBoth(base []domain.WorkoutSession, in TierInput) (domain.WorkoutPlan, domain.WorkoutPlan, error) {
	basic := domain.WorkoutPlan{
		Tier:          domain.TierBasic,
		Goal:          in.Goal,
		Experience:    in.Experience,
		Equipment:     in.Equipment,
		Sessions:      base,
		DurationWeeks: DurationWeeks(in.Experience),
		Adjustments:   in.Adjustments,
	}
	basic = basic.Clone()

	smart := basic.Clone()
	smart.Tier = domain.TierSmart
	smart.Features = &domain.PlanFeatures{AIRecommendations: true, EquipmentOptimization: true}

	injuries := injurySet(in.Injuries)
	pool := g.cooldownPool(in.Equipment, in.Experience, injuries)
	if len(pool) == 0 {
		return basic, domain.WorkoutPlan{}, &domain.InsufficientCatalogError{
			Session:     "cooldown",
			Level:       in.Experience,
			Environment: in.Equipment.Environment,
			Reason:      "no recovery or flexibility exercise is available",
		}
	}

	rx := cooldownPrescription(in.Goal)
	for i := range smart.Sessions {
		s := &smart.Sessions[i]
		ex := g.pickCooldown(pool, *s)
		s.Exercises = append(s.Exercises, instance(ex, rx, safetyNote(ex, injuries, nil)))
		s.EstimatedDurationMinutes += cooldownExtraMinutes
		g.logger.Debug("cooldown appended", "day", s.DayIndex, "exercise", ex.ID)
	}
	smart.Notes = equipmentNotes(smart, g.catalog)
	return basic, smart, nil
}

// cooldownPool lists eligible recovery/flexibility exercises that are safe
// for the injuries, sorted by id.
func (g *TierGenerator) cooldownPool(equipment domain.EquipmentProfile, level domain.Level, injuries map[string]bool) []domain.Exercise {
	var pool []domain.Exercise
	for _, ex := range g.catalog.All() {
		if !ex.Category.IsCooldown() || !Eligible(ex, equipment, level) {
			continue
		}
		if len(ex.ConflictsWith(injuries)) > 0 {
			continue
		}
		pool = append(pool, ex)
	}
	return pool
}

// pickCooldown prefers exercises stretching muscles the session trained,
// rotated by day so consecutive sessions differ.
func (g *TierGenerator) pickCooldown(pool []domain.Exercise, session domain.WorkoutSession) domain.Exercise {
	trained := make(map[domain.MuscleGroup]bool)
	for _, inst := range session.Exercises {
		if ex, ok := g.catalog.Get(inst.ExerciseID); ok {
			for _, m := range ex.TargetMuscles {
				trained[m] = true
			}
		}
	}

	var preferred []domain.Exercise
	for _, ex := range pool {
		if ex.Targets(trained) {
			preferred = append(preferred, ex)
		}
	}
	if len(preferred) == 0 {
		preferred = pool
	}
	return preferred[(session.DayIndex-1)%len(preferred)]
}

// equipmentNotes reports how the plan uses each owned piece of equipment.
func equipmentNotes(plan domain.WorkoutPlan, c *catalog.Catalog) []string {
	if len(plan.Equipment.EquipmentIDs) == 0 {
		return []string{"No equipment needed: every exercise uses bodyweight only."}
	}

	usage := make(map[string]int, len(plan.Equipment.EquipmentIDs))
	for _, s := range plan.Sessions {
		for _, inst := range s.Exercises {
			ex, ok := c.Get(inst.ExerciseID)
			if !ok {
				continue
			}
			for _, id := range ex.RequiredEquipment {
				usage[id]++
			}
		}
	}

	ids := append([]string(nil), plan.Equipment.EquipmentIDs...)
	sort.Strings(ids)
	notes := make([]string, 0, len(ids))
	for _, id := range ids {
		switch n := usage[id]; n {
		case 0:
			notes = append(notes, fmt.Sprintf("%s is not used by this plan.", id))
		case 1:
			notes = append(notes, fmt.Sprintf("%s is used in 1 exercise slot per week.", id))
		default:
			notes = append(notes, fmt.Sprintf("%s is used in %d exercise slots per week.", id, n))
		}
	}
	return notes
}
