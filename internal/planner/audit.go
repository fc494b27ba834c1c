package planner

import (
	"fmt"

	"gymovoo/workout-engine/internal/catalog"
	"gymovoo/workout-engine/internal/domain"
)

// ViolationKind names a class of plan defect found by Audit.
type ViolationKind string

const (
	ViolationSessionCount      ViolationKind = "session_count"
	ViolationUnknownExercise   ViolationKind = "unknown_exercise"
	ViolationEquipment         ViolationKind = "equipment"
	ViolationInjury            ViolationKind = "injury"
	ViolationPrescription      ViolationKind = "prescription"
	ViolationDuplicateExercise ViolationKind = "duplicate_exercise"
	ViolationTierSuperset      ViolationKind = "tier_superset"
	ViolationMissingHash       ViolationKind = "missing_hash"
)

// Violation is a single audit finding. DayIndex is 0 for plan-level findings.
type Violation struct {
	Kind       ViolationKind `json:"kind" yaml:"kind"`
	Tier       domain.Tier   `json:"tier" yaml:"tier"`
	DayIndex   int           `json:"dayIndex,omitempty" yaml:"dayIndex,omitempty"`
	ExerciseID string        `json:"exerciseId,omitempty" yaml:"exerciseId,omitempty"`
	Message    string        `json:"message" yaml:"message"`
}

func (v Violation) String() string {
	if v.DayIndex > 0 {
		return fmt.Sprintf("[%s] %s day %d: %s", v.Kind, v.Tier, v.DayIndex, v.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", v.Kind, v.Tier, v.Message)
}

// Audit checks a finished plan against the profile it was generated for:
// session count, equipment containment, injury exclusion and concrete
// prescriptions. An empty result means the plan is consistent.
func Audit(plan domain.WorkoutPlan, profile domain.UserProfile, c *catalog.Catalog) []Violation {
	var out []Violation
	add := func(kind ViolationKind, day int, exerciseID, format string, args ...any) {
		out = append(out, Violation{Kind: kind, Tier: plan.Tier, DayIndex: day, ExerciseID: exerciseID, Message: fmt.Sprintf(format, args...)})
	}

	if len(plan.Sessions) != profile.SessionsPerWeek {
		add(ViolationSessionCount, 0, "", "plan has %d sessions, profile asks for %d", len(plan.Sessions), profile.SessionsPerWeek)
	}
	if plan.SourceAnswersHash == "" {
		add(ViolationMissingHash, 0, "", "plan is not stamped with a source answers hash")
	}

	injuries := injurySet(NormalizeInjuries(profile.Injuries))
	for _, s := range plan.Sessions {
		seen := make(map[string]bool, len(s.Exercises))
		for _, inst := range s.Exercises {
			if seen[inst.ExerciseID] {
				add(ViolationDuplicateExercise, s.DayIndex, inst.ExerciseID, "exercise appears more than once in the session")
			}
			seen[inst.ExerciseID] = true

			if inst.Sets < 1 || inst.RepsMin < 1 || inst.RepsMax < inst.RepsMin {
				add(ViolationPrescription, s.DayIndex, inst.ExerciseID, "invalid prescription %d x %d-%d", inst.Sets, inst.RepsMin, inst.RepsMax)
			}
			if inst.RestSeconds < minRestSeconds || inst.RestSeconds > maxRestSeconds {
				add(ViolationPrescription, s.DayIndex, inst.ExerciseID, "rest %ds outside [%d,%d]", inst.RestSeconds, minRestSeconds, maxRestSeconds)
			}

			ex, ok := c.Get(inst.ExerciseID)
			if !ok {
				add(ViolationUnknownExercise, s.DayIndex, inst.ExerciseID, "exercise is not in the catalog")
				continue
			}
			for _, id := range ex.RequiredEquipment {
				if !plan.Equipment.Has(id) || !domain.EquipmentAllowed(plan.Equipment.Location, id) {
					add(ViolationEquipment, s.DayIndex, ex.ID, "requires %s which is not available", id)
				}
			}
			if hits := ex.ConflictsWith(injuries); len(hits) > 0 {
				add(ViolationInjury, s.DayIndex, ex.ID, "contraindicated for %v", hits)
			}
		}
	}
	return out
}

// AuditTiers checks that every smart session contains its basic counterpart's
// exercises, in addition to auditing both plans. A zero smart plan (not built
// for this catalog) only has the basic plan audited.
func AuditTiers(basic, smart domain.WorkoutPlan, profile domain.UserProfile, c *catalog.Catalog) []Violation {
	if smart.IsZero() {
		return Audit(basic, profile, c)
	}
	out := append(Audit(basic, profile, c), Audit(smart, profile, c)...)
	if len(basic.Sessions) != len(smart.Sessions) {
		return append(out, Violation{Kind: ViolationTierSuperset, Tier: domain.TierSmart,
			Message: fmt.Sprintf("smart plan has %d sessions, basic has %d", len(smart.Sessions), len(basic.Sessions))})
	}
	for i, s := range basic.Sessions {
		have := make(map[string]bool)
		for _, id := range smart.Sessions[i].ExerciseIDs() {
			have[id] = true
		}
		for _, id := range s.ExerciseIDs() {
			if !have[id] {
				out = append(out, Violation{Kind: ViolationTierSuperset, Tier: domain.TierSmart, DayIndex: s.DayIndex, ExerciseID: id,
					Message: "basic exercise missing from smart session"})
			}
		}
	}
	if smart.Features == nil {
		out = append(out, Violation{Kind: ViolationTierSuperset, Tier: domain.TierSmart, Message: "smart plan has no feature flags"})
	}
	return out
}
