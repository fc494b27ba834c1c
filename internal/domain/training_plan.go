// internal/domain/training_plan.go
package domain

import "time"

// Tier distinguishes the two plan variants generated from the same answers.
type Tier string

const (
	TierBasic Tier = "basic"
	TierSmart Tier = "smart" // Subscription-gated, superset of basic
)

// PlanFeatures is the flag bundle callers use to gate smart-plan UI.
type PlanFeatures struct {
	AIRecommendations     bool `bson:"aiRecommendations" json:"aiRecommendations"`
	EquipmentOptimization bool `bson:"equipmentOptimization" json:"equipmentOptimization"`
}

// WorkoutPlan is a generated multi-week plan. Plans are superseded on
// regeneration, never mutated in place.
type WorkoutPlan struct {
	ID                string             `bson:"id" json:"id"`
	Tier              Tier               `bson:"tier" json:"tier"`
	Goal              Goal               `bson:"goal" json:"goal"`
	Experience        Level              `bson:"experience" json:"experience"`
	Equipment         EquipmentProfile   `bson:"equipment" json:"equipment"`
	Sessions          []WorkoutSession   `bson:"sessions" json:"sessions"` // len == sessionsPerWeek
	DurationWeeks     int                `bson:"durationWeeks" json:"durationWeeks"`
	Features          *PlanFeatures      `bson:"features,omitempty" json:"features,omitempty"` // Set on smart plans only
	Notes             []string           `bson:"notes,omitempty" json:"notes,omitempty"`       // Equipment-optimization notes
	Adjustments       []SafetyAdjustment `bson:"adjustments,omitempty" json:"adjustments,omitempty"`
	SourceAnswersHash string             `bson:"sourceAnswersHash" json:"sourceAnswersHash"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
}

// Clone returns a deep copy of the plan.
func (p WorkoutPlan) Clone() WorkoutPlan {
	out := p
	out.Sessions = make([]WorkoutSession, len(p.Sessions))
	for i, s := range p.Sessions {
		out.Sessions[i] = s.Clone()
	}
	if p.Features != nil {
		f := *p.Features
		out.Features = &f
	}
	out.Notes = append([]string(nil), p.Notes...)
	out.Adjustments = append([]SafetyAdjustment(nil), p.Adjustments...)
	out.Equipment.EquipmentIDs = append([]string(nil), p.Equipment.EquipmentIDs...)
	return out
}

// IsZero reports whether the plan was never built, e.g. a smart tier the
// catalog could not support.
func (p WorkoutPlan) IsZero() bool {
	return p.Tier == "" && len(p.Sessions) == 0
}

// ExerciseCount returns the total number of exercise instances across sessions.
func (p WorkoutPlan) ExerciseCount() int {
	n := 0
	for _, s := range p.Sessions {
		n += len(s.Exercises)
	}
	return n
}
