package domain

import "time"

// Goal is the user's primary training goal.
type Goal string

const (
	GoalLoseWeight       Goal = "lose_weight"
	GoalBuildMuscle      Goal = "build_muscle"
	GoalGeneralFitness   Goal = "general_fitness"
	GoalImproveEndurance Goal = "improve_endurance"
	GoalIncreaseStrength Goal = "increase_strength"
)

// Valid reports whether g is one of the recognized goals.
func (g Goal) Valid() bool {
	switch g {
	case GoalLoseWeight, GoalBuildMuscle, GoalGeneralFitness, GoalImproveEndurance, GoalIncreaseStrength:
		return true
	}
	return false
}

// StrengthLeaning reports whether the goal favors split routines over
// full-body conditioning.
func (g Goal) StrengthLeaning() bool {
	return g == GoalBuildMuscle || g == GoalIncreaseStrength
}

// Level is used both for a user's experience and an exercise's difficulty.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// Rank orders levels: beginner=1, intermediate=2, advanced=3, unknown=0.
func (l Level) Rank() int {
	switch l {
	case LevelBeginner:
		return 1
	case LevelIntermediate:
		return 2
	case LevelAdvanced:
		return 3
	}
	return 0
}

// Valid reports whether l is a known level.
func (l Level) Valid() bool {
	return l.Rank() > 0
}

// Allows reports whether a user at level l may receive an exercise of difficulty d.
func (l Level) Allows(d Level) bool {
	return d.Valid() && d.Rank() <= l.Rank()
}

// Sessions-per-week bounds. 5 means "5 or more".
const (
	MinSessionsPerWeek = 2
	MaxSessionsPerWeek = 5

	DefaultSessionDurationMinutes = 45
)

// UserProfile is the canonical questionnaire output the engine consumes.
// It is owned by the questionnaire collaborator and read-only to the engine;
// the equipment profile is derived from Location and Equipment.
type UserProfile struct {
	Goal                   Goal                 `bson:"goal" json:"goal" yaml:"goal"`
	Experience             Level                `bson:"experience" json:"experience" yaml:"experience"`
	Location               Location             `bson:"location" json:"location" yaml:"location"`
	Equipment              []EquipmentSelection `bson:"equipment" json:"equipment" yaml:"equipment"`
	SessionsPerWeek        int                  `bson:"sessionsPerWeek" json:"sessionsPerWeek" yaml:"sessionsPerWeek"`
	SessionDurationMinutes int                  `bson:"sessionDurationMinutes" json:"sessionDurationMinutes" yaml:"sessionDurationMinutes"`
	Injuries               []string             `bson:"injuries,omitempty" json:"injuries,omitempty" yaml:"injuries,omitempty"`
}

// Validate fails fast on values outside the recognized enumerations.
func (p UserProfile) Validate() error {
	if !p.Goal.Valid() {
		return &InvalidProfileError{Field: "goal", Value: string(p.Goal)}
	}
	if !p.Experience.Valid() {
		return &InvalidProfileError{Field: "experience", Value: string(p.Experience)}
	}
	if !p.Location.Valid() {
		return &InvalidProfileError{Field: "location", Value: string(p.Location)}
	}
	if p.SessionsPerWeek < MinSessionsPerWeek || p.SessionsPerWeek > MaxSessionsPerWeek {
		return &InvalidProfileError{Field: "sessionsPerWeek", Value: itoa(p.SessionsPerWeek), Reason: "must be between 2 and 5"}
	}
	if p.SessionDurationMinutes < 0 {
		return &InvalidProfileError{Field: "sessionDurationMinutes", Value: itoa(p.SessionDurationMinutes), Reason: "must not be negative"}
	}
	return nil
}

// Subscription is the user's plan tier entitlement, carried in the access token.
type Subscription string

const (
	SubscriptionFree    Subscription = "free"
	SubscriptionPremium Subscription = "premium"
)

// CanUseSmartPlans reports whether the subscription unlocks the smart tier.
func (s Subscription) CanUseSmartPlans() bool {
	return s == SubscriptionPremium
}

// StoredProfile is the last normalized questionnaire a user submitted.
type StoredProfile struct {
	UserID    string      `bson:"_id" json:"userId"`
	Profile   UserProfile `bson:"profile" json:"profile"`
	UpdatedAt time.Time   `bson:"updatedAt" json:"updatedAt"`
}
