package domain

// ExerciseInstance is an exercise as prescribed inside a session. Sets, reps
// and rest are always concrete integers once a plan is finalized.
type ExerciseInstance struct {
	ExerciseID  string `bson:"exerciseId" json:"exerciseId"` // Reference to Exercise.ID
	Name        string `bson:"name" json:"name"`             // Denormalized for display
	Sets        int    `bson:"sets" json:"sets"`
	RepsMin     int    `bson:"repsMin" json:"repsMin"`
	RepsMax     int    `bson:"repsMax" json:"repsMax"`
	RestSeconds int    `bson:"restSeconds" json:"restSeconds"`
	SafetyNote  string `bson:"safetyNote,omitempty" json:"safetyNote,omitempty"`
}

// WorkoutSession is one training day within the week.
type WorkoutSession struct {
	ID                       string             `bson:"id" json:"id"`
	DayIndex                 int                `bson:"dayIndex" json:"dayIndex"` // 1-based within the week
	Name                     string             `bson:"name" json:"name"`         // e.g. "Day 1 – Chest & Triceps"
	Split                    string             `bson:"split" json:"split"`       // e.g. "push", "upper", "full_body"
	Exercises                []ExerciseInstance `bson:"exercises" json:"exercises"`
	EstimatedDurationMinutes int                `bson:"estimatedDurationMinutes" json:"estimatedDurationMinutes"`
}

// Clone returns a deep copy so tiers never share exercise slices.
func (s WorkoutSession) Clone() WorkoutSession {
	out := s
	out.Exercises = append([]ExerciseInstance(nil), s.Exercises...)
	return out
}

// ExerciseIDs returns the ids of the session's exercises in order.
func (s WorkoutSession) ExerciseIDs() []string {
	ids := make([]string, len(s.Exercises))
	for i, ex := range s.Exercises {
		ids[i] = ex.ExerciseID
	}
	return ids
}

// SafetyAdjustment records an exercise removed because of an injury, and what
// replaced it. SubstituteID is empty when the session was shortened instead.
type SafetyAdjustment struct {
	DayIndex     int      `bson:"dayIndex" json:"dayIndex"`
	RemovedID    string   `bson:"removedId" json:"removedId"`
	SubstituteID string   `bson:"substituteId,omitempty" json:"substituteId,omitempty"`
	Injuries     []string `bson:"injuries" json:"injuries"`
	Reason       string   `bson:"reason" json:"reason"`
}
