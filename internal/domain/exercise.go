// internal/domain/exercise.go
package domain

// Category groups exercises by training modality.
type Category string

const (
	CategoryStrength    Category = "strength"
	CategoryCardio      Category = "cardio"
	CategoryCore        Category = "core"
	CategoryFlexibility Category = "flexibility"
	CategoryRecovery    Category = "recovery" // Cooldown / mobility work, only appended by the smart tier
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryStrength, CategoryCardio, CategoryCore, CategoryFlexibility, CategoryRecovery:
		return true
	}
	return false
}

// IsCooldown reports whether exercises of this category are reserved for
// recovery blocks rather than the main part of a session.
func (c Category) IsCooldown() bool {
	return c == CategoryRecovery || c == CategoryFlexibility
}

// MuscleGroup is a target muscle group tag.
type MuscleGroup string

const (
	MuscleChest      MuscleGroup = "chest"
	MuscleBack       MuscleGroup = "back"
	MuscleShoulders  MuscleGroup = "shoulders"
	MuscleBiceps     MuscleGroup = "biceps"
	MuscleTriceps    MuscleGroup = "triceps"
	MuscleQuads      MuscleGroup = "quads"
	MuscleHamstrings MuscleGroup = "hamstrings"
	MuscleGlutes     MuscleGroup = "glutes"
	MuscleCalves     MuscleGroup = "calves"
	MuscleCore       MuscleGroup = "core"
	MuscleFullBody   MuscleGroup = "full_body"
	MuscleCardio     MuscleGroup = "cardio" // Conditioning work, used as a pseudo muscle group
)

var validMuscleGroups = map[MuscleGroup]bool{
	MuscleChest: true, MuscleBack: true, MuscleShoulders: true, MuscleBiceps: true,
	MuscleTriceps: true, MuscleQuads: true, MuscleHamstrings: true, MuscleGlutes: true,
	MuscleCalves: true, MuscleCore: true, MuscleFullBody: true, MuscleCardio: true,
}

// Valid reports whether m is a known muscle group.
func (m MuscleGroup) Valid() bool {
	return validMuscleGroups[m]
}

// RepRange is an inclusive repetition range.
type RepRange struct {
	Min int `bson:"min" json:"min" yaml:"min"`
	Max int `bson:"max" json:"max" yaml:"max"`
}

// Exercise represents a single exercise definition in the catalog.
// Catalog entries are reference data: built once at load time and never mutated.
type Exercise struct {
	ID                 string        `bson:"_id" json:"id" yaml:"id"` // Stable identifier, e.g. "barbell_back_squat"
	Name               string        `bson:"name" json:"name" yaml:"name"`
	Category           Category      `bson:"category" json:"category" yaml:"category"`
	RequiredEquipment  []string      `bson:"requiredEquipment,omitempty" json:"requiredEquipment" yaml:"requiredEquipment,omitempty"` // Empty = bodyweight
	TargetMuscles      []MuscleGroup `bson:"targetMuscles" json:"targetMuscles" yaml:"targetMuscles"`                                 // Primary first
	Difficulty         Level         `bson:"difficulty" json:"difficulty" yaml:"difficulty"`
	DefaultSets        int           `bson:"defaultSets" json:"defaultSets" yaml:"defaultSets"`
	DefaultReps        RepRange      `bson:"defaultReps" json:"defaultReps" yaml:"defaultReps"`
	DefaultRestSeconds int           `bson:"defaultRestSeconds" json:"defaultRestSeconds" yaml:"defaultRestSeconds"`
	Contraindications  []string      `bson:"contraindications,omitempty" json:"contraindications,omitempty" yaml:"contraindications,omitempty"` // Injury tags
}

// PrimaryMuscle returns the first target muscle, or "" when none is set.
func (e Exercise) PrimaryMuscle() MuscleGroup {
	if len(e.TargetMuscles) == 0 {
		return ""
	}
	return e.TargetMuscles[0]
}

// IsBodyweight reports whether the exercise needs no equipment at all.
func (e Exercise) IsBodyweight() bool {
	return len(e.RequiredEquipment) == 0
}

// Targets reports whether any of the exercise's target muscles is in groups.
func (e Exercise) Targets(groups map[MuscleGroup]bool) bool {
	for _, m := range e.TargetMuscles {
		if groups[m] {
			return true
		}
	}
	return false
}

// ConflictsWith returns the injury tags from injuries that contraindicate
// this exercise, in the order they appear on the exercise.
func (e Exercise) ConflictsWith(injuries map[string]bool) []string {
	var hits []string
	for _, tag := range e.Contraindications {
		if injuries[tag] {
			hits = append(hits, tag)
		}
	}
	return hits
}
