package planner

import (
	"errors"
	"fmt"

	"gymovoo/workout-engine/internal/catalog"
	"gymovoo/workout-engine/internal/domain"
)

// AssemblyInput is everything the assembler needs from a validated profile.
type AssemblyInput struct {
	SessionsPerWeek        int
	SessionDurationMinutes int
	Goal                   domain.Goal
	Experience             domain.Level
	Equipment              domain.EquipmentProfile
	Injuries               []string // Normalized, see NormalizeInjuries
}

// Assembler lays out the weekly sessions: split pattern, selection, safety
// filtering and goal-adjusted prescriptions.
type Assembler struct {
	selector *Selector
	safety   *SafetyFilter
}

// NewAssembler creates an assembler over c.
func NewAssembler(c *catalog.Catalog, safety *SafetyFilter) *Assembler {
	return &Assembler{selector: NewSelector(c), safety: safety}
}

// Assemble returns exactly SessionsPerWeek sessions. Any insufficient-catalog
// condition aborts the whole week; no partial list is returned.
func (a *Assembler) Assemble(in AssemblyInput) ([]domain.WorkoutSession, []domain.SafetyAdjustment, error) {
	split := SplitFor(in.SessionsPerWeek, in.Goal)
	count := ExercisesPerSession(in.SessionDurationMinutes)
	injuries := injurySet(in.Injuries)

	sessions := make([]domain.WorkoutSession, 0, len(split))
	var adjustments []domain.SafetyAdjustment
	occurrences := make(map[string]int, len(split))

	for i, day := range split {
		dayIndex := i + 1
		label := fmt.Sprintf("Day %d – %s", dayIndex, day.Label)

		picked, err := a.selector.Select(SelectionRequest{
			Session:   label,
			Equipment: in.Equipment,
			Level:     in.Experience,
			Count:     count,
			Targets:   day.Targets,
			Rotation:  occurrences[day.Key],
		})
		if err != nil {
			return nil, nil, err
		}
		occurrences[day.Key]++

		safe := a.safety.Apply(SafetyRequest{
			DayIndex:  dayIndex,
			Exercises: picked,
			Injuries:  injuries,
			Equipment: in.Equipment,
			Level:     in.Experience,
		})
		adjustments = append(adjustments, safe.Adjustments...)
		if len(safe.Exercises) == 0 {
			return nil, nil, &domain.InsufficientCatalogError{
				Session:     label,
				Level:       in.Experience,
				Environment: in.Equipment.Environment,
				Reason:      "every eligible exercise conflicts with the declared injuries",
			}
		}

		exercises := make([]domain.ExerciseInstance, 0, len(safe.Exercises))
		for _, ex := range safe.Exercises {
			exercises = append(exercises, instance(ex, Prescribe(ex, in.Goal, in.Experience), safe.Notes[ex.ID]))
		}
		sessions = append(sessions, domain.WorkoutSession{
			ID:                       fmt.Sprintf("day-%d-%s", dayIndex, day.Key),
			DayIndex:                 dayIndex,
			Name:                     label,
			Split:                    day.Key,
			Exercises:                exercises,
			EstimatedDurationMinutes: EstimateDuration(exercises),
		})
	}
	return sessions, adjustments, nil
}

// IsInsufficientCatalog reports whether err carries an *InsufficientCatalogError.
func IsInsufficientCatalog(err error) bool {
	var target *domain.InsufficientCatalogError
	return errors.As(err, &target)
}
