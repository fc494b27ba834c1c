package planner

import "gymovoo/workout-engine/internal/domain"

// Rest is clamped to this window after every adjustment.
const (
	minRestSeconds = 15
	maxRestSeconds = 240
)

// Per-set work estimate and fixed warm-up used for session durations.
const (
	workSecondsPerSet    = 40
	warmupMinutes        = 5
	cooldownExtraMinutes = 5
	minutesPerExercise   = 9
	minExercisesPerDay   = 3
	maxExercisesPerDay   = 8
)

// goalAdjustment reshapes catalog defaults for a goal. Rest is scaled by
// restNum/restDen and clamped into [restLo, restHi].
type goalAdjustment struct {
	repsLo, repsHi   int
	restNum, restDen int
	restLo, restHi   int
}

var goalAdjustments = map[domain.Goal]goalAdjustment{
	domain.GoalLoseWeight:       {repsLo: 12, repsHi: 20, restNum: 1, restDen: 2, restLo: 30, restHi: 45},
	domain.GoalBuildMuscle:      {repsLo: 6, repsHi: 10, restNum: 3, restDen: 2, restLo: 90, restHi: 180},
	domain.GoalImproveEndurance: {repsLo: 15, repsHi: 25, restNum: 1, restDen: 2, restLo: 20, restHi: 45},
	domain.GoalIncreaseStrength: {repsLo: 3, repsHi: 6, restNum: 2, restDen: 1, restLo: 120, restHi: 240},
	// general_fitness keeps catalog defaults
}

// Prescription is a resolved sets/reps/rest triple.
type Prescription struct {
	Sets        int
	Reps        domain.RepRange
	RestSeconds int
}

// Prescribe resolves the concrete prescription for ex under goal and level.
func Prescribe(ex domain.Exercise, goal domain.Goal, level domain.Level) Prescription {
	return adjustForGoal(Prescription{
		Sets:        setsForLevel(ex.DefaultSets, level),
		Reps:        ex.DefaultReps,
		RestSeconds: ex.DefaultRestSeconds,
	}, goal)
}

// cooldownPrescription is the fixed recovery block, still shaped by goal so
// rep and rest ranges stay consistent across the whole plan.
func cooldownPrescription(goal domain.Goal) Prescription {
	return adjustForGoal(Prescription{Sets: 1, Reps: domain.RepRange{Min: 8, Max: 12}, RestSeconds: 30}, goal)
}

func adjustForGoal(p Prescription, goal domain.Goal) Prescription {
	if adj, ok := goalAdjustments[goal]; ok {
		width := p.Reps.Max - p.Reps.Min
		lo := clamp(p.Reps.Min, adj.repsLo, adj.repsHi)
		p.Reps = domain.RepRange{Min: lo, Max: clamp(lo+width, adj.repsLo, adj.repsHi)}
		p.RestSeconds = clamp(roundDiv(p.RestSeconds*adj.restNum, adj.restDen), adj.restLo, adj.restHi)
	}
	p.RestSeconds = clamp(p.RestSeconds, minRestSeconds, maxRestSeconds)
	return p
}

func setsForLevel(sets int, level domain.Level) int {
	switch level {
	case domain.LevelBeginner:
		if sets > 2 {
			return sets - 1
		}
		return 2
	case domain.LevelAdvanced:
		if sets < 5 {
			return sets + 1
		}
		return 5
	}
	return sets
}

// instance materializes a catalog exercise into a session entry.
func instance(ex domain.Exercise, p Prescription, note string) domain.ExerciseInstance {
	return domain.ExerciseInstance{
		ExerciseID:  ex.ID,
		Name:        ex.Name,
		Sets:        p.Sets,
		RepsMin:     p.Reps.Min,
		RepsMax:     p.Reps.Max,
		RestSeconds: p.RestSeconds,
		SafetyNote:  note,
	}
}

// ExercisesPerSession derives the per-day exercise count from the session
// length in minutes; zero means the default length.
func ExercisesPerSession(durationMinutes int) int {
	if durationMinutes <= 0 {
		durationMinutes = domain.DefaultSessionDurationMinutes
	}
	return clamp(roundDiv(durationMinutes, minutesPerExercise), minExercisesPerDay, maxExercisesPerDay)
}

// EstimateDuration returns warm-up plus work and rest time, in whole minutes.
func EstimateDuration(exercises []domain.ExerciseInstance) int {
	seconds := 0
	for _, ex := range exercises {
		seconds += ex.Sets * (workSecondsPerSet + ex.RestSeconds)
	}
	return warmupMinutes + roundDiv(seconds, 60)
}

// DurationWeeks is the plan length for an experience level.
func DurationWeeks(level domain.Level) int {
	switch level {
	case domain.LevelIntermediate:
		return 6
	case domain.LevelAdvanced:
		return 8
	}
	return 4
}

// roundDiv divides non-negative a by positive b, rounding half up.
func roundDiv(a, b int) int {
	return (2*a + b) / (2 * b)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
