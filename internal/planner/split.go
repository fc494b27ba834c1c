package planner

import "gymovoo/workout-engine/internal/domain"

// SplitDay is one slot of a weekly split pattern.
type SplitDay struct {
	Key     string // Stable machine name, used in session ids
	Label   string
	Targets []domain.MuscleGroup
}

var (
	fullBody = SplitDay{Key: "full_body", Label: "Full Body", Targets: []domain.MuscleGroup{
		domain.MuscleQuads, domain.MuscleBack, domain.MuscleChest, domain.MuscleHamstrings, domain.MuscleShoulders,
		domain.MuscleCore, domain.MuscleGlutes, domain.MuscleTriceps, domain.MuscleBiceps, domain.MuscleCalves,
	}}
	fullBodyConditioning = SplitDay{Key: "full_body_conditioning", Label: "Full Body & Conditioning", Targets: []domain.MuscleGroup{
		domain.MuscleCardio, domain.MuscleQuads, domain.MuscleBack, domain.MuscleChest, domain.MuscleCore,
		domain.MuscleGlutes, domain.MuscleShoulders, domain.MuscleHamstrings,
	}}
	push = SplitDay{Key: "push", Label: "Push", Targets: []domain.MuscleGroup{
		domain.MuscleChest, domain.MuscleShoulders, domain.MuscleTriceps,
	}}
	pull = SplitDay{Key: "pull", Label: "Pull", Targets: []domain.MuscleGroup{
		domain.MuscleBack, domain.MuscleBiceps, domain.MuscleCore,
	}}
	legs = SplitDay{Key: "legs", Label: "Legs", Targets: []domain.MuscleGroup{
		domain.MuscleQuads, domain.MuscleHamstrings, domain.MuscleGlutes, domain.MuscleCalves,
	}}
	upper = SplitDay{Key: "upper", Label: "Upper Body", Targets: []domain.MuscleGroup{
		domain.MuscleChest, domain.MuscleBack, domain.MuscleShoulders, domain.MuscleBiceps, domain.MuscleTriceps,
	}}
	lower = SplitDay{Key: "lower", Label: "Lower Body", Targets: []domain.MuscleGroup{
		domain.MuscleQuads, domain.MuscleHamstrings, domain.MuscleGlutes, domain.MuscleCalves, domain.MuscleCore,
	}}
	chestTriceps = SplitDay{Key: "chest_triceps", Label: "Chest & Triceps", Targets: []domain.MuscleGroup{
		domain.MuscleChest, domain.MuscleTriceps,
	}}
	backBiceps = SplitDay{Key: "back_biceps", Label: "Back & Biceps", Targets: []domain.MuscleGroup{
		domain.MuscleBack, domain.MuscleBiceps,
	}}
	shouldersCore = SplitDay{Key: "shoulders_core", Label: "Shoulders & Core", Targets: []domain.MuscleGroup{
		domain.MuscleShoulders, domain.MuscleCore,
	}}
	conditioning = SplitDay{Key: "conditioning", Label: "Full Body Conditioning", Targets: []domain.MuscleGroup{
		domain.MuscleCardio, domain.MuscleFullBody, domain.MuscleQuads, domain.MuscleBack, domain.MuscleChest, domain.MuscleCore,
	}}
)

// SplitFor returns the weekly pattern for sessionsPerWeek (clamped to 2..5).
func SplitFor(sessionsPerWeek int, goal domain.Goal) []SplitDay {
	switch clamp(sessionsPerWeek, domain.MinSessionsPerWeek, domain.MaxSessionsPerWeek) {
	case 2:
		return []SplitDay{fullBody, fullBody}
	case 3:
		if goal.StrengthLeaning() {
			return []SplitDay{push, pull, legs}
		}
		return []SplitDay{fullBodyConditioning, fullBodyConditioning, fullBodyConditioning}
	case 4:
		return []SplitDay{upper, lower, upper, lower}
	default:
		return []SplitDay{chestTriceps, backBiceps, legs, shouldersCore, conditioning}
	}
}
