package questionnaire

import "gymovoo/workout-engine/internal/domain"

// Keys each canonical field has been stored under over the questionnaire's
// lifetime. The first match in a section wins.
var (
	goalKeys       = []string{"goal", "fitness_goal", "fitnessGoal", "primary_goal", "primaryGoal", "main_goal"}
	experienceKeys = []string{"experience", "experience_level", "experienceLevel", "fitness_level", "fitnessLevel", "level"}
	locationKeys   = []string{"location", "workout_location", "workoutLocation", "training_location", "trainingLocation"}
	equipmentKeys  = []string{"equipment", "available_equipment", "availableEquipment", "equipment_list", "equipmentList"}
	sessionsKeys   = []string{
		"sessions_per_week", "sessionsPerWeek", "availability", "frequency",
		"workout_frequency", "workoutFrequency", "days_per_week", "daysPerWeek",
	}
	durationKeys = []string{
		"session_duration_minutes", "sessionDurationMinutes", "session_duration", "sessionDuration",
		"workout_duration", "workoutDuration", "duration",
	}
	injuryKeys = []string{"injuries", "health_conditions", "healthConditions", "limitations"}
)

// Nested sections, merged in this order after the top-level keys.
var sections = []string{"questionnaire", "questionnaireData", "smartQuestionnaireData"}

var goalSynonyms = map[string]domain.Goal{
	"lose_weight":       domain.GoalLoseWeight,
	"weight_loss":       domain.GoalLoseWeight,
	"fat_loss":          domain.GoalLoseWeight,
	"burn_fat":          domain.GoalLoseWeight,
	"build_muscle":      domain.GoalBuildMuscle,
	"muscle_gain":       domain.GoalBuildMuscle,
	"gain_muscle":       domain.GoalBuildMuscle,
	"hypertrophy":       domain.GoalBuildMuscle,
	"general_fitness":   domain.GoalGeneralFitness,
	"fitness":           domain.GoalGeneralFitness,
	"health":            domain.GoalGeneralFitness,
	"stay_fit":          domain.GoalGeneralFitness,
	"general_health":    domain.GoalGeneralFitness,
	"improve_endurance": domain.GoalImproveEndurance,
	"endurance":         domain.GoalImproveEndurance,
	"stamina":           domain.GoalImproveEndurance,
	"cardio":            domain.GoalImproveEndurance,
	"increase_strength": domain.GoalIncreaseStrength,
	"strength":          domain.GoalIncreaseStrength,
	"get_stronger":      domain.GoalIncreaseStrength,
	"strength_gain":     domain.GoalIncreaseStrength,
}

var experienceSynonyms = map[string]domain.Level{
	"beginner":        domain.LevelBeginner,
	"novice":          domain.LevelBeginner,
	"newbie":          domain.LevelBeginner,
	"starter":         domain.LevelBeginner,
	"intermediate":    domain.LevelIntermediate,
	"some_experience": domain.LevelIntermediate,
	"medium":          domain.LevelIntermediate,
	"advanced":        domain.LevelAdvanced,
	"expert":          domain.LevelAdvanced,
	"experienced":     domain.LevelAdvanced,
	"pro":             domain.LevelAdvanced,
}

// "home" is ambiguous and resolved against the equipment answer.
const homeLocation = "home"

var locationSynonyms = map[string]domain.Location{
	"home_bodyweight": domain.LocationHomeBodyweight,
	"bodyweight":      domain.LocationHomeBodyweight,
	"no_equipment":    domain.LocationHomeBodyweight,
	"outdoor":         domain.LocationHomeBodyweight,
	"outdoors":        domain.LocationHomeBodyweight,
	"park":            domain.LocationHomeBodyweight,
	"home_equipment":  domain.LocationHomeEquipment,
	"home_gym":        domain.LocationHomeEquipment,
	"gym":             domain.LocationGym,
	"fitness_center":  domain.LocationGym,
	"commercial_gym":  domain.LocationGym,
}
