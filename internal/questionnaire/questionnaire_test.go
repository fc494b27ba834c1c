package questionnaire

import (
	"errors"
	"testing"

	"gymovoo/workout-engine/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func codes(ws []domain.ValidationWarning) map[string]domain.WarningCode {
	out := make(map[string]domain.WarningCode, len(ws))
	for _, w := range ws {
		out[w.Field] = w.Code
	}
	return out
}

func TestNormalizeCanonicalDocument(t *testing.T) {
	res, err := Normalize([]byte(`{
		"goal": "build_muscle",
		"experience": "intermediate",
		"location": "gym",
		"equipment": ["barbell", {"id": "bench", "label": "Flat bench"}],
		"sessionsPerWeek": 4,
		"sessionDurationMinutes": 60,
		"injuries": ["knee"]
	}`))
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, domain.UserProfile{
		Goal:                   domain.GoalBuildMuscle,
		Experience:             domain.LevelIntermediate,
		Location:               domain.LocationGym,
		Equipment:              []domain.EquipmentSelection{{ID: "barbell"}, {ID: "bench", Label: "Flat bench"}},
		SessionsPerWeek:        4,
		SessionDurationMinutes: 60,
		Injuries:               []string{"knee"},
	}, res.Profile)
	assert.NoError(t, res.Profile.Validate())
}

func TestNormalizeMergesLegacySections(t *testing.T) {
	res, err := Normalize([]byte(`{
		"fitness_goal": "weight loss",
		"questionnaire": {"experience_level": "Novice", "workout_location": "home", "frequency": "3-4"},
		"questionnaireData": {"available_equipment": "dumbbells, resistance bands", "workout_duration": "30-45 min"},
		"smartQuestionnaireData": {"fitnessGoal": "Hypertrophy", "frequency": "5+"}
	}`))
	require.NoError(t, err)

	p := res.Profile
	assert.Equal(t, domain.GoalBuildMuscle, p.Goal, "smartQuestionnaireData wins")
	assert.Equal(t, domain.LevelBeginner, p.Experience)
	assert.Equal(t, domain.LocationHomeEquipment, p.Location, "home with equipment")
	assert.Equal(t, domain.Selections("dumbbells", "resistance bands"), p.Equipment)
	assert.Equal(t, 5, p.SessionsPerWeek)
	assert.Equal(t, 30, p.SessionDurationMinutes)
	assert.Empty(t, res.Warnings)
}

func TestNormalizeDefaultsMissingAnswers(t *testing.T) {
	res, err := NormalizeMap(map[string]any{})
	require.NoError(t, err)

	assert.Equal(t, domain.UserProfile{
		Goal:                   DefaultGoal,
		Experience:             DefaultExperience,
		Location:               DefaultLocation,
		SessionsPerWeek:        DefaultSessionsPerWeek,
		SessionDurationMinutes: domain.DefaultSessionDurationMinutes,
	}, res.Profile)
	assert.Equal(t, map[string]domain.WarningCode{
		"goal":                   domain.WarnDefaultedField,
		"experience":             domain.WarnDefaultedField,
		"location":               domain.WarnDefaultedField,
		"sessionsPerWeek":        domain.WarnDefaultedField,
		"sessionDurationMinutes": domain.WarnDefaultedField,
	}, codes(res.Warnings))
	assert.NoError(t, res.Profile.Validate())
}

func TestNormalizeClampsAndReportsUnreadableValues(t *testing.T) {
	res, err := NormalizeMap(map[string]any{
		"goal":            "fitness",
		"experience":      "pro",
		"location":        "home",
		"days_per_week":   7,
		"duration":        "whenever",
		"injuries":        []any{"wrist", 42},
		"equipment_list":  []any{"chair", true},
		"unrelated_field": "ignored",
	})
	require.NoError(t, err)

	p := res.Profile
	assert.Equal(t, domain.GoalGeneralFitness, p.Goal)
	assert.Equal(t, domain.LevelAdvanced, p.Experience)
	assert.Equal(t, domain.LocationHomeEquipment, p.Location)
	assert.Equal(t, domain.MaxSessionsPerWeek, p.SessionsPerWeek)
	assert.Equal(t, domain.DefaultSessionDurationMinutes, p.SessionDurationMinutes)
	assert.Equal(t, []string{"wrist"}, p.Injuries)
	assert.Equal(t, domain.Selections("chair"), p.Equipment)

	assert.Equal(t, map[string]domain.WarningCode{
		"sessionsPerWeek":        domain.WarnClampedValue,
		"sessionDurationMinutes": domain.WarnUnparseableValue,
		"injuries":               domain.WarnUnparseableValue,
		"equipment":              domain.WarnUnparseableValue,
	}, codes(res.Warnings))
}

func TestNormalizeDurations(t *testing.T) {
	tests := []struct {
		in   any
		want int
	}{
		{45, 45},
		{float64(50), 50},
		{"60", 60},
		{"1 hour", 60},
		{"1.5h", 90},
		{"30-45 min", 30},
		{"5 min", minDurationMinutes},
		{"3 hours", maxDurationMinutes},
	}
	for _, tt := range tests {
		res, err := NormalizeMap(map[string]any{"goal": "health", "experience": "beginner", "location": "gym", "frequency": 3, "duration": tt.in})
		require.NoError(t, err)
		assert.Equal(t, tt.want, res.Profile.SessionDurationMinutes, "%v", tt.in)
	}
}

func TestNormalizeRejectsUnknownEnums(t *testing.T) {
	tests := []struct {
		field string
		doc   map[string]any
	}{
		{"goal", map[string]any{"goal": "become_famous"}},
		{"experience", map[string]any{"goal": "strength", "level": "godlike"}},
		{"location", map[string]any{"goal": "strength", "level": "beginner", "location": "space station"}},
		{"goal", map[string]any{"goal": 12}},
	}
	for _, tt := range tests {
		_, err := NormalizeMap(tt.doc)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalidProfile))
		var invalid *domain.InvalidProfileError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, tt.field, invalid.Field)
	}
}

func TestNormalizeBadJSON(t *testing.T) {
	_, err := Normalize([]byte(`{"goal":`))
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrInvalidProfile))
}

func TestNormalizeYAMLDecodedDocument(t *testing.T) {
	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(`
questionnaireData:
  goal: strength
  experience: advanced
  location: gym
  equipment:
    barbell: true
    squat_rack: true
    treadmill: false
  sessions_per_week: 4
`), &doc))

	res, err := NormalizeMap(doc)
	require.NoError(t, err)
	assert.Equal(t, domain.GoalIncreaseStrength, res.Profile.Goal)
	assert.Equal(t, domain.Selections("barbell", "squat_rack"), res.Profile.Equipment)
	assert.Equal(t, 4, res.Profile.SessionsPerWeek)
}
