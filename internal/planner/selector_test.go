package planner

import (
	"errors"
	"testing"

	"gymovoo/workout-engine/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func selectorFixture(t *testing.T) *Selector {
	return NewSelector(newCatalog(t,
		fixture("a_press", domain.MuscleChest, domain.LevelBeginner, needs("dumbbells")),
		fixture("b_push", domain.MuscleChest, domain.LevelBeginner),
		fixture("c_adv", domain.MuscleChest, domain.LevelAdvanced),
		fixture("row", domain.MuscleBack, domain.LevelBeginner, needs("dumbbells")),
		fixture("squat", domain.MuscleQuads, domain.LevelBeginner),
		fixture("plank", domain.MuscleCore, domain.LevelBeginner, category(domain.CategoryCore)),
		fixture("stretch", domain.MuscleChest, domain.LevelBeginner, category(domain.CategoryRecovery)),
	))
}

func TestSelectRoundRobinThenRemainingGroups(t *testing.T) {
	s := selectorFixture(t)
	got, err := s.Select(SelectionRequest{
		Equipment: equipmentProfile(domain.LocationHomeEquipment, "dumbbells"),
		Level:     domain.LevelBeginner,
		Count:     4,
		Targets:   []domain.MuscleGroup{domain.MuscleChest, domain.MuscleBack},
	})
	require.NoError(t, err)
	// chest, back, chest again, then the first untargeted group by name
	assert.Equal(t, []string{"a_press", "row", "b_push", "plank"}, ids(got))
}

func TestSelectRotationVariesRepeatedDays(t *testing.T) {
	s := selectorFixture(t)
	got, err := s.Select(SelectionRequest{
		Equipment: equipmentProfile(domain.LocationHomeEquipment, "dumbbells"),
		Level:     domain.LevelBeginner,
		Count:     2,
		Targets:   []domain.MuscleGroup{domain.MuscleChest, domain.MuscleBack},
		Rotation:  1,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"b_push", "row"}, ids(got))
}

func TestSelectNeverExceedsPool(t *testing.T) {
	s := selectorFixture(t)
	got, err := s.Select(SelectionRequest{
		Equipment: equipmentProfile(domain.LocationHomeEquipment, "dumbbells"),
		Level:     domain.LevelBeginner,
		Count:     8,
		Targets:   []domain.MuscleGroup{domain.MuscleChest},
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a_press", "b_push", "row", "squat", "plank"}, ids(got))
}

func TestSelectHonorsEquipmentAndDifficulty(t *testing.T) {
	s := selectorFixture(t)

	got, err := s.Select(SelectionRequest{
		Equipment: equipmentProfile(domain.LocationHomeBodyweight),
		Level:     domain.LevelBeginner,
		Count:     5,
		Targets:   []domain.MuscleGroup{domain.MuscleChest},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"b_push", "plank", "squat"}, ids(got), "no dumbbell or advanced work for a bodyweight beginner")

	got, err = s.Select(SelectionRequest{
		Equipment: equipmentProfile(domain.LocationHomeBodyweight),
		Level:     domain.LevelAdvanced,
		Count:     1,
		Targets:   []domain.MuscleGroup{domain.MuscleChest},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"c_adv"}, ids(got), "advanced users get level-matched work first")

	got, err = s.Select(SelectionRequest{
		Equipment: equipmentProfile(domain.LocationHomeEquipment, "dumbbells"),
		Level:     domain.LevelBeginner,
		Count:     1,
		Targets:   []domain.MuscleGroup{domain.MuscleChest},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a_press"}, ids(got), "owned equipment ranks loaded movements first")
}

func TestSelectEmptyPoolIsInsufficientCatalog(t *testing.T) {
	s := NewSelector(newCatalog(t,
		fixture("row", domain.MuscleBack, domain.LevelBeginner, needs("dumbbells")),
		fixture("stretch", domain.MuscleBack, domain.LevelBeginner, category(domain.CategoryRecovery)),
	))
	got, err := s.Select(SelectionRequest{
		Session:   "Day 1 – Pull",
		Equipment: equipmentProfile(domain.LocationHomeBodyweight),
		Level:     domain.LevelBeginner,
		Count:     3,
		Targets:   []domain.MuscleGroup{domain.MuscleBack},
	})
	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, errors.Is(err, domain.ErrInsufficientCatalog))

	var insufficient *domain.InsufficientCatalogError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "Day 1 – Pull", insufficient.Session)
	assert.Equal(t, domain.EnvironmentBodyweightOnly, insufficient.Environment)
}

func TestEligible(t *testing.T) {
	gym := equipmentProfile(domain.LocationGym, "barbell", "bench")
	bench := fixture("bench_press", domain.MuscleChest, domain.LevelIntermediate, needs("barbell", "bench"))
	squat := fixture("squat", domain.MuscleQuads, domain.LevelIntermediate, needs("barbell", "squat_rack"))

	assert.True(t, Eligible(bench, gym, domain.LevelIntermediate))
	assert.True(t, Eligible(bench, gym, domain.LevelAdvanced))
	assert.False(t, Eligible(bench, gym, domain.LevelBeginner))
	assert.False(t, Eligible(squat, gym, domain.LevelAdvanced))
}
