package service

import (
	"bytes"
	"context"
	"testing"

	"gymovoo/workout-engine/internal/catalog"
	"gymovoo/workout-engine/internal/config"
	"gymovoo/workout-engine/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListExercisesByEnvironment(t *testing.T) {
	svc := NewCatalogService(newTestEngine())

	listing, err := svc.ListExercises(context.Background(), ExerciseFilter{
		Location: domain.LocationHomeBodyweight,
		Level:    domain.LevelBeginner,
	})
	require.NoError(t, err)
	require.NotNil(t, listing.Equipment)
	assert.Equal(t, domain.EnvironmentBodyweightOnly, listing.Equipment.Environment)
	require.NotEmpty(t, listing.Exercises)
	for _, ex := range listing.Exercises {
		assert.Empty(t, ex.RequiredEquipment, ex.ID)
		assert.Equal(t, domain.LevelBeginner, ex.Difficulty, ex.ID)
	}
}

func TestListExercisesReportsDroppedEquipment(t *testing.T) {
	svc := NewCatalogService(newTestEngine())

	listing, err := svc.ListExercises(context.Background(), ExerciseFilter{
		Location:  domain.LocationHomeEquipment,
		Equipment: []string{"dumbbells", "jet_pack"},
		Muscle:    domain.MuscleShoulders,
	})
	require.NoError(t, err)
	require.Len(t, listing.Warnings, 1)
	assert.Equal(t, domain.WarnUnknownEquipment, listing.Warnings[0].Code)

	ids := make([]string, 0, len(listing.Exercises))
	for _, ex := range listing.Exercises {
		ids = append(ids, ex.ID)
		assert.True(t, listing.Equipment.Covers(ex.RequiredEquipment), ex.ID)
	}
	assert.Contains(t, ids, "dumbbell_lateral_raise")
	assert.NotContains(t, ids, "barbell_overhead_press")
}

func TestListExercisesWithoutFilterReturnsCatalog(t *testing.T) {
	svc := NewCatalogService(newTestEngine())

	listing, err := svc.ListExercises(context.Background(), ExerciseFilter{})
	require.NoError(t, err)
	assert.Nil(t, listing.Equipment)
	assert.Len(t, listing.Exercises, catalog.Default().Len())
}

func TestListExercisesRejectsUnknownFilters(t *testing.T) {
	svc := NewCatalogService(newTestEngine())
	ctx := context.Background()

	for _, filter := range []ExerciseFilter{
		{Level: "elite"},
		{Category: "dance"},
		{Muscle: "eyebrows"},
		{Location: "moon"},
	} {
		_, err := svc.ListExercises(ctx, filter)
		assert.ErrorIs(t, err, domain.ErrInvalidProfile, "%+v", filter)
	}
}

func TestGetExercise(t *testing.T) {
	svc := NewCatalogService(newTestEngine())

	ex, err := svc.GetExercise(context.Background(), "push_up")
	require.NoError(t, err)
	assert.Equal(t, "push_up", ex.ID)

	_, err = svc.GetExercise(context.Background(), "levitation")
	assert.ErrorIs(t, err, ErrExerciseNotFound)
}

func TestLoadCatalogSources(t *testing.T) {
	ctx := context.Background()

	c, err := LoadCatalog(ctx, config.CatalogConfig{Source: config.CatalogBuiltin}, nil, nil)
	require.NoError(t, err)
	assert.Same(t, catalog.Default(), c)

	t.Run("s3", func(t *testing.T) {
		var buf bytes.Buffer
		small := catalog.Default().Filter(func(ex domain.Exercise) bool { return ex.IsBodyweight() })
		require.NoError(t, small.Encode(&buf))
		store := newFakeStorage()
		store.objects["catalog/exercises.yaml"] = buf.Bytes()

		c, err := LoadCatalog(ctx, config.CatalogConfig{Source: config.CatalogS3, S3Key: "catalog/exercises.yaml"}, store, nil)
		require.NoError(t, err)
		assert.Equal(t, small.Len(), c.Len())

		_, err = LoadCatalog(ctx, config.CatalogConfig{Source: config.CatalogS3, S3Key: "missing.yaml"}, store, nil)
		assert.Error(t, err)
	})

	t.Run("mongo seeds an empty collection", func(t *testing.T) {
		repo := &fakeExerciseRepo{}
		c, err := LoadCatalog(ctx, config.CatalogConfig{Source: config.CatalogMongo}, nil, repo)
		require.NoError(t, err)
		assert.Equal(t, 1, repo.replaced)
		assert.Len(t, repo.exercises, catalog.Default().Len())
		assert.Equal(t, catalog.Default().Len(), c.Len())

		repo.exercises = repo.exercises[:10]
		c, err = LoadCatalog(ctx, config.CatalogConfig{Source: config.CatalogMongo}, nil, repo)
		require.NoError(t, err)
		assert.Equal(t, 1, repo.replaced)
		assert.Equal(t, 10, c.Len())
	})

	t.Run("misconfigured", func(t *testing.T) {
		_, err := LoadCatalog(ctx, config.CatalogConfig{Source: config.CatalogS3}, nil, nil)
		assert.Error(t, err)
		_, err = LoadCatalog(ctx, config.CatalogConfig{Source: config.CatalogMongo}, nil, nil)
		assert.Error(t, err)
		_, err = LoadCatalog(ctx, config.CatalogConfig{Source: "carrier_pigeon"}, nil, nil)
		assert.Error(t, err)
	})
}
