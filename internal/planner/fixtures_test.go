package planner

import (
	"sort"
	"testing"

	"gymovoo/workout-engine/internal/catalog"
	"gymovoo/workout-engine/internal/domain"

	"github.com/stretchr/testify/require"
)

// exOpt tweaks a fixture exercise.
type exOpt func(*domain.Exercise)

func needs(ids ...string) exOpt {
	return func(e *domain.Exercise) { e.RequiredEquipment = ids }
}

func contra(tags ...string) exOpt {
	return func(e *domain.Exercise) { e.Contraindications = tags }
}

func category(c domain.Category) exOpt {
	return func(e *domain.Exercise) { e.Category = c }
}

func muscles(m ...domain.MuscleGroup) exOpt {
	return func(e *domain.Exercise) { e.TargetMuscles = m }
}

func fixture(id string, primary domain.MuscleGroup, level domain.Level, opts ...exOpt) domain.Exercise {
	e := domain.Exercise{
		ID:                 id,
		Name:               id,
		Category:           domain.CategoryStrength,
		TargetMuscles:      []domain.MuscleGroup{primary},
		Difficulty:         level,
		DefaultSets:        3,
		DefaultReps:        domain.RepRange{Min: 8, Max: 12},
		DefaultRestSeconds: 60,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

func newCatalog(t *testing.T, exercises ...domain.Exercise) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(exercises)
	require.NoError(t, err)
	return c
}

func equipmentProfile(location domain.Location, ids ...string) domain.EquipmentProfile {
	sorted := append([]string{}, ids...)
	sort.Strings(sorted)
	return domain.EquipmentProfile{Location: location, EquipmentIDs: sorted, Environment: domain.ClassifyEnvironment(sorted)}
}

func ids(exercises []domain.Exercise) []string {
	out := make([]string, len(exercises))
	for i, ex := range exercises {
		out[i] = ex.ID
	}
	return out
}
