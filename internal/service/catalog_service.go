package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"

	"gymovoo/workout-engine/internal/catalog"
	"gymovoo/workout-engine/internal/config"
	"gymovoo/workout-engine/internal/domain"
	"gymovoo/workout-engine/internal/planner"
	"gymovoo/workout-engine/internal/repository"
	"gymovoo/workout-engine/internal/storage"
)

var ErrExerciseNotFound = errors.New("exercise not found")

// ExerciseFilter narrows a catalog listing. Zero fields do not filter.
type ExerciseFilter struct {
	Location  domain.Location
	Equipment []string
	Level     domain.Level
	Category  domain.Category
	Muscle    domain.MuscleGroup
}

// ExerciseListing is the result of browsing the catalog. Equipment is set
// only when the listing was filtered by location.
type ExerciseListing struct {
	Equipment *domain.EquipmentProfile   `json:"equipment,omitempty"`
	Exercises []domain.Exercise          `json:"exercises"`
	Warnings  []domain.ValidationWarning `json:"warnings,omitempty"`
}

type CatalogService interface {
	ListExercises(ctx context.Context, filter ExerciseFilter) (*ExerciseListing, error)
	GetExercise(ctx context.Context, id string) (*domain.Exercise, error)
}

type catalogService struct {
	engine *planner.Engine
}

// NewCatalogService creates a catalog browsing service over the engine's catalog.
func NewCatalogService(engine *planner.Engine) CatalogService {
	return &catalogService{engine: engine}
}

// ListExercises returns the exercises a user with the given setup could be
// assigned, in catalog order.
func (s *catalogService) ListExercises(ctx context.Context, filter ExerciseFilter) (*ExerciseListing, error) {
	if filter.Level != "" && !filter.Level.Valid() {
		return nil, &domain.InvalidProfileError{Field: "level", Value: string(filter.Level)}
	}
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, &domain.InvalidProfileError{Field: "category", Value: string(filter.Category)}
	}
	if filter.Muscle != "" && !filter.Muscle.Valid() {
		return nil, &domain.InvalidProfileError{Field: "muscle", Value: string(filter.Muscle)}
	}

	listing := &ExerciseListing{Exercises: []domain.Exercise{}}
	keep := func(ex domain.Exercise) bool {
		if filter.Level != "" && !filter.Level.Allows(ex.Difficulty) {
			return false
		}
		if filter.Category != "" && ex.Category != filter.Category {
			return false
		}
		if filter.Muscle != "" && !ex.Targets(map[domain.MuscleGroup]bool{filter.Muscle: true}) {
			return false
		}
		return true
	}

	if filter.Location != "" {
		equipment, warnings, err := s.engine.ResolveEquipment(filter.Location, domain.Selections(filter.Equipment...))
		if err != nil {
			return nil, err
		}
		listing.Equipment = &equipment
		listing.Warnings = warnings
		inner := keep
		keep = func(ex domain.Exercise) bool {
			return equipment.Covers(ex.RequiredEquipment) && inner(ex)
		}
	}

	for _, ex := range s.engine.Catalog().All() {
		if keep(ex) {
			listing.Exercises = append(listing.Exercises, ex)
		}
	}
	return listing, nil
}

func (s *catalogService) GetExercise(ctx context.Context, id string) (*domain.Exercise, error) {
	ex, ok := s.engine.Catalog().Get(id)
	if !ok {
		return nil, ErrExerciseNotFound
	}
	return &ex, nil
}

// LoadCatalog builds the exercise catalog from the configured source. A
// mongo source with an empty collection is seeded with the built-in catalog.
func LoadCatalog(ctx context.Context, cfg config.CatalogConfig, fileStorage storage.FileStorage, exercises repository.ExerciseRepository) (*catalog.Catalog, error) {
	switch cfg.Source {
	case "", config.CatalogBuiltin:
		return catalog.Default(), nil

	case config.CatalogFile:
		return catalog.LoadFile(cfg.Path)

	case config.CatalogS3:
		if fileStorage == nil {
			return nil, errors.New("catalog source s3 needs object storage")
		}
		body, err := fileStorage.GetObject(ctx, cfg.S3Key)
		if err != nil {
			return nil, fmt.Errorf("failed to download catalog %s: %w", cfg.S3Key, err)
		}
		return catalog.Load(bytes.NewReader(body))

	case config.CatalogMongo:
		if exercises == nil {
			return nil, errors.New("catalog source mongo needs an exercise repository")
		}
		list, err := exercises.All(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read exercises collection: %w", err)
		}
		if len(list) == 0 {
			builtin := catalog.Default()
			if err := exercises.ReplaceAll(ctx, builtin.All()); err != nil {
				return nil, fmt.Errorf("failed to seed exercises collection: %w", err)
			}
			log.Printf("INFO: Seeded exercises collection with %d built-in exercises", builtin.Len())
			return builtin, nil
		}
		return catalog.New(list)
	}
	return nil, fmt.Errorf("unknown catalog source %q", cfg.Source)
}
