package repository

import (
	"context"

	"gymovoo/workout-engine/internal/domain"
)

// Error constants for the repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDeleteFailed = RepositoryError("delete failed")
	ErrInvalidInput = RepositoryError("invalid input")
	ErrDuplicate    = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// PlanSlotRepository stores the generated plans a user keeps, one document per
// (userId, slot).
type PlanSlotRepository interface {
	ListByUser(ctx context.Context, userID string) ([]domain.StoredPlan, error) // Sorted by slot
	GetBySlot(ctx context.Context, userID string, slot int) (*domain.StoredPlan, error)
	Put(ctx context.Context, plan *domain.StoredPlan) error // Insert or overwrite the slot
	Delete(ctx context.Context, userID string, slot int) error
	// Insert writes into a slot only if it is empty, failing with ErrDuplicate otherwise.
	Insert(ctx context.Context, plan *domain.StoredPlan) error
}

// ProfileRepository keeps the last normalized questionnaire per user.
type ProfileRepository interface {
	Get(ctx context.Context, userID string) (*domain.StoredProfile, error)
	Save(ctx context.Context, profile *domain.StoredProfile) error
}

// ExerciseRepository is the exercises collection used as a catalog source.
type ExerciseRepository interface {
	All(ctx context.Context) ([]domain.Exercise, error)
	ReplaceAll(ctx context.Context, exercises []domain.Exercise) error
}
