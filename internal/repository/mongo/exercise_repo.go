package mongo

import (
	"context"

	"gymovoo/workout-engine/internal/domain"
	"gymovoo/workout-engine/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const exerciseCollectionName = "exercises"

// mongoExerciseRepository implements repository.ExerciseRepository
type mongoExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoExerciseRepository creates a new Exercise repository backed by MongoDB.
func NewMongoExerciseRepository(db *mongo.Database) repository.ExerciseRepository {
	return &mongoExerciseRepository{
		collection: db.Collection(exerciseCollectionName),
	}
}

// All retrieves every exercise sorted by id.
func (r *mongoExerciseRepository) All(ctx context.Context) ([]domain.Exercise, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var exercises []domain.Exercise
	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

// ReplaceAll swaps the collection contents for exercises: every given
// exercise is upserted and every other document removed.
func (r *mongoExerciseRepository) ReplaceAll(ctx context.Context, exercises []domain.Exercise) error {
	if len(exercises) == 0 {
		return repository.ErrInvalidInput
	}

	models := make([]mongo.WriteModel, 0, len(exercises))
	ids := make([]string, 0, len(exercises))
	for _, ex := range exercises {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": ex.ID}).
			SetReplacement(ex).
			SetUpsert(true))
		ids = append(ids, ex.ID)
	}

	if _, err := r.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
		return err
	}
	if _, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$nin": ids}}); err != nil {
		return repository.ErrDeleteFailed
	}
	return nil
}

// EnsureExerciseIndexes creates the lookup indexes used by catalog tooling.
func EnsureExerciseIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}}, Options: options.Index()},
		{Keys: bson.D{{Key: "targetMuscles", Value: 1}}, Options: options.Index()},
	})
}
