package mongo

import (
	"context"
	"errors"
	"time"

	"gymovoo/workout-engine/internal/domain"
	"gymovoo/workout-engine/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const profileCollectionName = "profiles"

// mongoProfileRepository implements repository.ProfileRepository. The user id
// is the document _id, so no secondary index is needed.
type mongoProfileRepository struct {
	collection *mongo.Collection
}

// NewMongoProfileRepository creates a new profile repository.
func NewMongoProfileRepository(db *mongo.Database) repository.ProfileRepository {
	return &mongoProfileRepository{
		collection: db.Collection(profileCollectionName),
	}
}

// Get retrieves the stored questionnaire profile of a user.
func (r *mongoProfileRepository) Get(ctx context.Context, userID string) (*domain.StoredProfile, error) {
	var profile domain.StoredProfile
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// Save replaces the stored profile of a user.
func (r *mongoProfileRepository) Save(ctx context.Context, profile *domain.StoredProfile) error {
	if profile.UserID == "" {
		return repository.ErrInvalidInput
	}
	profile.UpdatedAt = time.Now().UTC()

	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": profile.UserID}, profile, options.Replace().SetUpsert(true))
	return err
}
