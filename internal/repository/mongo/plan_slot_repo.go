package mongo

import (
	"context"
	"errors"
	"time"

	"gymovoo/workout-engine/internal/domain"
	"gymovoo/workout-engine/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const planSlotCollectionName = "plan_slots"

// mongoPlanSlotRepository implements repository.PlanSlotRepository
type mongoPlanSlotRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanSlotRepository creates a new plan slot repository.
func NewMongoPlanSlotRepository(db *mongo.Database) repository.PlanSlotRepository {
	return &mongoPlanSlotRepository{
		collection: db.Collection(planSlotCollectionName),
	}
}

func slotFilter(userID string, slot int) bson.M {
	return bson.M{"userId": userID, "slot": slot}
}

// ListByUser retrieves every occupied slot of a user, lowest slot first.
func (r *mongoPlanSlotRepository) ListByUser(ctx context.Context, userID string) ([]domain.StoredPlan, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "slot", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var plans []domain.StoredPlan
	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	// Empty slice if the user has no plans (not an error)
	return plans, nil
}

// GetBySlot retrieves a single stored plan.
func (r *mongoPlanSlotRepository) GetBySlot(ctx context.Context, userID string, slot int) (*domain.StoredPlan, error) {
	var plan domain.StoredPlan
	err := r.collection.FindOne(ctx, slotFilter(userID, slot)).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// Put writes the plan into its slot, replacing whatever was stored there.
// CreatedAt is kept from the first write of the slot document.
func (r *mongoPlanSlotRepository) Put(ctx context.Context, plan *domain.StoredPlan) error {
	if plan.UserID == "" || plan.Slot < 0 || plan.Slot >= domain.MaxStoredPlans {
		return repository.ErrInvalidInput
	}
	now := time.Now().UTC()
	if plan.ID.IsZero() {
		plan.ID = primitive.NewObjectID()
	}
	plan.UpdatedAt = now

	update := bson.M{
		"$set": bson.M{
			"sourceAnswersHash": plan.SourceAnswersHash,
			"basic":             plan.Basic,
			"smart":             plan.Smart,
			"warnings":          plan.Warnings,
			"updatedAt":         now,
		},
		"$setOnInsert": bson.M{
			"_id":       plan.ID,
			"createdAt": now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored domain.StoredPlan
	if err := r.collection.FindOneAndUpdate(ctx, slotFilter(plan.UserID, plan.Slot), update, opts).Decode(&stored); err != nil {
		return err
	}
	plan.ID = stored.ID
	plan.CreatedAt = stored.CreatedAt
	return nil
}

// Insert stores the plan in an empty slot. The unique (userId, slot) index
// turns a concurrent write to the same slot into ErrDuplicate.
func (r *mongoPlanSlotRepository) Insert(ctx context.Context, plan *domain.StoredPlan) error {
	if plan.UserID == "" || plan.Slot < 0 || plan.Slot >= domain.MaxStoredPlans {
		return repository.ErrInvalidInput
	}
	now := time.Now().UTC()
	if plan.ID.IsZero() {
		plan.ID = primitive.NewObjectID()
	}
	plan.CreatedAt = now
	plan.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, plan); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

// Delete empties a slot.
func (r *mongoPlanSlotRepository) Delete(ctx context.Context, userID string, slot int) error {
	result, err := r.collection.DeleteOne(ctx, slotFilter(userID, slot))
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsurePlanSlotIndexes creates the unique (userId, slot) index. Call during startup.
func EnsurePlanSlotIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "slot", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "sourceAnswersHash", Value: 1}},
			Options: options.Index(),
		},
	})
}
