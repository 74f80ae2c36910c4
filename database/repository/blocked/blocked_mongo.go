package blockedRepo

import (
	"context"
	"fmt"
	"time"

	"shortlet/database"
	"shortlet/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BlockedRepository stores administrative calendar holds.
type BlockedRepository interface {
	Create(ctx context.Context, b *models.Blocked) error

	// Delete removes the hold and returns it, or nil when it did not exist.
	Delete(ctx context.Context, id string) (*models.Blocked, error)

	// ListOverlapping returns holds overlapping the inclusive [from, to]
	// window, ordered by start. Empty from/to means unbounded.
	ListOverlapping(ctx context.Context, propertyID, from, to string) ([]models.Blocked, error)
}

// MongoBlockedRepo is the MongoDB implementation of BlockedRepository.
type MongoBlockedRepo struct {
	coll *mongo.Collection
}

func NewMongoBlockedRepo() *MongoBlockedRepo {
	return &MongoBlockedRepo{coll: database.Collection("blocked_dates")}
}

func (r *MongoBlockedRepo) Create(ctx context.Context, b *models.Blocked) error {
	b.CreatedAt = time.Now()
	if _, err := r.coll.InsertOne(ctx, b); err != nil {
		return fmt.Errorf("failed to create blocked entry: %w", err)
	}
	return nil
}

func (r *MongoBlockedRepo) Delete(ctx context.Context, id string) (*models.Blocked, error) {
	var b models.Blocked
	err := r.coll.FindOneAndDelete(ctx, bson.M{"id": id}).Decode(&b)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete blocked entry %s: %w", id, err)
	}
	return &b, nil
}

func (r *MongoBlockedRepo) ListOverlapping(ctx context.Context, propertyID, from, to string) ([]models.Blocked, error) {
	filter := bson.M{"property_id": propertyID}
	if from != "" {
		filter["end"] = bson.M{"$gte": from}
	}
	if to != "" {
		filter["start"] = bson.M{"$lte": to}
	}
	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("blocked query failed: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.Blocked
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("error decoding blocked entries: %w", err)
	}
	return results, nil
}
