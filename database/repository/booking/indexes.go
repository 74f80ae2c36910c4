package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the booking core depends on. The unique
// occupancy index is load-bearing: it is what converts the availability
// check-then-insert race into a detectable conflict.
func (r *MongoBookingRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	occupancyIdx := mongo.IndexModel{
		Keys: bson.D{
			{Key: "property_id", Value: 1},
			{Key: "day", Value: 1},
		},
		Options: options.Index().SetUnique(true).SetName("uniq_property_day"),
	}
	if _, err := r.occupancyColl.Indexes().CreateOne(ctx, occupancyIdx); err != nil {
		return fmt.Errorf("failed to create occupancy index: %w", err)
	}

	bookingIdxs := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "property_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "agent_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "check_out", Value: 1}}},
	}
	if _, err := r.bookingColl.Indexes().CreateMany(ctx, bookingIdxs); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}

	commissionIdxs := []mongo.IndexModel{
		{Keys: bson.D{{Key: "booking_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "agent_id", Value: 1}, {Key: "status", Value: 1}}},
	}
	if _, err := r.commissionColl.Indexes().CreateMany(ctx, commissionIdxs); err != nil {
		return fmt.Errorf("failed to create commission indexes: %w", err)
	}

	return nil
}
