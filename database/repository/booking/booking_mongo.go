package bookingRepo

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

// MongoBookingRepo is the MongoDB implementation of BookingRepository.
type MongoBookingRepo struct {
	bookingColl    *mongo.Collection
	commissionColl *mongo.Collection
	occupancyColl  *mongo.Collection
}

func NewMongoBookingRepo() *MongoBookingRepo {
	return &MongoBookingRepo{
		bookingColl:    database.Collection("bookings"),
		commissionColl: database.Collection("commissions"),
		occupancyColl:  database.Collection("occupancy"),
	}
}

var blockingStatuses = bson.A{models.BookingPendingPayment, models.BookingBooked}

// withTransaction runs fn inside a session transaction.
func (r *MongoBookingRepo) withTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	client := r.bookingColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := fn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
}

func (r *MongoBookingRepo) CreateWithCommission(ctx context.Context, b *models.Booking, c *models.Commission, days []string) error {
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now
	c.CreatedAt = now
	c.UpdatedAt = now

	occupancy := make([]interface{}, 0, len(days))
	for _, day := range days {
		occupancy = append(occupancy, models.Occupancy{
			PropertyID: b.PropertyID,
			Day:        day,
			BookingID:  b.ID,
		})
	}

	err := r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		if _, err := r.bookingColl.InsertOne(sc, b); err != nil {
			return fmt.Errorf("insert booking failed: %w", err)
		}
		if _, err := r.commissionColl.InsertOne(sc, c); err != nil {
			return fmt.Errorf("insert commission failed: %w", err)
		}
		// Ordered insert: the first day already claimed aborts the whole
		// transaction, which is how two racing creations are serialized.
		if len(occupancy) > 0 {
			if _, err := r.occupancyColl.InsertMany(sc, occupancy); err != nil {
				if mongo.IsDuplicateKeyError(err) {
					return ErrDayConflict
				}
				return fmt.Errorf("insert occupancy failed: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return nil
}

func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	var b models.Booking
	err := r.bookingColl.FindOne(ctx, bson.M{"id": id}).Decode(&b)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking %s: %w", id, err)
	}
	return &b, nil
}

func (r *MongoBookingRepo) ListByAgent(ctx context.Context, agentID string) ([]models.Booking, error) {
	return r.list(ctx, bson.M{"agent_id": agentID})
}

func (r *MongoBookingRepo) ListByProperty(ctx context.Context, propertyID string) ([]models.Booking, error) {
	return r.list(ctx, bson.M{"property_id": propertyID})
}

func (r *MongoBookingRepo) list(ctx context.Context, filter bson.M) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.bookingColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("booking query failed: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.Booking
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return results, nil
}

func (r *MongoBookingRepo) ListBlocking(ctx context.Context, propertyID, from, to string) ([]models.Booking, error) {
	filter := bson.M{
		"property_id": propertyID,
		"status":      bson.M{"$in": blockingStatuses},
	}
	if from != "" {
		filter["check_out"] = bson.M{"$gte": from}
	}
	if to != "" {
		filter["check_in"] = bson.M{"$lte": to}
	}
	opts := options.Find().SetSort(bson.D{{Key: "check_in", Value: 1}})
	cursor, err := r.bookingColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("blocking booking query failed: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.Booking
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return results, nil
}

func (r *MongoBookingRepo) HasOverlap(ctx context.Context, propertyID, checkIn, checkOut, excludeID string) (bool, error) {
	// Inclusive interval overlap: [checkIn, checkOut] vs [check_in, check_out].
	filter := bson.M{
		"property_id": propertyID,
		"status":      bson.M{"$in": blockingStatuses},
		"check_in":    bson.M{"$lte": checkOut},
		"check_out":   bson.M{"$gte": checkIn},
	}
	if excludeID != "" {
		filter["id"] = bson.M{"$ne": excludeID}
	}
	count, err := r.bookingColl.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("overlap query failed: %w", err)
	}
	return count > 0, nil
}

func (r *MongoBookingRepo) SetPaymentLink(ctx context.Context, id, linkID, paymentURL string, expiresAt time.Time) error {
	update := bson.M{"$set": bson.M{
		"payment_link_id":     linkID,
		"payment_url":         paymentURL,
		"payment_link_expiry": expiresAt,
		"updated_at":          time.Now(),
	}}
	res, err := r.bookingColl.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to set payment link on booking %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("booking %s not found", id)
	}
	return nil
}

func (r *MongoBookingRepo) ConfirmPayment(ctx context.Context, id, paymentID string) (bool, error) {
	filter := bson.M{"id": id, "status": models.BookingPendingPayment}
	update := bson.M{"$set": bson.M{
		"status":     models.BookingBooked,
		"payment_id": paymentID,
		"updated_at": time.Now(),
	}}
	res, err := r.bookingColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to confirm booking %s: %w", id, err)
	}
	return res.ModifiedCount > 0, nil
}

func (r *MongoBookingRepo) CancelWithCommission(ctx context.Context, id string, at time.Time, by *string, from ...models.BookingStatus) (bool, error) {
	states := make(bson.A, 0, len(from))
	for _, st := range from {
		states = append(states, st)
	}

	var cancelled bool
	err := r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		filter := bson.M{"id": id, "status": bson.M{"$in": states}}
		update := bson.M{"$set": bson.M{
			"status":       models.BookingCancelled,
			"cancelled_at": at,
			"cancelled_by": by,
			"updated_at":   time.Now(),
		}}
		res, err := r.bookingColl.UpdateOne(sc, filter, update)
		if err != nil {
			return fmt.Errorf("failed to cancel booking %s: %w", id, err)
		}
		if res.MatchedCount == 0 {
			// Missing, or no longer in an allowed state. Leave the
			// commission and occupancy alone.
			return nil
		}
		cancelled = true
		if _, err := r.commissionColl.DeleteOne(sc, bson.M{"booking_id": id}); err != nil {
			return fmt.Errorf("failed to delete commission for booking %s: %w", id, err)
		}
		if _, err := r.occupancyColl.DeleteMany(sc, bson.M{"booking_id": id}); err != nil {
			return fmt.Errorf("failed to free occupancy for booking %s: %w", id, err)
		}
		return nil
	})
	return cancelled, err
}

func (r *MongoBookingRepo) Complete(ctx context.Context, id string) (bool, error) {
	filter := bson.M{"id": id, "status": models.BookingBooked}
	update := bson.M{"$set": bson.M{
		"status":     models.BookingCompleted,
		"updated_at": time.Now(),
	}}
	res, err := r.bookingColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to complete booking %s: %w", id, err)
	}
	return res.ModifiedCount > 0, nil
}

func (r *MongoBookingRepo) UpdateWithCommission(ctx context.Context, b *models.Booking, days []string) error {
	b.UpdatedAt = time.Now()

	occupancy := make([]interface{}, 0, len(days))
	for _, day := range days {
		occupancy = append(occupancy, models.Occupancy{
			PropertyID: b.PropertyID,
			Day:        day,
			BookingID:  b.ID,
		})
	}

	return r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		res, err := r.bookingColl.ReplaceOne(sc, bson.M{"id": b.ID}, b)
		if err != nil {
			return fmt.Errorf("failed to update booking %s: %w", b.ID, err)
		}
		if res.MatchedCount == 0 {
			return fmt.Errorf("booking %s not found", b.ID)
		}

		commUpdate := bson.M{"$set": bson.M{
			"amount":     b.CommissionAmount,
			"updated_at": time.Now(),
		}}
		if _, err := r.commissionColl.UpdateOne(sc, bson.M{"booking_id": b.ID}, commUpdate); err != nil {
			return fmt.Errorf("failed to update commission for booking %s: %w", b.ID, err)
		}

		if _, err := r.occupancyColl.DeleteMany(sc, bson.M{"booking_id": b.ID}); err != nil {
			return fmt.Errorf("failed to clear occupancy for booking %s: %w", b.ID, err)
		}
		if len(occupancy) > 0 {
			if _, err := r.occupancyColl.InsertMany(sc, occupancy); err != nil {
				if mongo.IsDuplicateKeyError(err) {
					return ErrDayConflict
				}
				return fmt.Errorf("failed to re-key occupancy for booking %s: %w", b.ID, err)
			}
		}
		return nil
	})
}

func (r *MongoBookingRepo) DeleteWithCommission(ctx context.Context, id string) error {
	return r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		if _, err := r.bookingColl.DeleteOne(sc, bson.M{"id": id}); err != nil {
			return fmt.Errorf("failed to delete booking %s: %w", id, err)
		}
		if _, err := r.commissionColl.DeleteOne(sc, bson.M{"booking_id": id}); err != nil {
			return fmt.Errorf("failed to delete commission for booking %s: %w", id, err)
		}
		if _, err := r.occupancyColl.DeleteMany(sc, bson.M{"booking_id": id}); err != nil {
			return fmt.Errorf("failed to delete occupancy for booking %s: %w", id, err)
		}
		return nil
	})
}

func (r *MongoBookingRepo) ListExpiredPending(ctx context.Context, olderThan time.Time) ([]models.Booking, error) {
	filter := bson.M{
		"status":     models.BookingPendingPayment,
		"created_at": bson.M{"$lt": olderThan},
	}
	return r.list(ctx, filter)
}

func (r *MongoBookingRepo) ListCompletable(ctx context.Context, beforeDay string) ([]models.Booking, error) {
	filter := bson.M{
		"status":    models.BookingBooked,
		"check_out": bson.M{"$lt": beforeDay},
	}
	return r.list(ctx, filter)
}
