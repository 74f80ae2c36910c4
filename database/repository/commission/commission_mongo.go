package commissionRepo

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

// CommissionRepository reads commissions and advances their payout status.
// Creation and deletion belong to the booking repository, which writes the
// booking+commission pair transactionally.
type CommissionRepository interface {
	GetByBookingID(ctx context.Context, bookingID string) (*models.Commission, error)
	ListByAgent(ctx context.Context, agentID string) ([]models.Commission, error)
	ListPendingByAgent(ctx context.Context, agentID string) ([]models.Commission, error)

	// MarkRequested moves the given pending commissions to Requested under a
	// payout request id. Returns the number of commissions moved.
	MarkRequested(ctx context.Context, ids []string, payoutRequestID string) (int64, error)

	// MarkPaid moves all Requested commissions of a payout request to Paid.
	MarkPaid(ctx context.Context, payoutRequestID string, paidAt time.Time, paidBy, method, reference string) (int64, error)
}

// MongoCommissionRepo is the MongoDB implementation of CommissionRepository.
type MongoCommissionRepo struct {
	coll *mongo.Collection
}

func NewMongoCommissionRepo() *MongoCommissionRepo {
	return &MongoCommissionRepo{coll: database.Collection("commissions")}
}

func (r *MongoCommissionRepo) GetByBookingID(ctx context.Context, bookingID string) (*models.Commission, error) {
	var c models.Commission
	err := r.coll.FindOne(ctx, bson.M{"booking_id": bookingID}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch commission for booking %s: %w", bookingID, err)
	}
	return &c, nil
}

func (r *MongoCommissionRepo) ListByAgent(ctx context.Context, agentID string) ([]models.Commission, error) {
	return r.list(ctx, bson.M{"agent_id": agentID})
}

func (r *MongoCommissionRepo) ListPendingByAgent(ctx context.Context, agentID string) ([]models.Commission, error) {
	return r.list(ctx, bson.M{"agent_id": agentID, "status": models.CommissionPendingPayout})
}

func (r *MongoCommissionRepo) list(ctx context.Context, filter bson.M) ([]models.Commission, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("commission query failed: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.Commission
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("error decoding commissions: %w", err)
	}
	return results, nil
}

func (r *MongoCommissionRepo) MarkRequested(ctx context.Context, ids []string, payoutRequestID string) (int64, error) {
	filter := bson.M{
		"id":     bson.M{"$in": ids},
		"status": models.CommissionPendingPayout,
	}
	update := bson.M{"$set": bson.M{
		"status":            models.CommissionRequested,
		"payout_request_id": payoutRequestID,
		"updated_at":        time.Now(),
	}}
	res, err := r.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to mark commissions requested: %w", err)
	}
	return res.ModifiedCount, nil
}

func (r *MongoCommissionRepo) MarkPaid(ctx context.Context, payoutRequestID string, paidAt time.Time, paidBy, method, reference string) (int64, error) {
	filter := bson.M{
		"payout_request_id": payoutRequestID,
		"status":            models.CommissionRequested,
	}
	update := bson.M{"$set": bson.M{
		"status":            models.CommissionPaid,
		"paid_at":           paidAt,
		"paid_by":           paidBy,
		"payment_method":    method,
		"payment_reference": reference,
		"updated_at":        time.Now(),
	}}
	res, err := r.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to mark commissions paid: %w", err)
	}
	return res.ModifiedCount, nil
}
