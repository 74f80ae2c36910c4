package payoutRepo

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

// PayoutRepository stores agent withdrawal requests.
type PayoutRepository interface {
	Create(ctx context.Context, p *models.PayoutRequest) error
	GetByID(ctx context.Context, id string) (*models.PayoutRequest, error)
	ListByAgent(ctx context.Context, agentID string) ([]models.PayoutRequest, error)

	// MarkPaid moves a pending payout to Paid; false when not pending.
	MarkPaid(ctx context.Context, id string, paidAt time.Time, paidBy, method, reference string) (bool, error)
}

// MongoPayoutRepo is the MongoDB implementation of PayoutRepository.
type MongoPayoutRepo struct {
	coll *mongo.Collection
}

func NewMongoPayoutRepo() *MongoPayoutRepo {
	return &MongoPayoutRepo{coll: database.Collection("payout_requests")}
}

func (r *MongoPayoutRepo) Create(ctx context.Context, p *models.PayoutRequest) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("failed to create payout request: %w", err)
	}
	return nil
}

func (r *MongoPayoutRepo) GetByID(ctx context.Context, id string) (*models.PayoutRequest, error) {
	var p models.PayoutRequest
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payout request %s: %w", id, err)
	}
	return &p, nil
}

func (r *MongoPayoutRepo) ListByAgent(ctx context.Context, agentID string) ([]models.PayoutRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"agent_id": agentID}, opts)
	if err != nil {
		return nil, fmt.Errorf("payout query failed: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.PayoutRequest
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("error decoding payout requests: %w", err)
	}
	return results, nil
}

func (r *MongoPayoutRepo) MarkPaid(ctx context.Context, id string, paidAt time.Time, paidBy, method, reference string) (bool, error) {
	filter := bson.M{"id": id, "status": models.PayoutPending}
	update := bson.M{"$set": bson.M{
		"status":            models.PayoutPaid,
		"paid_at":           paidAt,
		"paid_by":           paidBy,
		"payment_method":    method,
		"payment_reference": reference,
		"updated_at":        time.Now(),
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to mark payout %s paid: %w", id, err)
	}
	return res.ModifiedCount > 0, nil
}
