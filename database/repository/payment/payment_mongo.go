package paymentRepo

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

// PaymentRepository owns the payment service's documents: checkout links and
// settled charge records, correlated to bookings by id and reference.
type PaymentRepository interface {
	CreateLink(ctx context.Context, link *models.PaymentLink) error
	GetLinkByID(ctx context.Context, id string) (*models.PaymentLink, error)
	GetLinkByReference(ctx context.Context, reference string) (*models.PaymentLink, error)
	GetActiveLinkByBooking(ctx context.Context, bookingID string) (*models.PaymentLink, error)

	// CancelLink moves an active link to cancelled; false when the link is
	// missing or already settled/cancelled.
	CancelLink(ctx context.Context, id string) (bool, error)
	SettleLink(ctx context.Context, reference string) error

	// UpsertSuccess records a successful charge for the reference. Replaying
	// the same reference is a no-op update, keeping the webhook path
	// idempotent at the storage layer too.
	UpsertSuccess(ctx context.Context, p *models.Payment) error
	GetPaymentByReference(ctx context.Context, reference string) (*models.Payment, error)
}

// MongoPaymentRepo is the MongoDB implementation of PaymentRepository.
type MongoPaymentRepo struct {
	linkColl    *mongo.Collection
	paymentColl *mongo.Collection
}

func NewMongoPaymentRepo() *MongoPaymentRepo {
	return &MongoPaymentRepo{
		linkColl:    database.Collection("payment_links"),
		paymentColl: database.Collection("payments"),
	}
}

// EnsureIndexes creates the payment-side indexes.
func (r *MongoPaymentRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	linkIdxs := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "reference", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "booking_id", Value: 1}, {Key: "status", Value: 1}}},
	}
	if _, err := r.linkColl.Indexes().CreateMany(ctx, linkIdxs); err != nil {
		return fmt.Errorf("failed to create payment link indexes: %w", err)
	}

	paymentIdx := mongo.IndexModel{
		Keys:    bson.D{{Key: "reference", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := r.paymentColl.Indexes().CreateOne(ctx, paymentIdx); err != nil {
		return fmt.Errorf("failed to create payment index: %w", err)
	}
	return nil
}

func (r *MongoPaymentRepo) CreateLink(ctx context.Context, link *models.PaymentLink) error {
	now := time.Now()
	link.CreatedAt = now
	link.UpdatedAt = now
	if _, err := r.linkColl.InsertOne(ctx, link); err != nil {
		return fmt.Errorf("failed to create payment link: %w", err)
	}
	return nil
}

func (r *MongoPaymentRepo) GetLinkByID(ctx context.Context, id string) (*models.PaymentLink, error) {
	return r.findLink(ctx, bson.M{"id": id})
}

func (r *MongoPaymentRepo) GetLinkByReference(ctx context.Context, reference string) (*models.PaymentLink, error) {
	return r.findLink(ctx, bson.M{"reference": reference})
}

func (r *MongoPaymentRepo) GetActiveLinkByBooking(ctx context.Context, bookingID string) (*models.PaymentLink, error) {
	return r.findLink(ctx, bson.M{"booking_id": bookingID, "status": models.LinkActive})
}

func (r *MongoPaymentRepo) findLink(ctx context.Context, filter bson.M) (*models.PaymentLink, error) {
	var link models.PaymentLink
	err := r.linkColl.FindOne(ctx, filter).Decode(&link)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("payment link query failed: %w", err)
	}
	return &link, nil
}

func (r *MongoPaymentRepo) CancelLink(ctx context.Context, id string) (bool, error) {
	filter := bson.M{"id": id, "status": models.LinkActive}
	update := bson.M{"$set": bson.M{
		"status":     models.LinkCancelled,
		"updated_at": time.Now(),
	}}
	res, err := r.linkColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to cancel payment link %s: %w", id, err)
	}
	return res.ModifiedCount > 0, nil
}

func (r *MongoPaymentRepo) SettleLink(ctx context.Context, reference string) error {
	update := bson.M{"$set": bson.M{
		"status":     models.LinkSettled,
		"updated_at": time.Now(),
	}}
	if _, err := r.linkColl.UpdateOne(ctx, bson.M{"reference": reference}, update); err != nil {
		return fmt.Errorf("failed to settle payment link %s: %w", reference, err)
	}
	return nil
}

func (r *MongoPaymentRepo) UpsertSuccess(ctx context.Context, p *models.Payment) error {
	now := time.Now()
	filter := bson.M{"reference": p.Reference}
	update := bson.M{
		"$set": bson.M{
			"status":         models.PaymentSuccess,
			"gateway_status": p.GatewayStatus,
			"channel":        p.Channel,
			"paid_at":        p.PaidAt,
			"updated_at":     now,
		},
		"$setOnInsert": bson.M{
			"id":         p.ID,
			"reference":  p.Reference,
			"booking_id": p.BookingID,
			"amount":     p.Amount,
			"created_at": now,
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := r.paymentColl.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert payment %s: %w", p.Reference, err)
	}
	return nil
}

func (r *MongoPaymentRepo) GetPaymentByReference(ctx context.Context, reference string) (*models.Payment, error) {
	var p models.Payment
	err := r.paymentColl.FindOne(ctx, bson.M{"reference": reference}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("payment query failed: %w", err)
	}
	return &p, nil
}
