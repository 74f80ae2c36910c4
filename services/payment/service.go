package payment

import (
	"context"
	"fmt"
	"time"

	paymentRepo "shortlet/database/repository/payment"
	"shortlet/models"
	"shortlet/services/notification"
	"shortlet/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookingConfirmer is the payment side's view of the booking ledger. Both
// reconciliation entry points converge on it; the call must be idempotent on
// the booking side.
type BookingConfirmer interface {
	ConfirmPayment(ctx context.Context, bookingID, paymentID string) error
}

// DefaultPaymentService owns payment links and charge records, drives the
// gateway, and reconciles confirmations back into the booking ledger.
type DefaultPaymentService struct {
	Repo      paymentRepo.PaymentRepository
	Gateway   Gateway
	Confirmer BookingConfirmer
	Notifier  notification.Dispatcher

	CallbackURL   string
	WebhookSecret string
	LinkTTL       time.Duration
}

// CreateLink initializes a gateway transaction for the booking total and
// stores the resulting checkout link. A still-active link for the same
// booking, or any gateway failure, fails the whole creation attempt - the
// booking side compensates by deleting the booking.
func (s *DefaultPaymentService) CreateLink(ctx context.Context, b *models.Booking, p *models.Property) (*models.PaymentLink, error) {
	existing, err := s.Repo.GetActiveLinkByBooking(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, utils.NewConflictError("an active payment link already exists for this booking")
	}

	reference := uuid.New().String()
	data, err := s.Gateway.Initialize(ctx, InitializeRequest{
		Email:       b.ClientEmail,
		Amount:      toSubunits(b.TotalAmount),
		Reference:   reference,
		CallbackURL: s.CallbackURL,
		Metadata: map[string]string{
			"booking_id":    b.ID,
			"property_name": p.Name,
			"check_in":      b.CheckIn,
			"check_out":     b.CheckOut,
		},
	})
	if err != nil {
		return nil, utils.NewUpstreamError("payment gateway initialize failed", err)
	}

	link := &models.PaymentLink{
		ID:           uuid.New().String(),
		BookingID:    b.ID,
		Reference:    reference,
		Amount:       b.TotalAmount,
		ClientEmail:  b.ClientEmail,
		PropertyName: p.Name,
		CheckIn:      b.CheckIn,
		CheckOut:     b.CheckOut,
		PaymentURL:   data.AuthorizationURL,
		Status:       models.LinkActive,
		ExpiresAt:    time.Now().Add(s.LinkTTL),
	}
	if err := s.Repo.CreateLink(ctx, link); err != nil {
		return nil, err
	}

	utils.GetLogger().Info("payment link created",
		zap.String("bookingID", b.ID), zap.String("reference", reference))
	return link, nil
}

// CancelLink is best-effort and idempotent: an already settled, cancelled or
// unknown link reports not-found rather than erroring.
func (s *DefaultPaymentService) CancelLink(ctx context.Context, linkID string) error {
	ok, err := s.Repo.CancelLink(ctx, linkID)
	if err != nil {
		return err
	}
	if !ok {
		return utils.NewNotFoundError("no active payment link to cancel")
	}
	return nil
}

// Verify is the synchronous, client-initiated reconciliation path: call the
// gateway's verify endpoint and only on a genuine success record the payment
// and confirm the booking.
func (s *DefaultPaymentService) Verify(ctx context.Context, reference string) (*models.VerifyResult, error) {
	link, err := s.Repo.GetLinkByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, utils.NewNotFoundError("unknown payment reference")
	}

	data, err := s.Gateway.Verify(ctx, reference)
	if err != nil {
		return nil, utils.NewUpstreamError("payment gateway verify failed", err)
	}

	result := &models.VerifyResult{
		Reference:     reference,
		GatewayStatus: data.Status,
	}
	if data.Status != "success" {
		return result, nil
	}

	paidAt := parseGatewayTime(data.PaidAt)
	result.Success = true
	result.PaidAt = paidAt

	if err := s.applyConfirmation(ctx, link, fmt.Sprintf("%d", data.ID), data.Status, data.Channel, paidAt); err != nil {
		return nil, err
	}
	return result, nil
}

// applyConfirmation records the successful charge and then notifies the
// booking ledger. Both reconciliation paths use it, and both are safe under
// at-least-once delivery: the payment upsert and the ledger confirmation are
// each idempotent.
//
// A failure to notify the booking side after the payment is recorded is
// logged and swallowed: the payment stays Success and the disagreement is
// left for manual reconciliation rather than bouncing the gateway into
// endless redelivery.
func (s *DefaultPaymentService) applyConfirmation(ctx context.Context, link *models.PaymentLink, paymentID, gatewayStatus, channel string, paidAt *time.Time) error {
	logger := utils.GetLogger()

	p := &models.Payment{
		ID:            uuid.New().String(),
		Reference:     link.Reference,
		BookingID:     link.BookingID,
		Amount:        link.Amount,
		Status:        models.PaymentSuccess,
		GatewayStatus: gatewayStatus,
		Channel:       channel,
		PaidAt:        paidAt,
	}
	if err := s.Repo.UpsertSuccess(ctx, p); err != nil {
		return err
	}
	if err := s.Repo.SettleLink(ctx, link.Reference); err != nil {
		logger.Warn("failed to settle payment link",
			zap.String("reference", link.Reference), zap.Error(err))
	}

	if err := s.Confirmer.ConfirmPayment(ctx, link.BookingID, paymentID); err != nil {
		logger.Error("payment recorded but booking confirmation failed; manual reconciliation required",
			zap.String("bookingID", link.BookingID),
			zap.String("reference", link.Reference),
			zap.Error(err))
	}

	s.notify(ctx, link.ClientEmail, "payment_receipt",
		fmt.Sprintf("Payment of %.2f received for your stay at %s.", link.Amount, link.PropertyName),
		map[string]string{"bookingId": link.BookingID, "reference": link.Reference})
	return nil
}

// notify hands an event to the dispatcher. Delivery failures never affect the
// reconciliation that triggered them.
func (s *DefaultPaymentService) notify(ctx context.Context, recipientID, kind, message string, data map[string]string) {
	if s.Notifier == nil {
		return
	}
	n := models.Notification{
		ID:          uuid.New().String(),
		RecipientID: recipientID,
		Type:        kind,
		Message:     message,
		Data:        data,
	}
	if err := s.Notifier.Dispatch(ctx, n); err != nil {
		utils.GetLogger().Warn("notification dispatch failed",
			zap.String("type", kind), zap.Error(err))
	}
}

// GetPayment returns the charge record for a reference.
func (s *DefaultPaymentService) GetPayment(ctx context.Context, reference string) (*models.Payment, error) {
	p, err := s.Repo.GetPaymentByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, utils.NewNotFoundError("payment not found")
	}
	return p, nil
}

func toSubunits(amount float64) int64 {
	return int64(amount*100 + 0.5)
}

func parseGatewayTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}
