package payout

import (
	"context"
	"fmt"
	"time"

	commissionRepo "shortlet/database/repository/commission"
	payoutRepo "shortlet/database/repository/payout"
	"shortlet/models"
	"shortlet/services/notification"
	"shortlet/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PayoutService handles agent withdrawal requests against their pending
// commissions. Commission status only ever advances: PendingPayout ->
// Requested -> Paid.
type PayoutService interface {
	RequestPayout(ctx context.Context, agentID string) (*models.PayoutRequest, error)
	MarkPaid(ctx context.Context, payoutID, adminID, method, reference string) (*models.PayoutRequest, error)
	ListAgentPayouts(ctx context.Context, agentID string) ([]models.PayoutRequest, error)
	ListPendingCommissions(ctx context.Context, agentID string) ([]models.Commission, error)
}

// DefaultPayoutService implements PayoutService.
type DefaultPayoutService struct {
	Commissions commissionRepo.CommissionRepository
	Payouts     payoutRepo.PayoutRepository
	Notifier    notification.Dispatcher
}

// RequestPayout aggregates every PendingPayout commission of the agent into
// one withdrawal request and moves them to Requested.
func (s *DefaultPayoutService) RequestPayout(ctx context.Context, agentID string) (*models.PayoutRequest, error) {
	pending, err := s.Commissions.ListPendingByAgent(ctx, agentID)
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		return nil, utils.NewValidationError("no pending commissions to withdraw")
	}

	var total float64
	ids := make([]string, 0, len(pending))
	for _, c := range pending {
		total += c.Amount
		ids = append(ids, c.ID)
	}

	req := &models.PayoutRequest{
		ID:            uuid.New().String(),
		AgentID:       agentID,
		Amount:        total,
		CommissionIDs: ids,
		Status:        models.PayoutPending,
	}
	if err := s.Payouts.Create(ctx, req); err != nil {
		return nil, err
	}

	moved, err := s.Commissions.MarkRequested(ctx, ids, req.ID)
	if err != nil {
		return nil, err
	}
	if moved != int64(len(ids)) {
		// Some commissions advanced concurrently (e.g. a racing request);
		// the payout still covers the ones that did move.
		utils.GetLogger().Warn("partial commission aggregation on payout request",
			zap.String("payoutID", req.ID),
			zap.Int64("moved", moved),
			zap.Int("requested", len(ids)))
	}

	utils.GetLogger().Info("payout requested",
		zap.String("agentID", agentID),
		zap.String("payoutID", req.ID),
		zap.Float64("amount", total))
	return req, nil
}

// MarkPaid settles a pending payout and advances its commissions to Paid.
func (s *DefaultPayoutService) MarkPaid(ctx context.Context, payoutID, adminID, method, reference string) (*models.PayoutRequest, error) {
	req, err := s.Payouts.GetByID(ctx, payoutID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, utils.NewNotFoundError("payout request not found")
	}

	paidAt := time.Now()
	ok, err := s.Payouts.MarkPaid(ctx, payoutID, paidAt, adminID, method, reference)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, utils.NewConflictError("payout request is already settled")
	}

	if _, err := s.Commissions.MarkPaid(ctx, payoutID, paidAt, adminID, method, reference); err != nil {
		return nil, err
	}

	req.Status = models.PayoutPaid
	req.PaidAt = &paidAt
	req.PaidBy = &adminID
	req.PaymentMethod = method
	req.PaymentReference = reference

	if s.Notifier != nil {
		n := models.Notification{
			ID:          uuid.New().String(),
			RecipientID: req.AgentID,
			Type:        "payout_paid",
			Message:     fmt.Sprintf("Your payout of %.2f has been paid.", req.Amount),
			Data:        map[string]string{"payoutId": req.ID},
		}
		if err := s.Notifier.Dispatch(ctx, n); err != nil {
			utils.GetLogger().Warn("payout notification dispatch failed", zap.Error(err))
		}
	}
	return req, nil
}

func (s *DefaultPayoutService) ListAgentPayouts(ctx context.Context, agentID string) ([]models.PayoutRequest, error) {
	return s.Payouts.ListByAgent(ctx, agentID)
}

func (s *DefaultPayoutService) ListPendingCommissions(ctx context.Context, agentID string) ([]models.Commission, error) {
	return s.Commissions.ListPendingByAgent(ctx, agentID)
}
