package booking

import (
	"context"

	"shortlet/models"
	"shortlet/utils"

	"go.uber.org/zap"
)

// AutoExpirePending cancels PendingPayment bookings older than PendingMaxAge,
// measured from creation time regardless of the payment link's own expiry.
// System-initiated: cancelledBy stays nil. Idempotent by construction, so a
// concurrent or repeated sweep does no extra work.
func (s *DefaultBookingService) AutoExpirePending(ctx context.Context) (int, error) {
	logger := utils.GetLogger()
	cutoff := s.now().Add(-s.PendingMaxAge)

	stale, err := s.Repo.ListExpiredPending(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, b := range stale {
		// Conditioned on PendingPayment: a confirmation landing between the
		// listing and this write wins, and the booking is left alone.
		ok, err := s.Repo.CancelWithCommission(ctx, b.ID, s.now(), nil, models.BookingPendingPayment)
		if err != nil {
			logger.Error("failed to expire pending booking",
				zap.String("bookingID", b.ID), zap.Error(err))
			continue
		}
		if !ok {
			logger.Info("booking confirmed mid-sweep, skipping expiry",
				zap.String("bookingID", b.ID))
			continue
		}
		if b.PaymentLinkID != "" {
			if err := s.Payments.CancelLink(ctx, b.PaymentLinkID); err != nil {
				logger.Warn("payment link cancellation failed during expiry",
					zap.String("bookingID", b.ID), zap.Error(err))
			}
		}
		s.invalidateAvailability(ctx, b.PropertyID)
		expired++
	}

	if expired > 0 {
		logger.Info("expired stale pending bookings", zap.Int("count", expired))
	}
	return expired, nil
}

// AutoCompletePast moves Booked bookings whose check-out is strictly before
// the start of today (server-local midnight) to Completed. The transition is
// conditioned on current state, so reruns are no-ops.
func (s *DefaultBookingService) AutoCompletePast(ctx context.Context) (int, error) {
	logger := utils.GetLogger()
	today := s.now().Format(DateLayout)

	due, err := s.Repo.ListCompletable(ctx, today)
	if err != nil {
		return 0, err
	}

	completed := 0
	for _, b := range due {
		ok, err := s.Repo.Complete(ctx, b.ID)
		if err != nil {
			logger.Error("failed to complete booking",
				zap.String("bookingID", b.ID), zap.Error(err))
			continue
		}
		if ok {
			completed++
		}
	}

	if completed > 0 {
		logger.Info("completed past bookings", zap.Int("count", completed))
	}
	return completed, nil
}
