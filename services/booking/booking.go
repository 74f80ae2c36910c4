package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "shortlet/database/repository/booking"
	"shortlet/models"
	"shortlet/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateBooking validates the request, checks availability, snapshots the
// money fields and persists the booking plus its commission, then asks the
// payment service for a checkout link. A link failure rolls the whole
// creation back: the booking never existed as far as the caller can tell.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*CreateBookingResult, error) {
	logger := utils.GetLogger()

	checkIn, checkOut, err := s.validateDates(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}
	if req.ClientEmail == "" {
		return nil, utils.NewValidationError("client email is required")
	}

	property, err := s.PropertyRepo.GetPropertyByID(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, utils.NewNotFoundError("property not found")
	}
	agent, err := s.PropertyRepo.GetAgentByID(ctx, req.AgentID)
	if err != nil {
		return nil, err
	}
	if agent == nil {
		return nil, utils.NewNotFoundError("agent not found")
	}

	free, err := s.IsRangeFree(ctx, req.PropertyID, req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}
	if !free {
		return nil, utils.NewConflictError("property is not available for the selected dates")
	}

	nights := nightsBetween(checkIn, checkOut)
	rate := ResolveCommissionRate(agent, property, s.DefaultCommissionRate)
	total := ComputeTotal(property.NightlyRate, property.CleaningFee, nights)

	booking := &models.Booking{
		ID:               uuid.New().String(),
		PropertyID:       property.ID,
		AgentID:          agent.ID,
		ClientEmail:      req.ClientEmail,
		CheckIn:          req.CheckIn,
		CheckOut:         req.CheckOut,
		Nights:           nights,
		NightlyRate:      property.NightlyRate,
		CleaningFee:      property.CleaningFee,
		TotalAmount:      total,
		CommissionRate:   rate,
		CommissionAmount: CommissionAmount(total, rate),
		Status:           models.BookingPendingPayment,
	}
	commission := &models.Commission{
		ID:        uuid.New().String(),
		BookingID: booking.ID,
		AgentID:   agent.ID,
		Amount:    booking.CommissionAmount,
		Status:    models.CommissionPendingPayout,
	}

	days := expandDays(req.CheckIn, req.CheckOut)
	if err := s.Repo.CreateWithCommission(ctx, booking, commission, days); err != nil {
		if errors.Is(err, bookingRepo.ErrDayConflict) {
			return nil, utils.NewConflictError("property is not available for the selected dates")
		}
		return nil, err
	}

	// Payment-link saga: on any failure the booking and commission are
	// hard-deleted. No client-facing link was ever issued, so this is a
	// compensation, not a cancellation.
	link, err := s.Payments.CreateLink(ctx, booking, property)
	if err != nil {
		logger.Warn("payment link creation failed, rolling back booking",
			zap.String("bookingID", booking.ID), zap.Error(err))
		if delErr := s.Repo.DeleteWithCommission(ctx, booking.ID); delErr != nil {
			logger.Error("booking compensation failed",
				zap.String("bookingID", booking.ID), zap.Error(delErr))
		}
		if utils.CodeOf(err) != "" {
			return nil, err
		}
		return nil, utils.NewUpstreamError("payment link creation failed", err)
	}

	if err := s.Repo.SetPaymentLink(ctx, booking.ID, link.ID, link.PaymentURL, link.ExpiresAt); err != nil {
		return nil, err
	}
	booking.PaymentLinkID = link.ID
	booking.PaymentURL = link.PaymentURL
	booking.PaymentLinkExpiry = link.ExpiresAt

	s.invalidateAvailability(ctx, property.ID)
	s.notify(ctx, agent.ID, "booking_created",
		fmt.Sprintf("Booking for %s (%s to %s) is awaiting payment.", property.Name, booking.CheckIn, booking.CheckOut),
		map[string]string{"bookingId": booking.ID, "propertyId": property.ID})

	logger.Info("booking created",
		zap.String("bookingID", booking.ID),
		zap.String("propertyID", property.ID),
		zap.Float64("total", booking.TotalAmount))

	return &CreateBookingResult{Booking: booking, PaymentURL: link.PaymentURL}, nil
}

// validateDates parses the stay window and applies the check-in timing
// policy: past dates are rejected, and a same-day check-in is allowed only
// before the cutoff hour (server-local).
func (s *DefaultBookingService) validateDates(checkInStr, checkOutStr string) (checkIn, checkOut time.Time, err error) {
	ci, err := parseDate(checkInStr)
	if err != nil {
		return ci, ci, utils.NewValidationError("invalid check-in date")
	}
	co, err := parseDate(checkOutStr)
	if err != nil {
		return ci, co, utils.NewValidationError("invalid check-out date")
	}
	if !co.After(ci) {
		return ci, co, utils.NewValidationError("check-out must be after check-in")
	}

	now := s.now()
	today := now.Format(DateLayout)
	if checkInStr < today {
		return ci, co, utils.NewValidationError("check-in date is in the past")
	}
	if checkInStr == today && now.Hour() >= s.SameDayCutoffHour {
		return ci, co, utils.NewValidationError(
			fmt.Sprintf("same-day bookings close at %02d:00", s.SameDayCutoffHour))
	}
	return ci, co, nil
}

// ConfirmPayment applies a payment-confirmed event. It is idempotent: a
// booking already past PendingPayment returns success without mutation, so
// duplicate webhook deliveries and verify/webhook races are harmless.
func (s *DefaultBookingService) ConfirmPayment(ctx context.Context, bookingID, paymentID string) error {
	b, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if b == nil {
		return utils.NewNotFoundError("booking not found")
	}
	switch b.Status {
	case models.BookingBooked, models.BookingCompleted:
		return nil
	case models.BookingCancelled:
		return utils.NewConflictError("booking has been cancelled")
	}

	ok, err := s.Repo.ConfirmPayment(ctx, bookingID, paymentID)
	if err != nil {
		return err
	}
	if !ok {
		// Lost a race with another confirmation; re-read and treat a
		// now-confirmed booking as success.
		b, err := s.Repo.GetByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if b != nil && (b.Status == models.BookingBooked || b.Status == models.BookingCompleted) {
			return nil
		}
		return utils.NewConflictError("booking is no longer pending payment")
	}

	s.notify(ctx, b.AgentID, "booking_confirmed",
		fmt.Sprintf("Payment received for booking %s.", bookingID),
		map[string]string{"bookingId": bookingID, "paymentId": paymentID})

	utils.GetLogger().Info("booking confirmed",
		zap.String("bookingID", bookingID), zap.String("paymentID", paymentID))
	return nil
}

// CancelBooking cancels from PendingPayment or Booked. Only the owning agent,
// an admin, or the system (nil actor) may cancel. The commission is forfeited
// and any active payment link is cancelled best-effort.
func (s *DefaultBookingService) CancelBooking(ctx context.Context, bookingID string, actor *Actor) (*models.Booking, error) {
	b, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, utils.NewNotFoundError("booking not found")
	}
	if actor != nil && !actor.Admin() && actor.ID != b.AgentID {
		return nil, utils.NewForbiddenError("only the owning agent or an admin may cancel")
	}
	if b.Terminal() {
		return nil, utils.NewConflictError(fmt.Sprintf("booking is already %s", b.Status))
	}

	var by *string
	if actor != nil {
		id := actor.ID
		by = &id
	}
	cancelledAt := s.now()
	ok, err := s.Repo.CancelWithCommission(ctx, bookingID, cancelledAt, by,
		models.BookingPendingPayment, models.BookingBooked)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost a race with completion or another cancel; report the state
		// the booking actually landed in.
		cur, err := s.Repo.GetByID(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		if cur == nil {
			return nil, utils.NewNotFoundError("booking not found")
		}
		return nil, utils.NewConflictError(fmt.Sprintf("booking is already %s", cur.Status))
	}

	if b.PaymentLinkID != "" {
		if err := s.Payments.CancelLink(ctx, b.PaymentLinkID); err != nil {
			utils.GetLogger().Warn("payment link cancellation failed",
				zap.String("bookingID", bookingID),
				zap.String("linkID", b.PaymentLinkID),
				zap.Error(err))
		}
	}

	s.invalidateAvailability(ctx, b.PropertyID)
	s.notify(ctx, b.AgentID, "booking_cancelled",
		fmt.Sprintf("Booking %s has been cancelled.", bookingID),
		map[string]string{"bookingId": bookingID})

	b.Status = models.BookingCancelled
	b.CancelledAt = &cancelledAt
	b.CancelledBy = by
	return b, nil
}

func (s *DefaultBookingService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	b, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, utils.NewNotFoundError("booking not found")
	}
	return b, nil
}

func (s *DefaultBookingService) ListAgentBookings(ctx context.Context, agentID string) ([]models.Booking, error) {
	return s.Repo.ListByAgent(ctx, agentID)
}

func (s *DefaultBookingService) ListPropertyBookings(ctx context.Context, propertyID string) ([]models.Booking, error) {
	return s.Repo.ListByProperty(ctx, propertyID)
}

// notify hands an event to the dispatcher. Delivery failures never affect the
// booking operation that triggered them.
func (s *DefaultBookingService) notify(ctx context.Context, recipientID, kind, message string, data map[string]string) {
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
