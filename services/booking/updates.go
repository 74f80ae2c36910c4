package booking

import (
	"context"
	"errors"
	"fmt"

	bookingRepo "shortlet/database/repository/booking"
	"shortlet/models"
	"shortlet/utils"

	"go.uber.org/zap"
)

// UpdateBooking edits a non-terminal booking. Non-financial fields change
// freely; a date edit recomputes nights, total and commission amount using
// the booking's original snapshotted commission rate, and the linked
// commission amount moves in lockstep.
func (s *DefaultBookingService) UpdateBooking(ctx context.Context, bookingID string, patch UpdateBookingPatch, actor *Actor) (*models.Booking, error) {
	b, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, utils.NewNotFoundError("booking not found")
	}
	if actor != nil && !actor.Admin() && actor.ID != b.AgentID {
		return nil, utils.NewForbiddenError("only the owning agent or an admin may edit")
	}
	if b.Terminal() {
		return nil, utils.NewConflictError(fmt.Sprintf("booking is already %s", b.Status))
	}

	if patch.ClientEmail != nil {
		if *patch.ClientEmail == "" {
			return nil, utils.NewValidationError("client email cannot be empty")
		}
		b.ClientEmail = *patch.ClientEmail
	}

	datesChanged := patch.CheckIn != nil || patch.CheckOut != nil
	if datesChanged {
		newIn := b.CheckIn
		newOut := b.CheckOut
		if patch.CheckIn != nil {
			newIn = *patch.CheckIn
		}
		if patch.CheckOut != nil {
			newOut = *patch.CheckOut
		}

		ci, err := parseDate(newIn)
		if err != nil {
			return nil, utils.NewValidationError("invalid check-in date")
		}
		co, err := parseDate(newOut)
		if err != nil {
			return nil, utils.NewValidationError("invalid check-out date")
		}
		if !co.After(ci) {
			return nil, utils.NewValidationError("check-out must be after check-in")
		}

		overlap, err := s.Repo.HasOverlap(ctx, b.PropertyID, newIn, newOut, b.ID)
		if err != nil {
			return nil, err
		}
		if !overlap {
			holds, err := s.BlockedRepo.ListOverlapping(ctx, b.PropertyID, newIn, newOut)
			if err != nil {
				return nil, err
			}
			overlap = len(holds) > 0
		}
		if overlap {
			return nil, utils.NewConflictError("property is not available for the new dates")
		}

		b.CheckIn = newIn
		b.CheckOut = newOut
		b.Nights = nightsBetween(ci, co)
		b.TotalAmount = ComputeTotal(b.NightlyRate, b.CleaningFee, b.Nights)
		// Original rate, never the property's or agent's current one.
		b.CommissionAmount = CommissionAmount(b.TotalAmount, b.CommissionRate)
	}

	days := expandDays(b.CheckIn, b.CheckOut)
	if err := s.Repo.UpdateWithCommission(ctx, b, days); err != nil {
		if errors.Is(err, bookingRepo.ErrDayConflict) {
			return nil, utils.NewConflictError("property is not available for the new dates")
		}
		return nil, err
	}

	if datesChanged {
		s.invalidateAvailability(ctx, b.PropertyID)
	}
	utils.GetLogger().Info("booking updated", zap.String("bookingID", b.ID))
	return b, nil
}
