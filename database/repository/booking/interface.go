package bookingRepo

import (
	"context"
	"errors"
	"time"

	"shortlet/models"
)

// ErrDayConflict is returned when an occupancy insert collides with an
// existing claim on the same (property, day) cell.
var ErrDayConflict = errors.New("property day already occupied")

// BookingRepository owns booking documents, their 1:1 commission documents
// and the per-day occupancy index. The booking+commission pair is always
// written together inside one transaction.
type BookingRepository interface {
	// CreateWithCommission inserts the booking, its commission and one
	// occupancy document per covered day, all in a single transaction.
	// A duplicate occupancy key aborts the transaction with ErrDayConflict.
	CreateWithCommission(ctx context.Context, b *models.Booking, c *models.Commission, days []string) error

	GetByID(ctx context.Context, id string) (*models.Booking, error)
	ListByAgent(ctx context.Context, agentID string) ([]models.Booking, error)
	ListByProperty(ctx context.Context, propertyID string) ([]models.Booking, error)

	// ListBlocking returns bookings in a blocking state (PendingPayment or
	// Booked) whose range overlaps [from, to]. Empty from/to means unbounded.
	ListBlocking(ctx context.Context, propertyID, from, to string) ([]models.Booking, error)

	// HasOverlap reports whether any blocking booking overlaps the inclusive
	// candidate range, excluding the given booking id (empty to exclude none).
	HasOverlap(ctx context.Context, propertyID, checkIn, checkOut, excludeID string) (bool, error)

	SetPaymentLink(ctx context.Context, id, linkID, paymentURL string, expiresAt time.Time) error

	// ConfirmPayment atomically moves PendingPayment -> Booked. Returns false
	// when the booking was not in PendingPayment (idempotent no-op for the
	// caller to resolve).
	ConfirmPayment(ctx context.Context, id, paymentID string) (bool, error)

	// CancelWithCommission transitions to Cancelled, deletes the commission
	// and frees the occupancy days, transactionally. The write is conditioned
	// on the booking currently being in one of the given states; returns
	// false without mutation when it is not, so a confirmation landing
	// between a caller's read and the cancel is never clobbered.
	CancelWithCommission(ctx context.Context, id string, at time.Time, by *string, from ...models.BookingStatus) (bool, error)

	// Complete atomically moves Booked -> Completed; false when not Booked.
	Complete(ctx context.Context, id string) (bool, error)

	// UpdateWithCommission replaces the booking document, re-keys occupancy
	// to the given days and updates the commission amount in lockstep.
	UpdateWithCommission(ctx context.Context, b *models.Booking, days []string) error

	// DeleteWithCommission hard-deletes booking, commission and occupancy.
	// Used only by saga compensation when payment-link creation fails.
	DeleteWithCommission(ctx context.Context, id string) error

	ListExpiredPending(ctx context.Context, olderThan time.Time) ([]models.Booking, error)
	ListCompletable(ctx context.Context, beforeDay string) ([]models.Booking, error)
}
