package booking

import (
	"context"
	"time"

	blockedRepo "shortlet/database/repository/blocked"
	bookingRepo "shortlet/database/repository/booking"
	propertyRepo "shortlet/database/repository/property"
	"shortlet/models"
	"shortlet/services/notification"

	"github.com/go-redis/redis/v8"
)

// Actor identifies who is performing an operation. A nil *Actor means the
// system itself (sweeps, compensations).
type Actor struct {
	ID   string
	Role string // "agent" or "admin"
}

// Admin reports whether the actor carries the admin role.
func (a *Actor) Admin() bool { return a != nil && a.Role == "admin" }

// CreateBookingRequest is the input for a new reservation.
type CreateBookingRequest struct {
	PropertyID  string
	AgentID     string
	ClientEmail string
	CheckIn     string // "YYYY-MM-DD"
	CheckOut    string // "YYYY-MM-DD"
}

// CreateBookingResult pairs the persisted booking with the checkout URL the
// client is sent to.
type CreateBookingResult struct {
	Booking    *models.Booking `json:"booking"`
	PaymentURL string          `json:"payment_url"`
}

// UpdateBookingPatch carries optional edits. Date edits trigger a financial
// recomputation using the booking's original commission rate.
type UpdateBookingPatch struct {
	ClientEmail *string
	CheckIn     *string
	CheckOut    *string
}

// BlockRequest places an administrative hold on a property's calendar.
// Start == End is a valid single-day hold.
type BlockRequest struct {
	PropertyID string
	Start      string
	End        string
	Reason     string
}

// PaymentLinker is the booking side's view of the payment service: create a
// checkout link for a pending booking, or best-effort cancel one.
type PaymentLinker interface {
	CreateLink(ctx context.Context, b *models.Booking, p *models.Property) (*models.PaymentLink, error)
	CancelLink(ctx context.Context, linkID string) error
}

// BookingService is the aggregate root of the booking core. All booking and
// commission state transitions go through it; no other component writes
// booking state directly.
type BookingService interface {
	CreateBooking(ctx context.Context, req CreateBookingRequest) (*CreateBookingResult, error)
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	ListAgentBookings(ctx context.Context, agentID string) ([]models.Booking, error)
	ListPropertyBookings(ctx context.Context, propertyID string) ([]models.Booking, error)

	// ConfirmPayment is idempotent: confirming an already-Booked or Completed
	// booking is a no-op success.
	ConfirmPayment(ctx context.Context, bookingID, paymentID string) error

	CancelBooking(ctx context.Context, bookingID string, actor *Actor) (*models.Booking, error)
	UpdateBooking(ctx context.Context, bookingID string, patch UpdateBookingPatch, actor *Actor) (*models.Booking, error)

	IsRangeFree(ctx context.Context, propertyID, checkIn, checkOut string) (bool, error)
	UnavailableDates(ctx context.Context, propertyID, from, to string) ([]string, error)
	UnavailableRanges(ctx context.Context, propertyID, from, to string) ([]models.DateRange, error)
	AddBlockedDates(ctx context.Context, req BlockRequest, actor *Actor) (*models.Blocked, error)
	RemoveBlockedDates(ctx context.Context, blockID string, actor *Actor) error

	AutoExpirePending(ctx context.Context) (int, error)
	AutoCompletePast(ctx context.Context) (int, error)
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Repo         bookingRepo.BookingRepository
	PropertyRepo propertyRepo.PropertyRepository
	BlockedRepo  blockedRepo.BlockedRepository
	Payments     PaymentLinker
	Notifier     notification.Dispatcher
	CacheClient  *redis.Client // optional availability cache

	DefaultCommissionRate float64 // percent
	SameDayCutoffHour     int
	PendingMaxAge         time.Duration

	// Now is the clock, injectable for tests. Defaults to time.Now.
	Now func() time.Time
}

func (s *DefaultBookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
