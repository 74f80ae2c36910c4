package booking

import (
	"context"
	"errors"
	"sync"
	"time"

	bookingRepo "shortlet/database/repository/booking"
	"shortlet/models"
)

// fakeBookingRepo is an in-memory BookingRepository that mirrors the mongo
// repo's semantics, including the unique (property, day) occupancy claim.
type fakeBookingRepo struct {
	mu          sync.Mutex
	bookings    map[string]*models.Booking
	commissions map[string]*models.Commission // keyed by booking id
	occupancy   map[string]string             // "propertyID|day" -> booking id
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings:    make(map[string]*models.Booking),
		commissions: make(map[string]*models.Commission),
		occupancy:   make(map[string]string),
	}
}

func occKey(propertyID, day string) string { return propertyID + "|" + day }

func blocking(status models.BookingStatus) bool {
	return status == models.BookingPendingPayment || status == models.BookingBooked
}

func (r *fakeBookingRepo) CreateWithCommission(ctx context.Context, b *models.Booking, c *models.Commission, days []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, day := range days {
		if _, taken := r.occupancy[occKey(b.PropertyID, day)]; taken {
			return bookingRepo.ErrDayConflict
		}
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	cp := *b
	r.bookings[b.ID] = &cp
	cc := *c
	r.commissions[b.ID] = &cc
	for _, day := range days {
		r.occupancy[occKey(b.PropertyID, day)] = b.ID
	}
	return nil
}

func (r *fakeBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) ListByAgent(ctx context.Context, agentID string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.AgentID == agentID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) ListByProperty(ctx context.Context, propertyID string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.PropertyID == propertyID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) ListBlocking(ctx context.Context, propertyID, from, to string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.PropertyID != propertyID || !blocking(b.Status) {
			continue
		}
		if from != "" && b.CheckOut < from {
			continue
		}
		if to != "" && b.CheckIn > to {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (r *fakeBookingRepo) HasOverlap(ctx context.Context, propertyID, checkIn, checkOut, excludeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.PropertyID != propertyID || b.ID == excludeID || !blocking(b.Status) {
			continue
		}
		if b.CheckIn <= checkOut && b.CheckOut >= checkIn {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookingRepo) SetPaymentLink(ctx context.Context, id, linkID, paymentURL string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return errors.New("booking not found")
	}
	b.PaymentLinkID = linkID
	b.PaymentURL = paymentURL
	b.PaymentLinkExpiry = expiresAt
	return nil
}

func (r *fakeBookingRepo) ConfirmPayment(ctx context.Context, id, paymentID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || b.Status != models.BookingPendingPayment {
		return false, nil
	}
	b.Status = models.BookingBooked
	b.PaymentID = paymentID
	return true, nil
}

func (r *fakeBookingRepo) CancelWithCommission(ctx context.Context, id string, at time.Time, by *string, from ...models.BookingStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return false, nil
	}
	allowed := false
	for _, st := range from {
		if b.Status == st {
			allowed = true
		}
	}
	if !allowed {
		return false, nil
	}
	b.Status = models.BookingCancelled
	b.CancelledAt = &at
	b.CancelledBy = by
	delete(r.commissions, id)
	r.freeOccupancy(id)
	return true, nil
}

func (r *fakeBookingRepo) Complete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || b.Status != models.BookingBooked {
		return false, nil
	}
	b.Status = models.BookingCompleted
	return true, nil
}

func (r *fakeBookingRepo) UpdateWithCommission(ctx context.Context, b *models.Booking, days []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[b.ID]; !ok {
		return errors.New("booking not found")
	}
	for _, day := range days {
		if owner, taken := r.occupancy[occKey(b.PropertyID, day)]; taken && owner != b.ID {
			return bookingRepo.ErrDayConflict
		}
	}
	r.freeOccupancy(b.ID)
	for _, day := range days {
		r.occupancy[occKey(b.PropertyID, day)] = b.ID
	}
	cp := *b
	r.bookings[b.ID] = &cp
	if c, ok := r.commissions[b.ID]; ok {
		c.Amount = b.CommissionAmount
	}
	return nil
}

func (r *fakeBookingRepo) DeleteWithCommission(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bookings, id)
	delete(r.commissions, id)
	r.freeOccupancy(id)
	return nil
}

func (r *fakeBookingRepo) ListExpiredPending(ctx context.Context, olderThan time.Time) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.Status == models.BookingPendingPayment && b.CreatedAt.Before(olderThan) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) ListCompletable(ctx context.Context, beforeDay string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.Status == models.BookingBooked && b.CheckOut < beforeDay {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) freeOccupancy(bookingID string) {
	for key, owner := range r.occupancy {
		if owner == bookingID {
			delete(r.occupancy, key)
		}
	}
}

type fakePropertyRepo struct {
	properties map[string]*models.Property
	agents     map[string]*models.Agent
}

func newFakePropertyRepo() *fakePropertyRepo {
	return &fakePropertyRepo{
		properties: make(map[string]*models.Property),
		agents:     make(map[string]*models.Agent),
	}
}

func (r *fakePropertyRepo) GetPropertyByID(ctx context.Context, id string) (*models.Property, error) {
	return r.properties[id], nil
}

func (r *fakePropertyRepo) GetAgentByID(ctx context.Context, id string) (*models.Agent, error) {
	return r.agents[id], nil
}

type fakeBlockedRepo struct {
	holds []models.Blocked
}

func (r *fakeBlockedRepo) Create(ctx context.Context, b *models.Blocked) error {
	r.holds = append(r.holds, *b)
	return nil
}

func (r *fakeBlockedRepo) Delete(ctx context.Context, id string) (*models.Blocked, error) {
	for i, h := range r.holds {
		if h.ID == id {
			cp := h
			r.holds = append(r.holds[:i], r.holds[i+1:]...)
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeBlockedRepo) ListOverlapping(ctx context.Context, propertyID, from, to string) ([]models.Blocked, error) {
	var out []models.Blocked
	for _, h := range r.holds {
		if h.PropertyID != propertyID {
			continue
		}
		if from != "" && h.End < from {
			continue
		}
		if to != "" && h.Start > to {
			continue
		}
		out = append(out, h)
	}
	return out, nil
}

// fakeLinker stands in for the payment service.
type fakeLinker struct {
	failCreate bool
	created    []string // booking ids
	cancelled  []string // link ids
}

func (l *fakeLinker) CreateLink(ctx context.Context, b *models.Booking, p *models.Property) (*models.PaymentLink, error) {
	if l.failCreate {
		return nil, errors.New("gateway down")
	}
	l.created = append(l.created, b.ID)
	return &models.PaymentLink{
		ID:         "link-" + b.ID,
		BookingID:  b.ID,
		Reference:  "ref-" + b.ID,
		PaymentURL: "https://pay.example/" + b.ID,
		Status:     models.LinkActive,
		ExpiresAt:  time.Now().Add(30 * time.Minute),
	}, nil
}

func (l *fakeLinker) CancelLink(ctx context.Context, linkID string) error {
	l.cancelled = append(l.cancelled, linkID)
	return nil
}

type fakeDispatcher struct {
	sent []models.Notification
}

func (d *fakeDispatcher) Dispatch(ctx context.Context, n models.Notification) error {
	d.sent = append(d.sent, n)
	return nil
}

func (d *fakeDispatcher) Close() error { return nil }
