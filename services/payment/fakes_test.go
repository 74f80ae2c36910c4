package payment

import (
	"context"
	"errors"
	"time"

	"shortlet/models"
)

type fakePaymentRepo struct {
	links    map[string]*models.PaymentLink // by id
	payments map[string]*models.Payment     // by reference
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{
		links:    make(map[string]*models.PaymentLink),
		payments: make(map[string]*models.Payment),
	}
}

func (r *fakePaymentRepo) CreateLink(ctx context.Context, link *models.PaymentLink) error {
	cp := *link
	r.links[link.ID] = &cp
	return nil
}

func (r *fakePaymentRepo) GetLinkByID(ctx context.Context, id string) (*models.PaymentLink, error) {
	l, ok := r.links[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (r *fakePaymentRepo) GetLinkByReference(ctx context.Context, reference string) (*models.PaymentLink, error) {
	for _, l := range r.links {
		if l.Reference == reference {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakePaymentRepo) GetActiveLinkByBooking(ctx context.Context, bookingID string) (*models.PaymentLink, error) {
	for _, l := range r.links {
		if l.BookingID == bookingID && l.Status == models.LinkActive {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakePaymentRepo) CancelLink(ctx context.Context, id string) (bool, error) {
	l, ok := r.links[id]
	if !ok || l.Status != models.LinkActive {
		return false, nil
	}
	l.Status = models.LinkCancelled
	return true, nil
}

func (r *fakePaymentRepo) SettleLink(ctx context.Context, reference string) error {
	for _, l := range r.links {
		if l.Reference == reference {
			l.Status = models.LinkSettled
			return nil
		}
	}
	return errors.New("link not found")
}

func (r *fakePaymentRepo) UpsertSuccess(ctx context.Context, p *models.Payment) error {
	if existing, ok := r.payments[p.Reference]; ok {
		existing.UpdatedAt = time.Now()
		return nil
	}
	cp := *p
	r.payments[p.Reference] = &cp
	return nil
}

func (r *fakePaymentRepo) GetPaymentByReference(ctx context.Context, reference string) (*models.Payment, error) {
	p, ok := r.payments[reference]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

type fakeGateway struct {
	initErr    error
	verifyData *VerifyData
	verifyErr  error
	initCalls  int
}

func (g *fakeGateway) Initialize(ctx context.Context, req InitializeRequest) (*InitializeData, error) {
	g.initCalls++
	if g.initErr != nil {
		return nil, g.initErr
	}
	return &InitializeData{
		AuthorizationURL: "https://checkout.example/" + req.Reference,
		AccessCode:       "code-" + req.Reference,
		Reference:        req.Reference,
	}, nil
}

func (g *fakeGateway) Verify(ctx context.Context, reference string) (*VerifyData, error) {
	if g.verifyErr != nil {
		return nil, g.verifyErr
	}
	return g.verifyData, nil
}

type fakeDispatcher struct {
	sent []models.Notification
}

func (d *fakeDispatcher) Dispatch(ctx context.Context, n models.Notification) error {
	d.sent = append(d.sent, n)
	return nil
}

func (d *fakeDispatcher) Close() error { return nil }

type fakeConfirmer struct {
	err   error
	calls []string // "bookingID/paymentID"
}

func (c *fakeConfirmer) ConfirmPayment(ctx context.Context, bookingID, paymentID string) error {
	c.calls = append(c.calls, bookingID+"/"+paymentID)
	return c.err
}
