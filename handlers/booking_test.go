package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shortlet/middleware"
	"shortlet/models"
	"shortlet/services/booking"
	"shortlet/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// stubBookingService lets each test plug in just the operation it exercises.
type stubBookingService struct {
	createFn  func(ctx context.Context, req booking.CreateBookingRequest) (*booking.CreateBookingResult, error)
	getFn     func(ctx context.Context, id string) (*models.Booking, error)
	confirmFn func(ctx context.Context, bookingID, paymentID string) error
}

func (s *stubBookingService) CreateBooking(ctx context.Context, req booking.CreateBookingRequest) (*booking.CreateBookingResult, error) {
	return s.createFn(ctx, req)
}

func (s *stubBookingService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	return s.getFn(ctx, id)
}

func (s *stubBookingService) ConfirmPayment(ctx context.Context, bookingID, paymentID string) error {
	return s.confirmFn(ctx, bookingID, paymentID)
}

func (s *stubBookingService) ListAgentBookings(ctx context.Context, agentID string) ([]models.Booking, error) {
	return nil, nil
}

func (s *stubBookingService) ListPropertyBookings(ctx context.Context, propertyID string) ([]models.Booking, error) {
	return nil, nil
}

func (s *stubBookingService) CancelBooking(ctx context.Context, bookingID string, actor *booking.Actor) (*models.Booking, error) {
	return nil, nil
}

func (s *stubBookingService) UpdateBooking(ctx context.Context, bookingID string, patch booking.UpdateBookingPatch, actor *booking.Actor) (*models.Booking, error) {
	return nil, nil
}

func (s *stubBookingService) IsRangeFree(ctx context.Context, propertyID, checkIn, checkOut string) (bool, error) {
	return true, nil
}

func (s *stubBookingService) UnavailableDates(ctx context.Context, propertyID, from, to string) ([]string, error) {
	return nil, nil
}

func (s *stubBookingService) UnavailableRanges(ctx context.Context, propertyID, from, to string) ([]models.DateRange, error) {
	return nil, nil
}

func (s *stubBookingService) AddBlockedDates(ctx context.Context, req booking.BlockRequest, actor *booking.Actor) (*models.Blocked, error) {
	return nil, nil
}

func (s *stubBookingService) RemoveBlockedDates(ctx context.Context, blockID string, actor *booking.Actor) error {
	return nil
}

func (s *stubBookingService) AutoExpirePending(ctx context.Context) (int, error) { return 0, nil }
func (s *stubBookingService) AutoCompletePast(ctx context.Context) (int, error)  { return 0, nil }

// fakeAuth stands in for the JWT middleware in handler tests.
func fakeAuth(id, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CtxActorID, id)
		c.Set(middleware.CtxActorRole, role)
		c.Next()
	}
}

func newBookingRouter(svc booking.BookingService, actorID, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewBookingHandler(svc)
	r := gin.New()
	r.POST("/bookings", fakeAuth(actorID, role), h.CreateBooking)
	r.GET("/bookings/:bookingID", h.GetBooking)
	r.POST("/bookings/:bookingID/confirm", h.ConfirmPayment)
	return r
}

func TestCreateBookingHandler(t *testing.T) {
	svc := &stubBookingService{
		createFn: func(ctx context.Context, req booking.CreateBookingRequest) (*booking.CreateBookingResult, error) {
			assert.Equal(t, "agent-1", req.AgentID)
			return &booking.CreateBookingResult{
				Booking:    &models.Booking{ID: "bk-1", Status: models.BookingPendingPayment},
				PaymentURL: "https://pay.example/bk-1",
			}, nil
		},
	}
	r := newBookingRouter(svc, "agent-1", "agent")

	body := `{"property_id":"prop-1","check_in":"2025-06-10","check_out":"2025-06-12","client_email":"c@example.com"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "https://pay.example/bk-1")
}

func TestCreateBookingHandlerRejectsBadInput(t *testing.T) {
	svc := &stubBookingService{}
	r := newBookingRouter(svc, "agent-1", "agent")

	// Missing check_out and a malformed email never reach the service.
	body := `{"property_id":"prop-1","check_in":"2025-06-10","client_email":"not-an-email"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlerErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", utils.NewValidationError("bad dates"), http.StatusBadRequest},
		{"conflict", utils.NewConflictError("dates taken"), http.StatusConflict},
		{"not found", utils.NewNotFoundError("no booking"), http.StatusNotFound},
		{"forbidden", utils.NewForbiddenError("not yours"), http.StatusForbidden},
		{"upstream", utils.NewUpstreamError("gateway down", nil), http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubBookingService{
				getFn: func(ctx context.Context, id string) (*models.Booking, error) {
					return nil, tt.err
				},
			}
			r := newBookingRouter(svc, "agent-1", "agent")

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/bookings/bk-1", nil)
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestConfirmPaymentHandler(t *testing.T) {
	var got string
	svc := &stubBookingService{
		confirmFn: func(ctx context.Context, bookingID, paymentID string) error {
			got = bookingID + "/" + paymentID
			return nil
		},
	}
	r := newBookingRouter(svc, "", "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bookings/bk-1/confirm",
		strings.NewReader(`{"payment_id":"pay-9"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "bk-1/pay-9", got)
}
