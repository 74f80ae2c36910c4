package handlers

import (
	"net/http"

	"shortlet/middleware"
	"shortlet/services/booking"
	"shortlet/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler exposes the booking ledger over HTTP.
type BookingHandler struct {
	Service booking.BookingService
}

func NewBookingHandler(svc booking.BookingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

func actorFrom(c *gin.Context) *booking.Actor {
	id := c.GetString(middleware.CtxActorID)
	if id == "" {
		return nil
	}
	return &booking.Actor{ID: id, Role: c.GetString(middleware.CtxActorRole)}
}

// respondServiceError maps typed service errors onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		utils.JSONError(c, status, "internal error", "")
		return
	}
	utils.JSONError(c, status, err.Error(), "")
}

// CreateBooking reserves a property for a client and returns the booking
// together with the payment URL the client completes checkout on.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var input struct {
		PropertyID  string `json:"property_id" binding:"required"`
		CheckIn     string `json:"check_in" binding:"required"`
		CheckOut    string `json:"check_out" binding:"required"`
		ClientEmail string `json:"client_email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	actor := actorFrom(c)
	if actor == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	result, err := h.Service.CreateBooking(c.Request.Context(), booking.CreateBookingRequest{
		PropertyID:  input.PropertyID,
		AgentID:     actor.ID,
		ClientEmail: input.ClientEmail,
		CheckIn:     input.CheckIn,
		CheckOut:    input.CheckOut,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	b, err := h.Service.GetBooking(c.Request.Context(), c.Param("bookingID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	actor := actorFrom(c)
	if actor == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	bookings, err := h.Service.ListAgentBookings(c.Request.Context(), actor.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

func (h *BookingHandler) ListPropertyBookings(c *gin.Context) {
	bookings, err := h.Service.ListPropertyBookings(c.Request.Context(), c.Param("propertyID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

func (h *BookingHandler) CancelBooking(c *gin.Context) {
	b, err := h.Service.CancelBooking(c.Request.Context(), c.Param("bookingID"), actorFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	var input struct {
		ClientEmail *string `json:"client_email"`
		CheckIn     *string `json:"check_in"`
		CheckOut    *string `json:"check_out"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	patch := booking.UpdateBookingPatch{
		ClientEmail: input.ClientEmail,
		CheckIn:     input.CheckIn,
		CheckOut:    input.CheckOut,
	}
	b, err := h.Service.UpdateBooking(c.Request.Context(), c.Param("bookingID"), patch, actorFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

// ConfirmPayment is the internal endpoint the payment service calls.
// Confirming an already-confirmed booking is a success.
func (h *BookingHandler) ConfirmPayment(c *gin.Context) {
	var input struct {
		PaymentID string `json:"payment_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	if err := h.Service.ConfirmPayment(c.Request.Context(), c.Param("bookingID"), input.PaymentID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "confirmed"})
}

// UnavailableDates returns one entry per blocked calendar day for display.
func (h *BookingHandler) UnavailableDates(c *gin.Context) {
	days, err := h.Service.UnavailableDates(c.Request.Context(),
		c.Param("propertyID"), c.Query("from"), c.Query("to"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dates": days})
}

// UnavailableRanges returns the blocked windows as ordered ranges.
func (h *BookingHandler) UnavailableRanges(c *gin.Context) {
	ranges, err := h.Service.UnavailableRanges(c.Request.Context(),
		c.Param("propertyID"), c.Query("from"), c.Query("to"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ranges": ranges})
}

// BlockDates places an administrative hold on a property's calendar.
func (h *BookingHandler) BlockDates(c *gin.Context) {
	var input struct {
		PropertyID string `json:"property_id" binding:"required"`
		Start      string `json:"start" binding:"required"`
		End        string `json:"end" binding:"required"`
		Reason     string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	hold, err := h.Service.AddBlockedDates(c.Request.Context(), booking.BlockRequest{
		PropertyID: input.PropertyID,
		Start:      input.Start,
		End:        input.End,
		Reason:     input.Reason,
	}, actorFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"blocked": hold})
}

// UnblockDates lifts an administrative hold.
func (h *BookingHandler) UnblockDates(c *gin.Context) {
	if err := h.Service.RemoveBlockedDates(c.Request.Context(), c.Param("blockID"), actorFrom(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
