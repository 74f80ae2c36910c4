package handlers

import (
	"io"
	"net/http"

	"shortlet/services/payment"
	"shortlet/utils"

	"github.com/gin-gonic/gin"
)

// PaymentHandler exposes the gateway callback and webhook surfaces.
type PaymentHandler struct {
	Service *payment.DefaultPaymentService
}

func NewPaymentHandler(svc *payment.DefaultPaymentService) *PaymentHandler {
	return &PaymentHandler{Service: svc}
}

// VerifyCallback is the redirect target after checkout. It verifies the
// transaction with the gateway and confirms the booking on success.
func (h *PaymentHandler) VerifyCallback(c *gin.Context) {
	reference := c.Query("reference")
	if reference == "" {
		utils.JSONError(c, http.StatusBadRequest, "missing reference", "")
		return
	}

	result, err := h.Service.Verify(c.Request.Context(), reference)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

// Webhook receives gateway events. The signature covers the exact raw body,
// so the payload is read before any binding.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "unreadable body", "")
		return
	}

	signature := c.GetHeader("X-Gateway-Signature")
	if err := h.Service.HandleWebhook(c.Request.Context(), signature, body); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *PaymentHandler) GetPayment(c *gin.Context) {
	p, err := h.Service.GetPayment(c.Request.Context(), c.Param("reference"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": p})
}
