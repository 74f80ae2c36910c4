package handlers

import (
	"net/http"

	"shortlet/middleware"
	"shortlet/services/payout"
	"shortlet/utils"

	"github.com/gin-gonic/gin"
)

// PayoutHandler exposes commission payout requests and settlement.
type PayoutHandler struct {
	Service payout.PayoutService
}

func NewPayoutHandler(svc payout.PayoutService) *PayoutHandler {
	return &PayoutHandler{Service: svc}
}

// RequestPayout bundles the caller's pending commissions into one request.
func (h *PayoutHandler) RequestPayout(c *gin.Context) {
	agentID := c.GetString(middleware.CtxActorID)
	if agentID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	req, err := h.Service.RequestPayout(c.Request.Context(), agentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"payout_request": req})
}

// MarkPaid records an off-platform settlement of a payout request.
func (h *PayoutHandler) MarkPaid(c *gin.Context) {
	var input struct {
		Method    string `json:"method" binding:"required"`
		Reference string `json:"reference" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	if c.GetString(middleware.CtxActorRole) != "admin" {
		utils.JSONError(c, http.StatusForbidden, "admin only", "")
		return
	}

	req, err := h.Service.MarkPaid(c.Request.Context(), c.Param("payoutID"),
		c.GetString(middleware.CtxActorID), input.Method, input.Reference)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payout_request": req})
}

func (h *PayoutHandler) ListMyPayouts(c *gin.Context) {
	agentID := c.GetString(middleware.CtxActorID)
	if agentID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	payouts, err := h.Service.ListAgentPayouts(c.Request.Context(), agentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payouts": payouts})
}

func (h *PayoutHandler) ListPendingCommissions(c *gin.Context) {
	agentID := c.GetString(middleware.CtxActorID)
	if agentID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	commissions, err := h.Service.ListPendingCommissions(c.Request.Context(), agentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"commissions": commissions})
}
