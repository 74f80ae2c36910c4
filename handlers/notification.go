package handlers

import (
	"net/http"
	"strconv"

	notificationRepo "shortlet/database/repository/notification"
	"shortlet/middleware"
	"shortlet/utils"

	"github.com/gin-gonic/gin"
)

// NotificationHandler lets actors read their in-app notifications.
type NotificationHandler struct {
	Repo notificationRepo.NotificationRepository
}

func NewNotificationHandler(repo notificationRepo.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{Repo: repo}
}

func (h *NotificationHandler) ListMine(c *gin.Context) {
	actorID := c.GetString(middleware.CtxActorID)
	if actorID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	limit := int64(50)
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	items, err := h.Repo.ListByRecipient(c.Request.Context(), actorID, limit)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal error", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": items})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.Repo.MarkRead(c.Request.Context(), c.Param("notificationID")); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal error", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "read"})
}
