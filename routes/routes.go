package routes

import (
	"net/http"
	"time"

	"shortlet/handlers"
	"shortlet/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes sets up the booking ledger endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.Use(middleware.RequireActor())
		api.POST("", hb.Booking.CreateBooking)
		api.GET("", hb.Booking.ListMyBookings)
		api.GET("/:bookingID", hb.Booking.GetBooking)
		api.PATCH("/:bookingID", hb.Booking.UpdateBooking)
		api.DELETE("/:bookingID", hb.Booking.CancelBooking)
	}
}

// RegisterAvailabilityRoutes sets up calendar lookups. These are public so
// listings can render availability without a session.
func RegisterAvailabilityRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/properties")
	{
		api.GET("/:propertyID/unavailable-dates", hb.Booking.UnavailableDates)
		api.GET("/:propertyID/unavailable-ranges", hb.Booking.UnavailableRanges)

		protected := api.Group("")
		protected.Use(middleware.RequireActor())
		protected.GET("/:propertyID/bookings", hb.Booking.ListPropertyBookings)
	}
}

// RegisterPaymentRoutes sets up the gateway-facing endpoints. The webhook
// authenticates with its HMAC signature, not a bearer token.
func RegisterPaymentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/payments")
	{
		api.GET("/verify", hb.Payment.VerifyCallback)
		api.POST("/webhook", hb.Payment.Webhook)

		protected := api.Group("")
		protected.Use(middleware.RequireActor())
		protected.GET("/:reference", hb.Payment.GetPayment)
	}
}

// RegisterPayoutRoutes sets up commission payout endpoints.
func RegisterPayoutRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/payouts")
	{
		api.Use(middleware.RequireActor())
		api.POST("/request", hb.Payout.RequestPayout)
		api.GET("", hb.Payout.ListMyPayouts)
		api.GET("/commissions/pending", hb.Payout.ListPendingCommissions)
		api.PUT("/:payoutID/paid", middleware.RequireAdmin(), hb.Payout.MarkPaid)
	}
}

// RegisterNotificationRoutes sets up in-app notification endpoints.
func RegisterNotificationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/notifications")
	{
		api.Use(middleware.RequireActor())
		api.GET("", hb.Notification.ListMine)
		api.PUT("/:notificationID/read", hb.Notification.MarkRead)
	}
}

// RegisterAdminRoutes sets up admin calendar management.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/admin")
	{
		api.Use(middleware.RequireActor(), middleware.RequireAdmin())
		api.POST("/blocked-dates", hb.Booking.BlockDates)
		api.DELETE("/blocked-dates/:blockID", hb.Booking.UnblockDates)
	}
}

// RegisterInternalRoutes sets up service-to-service endpoints.
func RegisterInternalRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/internal")
	{
		api.Use(middleware.RequireInternal())
		api.POST("/bookings/:bookingID/confirm-payment", hb.Booking.ConfirmPayment)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterBookingRoutes(r, hb)
	RegisterAvailabilityRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
	RegisterPayoutRoutes(r, hb)
	RegisterNotificationRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterInternalRoutes(r, hb)
}
