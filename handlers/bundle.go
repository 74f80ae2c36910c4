package handlers

// HandlerBundle groups the HTTP handlers for route registration.
type HandlerBundle struct {
	Booking      *BookingHandler
	Payment      *PaymentHandler
	Payout       *PayoutHandler
	Notification *NotificationHandler
}
