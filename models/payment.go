package models

import "time"

// PaymentLinkStatus tracks the gateway-side charge link.
type PaymentLinkStatus string

const (
	LinkActive    PaymentLinkStatus = "active"
	LinkSettled   PaymentLinkStatus = "settled"
	LinkCancelled PaymentLinkStatus = "cancelled"
	LinkExpired   PaymentLinkStatus = "expired"
)

// PaymentLink is the payment service's record of a checkout link issued for a
// booking. The booking side keeps only the id/url; this document is the
// authoritative mirror.
type PaymentLink struct {
	ID        string `bson:"id" json:"id"`
	BookingID string `bson:"booking_id" json:"booking_id"`
	Reference string `bson:"reference" json:"reference"` // gateway correlation reference

	Amount      float64 `bson:"amount" json:"amount"`
	ClientEmail string  `bson:"client_email" json:"client_email"`

	PropertyName string `bson:"property_name" json:"property_name"`
	CheckIn      string `bson:"check_in" json:"check_in"`
	CheckOut     string `bson:"check_out" json:"check_out"`

	PaymentURL string            `bson:"payment_url" json:"payment_url"`
	Status     PaymentLinkStatus `bson:"status" json:"status"`
	ExpiresAt  time.Time         `bson:"expires_at" json:"expires_at"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// PaymentStatus for the settled charge record.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentSuccess PaymentStatus = "Success"
	PaymentFailed  PaymentStatus = "Failed"
)

// Payment records the outcome of a gateway charge, keyed by reference. It is
// written by the verify path and by the webhook, whichever lands first.
type Payment struct {
	ID        string `bson:"id" json:"id"`
	Reference string `bson:"reference" json:"reference"`
	BookingID string `bson:"booking_id" json:"booking_id"`

	Amount        float64       `bson:"amount" json:"amount"`
	Status        PaymentStatus `bson:"status" json:"status"`
	GatewayStatus string        `bson:"gateway_status,omitempty" json:"gateway_status,omitempty"`
	Channel       string        `bson:"channel,omitempty" json:"channel,omitempty"`

	PaidAt *time.Time `bson:"paid_at,omitempty" json:"paid_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// VerifyResult is returned to the client-initiated verification callback.
type VerifyResult struct {
	Success       bool       `json:"success"`
	Reference     string     `json:"reference"`
	GatewayStatus string     `json:"gateway_status"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
}
