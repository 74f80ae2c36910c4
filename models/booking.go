package models

import "time"

// BookingStatus enumerates the booking lifecycle states.
type BookingStatus string

const (
	BookingPendingPayment BookingStatus = "PendingPayment"
	BookingBooked         BookingStatus = "Booked"
	BookingCompleted      BookingStatus = "Completed"
	BookingCancelled      BookingStatus = "Cancelled"
)

// Booking represents a short-let reservation made by an agent on behalf of a client.
// All money fields are snapshotted at creation time and are never recomputed from
// current property or agent settings, except on an explicit date edit.
type Booking struct {
	ID          string `bson:"id" json:"id"`
	PropertyID  string `bson:"property_id" json:"property_id"`
	AgentID     string `bson:"agent_id" json:"agent_id"`
	ClientEmail string `bson:"client_email" json:"client_email"`

	CheckIn  string `bson:"check_in" json:"check_in"`   // "YYYY-MM-DD"
	CheckOut string `bson:"check_out" json:"check_out"` // "YYYY-MM-DD"
	Nights   int    `bson:"nights" json:"nights"`

	NightlyRate      float64 `bson:"nightly_rate" json:"nightly_rate"`
	CleaningFee      float64 `bson:"cleaning_fee" json:"cleaning_fee"`
	TotalAmount      float64 `bson:"total_amount" json:"total_amount"`
	CommissionRate   float64 `bson:"commission_rate" json:"commission_rate"` // percent
	CommissionAmount float64 `bson:"commission_amount" json:"commission_amount"`

	Status BookingStatus `bson:"status" json:"status"`

	PaymentLinkID     string    `bson:"payment_link_id,omitempty" json:"payment_link_id,omitempty"`
	PaymentURL        string    `bson:"payment_url,omitempty" json:"payment_url,omitempty"`
	PaymentID         string    `bson:"payment_id,omitempty" json:"payment_id,omitempty"`
	PaymentLinkExpiry time.Time `bson:"payment_link_expiry,omitempty" json:"payment_link_expiry,omitempty"`

	// CancelledBy is nil for system-initiated cancellations.
	CancelledAt *time.Time `bson:"cancelled_at,omitempty" json:"cancelled_at,omitempty"`
	CancelledBy *string    `bson:"cancelled_by,omitempty" json:"cancelled_by,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Terminal reports whether the booking can no longer change state.
func (b *Booking) Terminal() bool {
	return b.Status == BookingCompleted || b.Status == BookingCancelled
}

// Occupancy is a per-day claim on a property, one document per calendar day a
// blocking booking covers. A unique index on (property_id, day) turns two
// concurrent inserts for overlapping dates into a duplicate-key failure.
type Occupancy struct {
	PropertyID string `bson:"property_id" json:"property_id"`
	Day        string `bson:"day" json:"day"` // "YYYY-MM-DD"
	BookingID  string `bson:"booking_id" json:"booking_id"`
}

// DateRange is a contiguous unavailable window returned by availability queries.
type DateRange struct {
	Start  string `bson:"start" json:"start"`
	End    string `bson:"end" json:"end"`
	Status string `bson:"status" json:"status"`
}
