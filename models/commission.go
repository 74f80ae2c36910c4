package models

import "time"

// CommissionStatus advances forward only: PendingPayout -> Requested -> Paid.
type CommissionStatus string

const (
	CommissionPendingPayout CommissionStatus = "PendingPayout"
	CommissionRequested     CommissionStatus = "Requested"
	CommissionPaid          CommissionStatus = "Paid"
)

// Commission is the agent's earning on a booking, created atomically with the
// booking and deleted when the booking is cancelled. Its amount stays in
// lockstep with the booking's commission_amount.
type Commission struct {
	ID        string `bson:"id" json:"id"`
	BookingID string `bson:"booking_id" json:"booking_id"`
	AgentID   string `bson:"agent_id" json:"agent_id"`

	Amount float64          `bson:"amount" json:"amount"`
	Status CommissionStatus `bson:"status" json:"status"`

	PayoutRequestID string `bson:"payout_request_id,omitempty" json:"payout_request_id,omitempty"`

	PaidAt           *time.Time `bson:"paid_at,omitempty" json:"paid_at,omitempty"`
	PaidBy           *string    `bson:"paid_by,omitempty" json:"paid_by,omitempty"`
	PaymentMethod    string     `bson:"payment_method,omitempty" json:"payment_method,omitempty"`
	PaymentReference string     `bson:"payment_reference,omitempty" json:"payment_reference,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// PayoutRequestStatus for agent withdrawal requests.
type PayoutRequestStatus string

const (
	PayoutPending PayoutRequestStatus = "Pending"
	PayoutPaid    PayoutRequestStatus = "Paid"
)

// PayoutRequest aggregates an agent's pending commissions into a single
// withdrawal request.
type PayoutRequest struct {
	ID      string `bson:"id" json:"id"`
	AgentID string `bson:"agent_id" json:"agent_id"`

	Amount        float64  `bson:"amount" json:"amount"`
	CommissionIDs []string `bson:"commission_ids" json:"commission_ids"`

	Status PayoutRequestStatus `bson:"status" json:"status"`

	PaidAt           *time.Time `bson:"paid_at,omitempty" json:"paid_at,omitempty"`
	PaidBy           *string    `bson:"paid_by,omitempty" json:"paid_by,omitempty"`
	PaymentMethod    string     `bson:"payment_method,omitempty" json:"payment_method,omitempty"`
	PaymentReference string     `bson:"payment_reference,omitempty" json:"payment_reference,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
