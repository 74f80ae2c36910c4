package models

import "time"

// Property is the read model the booking core needs. Property CRUD lives in
// another service; only lookups happen here.
type Property struct {
	ID      string `bson:"id" json:"id"`
	AgentID string `bson:"agent_id" json:"agent_id"`
	Name    string `bson:"name" json:"name"`

	NightlyRate float64 `bson:"nightly_rate" json:"nightly_rate"`
	CleaningFee float64 `bson:"cleaning_fee" json:"cleaning_fee"`

	// CommissionRate in percent; zero means the property carries no override
	// and the global default applies.
	CommissionRate float64 `bson:"commission_rate,omitempty" json:"commission_rate,omitempty"`

	City    string `bson:"city,omitempty" json:"city,omitempty"`
	Address string `bson:"address,omitempty" json:"address,omitempty"`
}

// Agent is the read model for the booking agent who owns bookings and earns
// commissions.
type Agent struct {
	ID    string `bson:"id" json:"id"`
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`

	// CommissionRate in percent; nil means no per-agent override.
	CommissionRate *float64 `bson:"commission_rate,omitempty" json:"commission_rate,omitempty"`
}

// Blocked is an administrative hold on a property's calendar. Start == End is
// a valid single-day hold.
type Blocked struct {
	ID         string `bson:"id" json:"id"`
	PropertyID string `bson:"property_id" json:"property_id"`
	Start      string `bson:"start" json:"start"` // "YYYY-MM-DD"
	End        string `bson:"end" json:"end"`     // "YYYY-MM-DD"
	Reason     string `bson:"reason,omitempty" json:"reason,omitempty"`
	CreatedBy  string `bson:"created_by" json:"created_by"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
