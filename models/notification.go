package models

import "time"

// Notification is a durable in-app notice for an agent or admin. Delivery
// transport (push, email, socket) is handled elsewhere; this record is what
// the dispatch worker persists.
type Notification struct {
	ID          string            `bson:"id" json:"id"`
	RecipientID string            `bson:"recipient_id" json:"recipient_id"`
	Type        string            `bson:"type" json:"type"` // e.g. "booking_confirmed"
	Message     string            `bson:"message" json:"message"`
	Data        map[string]string `bson:"data,omitempty" json:"data,omitempty"`
	Read        bool              `bson:"read" json:"read"`
	CreatedAt   time.Time         `bson:"created_at" json:"created_at"`
}
