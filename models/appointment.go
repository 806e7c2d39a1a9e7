package models

import "time"

// Appointment statuses.
const (
	AppointmentBooked    = "booked"
	AppointmentCancelled = "cancelled"
)

// Appointment is a confirmed claim on a slot.
type Appointment struct {
	ID              string    `bson:"id" json:"id"`
	Reference       string    `bson:"reference" json:"reference"` // human booking reference, e.g. "B042"
	UserID          string    `bson:"user_id" json:"user_id"`
	ProviderID      string    `bson:"provider_id" json:"provider_id"`
	SlotID          string    `bson:"slot_id" json:"slot_id"`
	Start           time.Time `bson:"start" json:"start"`
	DurationMinutes int       `bson:"duration_minutes" json:"duration_minutes"`
	Status          string    `bson:"status" json:"status"` // "booked" or "cancelled"
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
}
