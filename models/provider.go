package models

import "time"

// Provider represents a service provider whose calendar can be booked.
type Provider struct {
	ID          string    `bson:"id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	ServiceType string    `bson:"service_type" json:"service_type"` // e.g., "general checkup", "dental"
	Email       string    `bson:"email,omitempty" json:"email,omitempty"`
	Phone       string    `bson:"phone,omitempty" json:"phone,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}
