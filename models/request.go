package models

import "time"

// BookingRequest is a transient candidate used when reconciling a batch of
// pending requests against each other. Higher Priority wins a conflict.
type BookingRequest struct {
	ID         string    `json:"id,omitempty"`
	ProviderID string    `json:"provider_id"`
	UserEmail  string    `json:"user_email,omitempty"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Priority   int       `json:"priority"`
}
