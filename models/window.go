package models

import "time"

// AvailabilityWindow is a contiguous block of time a provider has opened for
// bookings. Windows are created by schedule administration and are read-only
// to the booking engine; bookable slots are carved out of them.
type AvailabilityWindow struct {
	ID         string    `bson:"id" json:"id"`
	ProviderID string    `bson:"provider_id" json:"provider_id"`
	Start      time.Time `bson:"start" json:"start"`
	End        time.Time `bson:"end" json:"end"`
	Available  bool      `bson:"available" json:"available"`
}
