package models

import "time"

// Slot is a discrete, fixed-duration bookable unit derived from an
// AvailabilityWindow. Once persisted, a slot is claimable exactly once:
// booking flips Available to false atomically.
type Slot struct {
	ID              string    `bson:"id" json:"id"`
	ProviderID      string    `bson:"provider_id" json:"provider_id"`
	Start           time.Time `bson:"start" json:"start"`
	End             time.Time `bson:"end" json:"end"`
	DurationMinutes int       `bson:"duration_minutes" json:"duration_minutes"`
	Available       bool      `bson:"available" json:"available"`
}

// ScoredSlot pairs a slot with a request-specific ranking value in [0,1].
// Scores are derived per request and never persisted.
type ScoredSlot struct {
	Slot  Slot    `json:"slot"`
	Score float64 `json:"score"`
}
