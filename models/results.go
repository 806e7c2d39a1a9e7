package models

// BookingDetails carries the human-readable facts of a confirmed booking,
// for confirmation screens, mail, and spoken responses.
type BookingDetails struct {
	Reference string `json:"reference"`
	Provider  string `json:"provider"`
	Date      string `json:"date"` // "2006-01-02"
	Time      string `json:"time"` // "03:04 PM"
}

// BookingResult is returned by the booking engine. Failure is reported
// through Success and Message, never through an error.
type BookingResult struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Details *BookingDetails `json:"details,omitempty"`
}

// SuggestionResult is the outcome of a slot search: either a satisfying slot
// (Available true) or up to five alternatives ordered by start time.
type SuggestionResult struct {
	Available    bool        `json:"available"`
	Slot         *ScoredSlot `json:"slot,omitempty"`
	Message      string      `json:"message"`
	Alternatives []Slot      `json:"alternatives"`
}

// Interpretation is the outcome of extracting booking fields from an
// utterance. On failure, Message holds a prompt for the missing field.
type Interpretation struct {
	Success  bool   `json:"success"`
	Provider string `json:"provider,omitempty"`
	Date     string `json:"date,omitempty"` // keyword or "2006-01-02"
	Time     string `json:"time,omitempty"` // band name or clock phrase
	Message  string `json:"message,omitempty"`
}
