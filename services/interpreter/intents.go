package interpreter

import (
	"regexp"
	"strings"
)

// Intent classifies what a command utterance asks for.
type Intent string

const (
	// IntentBook requests a new appointment.
	IntentBook Intent = "book"
	// IntentCancel cancels an existing booking by reference.
	IntentCancel Intent = "cancel"
	// IntentStatus asks for the status of a booking by reference.
	IntentStatus Intent = "status"
	// IntentAvailability asks for a provider's open slots on a date.
	IntentAvailability Intent = "availability"
	// IntentSummary asks for overall booking counts.
	IntentSummary Intent = "summary"
	// IntentUnknown is anything the keyword triggers don't cover.
	IntentUnknown Intent = "unknown"
)

var (
	referenceRe     = regexp.MustCompile(`[A-Z]\d{3,}`)
	isoDateRe       = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	clockTimeRe     = regexp.MustCompile(`(?i)\d{1,2}(:\d{2})?\s*(am|pm)`)
	providerTitleRe = regexp.MustCompile(`(?i)(?:with|for)\s+((?:dr|ms)\.?\s*\w+)`)
)

// ClassifyIntent matches the utterance against independent keyword triggers.
// Categories are mutually exclusive; the first trigger that fires wins.
func ClassifyIntent(text string) Intent {
	text = strings.ToLower(text)
	switch {
	case strings.Contains(text, "cancel"):
		return IntentCancel
	case strings.Contains(text, "status"):
		return IntentStatus
	case strings.Contains(text, "available") && strings.Contains(text, "slot"):
		return IntentAvailability
	case strings.Contains(text, "appointments") || strings.Contains(text, "bookings"):
		return IntentSummary
	case strings.Contains(text, "book") || strings.Contains(text, "schedule"):
		return IntentBook
	default:
		return IntentUnknown
	}
}

// ExtractBookingReference finds a booking reference like "B001".
func ExtractBookingReference(text string) (string, bool) {
	m := referenceRe.FindString(strings.ToUpper(text))
	return m, m != ""
}

// ExtractISODate finds a "2006-01-02" date mention.
func ExtractISODate(text string) (string, bool) {
	m := isoDateRe.FindString(text)
	return m, m != ""
}

// ExtractClockTime finds an explicit clock mention like "10:00 AM".
func ExtractClockTime(text string) (string, bool) {
	m := clockTimeRe.FindString(text)
	return m, m != ""
}

// ExtractProviderTitle finds a titled provider mention ("with Dr. Smith")
// and returns it in canonical "Dr. Smith" form.
func ExtractProviderTitle(text string) (string, bool) {
	m := providerTitleRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return canonicalTitle(m[1]), true
}

// canonicalTitle normalizes spacing, punctuation and case of a titled name
// fragment: "dr  smith" -> "Dr. Smith".
func canonicalTitle(fragment string) string {
	fields := strings.Fields(strings.ToLower(fragment))
	if len(fields) < 2 {
		return capitalize(fragment)
	}
	title := strings.TrimSuffix(fields[0], ".")
	return capitalize(title) + ". " + capitalize(fields[1])
}
