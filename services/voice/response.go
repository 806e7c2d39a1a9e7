package voice

import (
	"fmt"
	"strings"
	"time"

	"slotline/models"
)

// SpeakTime formats an instant for natural speech.
func SpeakTime(t time.Time) string {
	return t.Format("03:04 PM on Monday, January 2")
}

// AvailabilityResponse phrases a suggestion result as a spoken sentence.
// Alternatives are numbered so the caller can answer with "book slot 2".
func AvailabilityResponse(result models.SuggestionResult, providerName string) string {
	if result.Available && result.Slot != nil {
		return fmt.Sprintf("Yes, I found an available slot with %s at %s. Would you like me to book this for you?",
			providerName, SpeakTime(result.Slot.Slot.Start))
	}

	var sb strings.Builder
	sb.WriteString("I'm sorry, but that slot isn't available. ")
	if len(result.Alternatives) > 0 {
		sb.WriteString("Here are some alternative times: ")
		for i, slot := range result.Alternatives {
			sb.WriteString(fmt.Sprintf("%d. %s, ", i+1, SpeakTime(slot.Start)))
		}
		sb.WriteString("To book one, just say its number, for example 'book slot 1'.")
	} else {
		sb.WriteString("There are no alternative slots available. Would you like to try a different date?")
	}
	return sb.String()
}

// BookingResponse phrases a booking result as a spoken sentence.
func BookingResponse(result models.BookingResult) string {
	if result.Success && result.Details != nil {
		return fmt.Sprintf("Great! I've booked your appointment with %s on %s at %s. Your booking reference is %s. I'll send you an email confirmation shortly.",
			result.Details.Provider, result.Details.Date, result.Details.Time, result.Details.Reference)
	}
	return "I apologize, but I couldn't book that appointment. " + result.Message
}

// HelpResponse lists what the assistant understands.
func HelpResponse() string {
	return `I can help you with:
1. Booking appointments (e.g., 'book an appointment with Dr. Smith tomorrow morning')
2. Cancelling appointments (e.g., 'cancel booking B001')
3. Checking booking status (e.g., 'what's the status of booking B001')
4. Finding available slots (e.g., 'show available slots for Dr. Smith on 2024-03-20')
Please let me know what you'd like to do.`
}
