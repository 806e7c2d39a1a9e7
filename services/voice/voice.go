// Package voice turns transcripts into booking actions and speakable replies.
// It is transport-agnostic: speech-to-text happens upstream, text-to-speech
// downstream; this layer only ever sees and produces plain strings.
package voice

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"slotline/services/interpreter"
	"slotline/services/scheduling"
	"slotline/utils"
)

// slotSelectionRe matches a follow-up slot choice like "book slot 2",
// "number 1", or a bare "2". Anchored on the whole utterance so digits
// inside an unrelated command ("cancel booking B001") never read as a
// choice.
var slotSelectionRe = regexp.MustCompile(`^\s*(?:book\s+)?(?:slot|number|option)?\s*(\d+)\s*\.?\s*$`)

// declineWords end a pending slot choice without booking anything.
var declineWords = []string{"no", "nope", "nevermind", "never mind", "stop", "don't"}

func isDecline(text string) bool {
	text = strings.TrimSpace(strings.ToLower(text))
	for _, w := range declineWords {
		if text == w || strings.HasPrefix(text, w+" ") {
			return true
		}
	}
	return false
}

// CommandService handles one transcript turn of a voice conversation.
type CommandService interface {
	HandleTranscript(ctx context.Context, sessionID, userName, userEmail, transcript string) string
}

// DefaultCommandService is the production implementation.
type DefaultCommandService struct {
	Engine   scheduling.BookingEngine
	Sessions SessionStore
}

// HandleTranscript interprets the transcript and acts on it. The reply is
// always a speakable sentence; no transcript ever produces an error upward.
func (s *DefaultCommandService) HandleTranscript(ctx context.Context, sessionID, userName, userEmail, transcript string) string {
	logger := utils.GetLogger()

	if strings.TrimSpace(transcript) == "" {
		return "No speech detected. Please try again."
	}

	session, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		logger.Warn("voice: session load failed", zap.String("sessionID", sessionID), zap.Error(err))
		session = &Session{}
	}

	// A pending alternative list makes a slot-choice utterance book from it.
	// Anything else, a decline or a fresh command, abandons the pending
	// choice instead of being misread as one.
	if len(session.Alternatives) > 0 {
		if m := slotSelectionRe.FindStringSubmatch(strings.ToLower(transcript)); m != nil {
			selected, _ := strconv.Atoi(m[1])
			return s.bookFromAlternatives(ctx, sessionID, session, selected)
		}
		if err := s.Sessions.Clear(ctx, sessionID); err != nil {
			logger.Warn("voice: session clear failed", zap.String("sessionID", sessionID), zap.Error(err))
		}
		if isDecline(transcript) {
			return "Okay, I won't book anything. Is there something else I can help you with?"
		}
	}

	switch interpreter.ClassifyIntent(transcript) {
	case interpreter.IntentCancel:
		return s.handleCancel(transcript)
	case interpreter.IntentStatus:
		return s.handleStatus(transcript)
	case interpreter.IntentAvailability:
		return s.handleAvailability(transcript)
	case interpreter.IntentSummary:
		return s.handleSummary()
	case interpreter.IntentBook:
		return s.handleBooking(ctx, sessionID, userName, userEmail, transcript)
	default:
		return HelpResponse()
	}
}

func (s *DefaultCommandService) handleBooking(ctx context.Context, sessionID, userName, userEmail, transcript string) string {
	logger := utils.GetLogger()

	details := interpreter.Extract(transcript)
	if !details.Success {
		return details.Message
	}

	provider, err := s.Engine.ResolveProvider(details.Provider)
	if err != nil {
		logger.Error("voice: provider lookup failed", zap.String("provider", details.Provider), zap.Error(err))
		return "Sorry, there was an error processing your request. Please try again."
	}
	if provider == nil {
		return fmt.Sprintf("Sorry, I couldn't find %s in our system. Please check the name and try again.", details.Provider)
	}

	date, ok := interpreter.ResolveDate(details.Date, time.Now())
	if !ok {
		return "Sorry, I couldn't understand the date. Please try again."
	}

	result := s.Engine.SuggestSlots(provider.ID, date, details.Time)
	if result.Available && result.Slot != nil {
		booking := s.Engine.BookAppointment(userName, userEmail, provider.ID, result.Slot.Slot.ID)
		return BookingResponse(booking)
	}

	if len(result.Alternatives) > 0 {
		session := &Session{
			UserName:     userName,
			UserEmail:    userEmail,
			ProviderID:   provider.ID,
			Alternatives: result.Alternatives,
		}
		if err := s.Sessions.Set(ctx, sessionID, session); err != nil {
			logger.Warn("voice: session save failed", zap.String("sessionID", sessionID), zap.Error(err))
		}
	}
	return AvailabilityResponse(result, provider.Name)
}

func (s *DefaultCommandService) bookFromAlternatives(ctx context.Context, sessionID string, session *Session, selected int) string {
	logger := utils.GetLogger()

	if selected < 1 || selected > len(session.Alternatives) {
		return fmt.Sprintf("Please select a valid slot number between 1 and %d.", len(session.Alternatives))
	}

	slot := session.Alternatives[selected-1]
	booking := s.Engine.BookAppointment(session.UserName, session.UserEmail, session.ProviderID, slot.ID)

	if err := s.Sessions.Clear(ctx, sessionID); err != nil {
		logger.Warn("voice: session clear failed", zap.String("sessionID", sessionID), zap.Error(err))
	}

	if booking.Success {
		return fmt.Sprintf("Great! Your appointment is confirmed for %s. Your booking reference is %s.",
			s.Engine.FormatSlotSuggestion(slot), booking.Details.Reference)
	}
	return "Sorry, couldn't book the appointment: " + booking.Message
}

func (s *DefaultCommandService) handleCancel(transcript string) string {
	reference, ok := interpreter.ExtractBookingReference(transcript)
	if !ok {
		return "Please provide the booking number to cancel your appointment."
	}
	return s.Engine.CancelBooking(reference).Message
}

func (s *DefaultCommandService) handleStatus(transcript string) string {
	reference, ok := interpreter.ExtractBookingReference(transcript)
	if !ok {
		return "Please provide a booking number"
	}
	return s.Engine.BookingStatus(reference).Message
}

func (s *DefaultCommandService) handleAvailability(transcript string) string {
	logger := utils.GetLogger()

	providerName, okProvider := interpreter.ExtractProviderTitle(transcript)
	dateText, okDate := interpreter.ExtractISODate(transcript)
	if !okProvider || !okDate {
		return "Please specify the date and provider name to check available slots."
	}

	provider, err := s.Engine.ResolveProvider(providerName)
	if err != nil {
		logger.Error("voice: provider lookup failed", zap.String("provider", providerName), zap.Error(err))
		return "Sorry, there was an error processing your request. Please try again."
	}
	if provider == nil {
		return fmt.Sprintf("Sorry, I couldn't find %s in our system.", providerName)
	}

	date, _ := interpreter.ResolveDate(dateText, time.Now())
	slots, err := s.Engine.AvailableSlots(provider.ID, date)
	if err != nil {
		logger.Error("voice: slot listing failed", zap.String("providerID", provider.ID), zap.Error(err))
		return "Sorry, there was an error processing your request. Please try again."
	}
	if len(slots) == 0 {
		return fmt.Sprintf("No available slots found for %s with %s", dateText, provider.Name)
	}

	times := make([]string, len(slots))
	for i, slot := range slots {
		times[i] = slot.Start.Format("03:04 PM")
	}
	return fmt.Sprintf("Available slots for %s with %s are: %s", dateText, provider.Name, strings.Join(times, ", "))
}

func (s *DefaultCommandService) handleSummary() string {
	total, booked, err := s.Engine.BookingSummary()
	if err != nil {
		utils.GetLogger().Error("voice: summary failed", zap.Error(err))
		return "Sorry, there was an error processing your request. Please try again."
	}
	return fmt.Sprintf("There are %d total bookings, %d are confirmed", total, booked)
}
