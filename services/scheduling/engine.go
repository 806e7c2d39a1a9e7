package scheduling

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	providerRepo "slotline/database/repository/provider"
	scheduleRepo "slotline/database/repository/schedule"
	userRepo "slotline/database/repository/user"
	"slotline/models"
	"slotline/services/notification"
	"slotline/utils"
)

const (
	// matchThreshold is the minimum score (exclusive) for a scored slot to
	// count as satisfying the caller's preference.
	matchThreshold = 0.8
	// alternativeWindowDays bounds the fallback search, preferred date inclusive.
	alternativeWindowDays = 7
	// maxAlternatives caps the fallback list.
	maxAlternatives = 5
)

// ReminderScheduler schedules a reminder ahead of an appointment.
type ReminderScheduler interface {
	ScheduleReminder(email string, details models.BookingDetails, start time.Time) error
}

// BookingEngine turns booking requests into confirmed appointments or ranked
// alternatives. All operations report failure through their result values;
// returned errors are reserved for store faults.
type BookingEngine interface {
	PublishWindows(providerID string, windows []models.AvailabilityWindow) ([]models.Slot, error)
	PublishedWindows(providerID string, date time.Time) ([]models.AvailabilityWindow, error)
	ResolveProvider(name string) (*models.Provider, error)
	AvailableSlots(providerID string, date time.Time) ([]models.Slot, error)
	FindOptimalSlot(providerID string, date time.Time, preferredTime string) (*models.ScoredSlot, error)
	SuggestSlots(providerID string, date time.Time, preferredTime string) models.SuggestionResult
	BookAppointment(userName, userEmail, providerID, slotID string) models.BookingResult
	CancelBooking(reference string) models.BookingResult
	BookingStatus(reference string) models.BookingResult
	BookingSummary() (total int64, booked int64, err error)
	FormatSlotSuggestion(slot models.Slot) string
}

// DefaultBookingEngine is the production implementation.
type DefaultBookingEngine struct {
	Providers           providerRepo.ProviderRepository
	Users               userRepo.UserRepository
	Schedule            scheduleRepo.ScheduleRepository
	Notifier            notification.NotificationService
	Reminders           ReminderScheduler
	SlotDurationMinutes int
}

// PublishWindows records a provider's availability windows and persists the
// slots carved from them as claimable units.
func (e *DefaultBookingEngine) PublishWindows(providerID string, windows []models.AvailabilityWindow) ([]models.Slot, error) {
	if e.SlotDurationMinutes <= 0 {
		return nil, NewBookingError("slot duration is not configured")
	}
	for i := range windows {
		if !windows[i].End.After(windows[i].Start) {
			return nil, NewBookingError("window end must be after its start")
		}
	}
	for i := range windows {
		windows[i].ID = uuid.NewString()
		windows[i].ProviderID = providerID
		if err := e.Schedule.CreateWindow(&windows[i]); err != nil {
			return nil, err
		}
	}

	slots := DeriveSlots(windows, e.SlotDurationMinutes, time.Now())
	for i := range slots {
		slots[i].ID = uuid.NewString()
	}
	if err := e.Schedule.InsertSlots(slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// PublishedWindows lists a provider's availability windows for a day.
func (e *DefaultBookingEngine) PublishedWindows(providerID string, date time.Time) ([]models.AvailabilityWindow, error) {
	return e.Schedule.ListWindows(providerID, date)
}

// providerCacheTTL bounds staleness of cached name lookups. Voice turns
// resolve the same provider repeatedly within a conversation.
const providerCacheTTL = 10 * time.Minute

// ResolveProvider finds a provider by (partial, case-insensitive) name.
// A nil provider with nil error means no match. Hits are cached; a cache
// fault falls through to the repository.
func (e *DefaultBookingEngine) ResolveProvider(name string) (*models.Provider, error) {
	ctx := context.Background()
	key := "provider:name:" + strings.ToLower(strings.TrimSpace(name))

	cache := utils.GetCacheClient()
	if data, err := cache.Get(ctx, key).Result(); err == nil {
		var provider models.Provider
		if json.Unmarshal([]byte(data), &provider) == nil {
			return &provider, nil
		}
	}

	provider, err := e.Providers.FindByName(name)
	if err != nil || provider == nil {
		return provider, err
	}
	if data, err := json.Marshal(provider); err == nil {
		cache.Set(ctx, key, data, providerCacheTTL)
	}
	return provider, nil
}

// AvailableSlots lists a provider's unclaimed slots for a day.
func (e *DefaultBookingEngine) AvailableSlots(providerID string, date time.Time) ([]models.Slot, error) {
	return e.Schedule.ListAvailableSlots(providerID, date)
}

// FindOptimalSlot loads the provider's available slots for the day, scores
// them against the preferred time, and returns the best match. A nil slot
// with nil error means the day has no slots at all.
func (e *DefaultBookingEngine) FindOptimalSlot(providerID string, date time.Time, preferredTime string) (*models.ScoredSlot, error) {
	slots, err := e.Schedule.ListAvailableSlots(providerID, date)
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return nil, nil
	}

	scored := ScoreSlots(slots, ParsePreferredTime(preferredTime))
	best := scored[0]
	return &best, nil
}

// findAlternativeSlots searches the days from the preferred date onward for
// unclaimed slots, capped at maxAlternatives, ascending by start time.
func (e *DefaultBookingEngine) findAlternativeSlots(providerID string, date time.Time) ([]models.Slot, error) {
	from := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	to := from.AddDate(0, 0, alternativeWindowDays)

	slots, err := e.Schedule.ListAvailableSlotsInRange(providerID, from, to)
	if err != nil {
		return nil, err
	}
	if len(slots) > maxAlternatives {
		slots = slots[:maxAlternatives]
	}
	return slots, nil
}

// SuggestSlots composes the optimal-slot search with the match threshold. It
// never fails for "no slots found": store faults are logged and downgraded to
// an unavailable result with a generic message.
func (e *DefaultBookingEngine) SuggestSlots(providerID string, date time.Time, preferredTime string) models.SuggestionResult {
	logger := utils.GetLogger()

	optimal, err := e.FindOptimalSlot(providerID, date, preferredTime)
	if err != nil {
		logger.Error("suggest: optimal slot lookup failed",
			zap.String("providerID", providerID), zap.Error(err))
		return models.SuggestionResult{
			Available:    false,
			Message:      "An error occurred while searching for slots.",
			Alternatives: []models.Slot{},
		}
	}

	if optimal != nil && optimal.Score > matchThreshold {
		return models.SuggestionResult{
			Available:    true,
			Slot:         optimal,
			Message:      "Found an available slot!",
			Alternatives: []models.Slot{},
		}
	}

	alternatives, err := e.findAlternativeSlots(providerID, date)
	if err != nil {
		logger.Error("suggest: alternative slot lookup failed",
			zap.String("providerID", providerID), zap.Error(err))
		return models.SuggestionResult{
			Available:    false,
			Message:      "An error occurred while searching for slots.",
			Alternatives: []models.Slot{},
		}
	}

	if len(alternatives) > 0 {
		return models.SuggestionResult{
			Available:    false,
			Message:      "Sorry, no available slots found for your preferred time.",
			Alternatives: alternatives,
		}
	}
	return models.SuggestionResult{
		Available:    false,
		Message:      "Sorry, no available slots found. Please try a different date or provider.",
		Alternatives: []models.Slot{},
	}
}

// BookAppointment claims the slot for the user and records the appointment.
// The user is looked up or created by email. The claim is atomic: when two
// requests race for one slot, the loser gets a "no longer available" result.
// Confirmation mail and the reminder are dispatched after the claim commits,
// fire-and-forget, so notification lag never blocks or reverts a booking.
func (e *DefaultBookingEngine) BookAppointment(userName, userEmail, providerID, slotID string) models.BookingResult {
	logger := utils.GetLogger()

	user, err := e.Users.GetOrCreate(userEmail, userName)
	if err != nil {
		logger.Error("book: user lookup failed", zap.String("email", userEmail), zap.Error(err))
		return models.BookingResult{Success: false, Message: "An error occurred while booking. Please try again."}
	}

	slot, err := e.Schedule.ClaimSlot(slotID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrSlotClaimed) {
			return models.BookingResult{Success: false, Message: "Selected slot is no longer available"}
		}
		logger.Error("book: slot claim failed", zap.String("slotID", slotID), zap.Error(err))
		return models.BookingResult{Success: false, Message: "An error occurred while booking. Please try again."}
	}

	reference, err := e.Schedule.NextBookingReference()
	if err != nil {
		logger.Error("book: reference allocation failed", zap.Error(err))
		e.releaseClaim(slot.ID)
		return models.BookingResult{Success: false, Message: "An error occurred while booking. Please try again."}
	}

	appointment := models.Appointment{
		ID:              uuid.NewString(),
		Reference:       reference,
		UserID:          user.ID,
		ProviderID:      providerID,
		SlotID:          slot.ID,
		Start:           slot.Start,
		DurationMinutes: slot.DurationMinutes,
		Status:          models.AppointmentBooked,
	}
	if err := e.Schedule.CreateAppointment(&appointment); err != nil {
		logger.Error("book: appointment create failed",
			zap.String("reference", reference), zap.Error(err))
		e.releaseClaim(slot.ID)
		return models.BookingResult{Success: false, Message: "An error occurred while booking. Please try again."}
	}

	providerName := providerID
	if provider, err := e.Providers.GetByID(providerID); err == nil && provider != nil {
		providerName = provider.Name
	}

	details := models.BookingDetails{
		Reference: reference,
		Provider:  providerName,
		Date:      slot.Start.Format("2006-01-02"),
		Time:      slot.Start.Format("03:04 PM"),
	}

	if e.Notifier != nil {
		go func() {
			if err := e.Notifier.SendConfirmation(user.Email, details); err != nil {
				logger.Warn("book: confirmation mail failed",
					zap.String("reference", reference), zap.Error(err))
			}
		}()
	}
	if e.Reminders != nil {
		go func() {
			if err := e.Reminders.ScheduleReminder(user.Email, details, appointment.Start); err != nil {
				logger.Warn("book: reminder scheduling failed",
					zap.String("reference", reference), zap.Error(err))
			}
		}()
	}

	return models.BookingResult{
		Success: true,
		Message: "Appointment booked successfully!",
		Details: &details,
	}
}

// releaseClaim re-offers a claimed slot after the booking that claimed it
// failed to commit. Compensation, not cancellation: a recorded appointment
// keeps its claim.
func (e *DefaultBookingEngine) releaseClaim(slotID string) {
	if err := e.Schedule.ReleaseSlot(slotID); err != nil {
		utils.GetLogger().Error("book: slot release failed", zap.String("slotID", slotID), zap.Error(err))
	}
}

// CancelBooking marks the referenced appointment cancelled. The claimed slot
// is not re-offered.
func (e *DefaultBookingEngine) CancelBooking(reference string) models.BookingResult {
	appointment, err := e.Schedule.CancelAppointment(reference)
	if err != nil {
		utils.GetLogger().Error("cancel failed", zap.String("reference", reference), zap.Error(err))
		return models.BookingResult{Success: false, Message: "An error occurred while cancelling. Please try again."}
	}
	if appointment == nil {
		return models.BookingResult{Success: false, Message: fmt.Sprintf("Booking %s not found.", reference)}
	}
	return models.BookingResult{
		Success: true,
		Message: fmt.Sprintf("Your appointment %s has been cancelled.", appointment.Reference),
	}
}

// BookingStatus reports the status of the referenced appointment.
func (e *DefaultBookingEngine) BookingStatus(reference string) models.BookingResult {
	appointment, err := e.Schedule.GetAppointmentByReference(reference)
	if err != nil {
		utils.GetLogger().Error("status lookup failed", zap.String("reference", reference), zap.Error(err))
		return models.BookingResult{Success: false, Message: "An error occurred while looking up the booking."}
	}
	if appointment == nil {
		return models.BookingResult{Success: false, Message: fmt.Sprintf("Booking %s not found.", reference)}
	}
	return models.BookingResult{
		Success: true,
		Message: fmt.Sprintf("Booking %s is %s", appointment.Reference, appointment.Status),
	}
}

// BookingSummary returns the total and still-booked appointment counts.
func (e *DefaultBookingEngine) BookingSummary() (int64, int64, error) {
	return e.Schedule.CountAppointments()
}

// FormatSlotSuggestion renders a slot as a human sentence for display or
// speech, e.g. "Dr. Smith on Friday, March 20 at 10:00 AM".
func (e *DefaultBookingEngine) FormatSlotSuggestion(slot models.Slot) string {
	providerName := "Unknown Provider"
	if provider, err := e.Providers.GetByID(slot.ProviderID); err == nil && provider != nil {
		providerName = provider.Name
	}
	return fmt.Sprintf("%s on %s at %s",
		providerName,
		slot.Start.Format("Monday, January 2"),
		slot.Start.Format("3:04 PM"))
}
