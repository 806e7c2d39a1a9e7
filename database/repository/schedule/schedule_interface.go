package scheduleRepo

import (
	"errors"
	"time"

	"slotline/models"
)

// ErrSlotClaimed is returned by ClaimSlot when the slot was booked between
// suggestion and commit. Exactly one of any set of concurrent claimants
// succeeds; the rest observe this error.
var ErrSlotClaimed = errors.New("slot is no longer available")

// ScheduleRepository defines data access for windows, slots and appointments.
type ScheduleRepository interface {
	// CreateWindow records a provider availability window.
	CreateWindow(window *models.AvailabilityWindow) error
	// ListWindows retrieves the windows of a provider that start on the given day.
	ListWindows(providerID string, date time.Time) ([]models.AvailabilityWindow, error)

	// InsertSlots persists derived slots as claimable units.
	InsertSlots(slots []models.Slot) error
	// GetSlotByID retrieves a slot by its unique ID.
	GetSlotByID(id string) (*models.Slot, error)
	// ListAvailableSlots retrieves unclaimed slots of a provider on the given
	// day, ordered by start time.
	ListAvailableSlots(providerID string, date time.Time) ([]models.Slot, error)
	// ListAvailableSlotsInRange retrieves unclaimed slots of a provider with
	// start in [from, to), ordered by start time.
	ListAvailableSlotsInRange(providerID string, from, to time.Time) ([]models.Slot, error)
	// ClaimSlot atomically flips an available slot to claimed and returns it.
	// Returns ErrSlotClaimed if the slot is missing or already claimed.
	ClaimSlot(id string) (*models.Slot, error)
	// ReleaseSlot flips a claimed slot back to available. Used to compensate
	// when the booking that claimed it cannot be recorded.
	ReleaseSlot(id string) error

	// NextBookingReference issues the next human booking reference ("B042").
	NextBookingReference() (string, error)
	// CreateAppointment inserts a new appointment record.
	CreateAppointment(appointment *models.Appointment) error
	// GetAppointmentByReference retrieves an appointment by booking reference.
	// Returns (nil, nil) when the reference is unknown.
	GetAppointmentByReference(reference string) (*models.Appointment, error)
	// CancelAppointment marks the referenced appointment cancelled and returns
	// the updated record. Returns (nil, nil) when the reference is unknown.
	CancelAppointment(reference string) (*models.Appointment, error)
	// CountAppointments returns the total number of appointments and how many
	// of them are still booked.
	CountAppointments() (total int64, booked int64, err error)
}
