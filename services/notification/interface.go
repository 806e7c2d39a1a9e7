package notification

import "slotline/models"

// NotificationService defines methods for sending booking mail. Callers
// dispatch these fire-and-forget; a failed send never affects a booking.
type NotificationService interface {
	SendConfirmation(email string, details models.BookingDetails) error
	SendReminder(email string, details models.BookingDetails) error
}
