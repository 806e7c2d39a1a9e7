package scheduling

import "fmt"

// BookingError carries a machine-readable code alongside the message.
type BookingError struct {
	Code    string
	Message string
}

func (e *BookingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewBookingError(msg string) error {
	return &BookingError{
		Code:    "bookingError",
		Message: msg,
	}
}
