package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Provider endpoints
	ListProvidersHandler  gin.HandlerFunc
	GetProviderHandler    gin.HandlerFunc
	CreateProviderHandler gin.HandlerFunc
	PublishWindowsHandler gin.HandlerFunc
	ListWindowsHandler    gin.HandlerFunc

	// Booking endpoints
	SuggestSlotsHandler     gin.HandlerFunc
	BookAppointmentHandler  gin.HandlerFunc
	CancelBookingHandler    gin.HandlerFunc
	BookingStatusHandler    gin.HandlerFunc
	ListSlotsHandler        gin.HandlerFunc
	ResolveConflictsHandler gin.HandlerFunc
	BookingSummaryHandler   gin.HandlerFunc

	// Voice endpoints
	VoiceCommandHandler    gin.HandlerFunc
	VoiceTranscribeHandler gin.HandlerFunc
}
