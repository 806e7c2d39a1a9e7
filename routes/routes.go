package routes

import (
	"net/http"
	"time"

	"slotline/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterProviderRoutes registers provider directory and schedule endpoints.
func RegisterProviderRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/providers")
	{
		api.GET("", hb.ListProvidersHandler)
		api.POST("", hb.CreateProviderHandler)
		api.GET("/:id", hb.GetProviderHandler)
		api.POST("/:id/windows", hb.PublishWindowsHandler)
		api.GET("/:id/windows", hb.ListWindowsHandler)
	}
}

// RegisterBookingRoutes sets up the endpoints for the booking engine.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	bookingGroup := r.Group("/api/booking")
	{
		bookingGroup.POST("/suggest", hb.SuggestSlotsHandler)
		bookingGroup.POST("/book", hb.BookAppointmentHandler)
		bookingGroup.POST("/cancel/:reference", hb.CancelBookingHandler)
		bookingGroup.GET("/status/:reference", hb.BookingStatusHandler)
		bookingGroup.GET("/slots", hb.ListSlotsHandler)
		bookingGroup.POST("/resolve", hb.ResolveConflictsHandler)
		bookingGroup.GET("/summary", hb.BookingSummaryHandler)
	}
}

// RegisterVoiceRoutes registers the voice assistant endpoints.
func RegisterVoiceRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/voice")
	{
		api.POST("/command", hb.VoiceCommandHandler)
		api.POST("/transcribe", hb.VoiceTranscribeHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Slotline"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterProviderRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterVoiceRoutes(r, hb)
	RegisterHealthRoute(r)
}
