package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"slotline/models"
	"slotline/services/interpreter"
	"slotline/services/scheduling"
	"slotline/utils"
)

// BookingHandler exposes the booking engine over HTTP.
type BookingHandler struct {
	Engine scheduling.BookingEngine
	Logger *zap.Logger
}

func NewBookingHandler(engine scheduling.BookingEngine, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Engine: engine, Logger: logger}
}

// SuggestSlots handles POST /api/booking/suggest.
func (h *BookingHandler) SuggestSlots(c *gin.Context) {
	var input struct {
		Provider string `json:"provider" binding:"required"`
		Date     string `json:"date" binding:"required"`
		Time     string `json:"time"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	provider, err := h.Engine.ResolveProvider(input.Provider)
	if err != nil {
		h.Logger.Error("suggest: provider lookup failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "an error occurred", "")
		return
	}
	if provider == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Provider not found. Please check the name and try again."})
		return
	}

	date, ok := interpreter.ResolveDate(input.Date, time.Now())
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid date", "use 'today', 'tomorrow', 'next <weekday>' or '2006-01-02'")
		return
	}

	result := h.Engine.SuggestSlots(provider.ID, date, input.Time)
	c.JSON(http.StatusOK, gin.H{
		"provider":   provider,
		"suggestion": result,
	})
}

// BookAppointment handles POST /api/booking/book.
func (h *BookingHandler) BookAppointment(c *gin.Context) {
	var input struct {
		Name       string `json:"name" binding:"required"`
		Email      string `json:"email" binding:"required,email"`
		ProviderID string `json:"provider_id" binding:"required"`
		SlotID     string `json:"slot_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	result := h.Engine.BookAppointment(input.Name, input.Email, input.ProviderID, input.SlotID)
	if !result.Success {
		// A lost claim race is a conflict, not a server fault.
		c.JSON(http.StatusConflict, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CancelBooking handles POST /api/booking/cancel/:reference.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	reference := c.Param("reference")
	result := h.Engine.CancelBooking(reference)
	if !result.Success {
		c.JSON(http.StatusNotFound, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// BookingStatus handles GET /api/booking/status/:reference.
func (h *BookingHandler) BookingStatus(c *gin.Context) {
	reference := c.Param("reference")
	result := h.Engine.BookingStatus(reference)
	if !result.Success {
		c.JSON(http.StatusNotFound, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListSlots handles GET /api/booking/slots?provider_id=...&date=2006-01-02.
func (h *BookingHandler) ListSlots(c *gin.Context) {
	providerID := c.Query("provider_id")
	dateText := c.Query("date")
	if providerID == "" || dateText == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "provider_id and date are required")
		return
	}
	date, ok := interpreter.ResolveDate(dateText, time.Now())
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid date", "use 'today', 'tomorrow', 'next <weekday>' or '2006-01-02'")
		return
	}

	slots, err := h.Engine.AvailableSlots(providerID, date)
	if err != nil {
		h.Logger.Error("list slots failed", zap.String("providerID", providerID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "an error occurred", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// ResolveConflicts handles POST /api/booking/resolve: reconcile a batch of
// pending requests into a non-overlapping accepted subset.
func (h *BookingHandler) ResolveConflicts(c *gin.Context) {
	var input struct {
		Requests []models.BookingRequest `json:"requests" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	accepted := scheduling.ResolveConflicts(input.Requests)
	c.JSON(http.StatusOK, gin.H{
		"accepted": accepted,
		"rejected": len(input.Requests) - len(accepted),
	})
}

// BookingSummary handles GET /api/booking/summary.
func (h *BookingHandler) BookingSummary(c *gin.Context) {
	total, booked, err := h.Engine.BookingSummary()
	if err != nil {
		h.Logger.Error("summary failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "an error occurred", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": total, "booked": booked})
}
