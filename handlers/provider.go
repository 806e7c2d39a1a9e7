package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	providerRepo "slotline/database/repository/provider"
	"slotline/models"
	"slotline/services/interpreter"
	"slotline/services/scheduling"
	"slotline/utils"
)

// ProviderHandler manages the provider directory and availability publishing.
type ProviderHandler struct {
	Providers providerRepo.ProviderRepository
	Engine    scheduling.BookingEngine
	Logger    *zap.Logger
}

func NewProviderHandler(providers providerRepo.ProviderRepository, engine scheduling.BookingEngine, logger *zap.Logger) *ProviderHandler {
	return &ProviderHandler{Providers: providers, Engine: engine, Logger: logger}
}

// ListProviders handles GET /api/providers.
func (h *ProviderHandler) ListProviders(c *gin.Context) {
	providers, err := h.Providers.GetAll()
	if err != nil {
		h.Logger.Error("list providers failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "an error occurred", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"providers": providers})
}

// GetProvider handles GET /api/providers/:id.
func (h *ProviderHandler) GetProvider(c *gin.Context) {
	provider, err := h.Providers.GetByID(c.Param("id"))
	if err != nil {
		h.Logger.Error("get provider failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "an error occurred", "")
		return
	}
	if provider == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Provider not found."})
		return
	}
	c.JSON(http.StatusOK, provider)
}

// CreateProvider handles POST /api/providers.
func (h *ProviderHandler) CreateProvider(c *gin.Context) {
	var input struct {
		Name        string `json:"name" binding:"required"`
		ServiceType string `json:"service_type"`
		Email       string `json:"email" binding:"omitempty,email"`
		Phone       string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	provider := models.Provider{
		ID:          uuid.NewString(),
		Name:        input.Name,
		ServiceType: input.ServiceType,
		Email:       input.Email,
		Phone:       input.Phone,
		CreatedAt:   time.Now(),
	}
	if err := h.Providers.Create(&provider); err != nil {
		h.Logger.Error("create provider failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "an error occurred", "")
		return
	}
	c.JSON(http.StatusCreated, provider)
}

// ListWindows handles GET /api/providers/:id/windows?date=2006-01-02.
func (h *ProviderHandler) ListWindows(c *gin.Context) {
	providerID := c.Param("id")
	dateText := c.Query("date")
	if dateText == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "date is required")
		return
	}
	date, ok := interpreter.ResolveDate(dateText, time.Now())
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid date", "use 'today', 'tomorrow', 'next <weekday>' or '2006-01-02'")
		return
	}

	windows, err := h.Engine.PublishedWindows(providerID, date)
	if err != nil {
		h.Logger.Error("list windows failed", zap.String("providerID", providerID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "an error occurred", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"windows": windows})
}

// PublishWindows handles POST /api/providers/:id/windows. Each window is
// persisted and expanded into bookable slots.
func (h *ProviderHandler) PublishWindows(c *gin.Context) {
	providerID := c.Param("id")

	var input struct {
		Windows []struct {
			Start time.Time `json:"start" binding:"required"`
			End   time.Time `json:"end" binding:"required"`
		} `json:"windows" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	provider, err := h.Providers.GetByID(providerID)
	if err != nil {
		h.Logger.Error("publish windows: provider lookup failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "an error occurred", "")
		return
	}
	if provider == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Provider not found."})
		return
	}

	windows := make([]models.AvailabilityWindow, 0, len(input.Windows))
	for _, w := range input.Windows {
		windows = append(windows, models.AvailabilityWindow{
			Start:     w.Start,
			End:       w.End,
			Available: true,
		})
	}

	slots, err := h.Engine.PublishWindows(providerID, windows)
	if err != nil {
		var bookingErr *scheduling.BookingError
		if errors.As(err, &bookingErr) {
			utils.JSONError(c, http.StatusBadRequest, "invalid window", bookingErr.Message)
			return
		}
		h.Logger.Error("publish windows failed", zap.String("providerID", providerID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "an error occurred", "")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"windows": len(windows),
		"slots":   len(slots),
	})
}
