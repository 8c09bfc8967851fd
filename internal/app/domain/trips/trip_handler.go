package trips

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wayfarer-app/wayfarer/pkg/models"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) ListTrips(c *gin.Context) {
	trips, err := h.service.ListTrips(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list trips"})
		return
	}
	c.JSON(http.StatusOK, trips)
}

func (h *Handler) GetTrip(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	trip, err := h.service.GetTrip(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

func (h *Handler) CreateTrip(c *gin.Context) {
	var req models.CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trip, err := h.service.CreateTrip(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrMissingCoordinates) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Destination coordinates are required. Please select a validated place."})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, trip)
}

func (h *Handler) UpdateTrip(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req models.UpdateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trip, err := h.service.UpdateTrip(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, models.ErrCoordinatePair) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Destination latitude and longitude must both be provided."})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

func (h *Handler) DeleteTrip(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteTrip(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Trip deleted successfully"})
}

// CalendarDay handles GET /api/trips/:id/calendar?day=YYYY-MM-DD.
func (h *Handler) CalendarDay(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	day := c.Query("day")
	if day == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A day query parameter is required."})
		return
	}

	result, err := h.service.CalendarDay(c.Request.Context(), id, day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trip id"})
		return uuid.Nil, false
	}
	return id, true
}

func respondError(c *gin.Context, err error) {
	var parseErr *models.ParseError
	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "trip not found"})
	case errors.As(err, &parseErr),
		errors.Is(err, models.ErrTripNameEmpty),
		errors.Is(err, models.ErrActivityNameEmpty),
		errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
