package api

import (
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"hotel-booking-backend/internal/booking"
	"hotel-booking-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	svc     *booking.Service
	webpush *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, svc *booking.Service, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		store:   s,
		svc:     svc,
		webpush: webpushOptions,
	}
}

// respondError maps core error kinds onto HTTP statuses. Every write
// failure carries success:false and a human-readable message.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case booking.IsValidation(err):
		status = http.StatusBadRequest
	case booking.IsNotFound(err):
		status = http.StatusNotFound
	case booking.IsInvalidState(err):
		status = http.StatusConflict
	}
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": err.Error()})
}
