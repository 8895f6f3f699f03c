package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"hotel-booking-backend/internal/model"
)

// GetAvailability handles GET /api/availability. It is a best-effort probe
// for pre-booking UI checks: malformed or unserveable requests come back as
// {"available": false} rather than errors, and a positive answer is only
// advisory until CreateBooking re-checks it.
func (h *Handler) GetAvailability(c *gin.Context) {
	roomTypeID := c.Query("room_type_id")
	checkIn, errIn := time.Parse(model.DateLayout, c.Query("check_in"))
	checkOut, errOut := time.Parse(model.DateLayout, c.Query("check_out"))
	if roomTypeID == "" || errIn != nil || errOut != nil {
		c.JSON(http.StatusOK, gin.H{"available": false})
		return
	}

	units := 1
	if q := c.Query("units"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"available": false})
			return
		}
		units = n
	}

	c.JSON(http.StatusOK, h.svc.RealTimeAvailability(c.Request.Context(), roomTypeID, checkIn, checkOut, units))
}
