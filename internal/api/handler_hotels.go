package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"hotel-booking-backend/internal/model"
	"hotel-booking-backend/internal/store"
)

// GetHotels handles GET /api/hotels.
func (h *Handler) GetHotels(c *gin.Context) {
	hotels, err := h.store.Hotels(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve hotels"})
		return
	}
	c.JSON(http.StatusOK, hotels)
}

// GetRoomTypes handles GET /api/hotels/:hotel_id/room-types.
func (h *Handler) GetRoomTypes(c *gin.Context) {
	roomTypes, err := h.store.RoomTypes(c.Request.Context(), c.Param("hotel_id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve room types"})
		return
	}
	c.JSON(http.StatusOK, roomTypes)
}

// GetHotelBookings handles GET /api/hotels/:hotel_id/bookings with optional
// status, from, to and limit query parameters.
func (h *Handler) GetHotelBookings(c *gin.Context) {
	filter := store.BookingFilter{
		Status: model.BookingStatus(c.Query("status")),
	}

	if from := c.Query("from"); from != "" {
		d, err := time.Parse(model.DateLayout, from)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid from: expected YYYY-MM-DD"})
			return
		}
		filter.From = &d
	}
	if to := c.Query("to"); to != "" {
		d, err := time.Parse(model.DateLayout, to)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid to: expected YYYY-MM-DD"})
			return
		}
		filter.To = &d
	}
	if limit := c.Query("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		filter.Limit = n
	}

	rows, err := h.store.HotelBookings(c.Request.Context(), c.Param("hotel_id"), filter)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve bookings"})
		return
	}
	if rows == nil {
		rows = []store.BookingRow{}
	}
	c.JSON(http.StatusOK, rows)
}

// GetDashboardStats handles GET /api/hotels/:hotel_id/stats.
func (h *Handler) GetDashboardStats(c *gin.Context) {
	stats, err := h.store.DashboardStats(c.Request.Context(), c.Param("hotel_id"), time.Now().UTC())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate bookings"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
