package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hotel-booking-backend/internal/booking"
	"hotel-booking-backend/internal/model"
)

// createBookingRequest is the wire shape for POST /api/bookings. Numeric
// fields are pointers so normalization can tell "absent" from zero: units
// defaults to 1, adults to 2, children to 0.
type createBookingRequest struct {
	HotelID         string `json:"hotel_id" binding:"required"`
	RoomTypeID      string `json:"room_type_id" binding:"required"`
	CheckIn         string `json:"check_in" binding:"required"`
	CheckOut        string `json:"check_out" binding:"required"`
	Units           *int   `json:"units"`
	Adults          *int   `json:"adults"`
	Children        *int   `json:"children"`
	GuestName       string `json:"guest_name" binding:"required"`
	GuestEmail      string `json:"guest_email" binding:"required"`
	GuestPhone      string `json:"guest_phone"`
	SpecialRequests string `json:"special_requests"`
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func parseDate(c *gin.Context, field, value string) (time.Time, bool) {
	d, err := time.Parse(model.DateLayout, value)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest,
			gin.H{"success": false, "error": "invalid " + field + ": expected YYYY-MM-DD"})
		return time.Time{}, false
	}
	return d, true
}

// CreateBooking handles POST /api/bookings.
func (h *Handler) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	checkIn, ok := parseDate(c, "check_in", req.CheckIn)
	if !ok {
		return
	}
	checkOut, ok := parseDate(c, "check_out", req.CheckOut)
	if !ok {
		return
	}

	result, err := h.svc.CreateBooking(c.Request.Context(), booking.CreateBookingRequest{
		HotelID:         req.HotelID,
		RoomTypeID:      req.RoomTypeID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Units:           intOr(req.Units, 1),
		Adults:          intOr(req.Adults, 2),
		Children:        intOr(req.Children, 0),
		GuestName:       req.GuestName,
		GuestEmail:      req.GuestEmail,
		GuestPhone:      req.GuestPhone,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	if !result.Success {
		// Sold out is a normal negative result, not a fault.
		c.JSON(http.StatusConflict, result)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

// CancelBooking handles POST /api/bookings/:booking_id/cancel.
func (h *Handler) CancelBooking(c *gin.Context) {
	var req cancelBookingRequest
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
	}

	b, err := h.svc.Cancel(c.Request.Context(), c.Param("booking_id"), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "booking cancelled",
		"booking": b,
	})
}

// CheckIn handles POST /api/bookings/:booking_id/check-in.
func (h *Handler) CheckIn(c *gin.Context) {
	b, err := h.svc.CheckIn(c.Request.Context(), c.Param("booking_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "guest checked in",
		"booking": b,
	})
}

// CheckOut handles POST /api/bookings/:booking_id/check-out.
func (h *Handler) CheckOut(c *gin.Context) {
	b, err := h.svc.CheckOut(c.Request.Context(), c.Param("booking_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "guest checked out",
		"booking": b,
	})
}

// GetBooking handles GET /api/bookings/:booking_id.
func (h *Handler) GetBooking(c *gin.Context) {
	detail, err := h.store.BookingDetails(c.Request.Context(), c.Param("booking_id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve booking"})
		return
	}
	if detail == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}
	c.JSON(http.StatusOK, detail)
}

// GetBookingsByEmail handles GET /api/bookings?email=...
func (h *Handler) GetBookingsByEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "email query parameter is required"})
		return
	}
	bookings, err := h.store.BookingsByEmail(c.Request.Context(), email)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve bookings"})
		return
	}
	if bookings == nil {
		bookings = []model.Booking{}
	}
	c.JSON(http.StatusOK, bookings)
}
