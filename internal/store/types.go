package store

import (
	"time"

	"github.com/shopspring/decimal"

	"hotel-booking-backend/internal/model"
)

// BookingFilter narrows a hotel's booking list. From and To apply to the
// check-in date. Limit defaults to DefaultListLimit when zero or negative.
type BookingFilter struct {
	Status model.BookingStatus
	From   *time.Time
	To     *time.Time
	Limit  int
}

// DefaultListLimit caps booking list responses when the caller does not
// supply a limit.
const DefaultListLimit = 50

// BookingRow is one row of a hotel's booking list, joined with descriptive
// hotel and room-type fields.
type BookingRow struct {
	ID           string          `json:"id"`
	HotelID      string          `json:"hotel_id"`
	HotelName    string          `json:"hotel_name"`
	RoomTypeID   string          `json:"room_type_id"`
	RoomTypeName string          `json:"room_type_name"`
	CheckIn      time.Time       `json:"check_in"`
	CheckOut     time.Time       `json:"check_out"`
	Units        int             `json:"units"`
	Status       string          `json:"status"`
	GuestName    string          `json:"guest_name"`
	GuestEmail   string          `json:"guest_email"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	CreatedAt    time.Time       `json:"created_at"`
}

// BookingDetail is a single booking joined with its hotel and room type.
type BookingDetail struct {
	model.Booking
	HotelName    string `json:"hotel_name"`
	HotelCity    string `json:"hotel_city"`
	RoomTypeName string `json:"room_type_name"`
	MaxOccupancy int    `json:"max_occupancy"`
}

// DashboardStats aggregates a hotel's bookings for its dashboard.
type DashboardStats struct {
	TotalBookings   int64           `json:"total_bookings"`
	Confirmed       int64           `json:"confirmed"`
	CheckedIn       int64           `json:"checked_in"`
	CheckedOut      int64           `json:"checked_out"`
	Cancelled       int64           `json:"cancelled"`
	ArrivalsToday   int64           `json:"arrivals_today"`
	DeparturesToday int64           `json:"departures_today"`
	MonthRevenue    decimal.Decimal `json:"month_revenue"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
}
