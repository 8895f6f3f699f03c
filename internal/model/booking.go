package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus is the lifecycle state of a booking. Pending exists only
// inside the creation transaction; persisted bookings start at confirmed.
type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusCheckedIn  BookingStatus = "checked_in"
	StatusCheckedOut BookingStatus = "checked_out"
	StatusCancelled  BookingStatus = "cancelled"
)

// DateLayout is the wire format for calendar dates. Stays and ledger nights
// carry no time-of-day component.
const DateLayout = "2006-01-02"

// Date truncates t to a calendar date at UTC midnight.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Booking is a reservation of one or more units of a room type over the
// half-open range [CheckIn, CheckOut). Rows are never deleted; cancellation
// is a status change so the audit history survives.
type Booking struct {
	ID              string          `gorm:"primaryKey;size:36" json:"id"`
	HotelID         string          `gorm:"index;size:36;not null" json:"hotel_id"`
	RoomTypeID      string          `gorm:"index;size:36;not null" json:"room_type_id"`
	CheckIn         time.Time       `gorm:"index;not null" json:"check_in"`
	CheckOut        time.Time       `gorm:"not null" json:"check_out"`
	Units           int             `gorm:"not null;default:1" json:"units"`
	Adults          int             `gorm:"not null;default:2" json:"adults"`
	Children        int             `gorm:"not null;default:0" json:"children"`
	GuestName       string          `gorm:"size:256;not null" json:"guest_name"`
	GuestEmail      string          `gorm:"index;size:256;not null" json:"guest_email"`
	GuestPhone      string          `gorm:"size:32" json:"guest_phone,omitempty"`
	SpecialRequests string          `gorm:"size:2048" json:"special_requests,omitempty"`
	Status          BookingStatus   `gorm:"index;size:32;not null" json:"status"`
	BasePrice       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"base_price"`
	ExtraCharges    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"extra_charges"`
	TotalPrice      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_price"`
	CancelReason    string          `gorm:"size:512" json:"cancel_reason,omitempty"`
	CancelledAt     *time.Time      `json:"cancelled_at,omitempty"`
	CheckedInAt     *time.Time      `json:"checked_in_at,omitempty"`
	CheckedOutAt    *time.Time      `json:"checked_out_at,omitempty"`
	CreatedAt       time.Time       `gorm:"index;not null" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null" json:"updated_at"`
}

// Nights returns the number of occupied nights in [CheckIn, CheckOut).
func (b *Booking) Nights() int {
	return int(Date(b.CheckOut).Sub(Date(b.CheckIn)).Hours() / 24)
}

// NightsIn enumerates every calendar date in the half-open range [from, to).
func NightsIn(from, to time.Time) []time.Time {
	var nights []time.Time
	for d := Date(from); d.Before(Date(to)); d = d.AddDate(0, 0, 1) {
		nights = append(nights, d)
	}
	return nights
}
