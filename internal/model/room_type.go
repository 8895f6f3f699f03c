package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RoomType is a bookable category of room within a hotel. TotalUnits is the
// capacity shared by all bookings of this type on any given night.
type RoomType struct {
	ID                string          `gorm:"primaryKey;size:36" json:"id"`
	HotelID           string          `gorm:"index;size:36;not null" json:"hotel_id"`
	Name              string          `gorm:"size:256;not null" json:"name"`
	Description       string          `gorm:"size:1024" json:"description"`
	TotalUnits        int             `gorm:"not null" json:"total_units"`
	BasePricePerNight decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"base_price_per_night"`
	MaxOccupancy      int             `gorm:"not null;default:2" json:"max_occupancy"`
	ExtraGuestFee     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"extra_guest_fee"`
	CreatedAt         time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"not null" json:"updated_at"`

	// Associations
	Hotel Hotel `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
