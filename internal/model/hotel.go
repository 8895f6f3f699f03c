package model

import "time"

// Hotel represents a property that offers bookable room types.
type Hotel struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:256;not null" json:"name"`
	City      string    `gorm:"size:128" json:"city"`
	Address   string    `gorm:"size:512" json:"address"`
	Phone     string    `gorm:"size:32" json:"phone"`
	Email     string    `gorm:"size:256" json:"email"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	// Associations
	RoomTypes []RoomType `gorm:"foreignKey:HotelID" json:"room_types,omitempty"`
}
