package model

import "time"

// PushSubscription holds a hotel staff member's browser push subscription.
// Staff subscribe to the hotels they manage and get notified when a booking
// is created or cancelled there.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`

	// Associations
	Hotels []*Hotel `gorm:"many2many:subscription_hotel_mapping;"`
}
