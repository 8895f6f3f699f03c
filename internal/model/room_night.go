package model

import "time"

// RoomNight is one row of the inventory ledger: how many units of a room
// type are reserved for a single night. Rows are created lazily the first
// time a night is touched and only ever counted down again on cancellation,
// never deleted. Invariant: 0 <= UnitsReserved <= RoomType.TotalUnits.
type RoomNight struct {
	RoomTypeID    string    `gorm:"primaryKey;size:36" json:"room_type_id"`
	Night         time.Time `gorm:"primaryKey" json:"night"`
	UnitsReserved int       `gorm:"not null;default:0" json:"units_reserved"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`
}
