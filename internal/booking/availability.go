package booking

import (
	"context"
	"time"

	"hotel-booking-backend/internal/model"
)

// NightAvailability is the remaining capacity for one night of a stay.
type NightAvailability struct {
	Date      string `json:"date"`
	Reserved  int    `json:"reserved"`
	Remaining int    `json:"remaining"`
}

// Availability is the result of an availability check over a date range.
// Available is true only when every night can absorb the requested units.
type Availability struct {
	Available  bool                `json:"available"`
	RoomTypeID string              `json:"room_type_id"`
	TotalUnits int                 `json:"total_units"`
	Nights     []NightAvailability `json:"nights,omitempty"`
}

// CheckAvailability reports whether the room type can absorb units more
// rooms on every night of [checkIn, checkOut). A check made outside the
// room type's serialization unit is advisory only; the coordinator redoes
// it after acquiring the unit.
func (s *Service) CheckAvailability(ctx context.Context, roomTypeID string, checkIn, checkOut time.Time, units int) (*Availability, error) {
	if units < 1 {
		return nil, &ValidationError{Field: "units", Message: "must be at least 1"}
	}
	if !model.Date(checkOut).After(model.Date(checkIn)) {
		return nil, &ValidationError{Field: "check_out", Message: "must be after check_in"}
	}

	rt, err := s.store.GetRoomType(ctx, roomTypeID)
	if err != nil {
		return nil, mapStoreErr(err, "room type", roomTypeID, "load room type")
	}
	return s.availability(ctx, rt, checkIn, checkOut, units)
}

// availability runs the per-night capacity scan for an already-loaded room
// type. Callers that need the result to be authoritative must hold the room
// type's serialization unit.
func (s *Service) availability(ctx context.Context, rt *model.RoomType, checkIn, checkOut time.Time, units int) (*Availability, error) {
	reserved, err := s.store.ReservedByNight(ctx, rt.ID, checkIn, checkOut)
	if err != nil {
		return nil, &StorageError{Op: "read ledger", Err: err}
	}

	result := &Availability{
		Available:  true,
		RoomTypeID: rt.ID,
		TotalUnits: rt.TotalUnits,
	}
	for _, night := range model.NightsIn(checkIn, checkOut) {
		key := night.Format(model.DateLayout)
		remaining := rt.TotalUnits - reserved[key]
		if remaining < units {
			result.Available = false
		}
		result.Nights = append(result.Nights, NightAvailability{
			Date:      key,
			Reserved:  reserved[key],
			Remaining: remaining,
		})
	}
	return result, nil
}

// RealTimeAvailability is the best-effort probe behind pre-booking UI
// checks. Any failure, including bad input, degrades to unavailable rather
// than propagating: a probe must never block the page.
func (s *Service) RealTimeAvailability(ctx context.Context, roomTypeID string, checkIn, checkOut time.Time, units int) *Availability {
	avail, err := s.CheckAvailability(ctx, roomTypeID, checkIn, checkOut, units)
	if err != nil {
		return &Availability{Available: false, RoomTypeID: roomTypeID}
	}
	return avail
}
