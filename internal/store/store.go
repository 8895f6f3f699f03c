package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotel-booking-backend/internal/model"
)

// Sentinel errors returned by write operations. The booking package maps
// them onto its caller-facing taxonomy.
var (
	// ErrNotFound is returned when the referenced row does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrNoCapacity is returned when a reservation would push a night's
	// units_reserved past the room type's total_units.
	ErrNoCapacity = errors.New("insufficient capacity")

	// ErrStatusConflict is returned when a guarded status update matched no
	// row because the booking is not in the expected status.
	ErrStatusConflict = errors.New("booking status conflict")

	// ErrLedgerUnderflow means a release would have pushed a ledger row
	// below zero. That is a bookkeeping bug, not a user-facing condition.
	ErrLedgerUnderflow = errors.New("ledger underflow")
)

// Store defines the persistence operations for hotels, room types, bookings
// and the per-night inventory ledger. Write methods that touch both a
// booking and the ledger run as a single database transaction.
type Store interface {
	DB() *gorm.DB

	Hotels(ctx context.Context) ([]model.Hotel, error)
	RoomTypes(ctx context.Context, hotelID string) ([]model.RoomType, error)
	GetRoomType(ctx context.Context, id string) (*model.RoomType, error)
	GetBooking(ctx context.Context, id string) (*model.Booking, error)

	// Ledger reads.
	UnitsReservedOn(ctx context.Context, roomTypeID string, night time.Time) (int, error)
	ReservedByNight(ctx context.Context, roomTypeID string, from, to time.Time) (map[string]int, error)

	// Atomic writes.
	CreateBooking(ctx context.Context, b *model.Booking) error
	CancelBooking(ctx context.Context, id string, allowedFrom []model.BookingStatus, reason string, at time.Time) (*model.Booking, error)
	MarkCheckedIn(ctx context.Context, id string, at time.Time) (*model.Booking, error)
	MarkCheckedOut(ctx context.Context, id string, at time.Time) (*model.Booking, error)

	// Query surface.
	DashboardStats(ctx context.Context, hotelID string, now time.Time) (*DashboardStats, error)
	BookingsByEmail(ctx context.Context, email string) ([]model.Booking, error)
	HotelBookings(ctx context.Context, hotelID string, f BookingFilter) ([]BookingRow, error)
	BookingDetails(ctx context.Context, id string) (*BookingDetail, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB { return s.db }

func (s *gormStore) Hotels(ctx context.Context) ([]model.Hotel, error) {
	var hotels []model.Hotel
	if err := s.db.WithContext(ctx).Order("name").Find(&hotels).Error; err != nil {
		return nil, err
	}
	return hotels, nil
}

func (s *gormStore) RoomTypes(ctx context.Context, hotelID string) ([]model.RoomType, error) {
	var roomTypes []model.RoomType
	if err := s.db.WithContext(ctx).Where("hotel_id = ?", hotelID).Order("name").Find(&roomTypes).Error; err != nil {
		return nil, err
	}
	return roomTypes, nil
}

func (s *gormStore) GetRoomType(ctx context.Context, id string) (*model.RoomType, error) {
	var rt model.RoomType
	err := s.db.WithContext(ctx).First(&rt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

func (s *gormStore) GetBooking(ctx context.Context, id string) (*model.Booking, error) {
	var b model.Booking
	err := s.db.WithContext(ctx).First(&b, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *gormStore) UnitsReservedOn(ctx context.Context, roomTypeID string, night time.Time) (int, error) {
	var rn model.RoomNight
	err := s.db.WithContext(ctx).
		Where("room_type_id = ? AND night = ?", roomTypeID, model.Date(night)).
		First(&rn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Absence of a ledger row means nothing reserved yet.
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return rn.UnitsReserved, nil
}

func (s *gormStore) ReservedByNight(ctx context.Context, roomTypeID string, from, to time.Time) (map[string]int, error) {
	var rows []model.RoomNight
	err := s.db.WithContext(ctx).
		Where("room_type_id = ? AND night >= ? AND night < ?", roomTypeID, model.Date(from), model.Date(to)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	reserved := make(map[string]int, len(rows))
	for _, r := range rows {
		reserved[r.Night.UTC().Format(model.DateLayout)] = r.UnitsReserved
	}
	return reserved, nil
}

// CreateBooking persists the booking row and increments the ledger for every
// night of the stay in one transaction. After the increments it re-verifies
// that no night exceeds the room type's capacity; if one does the whole
// transaction rolls back and ErrNoCapacity is returned, so an observer never
// sees a reservation whose check did not also pass.
func (s *gormStore) CreateBooking(ctx context.Context, b *model.Booking) error {
	nights := model.NightsIn(b.CheckIn, b.CheckOut)
	if len(nights) == 0 {
		return fmt.Errorf("booking %s has no nights", b.ID)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rt model.RoomType
		if err := tx.First(&rt, "id = ?", b.RoomTypeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := tx.Create(b).Error; err != nil {
			return fmt.Errorf("insert booking: %w", err)
		}

		now := time.Now().UTC()
		for _, night := range nights {
			row := model.RoomNight{
				RoomTypeID:    b.RoomTypeID,
				Night:         night,
				UnitsReserved: b.Units,
				UpdatedAt:     now,
			}
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "room_type_id"}, {Name: "night"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"units_reserved": gorm.Expr("room_nights.units_reserved + ?", b.Units),
					"updated_at":     now,
				}),
			}).Create(&row).Error
			if err != nil {
				return fmt.Errorf("reserve night %s: %w", night.Format(model.DateLayout), err)
			}
		}

		// The increments above are unconditional; this check makes
		// check-and-reserve a single atomic unit even against writers that
		// bypass the room-type serialization.
		var oversold int64
		err := tx.Model(&model.RoomNight{}).
			Where("room_type_id = ? AND night >= ? AND night < ? AND units_reserved > ?",
				b.RoomTypeID, model.Date(b.CheckIn), model.Date(b.CheckOut), rt.TotalUnits).
			Count(&oversold).Error
		if err != nil {
			return err
		}
		if oversold > 0 {
			return ErrNoCapacity
		}
		return nil
	})
}

// CancelBooking flips the booking to cancelled and releases its ledger
// capacity in one transaction. allowedFrom is the set of statuses the
// booking may be cancelled from; anything else returns ErrStatusConflict.
func (s *gormStore) CancelBooking(ctx context.Context, id string, allowedFrom []model.BookingStatus, reason string, at time.Time) (*model.Booking, error) {
	var cancelled model.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b model.Booking
		if err := tx.First(&b, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		res := tx.Model(&model.Booking{}).
			Where("id = ? AND status IN ?", id, allowedFrom).
			Updates(map[string]interface{}{
				"status":        model.StatusCancelled,
				"cancel_reason": reason,
				"cancelled_at":  at,
				"updated_at":    at,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStatusConflict
		}

		if err := releaseNights(tx, &b, at); err != nil {
			return err
		}

		return tx.First(&cancelled, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &cancelled, nil
}

// releaseNights decrements the ledger for every night of the booking. The
// guard clause refuses to take any row below zero; a partial match means the
// ledger and the booking disagree, so the transaction is aborted.
func releaseNights(tx *gorm.DB, b *model.Booking, at time.Time) error {
	nights := model.NightsIn(b.CheckIn, b.CheckOut)
	res := tx.Model(&model.RoomNight{}).
		Where("room_type_id = ? AND night >= ? AND night < ? AND units_reserved >= ?",
			b.RoomTypeID, model.Date(b.CheckIn), model.Date(b.CheckOut), b.Units).
		Updates(map[string]interface{}{
			"units_reserved": gorm.Expr("units_reserved - ?", b.Units),
			"updated_at":     at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != int64(len(nights)) {
		return fmt.Errorf("%w: booking %s released %d of %d nights",
			ErrLedgerUnderflow, b.ID, res.RowsAffected, len(nights))
	}
	return nil
}

func (s *gormStore) MarkCheckedIn(ctx context.Context, id string, at time.Time) (*model.Booking, error) {
	return s.guardedTransition(ctx, id, model.StatusConfirmed, map[string]interface{}{
		"status":        model.StatusCheckedIn,
		"checked_in_at": at,
		"updated_at":    at,
	})
}

func (s *gormStore) MarkCheckedOut(ctx context.Context, id string, at time.Time) (*model.Booking, error) {
	return s.guardedTransition(ctx, id, model.StatusCheckedIn, map[string]interface{}{
		"status":         model.StatusCheckedOut,
		"checked_out_at": at,
		"updated_at":     at,
	})
}

// guardedTransition applies a status flip only when the booking currently
// holds the expected status. No ledger interaction: checked-in and
// checked-out stays keep their capacity until checkout night.
func (s *gormStore) guardedTransition(ctx context.Context, id string, expect model.BookingStatus, updates map[string]interface{}) (*model.Booking, error) {
	var updated model.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Booking{}).
			Where("id = ? AND status = ?", id, expect).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			err := tx.First(&model.Booking{}, "id = ?", id).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			if err != nil {
				return err
			}
			return ErrStatusConflict
		}
		return tx.First(&updated, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
