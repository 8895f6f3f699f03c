package store

import (
	"context"
	"errors"

	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"hotel-booking-backend/internal/model"
)

// revenueStatuses are the statuses that count toward revenue: everything
// that still holds, or held through to checkout, paid inventory.
var revenueStatuses = []model.BookingStatus{
	model.StatusConfirmed, model.StatusCheckedIn, model.StatusCheckedOut,
}

// DashboardStats aggregates booking counts and revenue for a hotel. The
// "today" window is the calendar date of now; month revenue covers bookings
// created since the first of now's month.
func (s *gormStore) DashboardStats(ctx context.Context, hotelID string, now time.Time) (*DashboardStats, error) {
	db := s.db.WithContext(ctx)

	type statusRow struct {
		Status string
		Count  int64
	}
	var byStatus []statusRow
	err := db.Model(&model.Booking{}).
		Select("status, COUNT(*) as count").
		Where("hotel_id = ?", hotelID).
		Group("status").
		Scan(&byStatus).Error
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		MonthRevenue: decimal.Zero,
		TotalRevenue: decimal.Zero,
	}
	for _, row := range byStatus {
		stats.TotalBookings += row.Count
		switch model.BookingStatus(row.Status) {
		case model.StatusConfirmed:
			stats.Confirmed = row.Count
		case model.StatusCheckedIn:
			stats.CheckedIn = row.Count
		case model.StatusCheckedOut:
			stats.CheckedOut = row.Count
		case model.StatusCancelled:
			stats.Cancelled = row.Count
		}
	}

	today := model.Date(now)
	tomorrow := today.AddDate(0, 0, 1)

	err = db.Model(&model.Booking{}).
		Where("hotel_id = ? AND status IN ? AND check_in >= ? AND check_in < ?",
			hotelID, []model.BookingStatus{model.StatusConfirmed, model.StatusCheckedIn}, today, tomorrow).
		Count(&stats.ArrivalsToday).Error
	if err != nil {
		return nil, err
	}

	err = db.Model(&model.Booking{}).
		Where("hotel_id = ? AND status IN ? AND check_out >= ? AND check_out < ?",
			hotelID, []model.BookingStatus{model.StatusCheckedIn, model.StatusCheckedOut}, today, tomorrow).
		Count(&stats.DeparturesToday).Error
	if err != nil {
		return nil, err
	}

	type revenueRow struct {
		Revenue decimal.Decimal
	}
	var total revenueRow
	err = db.Model(&model.Booking{}).
		Select("COALESCE(SUM(total_price), 0) as revenue").
		Where("hotel_id = ? AND status IN ?", hotelID, revenueStatuses).
		Scan(&total).Error
	if err != nil {
		return nil, err
	}
	stats.TotalRevenue = total.Revenue

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	var month revenueRow
	err = db.Model(&model.Booking{}).
		Select("COALESCE(SUM(total_price), 0) as revenue").
		Where("hotel_id = ? AND status IN ? AND created_at >= ?", hotelID, revenueStatuses, monthStart).
		Scan(&month).Error
	if err != nil {
		return nil, err
	}
	stats.MonthRevenue = month.Revenue

	return stats, nil
}

// BookingsByEmail returns every booking for a guest email across all
// hotels, newest first.
func (s *gormStore) BookingsByEmail(ctx context.Context, email string) ([]model.Booking, error) {
	var bookings []model.Booking
	err := s.db.WithContext(ctx).
		Where("guest_email = ?", email).
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// HotelBookings returns a hotel's bookings joined with descriptive fields,
// filtered and ordered by creation time descending.
func (s *gormStore) HotelBookings(ctx context.Context, hotelID string, f BookingFilter) ([]BookingRow, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	q := s.db.WithContext(ctx).Model(&model.Booking{}).
		Select("bookings.id, bookings.hotel_id, hotels.name AS hotel_name, "+
			"bookings.room_type_id, room_types.name AS room_type_name, "+
			"bookings.check_in, bookings.check_out, bookings.units, bookings.status, "+
			"bookings.guest_name, bookings.guest_email, bookings.total_price, bookings.created_at").
		Joins("JOIN hotels ON hotels.id = bookings.hotel_id").
		Joins("JOIN room_types ON room_types.id = bookings.room_type_id").
		Where("bookings.hotel_id = ?", hotelID)

	if f.Status != "" {
		q = q.Where("bookings.status = ?", f.Status)
	}
	if f.From != nil {
		q = q.Where("bookings.check_in >= ?", model.Date(*f.From))
	}
	if f.To != nil {
		q = q.Where("bookings.check_in <= ?", model.Date(*f.To))
	}

	var rows []BookingRow
	err := q.Order("bookings.created_at DESC").Limit(limit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// BookingDetails returns a single booking joined with its hotel and room
// type, or nil when the booking does not exist.
func (s *gormStore) BookingDetails(ctx context.Context, id string) (*BookingDetail, error) {
	var b model.Booking
	err := s.db.WithContext(ctx).First(&b, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	detail := &BookingDetail{Booking: b}

	var hotel model.Hotel
	if err := s.db.WithContext(ctx).First(&hotel, "id = ?", b.HotelID).Error; err == nil {
		detail.HotelName = hotel.Name
		detail.HotelCity = hotel.City
	}
	var rt model.RoomType
	if err := s.db.WithContext(ctx).First(&rt, "id = ?", b.RoomTypeID).Error; err == nil {
		detail.RoomTypeName = rt.Name
		detail.MaxOccupancy = rt.MaxOccupancy
	}
	return detail, nil
}
