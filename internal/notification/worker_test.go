package notification

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"hotel-booking-backend/internal/db"
	"hotel-booking-backend/internal/events"
	"hotel-booking-backend/internal/model"
)

// mockSender is a mock implementation of the NotificationSender interface.
type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// Send calls the mock SendFunc.
func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

func newTestDB(t *testing.T) *gorm.DB {
	gormDB, err := gorm.Open(sqlite.Open("file:notiftest_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	return gormDB
}

func seedBooking(t *testing.T, gormDB *gorm.DB) (model.Hotel, model.Booking) {
	hotel := model.Hotel{ID: uuid.NewString(), Name: "Harbor View"}
	require.NoError(t, gormDB.Create(&hotel).Error)

	booking := model.Booking{
		ID:           uuid.NewString(),
		HotelID:      hotel.ID,
		RoomTypeID:   uuid.NewString(),
		CheckIn:      model.Date(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)),
		CheckOut:     model.Date(time.Date(2026, 10, 4, 0, 0, 0, 0, time.UTC)),
		Units:        1,
		Adults:       2,
		GuestName:    "Alice Zhang",
		GuestEmail:   "alice@example.com",
		Status:       model.StatusConfirmed,
		BasePrice:    decimal.NewFromInt(300),
		ExtraCharges: decimal.Zero,
		TotalPrice:   decimal.NewFromInt(300),
	}
	require.NoError(t, gormDB.Create(&booking).Error)
	return hotel, booking
}

func subscribe(t *testing.T, gormDB *gorm.DB, endpoint string, hotel model.Hotel) model.PushSubscription {
	sub := model.PushSubscription{
		Endpoint: endpoint,
		P256DH:   "test_p256dh",
		Auth:     "test_auth",
	}
	require.NoError(t, gormDB.Create(&sub).Error)
	require.NoError(t, gormDB.Model(&sub).Association("Hotels").Append(&hotel))
	return sub
}

func TestWorkerPool_BookingChanged(t *testing.T) {
	wp := NewWorkerPool(1, newTestDB(t), &webpush.Options{})

	wp.BookingChanged("hotel-1", "booking-1", events.TypeBookingCreated)

	select {
	case job := <-wp.Jobs():
		assert.Equal(t, "hotel-1", job.HotelID)
		assert.Equal(t, "booking-1", job.BookingID)
		assert.Equal(t, events.TypeBookingCreated, job.Kind)
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for job to be queued")
	}
}

func TestWorkerPool_BookingChangedDropsWhenFull(t *testing.T) {
	wp := NewWorkerPool(1, newTestDB(t), &webpush.Options{})

	// Fill the buffered queue without a running worker; the next call must
	// return instead of blocking.
	for i := 0; i < cap(wp.Jobs()); i++ {
		wp.BookingChanged("hotel-1", "booking-1", events.TypeBookingCreated)
	}

	done := make(chan struct{})
	go func() {
		wp.BookingChanged("hotel-1", "booking-overflow", events.TypeBookingCreated)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("BookingChanged blocked on a full queue")
	}
}

func TestWorkerPool_NotifyHotelStaff(t *testing.T) {
	gormDB := newTestDB(t)
	wp := NewWorkerPool(1, gormDB, &webpush.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	hotel, booking := seedBooking(t, gormDB)
	subscribe(t, gormDB, "https://example.com/push", hotel)

	t.Run("sends notification for a new booking", func(t *testing.T) {
		var wg sync.WaitGroup
		wg.Add(1)

		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				assert.Equal(t, "https://example.com/push", sub.Endpoint)
				assert.Equal(t, "New booking at Harbor View: Alice Zhang, 2026-10-01 to 2026-10-04", string(payload))
				wg.Done()
				return &http.Response{
					StatusCode: http.StatusCreated,
					Body:       io.NopCloser(bytes.NewBufferString("")),
				}, nil
			},
		}

		wp.BookingChanged(hotel.ID, booking.ID, events.TypeBookingCreated)
		wg.Wait()
	})

	t.Run("deletes expired subscription", func(t *testing.T) {
		expired := subscribe(t, gormDB, "https://example.com/expired", hotel)

		var wg sync.WaitGroup
		wg.Add(2) // both subscriptions of the hotel receive the push

		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				defer wg.Done()
				status := http.StatusCreated
				if sub.Endpoint == expired.Endpoint {
					status = http.StatusGone
				}
				return &http.Response{
					StatusCode: status,
					Body:       io.NopCloser(bytes.NewBufferString("")),
				}, nil
			},
		}

		wp.BookingChanged(hotel.ID, booking.ID, events.TypeBookingCancelled)
		wg.Wait()

		assert.Eventually(t, func() bool {
			var count int64
			gormDB.Model(&model.PushSubscription{}).Where("endpoint = ?", expired.Endpoint).Count(&count)
			return count == 0
		}, 2*time.Second, 50*time.Millisecond, "expired subscription should be deleted")
	})

	t.Run("falls back to hotel ID when lookup fails", func(t *testing.T) {
		job := Job{HotelID: uuid.NewString(), BookingID: booking.ID, Kind: events.TypeCheckedIn}
		msg := wp.message(ctx, job, &booking)
		assert.Equal(t, "Guest checked in at "+job.HotelID+": Alice Zhang", msg)
	})
}
