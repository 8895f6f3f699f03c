package notification

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"hotel-booking-backend/internal/events"
	"hotel-booking-backend/internal/model"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// Job identifies one booking change to fan out to a hotel's staff.
type Job struct {
	HotelID   string
	BookingID string
	Kind      string
}

// WorkerPool manages a pool of workers that push booking changes to the
// staff subscribed to the affected hotel.
type WorkerPool struct {
	size    int
	jobs    chan Job
	db      *gorm.DB
	webpush *webpush.Options
	sender  NotificationSender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan Job, size*4),
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Notification worker %d started", id)
	for {
		select {
		case job := <-wp.jobs:
			wp.notifyHotelStaff(ctx, job)
		case <-ctx.Done():
			log.Printf("Notification worker %d shutting down", id)
			return
		}
	}
}

// BookingChanged queues a notification job. It never blocks the reservation
// path: when the queue is full the notification is dropped.
func (wp *WorkerPool) BookingChanged(hotelID, bookingID, kind string) {
	select {
	case wp.jobs <- Job{HotelID: hotelID, BookingID: bookingID, Kind: kind}:
	default:
		log.Printf("Notification queue full, dropping %s for booking %s", kind, bookingID)
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan Job {
	return wp.jobs
}

// notifyHotelStaff fetches the hotel's subscriptions and pushes a message
// describing the booking change.
func (wp *WorkerPool) notifyHotelStaff(ctx context.Context, job Job) {
	var subscriptions []model.PushSubscription
	err := wp.db.WithContext(ctx).
		Joins("JOIN subscription_hotel_mapping shm ON shm.push_subscription_endpoint = push_subscriptions.endpoint").
		Where("shm.hotel_id = ?", job.HotelID).
		Find(&subscriptions).Error
	if err != nil {
		log.Printf("Error fetching subscriptions for hotel %s: %v", job.HotelID, err)
		return
	}

	if len(subscriptions) == 0 {
		return
	}

	var booking model.Booking
	if err := wp.db.WithContext(ctx).First(&booking, "id = ?", job.BookingID).Error; err != nil {
		log.Printf("Error fetching booking %s: %v", job.BookingID, err)
		return
	}

	message := wp.message(ctx, job, &booking)
	log.Printf("Sending %d notifications for hotel %s", len(subscriptions), job.HotelID)
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, []byte(message))
	}
}

func (wp *WorkerPool) message(ctx context.Context, job Job, booking *model.Booking) string {
	hotelLabel := job.HotelID
	var hotel model.Hotel
	if err := wp.db.WithContext(ctx).Select("name").First(&hotel, "id = ?", job.HotelID).Error; err != nil {
		log.Printf("Error fetching hotel %s: %v", job.HotelID, err)
	} else if hotel.Name != "" {
		hotelLabel = hotel.Name
	}

	stay := fmt.Sprintf("%s to %s", booking.CheckIn.Format(model.DateLayout), booking.CheckOut.Format(model.DateLayout))
	switch job.Kind {
	case events.TypeBookingCreated:
		return fmt.Sprintf("New booking at %s: %s, %s", hotelLabel, booking.GuestName, stay)
	case events.TypeBookingCancelled:
		return fmt.Sprintf("Booking cancelled at %s: %s, %s", hotelLabel, booking.GuestName, stay)
	case events.TypeCheckedIn:
		return fmt.Sprintf("Guest checked in at %s: %s", hotelLabel, booking.GuestName)
	case events.TypeCheckedOut:
		return fmt.Sprintf("Guest checked out at %s: %s", hotelLabel, booking.GuestName)
	default:
		return fmt.Sprintf("Booking update at %s: %s", hotelLabel, booking.GuestName)
	}
}

// sendNotification sends a single web push notification.
func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == 410 {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
