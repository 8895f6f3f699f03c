// Package booking holds the reservation core: pricing, availability, the
// booking lifecycle and the coordinator that ties them to the inventory
// ledger. HTTP framing, authentication and UI concerns stay outside; the
// coordinator consumes a validated request and returns structured results.
package booking

import (
	"context"
	"errors"
	"log"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"hotel-booking-backend/internal/events"
	"hotel-booking-backend/internal/lock"
	"hotel-booking-backend/internal/model"
	"hotel-booking-backend/internal/store"
)

// Publisher emits booking lifecycle events. Publishing is best-effort and
// happens after commit; implementations must not be part of the write path.
type Publisher interface {
	Publish(ctx context.Context, event events.BookingEvent) error
}

// Notifier pushes a change signal for a hotel, e.g. to the staff
// notification worker pool. Must not block.
type Notifier interface {
	BookingChanged(hotelID, bookingID, kind string)
}

// Service is the reservation coordinator: the only write path that touches
// both the booking store and the inventory ledger. Writes for one room type
// are serialized through the lock provider and applied as one database
// transaction; reads run unserialized against committed state.
type Service struct {
	store             store.Store
	locks             lock.Locker
	publisher         Publisher
	notifier          Notifier
	allowEarlyCheckIn bool
	now               func() time.Time
}

// Option configures optional Service collaborators.
type Option func(*Service)

// WithPublisher attaches a lifecycle event publisher.
func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithNotifier attaches a staff notification dispatcher.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithEarlyCheckIn allows check-in before the scheduled date.
func WithEarlyCheckIn(allow bool) Option {
	return func(s *Service) { s.allowEarlyCheckIn = allow }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates the reservation coordinator.
func NewService(st store.Store, locks lock.Locker, opts ...Option) *Service {
	s := &Service{
		store: st,
		locks: locks,
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateBookingRequest is the canonical, caller-normalized input for a new
// booking. Field-name coalescing and defaulting of absent numerics belong
// to the HTTP layer.
type CreateBookingRequest struct {
	HotelID         string
	RoomTypeID      string
	CheckIn         time.Time
	CheckOut        time.Time
	Units           int
	Adults          int
	Children        int
	GuestName       string
	GuestEmail      string
	GuestPhone      string
	SpecialRequests string
}

// CreateResult reports the outcome of a create attempt. Success false with
// a nil error means insufficient availability: a normal negative result the
// caller can respond to with alternatives, not a fault.
type CreateResult struct {
	Success   bool   `json:"success"`
	BookingID string `json:"booking_id,omitempty"`
	Quote
	Message string `json:"message"`
}

func (r *CreateBookingRequest) validate() error {
	if _, err := uuid.Parse(r.HotelID); err != nil {
		return &ValidationError{Field: "hotel_id", Message: "must be a valid UUID"}
	}
	if _, err := uuid.Parse(r.RoomTypeID); err != nil {
		return &ValidationError{Field: "room_type_id", Message: "must be a valid UUID"}
	}
	if !model.Date(r.CheckOut).After(model.Date(r.CheckIn)) {
		return &ValidationError{Field: "check_out", Message: "must be after check_in"}
	}
	if r.Units < 1 {
		return &ValidationError{Field: "units", Message: "must be at least 1"}
	}
	if r.Adults < 1 {
		return &ValidationError{Field: "adults", Message: "must be at least 1"}
	}
	if r.Children < 0 {
		return &ValidationError{Field: "children", Message: "must not be negative"}
	}
	if len(strings.TrimSpace(r.GuestName)) < 2 {
		return &ValidationError{Field: "guest_name", Message: "must be at least 2 characters"}
	}
	if _, err := mail.ParseAddress(r.GuestEmail); err != nil {
		return &ValidationError{Field: "guest_email", Message: "must be a valid email address"}
	}
	return nil
}

// CreateBooking validates the request, serializes on the room type,
// re-checks availability inside the exclusive scope, prices the stay and
// commits the booking row together with the ledger increments as one
// atomic unit.
func (s *Service) CreateBooking(ctx context.Context, req CreateBookingRequest) (*CreateResult, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	release, err := s.locks.Acquire(ctx, req.RoomTypeID)
	if err != nil {
		return nil, &StorageError{Op: "acquire room type lock", Err: err}
	}
	defer release()

	rt, err := s.store.GetRoomType(ctx, req.RoomTypeID)
	if err != nil {
		return nil, mapStoreErr(err, "room type", req.RoomTypeID, "load room type")
	}
	if rt.HotelID != req.HotelID {
		return nil, &ValidationError{Field: "room_type_id", Message: "room type does not belong to hotel"}
	}

	// Any check the caller ran before this point was advisory; this one is
	// authoritative because we hold the serialization unit.
	avail, err := s.availability(ctx, rt, req.CheckIn, req.CheckOut, req.Units)
	if err != nil {
		return nil, err
	}
	if !avail.Available {
		return &CreateResult{Success: false, Message: "insufficient availability"}, nil
	}

	quote := ComputePrice(rt, req.CheckIn, req.CheckOut, req.Units, req.Adults, req.Children)

	b := &model.Booking{
		ID:              uuid.NewString(),
		HotelID:         req.HotelID,
		RoomTypeID:      req.RoomTypeID,
		CheckIn:         model.Date(req.CheckIn),
		CheckOut:        model.Date(req.CheckOut),
		Units:           req.Units,
		Adults:          req.Adults,
		Children:        req.Children,
		GuestName:       strings.TrimSpace(req.GuestName),
		GuestEmail:      req.GuestEmail,
		GuestPhone:      req.GuestPhone,
		SpecialRequests: req.SpecialRequests,
		Status:          model.StatusPending,
		BasePrice:       quote.BasePrice,
		ExtraCharges:    quote.ExtraCharges,
		TotalPrice:      quote.TotalPrice,
	}

	// pending -> confirmed happens inside the creation transaction; a
	// booking that cannot confirm is never persisted.
	if !CanTransition(b.Status, model.StatusConfirmed) {
		return nil, &InvalidStateError{BookingID: b.ID, Current: b.Status, Attempted: "confirm"}
	}
	b.Status = model.StatusConfirmed

	if err := s.store.CreateBooking(ctx, b); err != nil {
		switch {
		case errors.Is(err, store.ErrNoCapacity):
			return &CreateResult{Success: false, Message: "insufficient availability"}, nil
		case errors.Is(err, store.ErrNotFound):
			return nil, &NotFoundError{Kind: "room type", ID: req.RoomTypeID}
		default:
			return nil, &StorageError{Op: "create booking", Err: err}
		}
	}

	s.emit(ctx, events.TypeBookingCreated, b)

	return &CreateResult{
		Success:   true,
		BookingID: b.ID,
		Quote:     quote,
		Message:   "booking confirmed",
	}, nil
}

// Cancel releases the booking's ledger capacity and marks it cancelled.
// Allowed from confirmed or checked_in only; a second cancel reports the
// current state instead of succeeding again.
func (s *Service) Cancel(ctx context.Context, bookingID, reason string) (*model.Booking, error) {
	b, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	// Serialize on the room type so the ledger release cannot interleave
	// with a concurrent reservation's check-and-reserve.
	release, err := s.locks.Acquire(ctx, b.RoomTypeID)
	if err != nil {
		return nil, &StorageError{Op: "acquire room type lock", Err: err}
	}
	defer release()

	cancelled, err := s.store.CancelBooking(ctx, bookingID, CancellableStatuses(), reason, s.now())
	if err != nil {
		if errors.Is(err, store.ErrStatusConflict) {
			return nil, s.stateConflict(ctx, bookingID, "cancel")
		}
		if errors.Is(err, store.ErrNotFound) {
			return nil, &NotFoundError{Kind: "booking", ID: bookingID}
		}
		return nil, &StorageError{Op: "cancel booking", Err: err}
	}

	s.emit(ctx, events.TypeBookingCancelled, cancelled)
	return cancelled, nil
}

// CheckIn moves a confirmed booking to checked_in. Unless early check-in is
// enabled, it is refused before the scheduled check-in date.
func (s *Service) CheckIn(ctx context.Context, bookingID string) (*model.Booking, error) {
	b, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !s.allowEarlyCheckIn && model.Date(s.now()).Before(model.Date(b.CheckIn)) {
		return nil, &InvalidStateError{
			BookingID: bookingID,
			Current:   b.Status,
			Attempted: "check-in",
			Reason:    "stay begins " + b.CheckIn.Format(model.DateLayout),
		}
	}

	checkedIn, err := s.store.MarkCheckedIn(ctx, bookingID, s.now())
	if err != nil {
		if errors.Is(err, store.ErrStatusConflict) {
			return nil, s.stateConflict(ctx, bookingID, "check-in")
		}
		if errors.Is(err, store.ErrNotFound) {
			return nil, &NotFoundError{Kind: "booking", ID: bookingID}
		}
		return nil, &StorageError{Op: "check in booking", Err: err}
	}

	s.emit(ctx, events.TypeCheckedIn, checkedIn)
	return checkedIn, nil
}

// CheckOut completes a checked-in stay.
func (s *Service) CheckOut(ctx context.Context, bookingID string) (*model.Booking, error) {
	if _, err := s.loadBooking(ctx, bookingID); err != nil {
		return nil, err
	}

	checkedOut, err := s.store.MarkCheckedOut(ctx, bookingID, s.now())
	if err != nil {
		if errors.Is(err, store.ErrStatusConflict) {
			return nil, s.stateConflict(ctx, bookingID, "check-out")
		}
		if errors.Is(err, store.ErrNotFound) {
			return nil, &NotFoundError{Kind: "booking", ID: bookingID}
		}
		return nil, &StorageError{Op: "check out booking", Err: err}
	}

	s.emit(ctx, events.TypeCheckedOut, checkedOut)
	return checkedOut, nil
}

func (s *Service) loadBooking(ctx context.Context, bookingID string) (*model.Booking, error) {
	if _, err := uuid.Parse(bookingID); err != nil {
		return nil, &ValidationError{Field: "booking_id", Message: "must be a valid UUID"}
	}
	b, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, mapStoreErr(err, "booking", bookingID, "load booking")
	}
	return b, nil
}

// stateConflict turns a guarded-update miss into an InvalidStateError that
// carries the booking's current status.
func (s *Service) stateConflict(ctx context.Context, bookingID, attempted string) error {
	current, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return &StorageError{Op: "load booking after conflict", Err: err}
	}
	return &InvalidStateError{BookingID: bookingID, Current: current.Status, Attempted: attempted}
}

// emit publishes the lifecycle event and pokes the staff notifier. Both are
// best-effort: the booking has already committed.
func (s *Service) emit(ctx context.Context, kind string, b *model.Booking) {
	if s.publisher != nil {
		event := events.BookingEvent{
			Type:       kind,
			BookingID:  b.ID,
			HotelID:    b.HotelID,
			RoomTypeID: b.RoomTypeID,
			CheckIn:    b.CheckIn.Format(model.DateLayout),
			CheckOut:   b.CheckOut.Format(model.DateLayout),
			Units:      b.Units,
			GuestEmail: b.GuestEmail,
			Status:     string(b.Status),
			TotalPrice: b.TotalPrice.StringFixed(2),
			OccurredAt: s.now(),
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			log.Printf("failed to publish %s event for booking %s: %v", kind, b.ID, err)
		}
	}
	if s.notifier != nil {
		s.notifier.BookingChanged(b.HotelID, b.ID, kind)
	}
}

func mapStoreErr(err error, kind, id, op string) error {
	if errors.Is(err, store.ErrNotFound) {
		return &NotFoundError{Kind: kind, ID: id}
	}
	return &StorageError{Op: op, Err: err}
}
