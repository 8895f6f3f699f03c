package booking

import (
	"errors"
	"fmt"

	"hotel-booking-backend/internal/model"
)

// Sentinel errors for classification with errors.Is. Handlers map these to
// HTTP statuses; the structured types below carry the caller-facing detail.
var (
	ErrValidation   = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid booking state")
	ErrStorage      = errors.New("storage failure")
)

// ValidationError reports a malformed request field. It is returned before
// any store access.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NotFoundError reports a reference to a booking, hotel or room type that
// does not exist.
type NotFoundError struct {
	Kind string // "booking", "hotel", "room type"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InvalidStateError reports a lifecycle transition attempted from a status
// that forbids it, or against a policy such as check-in before the
// scheduled date. Current carries the booking's status for diagnostics.
type InvalidStateError struct {
	BookingID string
	Current   model.BookingStatus
	Attempted string // "cancel", "check-in", "check-out"
	Reason    string // optional override for the default message
}

func (e *InvalidStateError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("cannot %s booking %s: %s", e.Attempted, e.BookingID, e.Reason)
	}
	return fmt.Sprintf("cannot %s booking %s: booking is %s", e.Attempted, e.BookingID, e.Current)
}

func (e *InvalidStateError) Unwrap() error { return ErrInvalidState }

// StorageError wraps an underlying persistence failure. The core does not
// retry; callers may retry the whole operation, but idempotency across
// retries is not guaranteed.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return ErrStorage }

// IsValidation reports whether err is a client input error.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsNotFound reports whether err references a missing entity.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsInvalidState reports whether err is a forbidden lifecycle transition.
func IsInvalidState(err error) bool { return errors.Is(err, ErrInvalidState) }
