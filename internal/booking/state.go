package booking

import "hotel-booking-backend/internal/model"

// Lifecycle: pending -> confirmed -> checked_in -> checked_out, with
// cancellation allowed from confirmed or checked_in. checked_out and
// cancelled are terminal. No transition may be applied twice.
var transitions = map[model.BookingStatus][]model.BookingStatus{
	model.StatusPending:   {model.StatusConfirmed},
	model.StatusConfirmed: {model.StatusCheckedIn, model.StatusCancelled},
	model.StatusCheckedIn: {model.StatusCheckedOut, model.StatusCancelled},
}

// CanTransition reports whether a booking may move from one status to
// another.
func CanTransition(from, to model.BookingStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CancellableStatuses lists the statuses a booking may be cancelled from.
// Cancelling releases the booking's ledger capacity, so only statuses that
// still hold capacity qualify.
func CancellableStatuses() []model.BookingStatus {
	return []model.BookingStatus{model.StatusConfirmed, model.StatusCheckedIn}
}
