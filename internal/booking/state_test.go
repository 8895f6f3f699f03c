package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hotel-booking-backend/internal/model"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from    model.BookingStatus
		to      model.BookingStatus
		allowed bool
	}{
		{model.StatusPending, model.StatusConfirmed, true},
		{model.StatusConfirmed, model.StatusCheckedIn, true},
		{model.StatusConfirmed, model.StatusCancelled, true},
		{model.StatusCheckedIn, model.StatusCheckedOut, true},
		{model.StatusCheckedIn, model.StatusCancelled, true},

		{model.StatusPending, model.StatusCheckedIn, false},
		{model.StatusConfirmed, model.StatusCheckedOut, false},
		{model.StatusCheckedOut, model.StatusCheckedIn, false},
		{model.StatusCheckedOut, model.StatusCancelled, false},
		{model.StatusCancelled, model.StatusConfirmed, false},
		{model.StatusCancelled, model.StatusCancelled, false},
		{model.StatusConfirmed, model.StatusConfirmed, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	for _, terminal := range []model.BookingStatus{model.StatusCheckedOut, model.StatusCancelled} {
		for _, to := range []model.BookingStatus{
			model.StatusPending, model.StatusConfirmed, model.StatusCheckedIn,
			model.StatusCheckedOut, model.StatusCancelled,
		} {
			assert.False(t, CanTransition(terminal, to), "%s -> %s must be forbidden", terminal, to)
		}
	}
}

func TestCancellableStatuses(t *testing.T) {
	assert.ElementsMatch(t,
		[]model.BookingStatus{model.StatusConfirmed, model.StatusCheckedIn},
		CancellableStatuses())
}
