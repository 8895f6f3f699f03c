package booking

import (
	"time"

	"github.com/shopspring/decimal"

	"hotel-booking-backend/internal/model"
)

// Quote is the price breakdown for a candidate stay. All amounts are
// fixed-point decimals; floats would drift under repeated aggregation.
type Quote struct {
	Nights       int             `json:"nights"`
	BasePrice    decimal.Decimal `json:"base_price"`
	ExtraCharges decimal.Decimal `json:"extra_charges"`
	TotalPrice   decimal.Decimal `json:"total_price"`
}

// ComputePrice is a pure function from stay parameters to a Quote.
//
// base  = rate * nights * units
// extra = excess guests * extra_guest_fee * nights, where excess guests is
// the occupancy beyond max_occupancy scaled across the booked units.
func ComputePrice(rt *model.RoomType, checkIn, checkOut time.Time, units, adults, children int) Quote {
	nights := int(model.Date(checkOut).Sub(model.Date(checkIn)).Hours() / 24)

	nightsDec := decimal.NewFromInt(int64(nights))
	base := rt.BasePricePerNight.Mul(nightsDec).Mul(decimal.NewFromInt(int64(units)))

	extra := decimal.Zero
	if excess := adults + children - rt.MaxOccupancy*units; excess > 0 {
		extra = rt.ExtraGuestFee.Mul(decimal.NewFromInt(int64(excess))).Mul(nightsDec)
	}

	return Quote{
		Nights:       nights,
		BasePrice:    base,
		ExtraCharges: extra,
		TotalPrice:   base.Add(extra),
	}
}
