package utils

import (
	"time"
	"tutorhub/src/models"
	"tutorhub/src/types"
)

// Cancellation is blocked entirely inside this window before the first
// session, regardless of the refund schedule below.
const CancellationCutoff = 24 * time.Hour

// RefundFor maps the time remaining before a session to a refund. The tiers
// only govern the amount; eligibility is decided by CanCancelBooking.
func RefundFor(now time.Time, sessionStart time.Time, totalAmount float64) (percentage int, amount float64) {
	hoursLeft := sessionStart.Sub(now).Hours()
	switch {
	case hoursLeft >= 48:
		percentage = 100
	case hoursLeft >= 24:
		percentage = 80
	case hoursLeft >= 4:
		percentage = 50
	default:
		percentage = 0
	}
	amount = totalAmount * float64(percentage) / 100
	return percentage, amount
}

// CanCancelBooking is the hard gate in front of the refund schedule. It fails
// on terminal statuses and inside the final 24 hours before the first
// session, even though a 0% refund would otherwise be computable.
func CanCancelBooking(booking *models.Booking, now time.Time) error {
	if booking.Status == types.BOOKING_CANCELLED || booking.Status == types.BOOKING_COMPLETED {
		return types.ErrRefundIneligible
	}
	if booking.FirstSessionStart().Sub(now) < CancellationCutoff {
		return types.ErrRefundIneligible
	}
	return nil
}
