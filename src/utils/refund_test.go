package utils

import (
	"testing"
	"time"
	"tutorhub/src/models"
	"tutorhub/src/types"

	"github.com/stretchr/testify/assert"
)

func TestRefundTiers(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	total := 200.0

	cases := []struct {
		hoursAhead time.Duration
		percentage int
		amount     float64
	}{
		{72 * time.Hour, 100, 200},
		{48 * time.Hour, 100, 200},
		{47 * time.Hour, 80, 160},
		{24 * time.Hour, 80, 160},
		{23 * time.Hour, 50, 100},
		{4 * time.Hour, 50, 100},
		{3 * time.Hour, 0, 0},
		{30 * time.Minute, 0, 0},
	}
	for _, c := range cases {
		percentage, amount := RefundFor(now, now.Add(c.hoursAhead), total)
		assert.Equalf(t, c.percentage, percentage, "%s ahead", c.hoursAhead)
		assert.Equalf(t, c.amount, amount, "%s ahead", c.hoursAhead)
	}
}

func TestRefundPastSessionStart(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	percentage, amount := RefundFor(now, now.Add(-2*time.Hour), 500)
	assert.Equal(t, 0, percentage)
	assert.Equal(t, 0.0, amount)
}

func TestCanCancelBooking(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	booking := &models.Booking{
		Status:           types.BOOKING_CONFIRMED,
		FirstSessionDate: time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
		StartTime:        "12:00",
	}
	assert.Nil(t, CanCancelBooking(booking, now))

	booking.Status = types.BOOKING_CANCELLED
	assert.ErrorIs(t, CanCancelBooking(booking, now), types.ErrRefundIneligible)

	booking.Status = types.BOOKING_COMPLETED
	assert.ErrorIs(t, CanCancelBooking(booking, now), types.ErrRefundIneligible)
}

func TestCancellationCutoffGate(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// 23 hours out would still map to a 50% refund on the schedule, but the
	// hard gate blocks the cancellation outright.
	booking := &models.Booking{
		Status:           types.BOOKING_CONFIRMED,
		FirstSessionDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		StartTime:        "11:00",
	}
	assert.ErrorIs(t, CanCancelBooking(booking, now), types.ErrRefundIneligible)
	percentage, _ := RefundFor(now, booking.FirstSessionStart(), 100)
	assert.Equal(t, 50, percentage)

	// Exactly at the cutoff is allowed.
	booking.StartTime = "12:00"
	assert.Nil(t, CanCancelBooking(booking, now))
}
