package utils

import (
	"testing"
	"time"
	"tutorhub/src/models"
	"tutorhub/src/types"

	"github.com/stretchr/testify/assert"
)

func TestHourlyRateFor(t *testing.T) {
	individual := 100.0
	group := 60.0
	teacher := &models.User{IndividualHourPrice: &individual, GroupHourPrice: &group}
	slot := &models.AvailabilitySlot{Price: 80}

	assert.Equal(t, 100.0, HourlyRateFor(teacher, slot, types.LESSON_INDIVIDUAL))
	assert.Equal(t, 60.0, HourlyRateFor(teacher, slot, types.LESSON_GROUP))

	// No rate configured: fall back to the slot price.
	bare := &models.User{}
	assert.Equal(t, 80.0, HourlyRateFor(bare, slot, types.LESSON_INDIVIDUAL))
	assert.Equal(t, 80.0, HourlyRateFor(bare, slot, types.LESSON_GROUP))
}

func TestTotalAmountFor(t *testing.T) {
	individual := 100.0
	teacher := &models.User{IndividualHourPrice: &individual}
	slot := &models.AvailabilitySlot{
		Date:      time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		StartTime: "14:00",
		EndTime:   "16:00",
	}

	// Two-hour slot at 100/hour.
	assert.Equal(t, 200.0, TotalAmountFor(teacher, slot, types.LESSON_INDIVIDUAL, 1))

	// A four-session package multiplies the per-session amount.
	assert.Equal(t, 800.0, TotalAmountFor(teacher, slot, types.LESSON_INDIVIDUAL, 4))
}
