package utils

import (
	"tutorhub/src/models"
	"tutorhub/src/types"
)

// HourlyRateFor resolves the teacher's rate for a lesson type, falling back
// to the slot's own price when the teacher has not set one.
func HourlyRateFor(teacher *models.User, slot *models.AvailabilitySlot, lessonType types.LessonType) float64 {
	var rate *float64
	switch lessonType {
	case types.LESSON_GROUP:
		rate = teacher.GroupHourPrice
	default:
		rate = teacher.IndividualHourPrice
	}
	if rate == nil {
		return slot.Price
	}
	return *rate
}

// TotalAmountFor prices a booking across all of its sessions.
func TotalAmountFor(teacher *models.User, slot *models.AvailabilitySlot, lessonType types.LessonType, sessionsCount uint) float64 {
	rate := HourlyRateFor(teacher, slot, lessonType)
	return slot.DurationHours() * rate * float64(sessionsCount)
}
