package models

import (
	"time"
	"tutorhub/src/config"
	"tutorhub/src/types"
)

type AvailabilitySlot struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	TeacherID   uint      `json:"teacher_id,omitempty"`
	CourseID    *uint     `json:"course_id,omitempty"`
	Date        time.Time `json:"date,omitempty"`
	StartTime   string    `json:"start_time,omitempty"`
	EndTime     string    `json:"end_time,omitempty"`
	Price       float64   `json:"price"`
	IsAvailable bool      `gorm:"default:true" json:"is_available"`
	IsBooked    bool      `gorm:"default:false" json:"is_booked"`
	BookingID   *uint     `json:"booking_id,omitempty"`

	Teacher User    `gorm:"foreignKey:teacher_id" json:"teacher,omitempty"`
	Course  *Course `gorm:"foreignKey:course_id" json:"course,omitempty"`

	types.Timestamps
}

// StartDateTime combines the slot date with its wall-clock start time.
func (s *AvailabilitySlot) StartDateTime() time.Time {
	return combineDateClock(s.Date, s.StartTime)
}

func (s *AvailabilitySlot) EndDateTime() time.Time {
	return combineDateClock(s.Date, s.EndTime)
}

// DurationHours is derived from the slot's clock window.
func (s *AvailabilitySlot) DurationHours() float64 {
	return s.EndDateTime().Sub(s.StartDateTime()).Hours()
}

func combineDateClock(date time.Time, clock string) time.Time {
	t, err := time.Parse(config.CLOCK_PARSE_FORMAT, clock)
	if err != nil {
		return date
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location())
}
