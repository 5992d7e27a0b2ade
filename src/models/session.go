package models

import (
	"time"
	"tutorhub/src/types"
)

type Session struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	BookingID     uint      `gorm:"uniqueIndex:booking_session_no" json:"booking_id,omitempty"`
	StudentID     uint      `json:"student_id,omitempty"`
	TeacherID     uint      `json:"teacher_id,omitempty"`
	SessionNumber uint      `gorm:"uniqueIndex:booking_session_no" json:"session_number,omitempty"`
	SessionDate   time.Time `json:"session_date,omitempty"`
	StartTime     string    `json:"start_time,omitempty"`
	EndTime       string    `json:"end_time,omitempty"`
	// Duration in hours, copied from the booking.
	Duration float64             `json:"duration,omitempty"`
	Status   types.SessionStatus `gorm:"default:'scheduled'" json:"status,omitempty"`

	MeetingID *string `json:"meeting_id,omitempty"`
	JoinURL   *string `json:"join_url,omitempty"`
	HostURL   *string `json:"-"`

	StartedAt     *time.Time `json:"started_at,omitempty"`
	EndedAt       *time.Time `json:"ended_at,omitempty"`
	StudentRating *uint8     `json:"student_rating,omitempty"`
	TeacherRating *uint8     `json:"teacher_rating,omitempty"`

	Booking Booking `gorm:"foreignKey:booking_id" json:"-"`
	Student *User   `gorm:"foreignKey:student_id" json:"student,omitempty"`
	Teacher *User   `gorm:"foreignKey:teacher_id" json:"teacher,omitempty"`

	types.Timestamps
}

func (s *Session) StartDateTime() time.Time {
	return combineDateClock(s.SessionDate, s.StartTime)
}

func (s *Session) DurationMinutes() int {
	return int(s.Duration * 60)
}
