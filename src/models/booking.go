package models

import (
	"time"
	"tutorhub/src/types"
)

type Booking struct {
	ID               uint              `gorm:"primarykey" json:"id"`
	StudentID        uint              `json:"student_id,omitempty"`
	TeacherID        uint              `json:"teacher_id,omitempty"`
	CourseID         *uint             `json:"course_id,omitempty"`
	SlotID           uint              `json:"slot_id,omitempty"`
	LessonType       types.LessonType  `json:"lesson_type,omitempty"`
	SessionType      types.SessionKind `json:"session_type,omitempty"`
	FirstSessionDate time.Time         `json:"first_session_date,omitempty"`
	StartTime        string            `json:"start_time,omitempty"`
	EndTime          string            `json:"end_time,omitempty"`
	// Duration of a single session in hours.
	Duration          float64             `json:"duration,omitempty"`
	SessionsCount     uint                `json:"sessions_count,omitempty"`
	SessionsCompleted uint                `json:"sessions_completed"`
	TotalAmount       float64             `json:"total_amount,omitempty"`
	Currency          string              `json:"currency,omitempty"`
	Status            types.BookingStatus `gorm:"default:'pending_payment'" json:"status,omitempty"`
	BookingReference  string              `gorm:"uniqueIndex" json:"booking_reference,omitempty"`

	CancellationReason *string `json:"cancellation_reason,omitempty"`
	RefundAmount       float64 `json:"refund_amount"`
	RefundPercentage   int     `json:"refund_percentage"`

	Student *User             `gorm:"foreignKey:student_id" json:"student,omitempty"`
	Teacher *User             `gorm:"foreignKey:teacher_id" json:"teacher,omitempty"`
	Course  *Course           `gorm:"foreignKey:course_id" json:"course,omitempty"`
	Slot    *AvailabilitySlot `gorm:"foreignKey:slot_id" json:"slot,omitempty"`
	Payment *Payment          `json:"payment,omitempty"`
	Sess    []Session         `gorm:"foreignKey:booking_id" json:"sessions,omitempty"`

	types.Timestamps
}

// FirstSessionStart is the instant the first lesson begins, used by both the
// cancellation gate and the refund schedule.
func (b *Booking) FirstSessionStart() time.Time {
	return combineDateClock(b.FirstSessionDate, b.StartTime)
}
