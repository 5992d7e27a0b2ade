package models

import (
	"time"
	"tutorhub/src/types"
)

type User struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	Name          string    `json:"name,omitempty"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Role          string    `json:"role,omitempty"`
	UID           string    `json:"uid,omitempty"`
	EmailVerified bool      `json:"email_verified,omitempty"`
	VerifiedAt    time.Time `json:"verified_at,omitempty"`
	Timezone      string    `json:"timezone,omitempty"`

	// Hourly rates set by teachers. A nil rate falls back to the slot price.
	IndividualHourPrice *float64 `json:"individual_hour_price,omitempty"`
	GroupHourPrice      *float64 `json:"group_hour_price,omitempty"`

	Metadata *types.Metadata `gorm:"type:jsonb" json:"-"`

	Bookings []Booking          `gorm:"foreignKey:student_id" json:"bookings,omitempty"`
	Slots    []AvailabilitySlot `gorm:"foreignKey:teacher_id" json:"slots,omitempty"`
	Courses  []Course           `gorm:"foreignKey:teacher_id" json:"courses,omitempty"`

	types.Timestamps
}
