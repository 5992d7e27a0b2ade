package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type Metadata map[string]any

type BookingStatus string

const (
	BOOKING_PENDING_PAYMENT BookingStatus = "pending_payment"
	BOOKING_CONFIRMED       BookingStatus = "confirmed"
	BOOKING_IN_PROGRESS     BookingStatus = "in_progress"
	BOOKING_COMPLETED       BookingStatus = "completed"
	BOOKING_CANCELLED       BookingStatus = "cancelled"
)

type PaymentStatus string

const (
	PAYMENT_PENDING  PaymentStatus = "pending_payment"
	PAYMENT_PAID     PaymentStatus = "paid"
	PAYMENT_FAILED   PaymentStatus = "failed"
	PAYMENT_REFUNDED PaymentStatus = "refunded"
)

type SessionStatus string

const (
	SESSION_SCHEDULED   SessionStatus = "scheduled"
	SESSION_IN_PROGRESS SessionStatus = "in_progress"
	SESSION_COMPLETED   SessionStatus = "completed"
	SESSION_CANCELLED   SessionStatus = "cancelled"
	SESSION_NO_SHOW     SessionStatus = "no_show"
)

type LessonType string

const (
	LESSON_INDIVIDUAL LessonType = "individual"
	LESSON_GROUP      LessonType = "group"
)

type SessionKind string

const (
	SESSION_SINGLE  SessionKind = "single"
	SESSION_PACKAGE SessionKind = "package"
)

type CardBrand string

const (
	BRAND_VISA       CardBrand = "VISA"
	BRAND_MASTERCARD CardBrand = "MASTER"
	BRAND_DISCOVER   CardBrand = "DISCOVER"
	BRAND_AMEX       CardBrand = "AMEX"
	BRAND_MADA       CardBrand = "MADA"
)

type Environment string

const (
	Local      Environment = "local"
	Test       Environment = "test"
	Production Environment = "production"
)

type Handler func(payload string)

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type CreateSlotRequestBody struct {
	CourseID  *uint   `json:"course_id,omitempty"`
	Date      string  `json:"date" binding:"required" time_format:"2006-01-02"`
	StartTime string  `json:"start_time" binding:"required,clocktime"`
	EndTime   string  `json:"end_time" binding:"required,clocktime,gtclock=StartTime"`
	Price     float64 `json:"price" binding:"required,gt=0"`
}

type SlotQueryFilters struct {
	TeacherID uint   `form:"teacher,omitempty"`
	Date      string `form:"date,omitempty"`
	Available *bool  `form:"available,omitempty"`
}

type CreateBookingRequestBody struct {
	SlotID        uint   `json:"slot_id" binding:"required"`
	LessonType    string `json:"lesson_type" binding:"required,oneof=individual group"`
	SessionType   string `json:"session_type" binding:"required,oneof=single package"`
	SessionsCount uint   `json:"sessions_count,omitempty" binding:"omitempty,min=1,max=52"`
}

type CardDetails struct {
	Number      string `json:"number" binding:"required,numeric,min=12,max=19"`
	Holder      string `json:"holder" binding:"required"`
	ExpiryMonth string `json:"expiry_month" binding:"required,len=2"`
	ExpiryYear  string `json:"expiry_year" binding:"required,len=4"`
	CVV         string `json:"cvv" binding:"required,min=3,max=4"`
}

type PayBookingRequestBody struct {
	Card           *CardDetails `json:"card,omitempty"`
	RegistrationID *string      `json:"registration_id,omitempty"`
	SaveCard       bool         `json:"save_card,omitempty"`
}

type CancelBookingRequestBody struct {
	Reason string `json:"reason,omitempty"`
}

type PaymentStatusQuery struct {
	CheckoutID string `form:"checkoutId" binding:"required"`
}

type PaymentCallbackQuery struct {
	ResourcePath string `form:"resourcePath" binding:"required"`
}

type RateSessionRequestBody struct {
	Rating uint8 `json:"rating" binding:"required,min=1,max=5"`
}

type CreateSettingRequestBody struct {
	Key   string `json:"key" binding:"required"`
	Value JSONB  `json:"value" binding:"required"`
	Group string `json:"group,omitempty"`
}
