package models

import (
	"time"
	"tutorhub/src/types"
)

type Payment struct {
	ID        uint                `gorm:"primarykey" json:"id"`
	BookingID uint                `gorm:"uniqueIndex" json:"booking_id,omitempty"`
	Amount    float64             `json:"amount,omitempty"`
	Currency  string              `json:"currency,omitempty"`
	Status    types.PaymentStatus `gorm:"default:'pending_payment'" json:"status,omitempty"`

	// TransactionReference is the merchant transaction id echoed back by the
	// gateway on asynchronous responses. The booking id parses back out of it.
	// Nullable so unassigned rows do not collide on the unique index.
	TransactionReference *string         `gorm:"uniqueIndex" json:"transaction_reference,omitempty"`
	GatewayReference     string          `json:"gateway_reference,omitempty"`
	PaymentMethod        types.CardBrand `json:"payment_method,omitempty"`
	RegistrationID       *string         `json:"-"`
	GatewayResponse      *types.JSONB    `gorm:"type:jsonb" json:"-"`

	PaidAt       *time.Time `json:"paid_at,omitempty"`
	RefundAmount float64    `json:"refund_amount"`
	RefundStatus string     `json:"refund_status,omitempty"`

	Booking Booking `gorm:"foreignKey:booking_id" json:"-"`

	types.Timestamps
}
