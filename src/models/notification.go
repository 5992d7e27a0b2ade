package models

import (
	"tutorhub/src/types"

	"github.com/google/uuid"
)

type Notification struct {
	ID          uuid.UUID    `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID      uint         `json:"user_id,omitempty"`
	Type        string       `json:"type,omitempty"`
	Title       string       `json:"title,omitempty"`
	Body        string       `json:"body,omitempty"`
	Data        *types.JSONB `gorm:"type:jsonb" json:"data,omitempty"`
	ReadAt      *string      `json:"read_at,omitempty"`
	ReferenceID string       `json:"reference_id,omitempty"`

	User User `gorm:"foreignKey:user_id" json:"-"`

	types.Timestamps
}
