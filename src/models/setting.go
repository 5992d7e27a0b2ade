package models

import (
	"tutorhub/src/types"

	"github.com/google/uuid"
)

// Setting is a per-user preference row, keyed uniquely per user.
type Setting struct {
	ID           uuid.UUID   `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID       uint        `gorm:"uniqueIndex:user_setting" json:"user_id,omitempty"`
	SettingKey   string      `gorm:"uniqueIndex:user_setting" json:"setting_key"`
	SettingValue types.JSONB `gorm:"type:jsonb" json:"setting_value"`
	Group        string      `json:"group,omitempty"`

	User User `gorm:"foreignKey:user_id" json:"-"`

	types.Timestamps
}
