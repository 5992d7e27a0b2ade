package models

import "tutorhub/src/types"

type Course struct {
	ID        uint    `gorm:"primarykey" json:"id"`
	TeacherID uint    `json:"teacher_id,omitempty"`
	Title     string  `json:"title,omitempty"`
	Slug      string  `gorm:"uniqueIndex" json:"slug,omitempty"`
	About     *string `json:"about,omitempty"`
	Subject   string  `json:"subject,omitempty"`

	Teacher User `gorm:"foreignKey:teacher_id" json:"-"`

	types.Timestamps
}
