package models

import (
	"time"

	"gorm.io/gorm"
)

type Patient struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Phone     string         `gorm:"size:20" json:"phone"`
	Email     string         `gorm:"size:255" json:"email"`
	BirthDate *time.Time     `json:"birth_date"`
	Notes     string         `gorm:"type:text" json:"notes"`
}

// TableName overrides the table name
func (Patient) TableName() string {
	return "patients"
}
