package models

import (
	"time"

	"gorm.io/gorm"
)

type Procedure struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Name      string         `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Value     float64        `gorm:"default:0" json:"value"`
}

// TableName overrides the table name
func (Procedure) TableName() string {
	return "procedures"
}
