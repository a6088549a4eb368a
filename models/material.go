package models

import (
	"time"

	"gorm.io/gorm"
)

type Material struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Name        string         `gorm:"size:255;not null;uniqueIndex" json:"name"`
	UnitCost    float64        `gorm:"default:0" json:"unit_cost"`
	Quantity    float64        `gorm:"default:0" json:"quantity"`
	MinQuantity float64        `gorm:"default:0" json:"min_quantity"`
	Unit        string         `gorm:"size:20" json:"unit"`
}

// TableName overrides the table name
func (Material) TableName() string {
	return "materials"
}
