package models

import (
	"time"

	"gorm.io/gorm"
)

// Goal holds the monthly targets shown on the dashboard. Month is YYYY-MM.
type Goal struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
	Month              string         `gorm:"size:7;not null;uniqueIndex" json:"month"`
	RevenueTarget      float64        `gorm:"default:0" json:"revenue_target"`
	AppointmentsTarget int            `gorm:"default:0" json:"appointments_target"`
}

// TableName overrides the table name
func (Goal) TableName() string {
	return "goals"
}
