package models

import (
	"time"

	"gorm.io/gorm"
)

// StockMovement records one inventory deduction tied to an appointment's
// material list. Movements are replaced wholesale whenever the appointment is
// saved as performed, and removed (with stock restored) when it is not.
type StockMovement struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	AppointmentID uint           `gorm:"not null;index" json:"appointment_id"`
	MaterialName  string         `gorm:"size:255;not null" json:"material_name"`
	Quantity      float64        `gorm:"not null" json:"quantity"`
	UnitCost      float64        `gorm:"not null" json:"unit_cost"`
	TotalCost     float64        `gorm:"not null" json:"total_cost"`
	MovementDate  time.Time      `gorm:"not null;index" json:"movement_date"`
}

// TableName overrides the table name
func (StockMovement) TableName() string {
	return "stock_movements"
}
