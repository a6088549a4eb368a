package models

import (
	"time"

	"gorm.io/gorm"
)

type Expense struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Description string         `gorm:"size:255;not null" json:"description"`
	Category    string         `gorm:"size:100" json:"category"`
	Amount      float64        `gorm:"not null" json:"amount"`
	DueDate     time.Time      `gorm:"not null;index" json:"due_date"`
	IsPaid      bool           `gorm:"default:false;index" json:"is_paid"`
	PaidDate    *time.Time     `json:"paid_date"`
}

// TableName overrides the table name
func (Expense) TableName() string {
	return "expenses"
}
