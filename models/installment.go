package models

import (
	"time"

	"gorm.io/gorm"
)

// Installment is one scheduled or realized cash inflow tied to an appointment.
// Credit-card installments are created already received with received_date set
// to their due date (accrual recognition); scheduled payments stay pending
// until reconciled.
type Installment struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
	AppointmentID     uint           `gorm:"not null;index" json:"appointment_id"`
	PatientName       string         `gorm:"size:255" json:"patient_name"`
	InstallmentNumber int            `gorm:"not null" json:"installment_number"`
	TotalInstallments int            `gorm:"not null;default:1" json:"total_installments"`
	Value             float64        `gorm:"not null" json:"value"`
	DueDate           time.Time      `gorm:"not null;index" json:"due_date"`
	IsReceived        bool           `gorm:"default:false;index" json:"is_received"`
	ReceivedDate      *time.Time     `json:"received_date"`
}

// TableName overrides the table name
func (Installment) TableName() string {
	return "installments"
}
