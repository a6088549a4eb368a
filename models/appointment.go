package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Appointment statuses. Revenue and stock are only recognized for "Realizado".
const (
	StatusScheduled = "Agendado"
	StatusConfirmed = "Confirmado"
	StatusPerformed = "Realizado"
	StatusCancelled = "Cancelado"
	StatusNoShow    = "Faltou"
)

// ProcedureItem is one billed procedure on an appointment.
type ProcedureItem struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// MaterialItem is one material consumed during an appointment.
type MaterialItem struct {
	Name     string  `json:"name"`
	Cost     float64 `json:"cost"`
	Quantity float64 `json:"quantity"`
}

// PaymentEntry is one payment instrument applied to the appointment total.
// EntryID is generated server-side so reconciliation can address a specific
// entry instead of matching by value.
type PaymentEntry struct {
	EntryID         string     `json:"entry_id"`
	Method          string     `json:"method"`
	Value           float64    `json:"value"`
	Installments    int        `json:"installments"`
	DiscountPercent float64    `json:"discount_percent"`
	ScheduledDate   string     `json:"scheduled_date,omitempty"` // YYYY-MM-DD, scheduled-payment method only
	ReconciledAt    *time.Time `json:"reconciled_at,omitempty"`
}

type ProcedureList []ProcedureItem
type MaterialList []MaterialItem
type PaymentList []PaymentEntry

type Appointment struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	PatientID    uint           `gorm:"not null;index" json:"patient_id"`
	Patient      Patient        `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Date         time.Time      `gorm:"not null;index" json:"date"`
	Time         string         `gorm:"size:5" json:"time"` // HH:MM
	Status       string         `gorm:"size:20;default:'Agendado';index" json:"status"`
	Type         string         `gorm:"size:20;default:'Novo'" json:"type"` // Novo, Recorrente
	Notes        string         `gorm:"type:text" json:"notes"`
	Procedures   ProcedureList  `gorm:"type:text" json:"procedures"`
	Materials    MaterialList   `gorm:"type:text" json:"materials"`
	Payments     PaymentList    `gorm:"type:text" json:"payments"`
	TotalAmount  float64        `gorm:"default:0" json:"total_amount"`
	CostAmount   float64        `gorm:"default:0" json:"cost_amount"`
	ProfitAmount float64        `gorm:"default:0" json:"profit_amount"`
}

// TableName overrides the table name
func (Appointment) TableName() string {
	return "appointments"
}

func jsonValue(v interface{}) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func jsonScan(dest interface{}, value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return errors.New("unsupported column type for JSON list")
	}
}

func (l ProcedureList) Value() (driver.Value, error)  { return jsonValue(l) }
func (l *ProcedureList) Scan(value interface{}) error { return jsonScan(l, value) }
func (l MaterialList) Value() (driver.Value, error)   { return jsonValue(l) }
func (l *MaterialList) Scan(value interface{}) error  { return jsonScan(l, value) }
func (l PaymentList) Value() (driver.Value, error)    { return jsonValue(l) }
func (l *PaymentList) Scan(value interface{}) error   { return jsonScan(l, value) }
