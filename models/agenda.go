package models

import (
	"database/sql/driver"
	"time"

	"gorm.io/gorm"
)

// DayConfiguration is the recurring slot template for one weekday
// (0 = Sunday .. 6 = Saturday).
type DayConfiguration struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Weekday      int            `gorm:"not null;uniqueIndex" json:"weekday"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	StartTime    string         `gorm:"size:5;not null" json:"start_time"` // HH:MM
	EndTime      string         `gorm:"size:5;not null" json:"end_time"`
	SlotMinutes  int            `gorm:"default:30" json:"slot_minutes"`
	LunchStart   string         `gorm:"size:5" json:"lunch_start"`
	LunchEnd     string         `gorm:"size:5" json:"lunch_end"`
}

// TableName overrides the table name
func (DayConfiguration) TableName() string {
	return "day_configurations"
}

// AgendaTemplate overrides the weekday template for a single date with an
// explicit list of slot times.
type AgendaTemplate struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Name      string         `gorm:"size:100" json:"name"`
	Date      time.Time      `gorm:"not null;uniqueIndex" json:"date"`
	Slots     StringList     `gorm:"type:text" json:"slots"` // HH:MM values
}

// TableName overrides the table name
func (AgendaTemplate) TableName() string {
	return "agenda_templates"
}

type BlockedDay struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Date      time.Time      `gorm:"not null;uniqueIndex" json:"date"`
	Reason    string         `gorm:"size:255" json:"reason"`
}

// TableName overrides the table name
func (BlockedDay) TableName() string {
	return "blocked_days"
}

type StringList []string

func (l StringList) Value() (driver.Value, error)  { return jsonValue(l) }
func (l *StringList) Scan(value interface{}) error { return jsonScan(l, value) }
