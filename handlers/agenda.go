package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/janduhyvictor94/bruna-clinica-sistema-sub000/config"
	"github.com/janduhyvictor94/bruna-clinica-sistema-sub000/models"
)

type AgendaHandler struct {
	db     *gorm.DB
	config *config.Config
}

func NewAgendaHandler(db *gorm.DB, cfg *config.Config) *AgendaHandler {
	return &AgendaHandler{db: db, config: cfg}
}

type DayConfigurationRequest struct {
	Weekday     int    `json:"weekday" binding:"gte=0,lte=6"`
	IsActive    bool   `json:"is_active"`
	StartTime   string `json:"start_time" binding:"required"`
	EndTime     string `json:"end_time" binding:"required"`
	SlotMinutes int    `json:"slot_minutes" binding:"gt=0"`
	LunchStart  string `json:"lunch_start"`
	LunchEnd    string `json:"lunch_end"`
}

// UpsertDayConfiguration creates or replaces the slot template for one
// weekday.
func (h *AgendaHandler) UpsertDayConfiguration(c *gin.Context) {
	var req DayConfigurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	for _, t := range []string{req.StartTime, req.EndTime} {
		if _, err := parseClock(t); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid time, expected HH:MM"})
			return
		}
	}

	cfg := models.DayConfiguration{
		Weekday:     req.Weekday,
		IsActive:    req.IsActive,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		SlotMinutes: req.SlotMinutes,
		LunchStart:  req.LunchStart,
		LunchEnd:    req.LunchEnd,
	}
	err := h.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "weekday"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"is_active", "start_time", "end_time", "slot_minutes", "lunch_start", "lunch_end", "updated_at",
		}),
	}).Create(&cfg).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save day configuration"})
		return
	}

	c.JSON(http.StatusOK, cfg)
}

func (h *AgendaHandler) ListDayConfigurations(c *gin.Context) {
	var configs []models.DayConfiguration
	if err := h.db.Order("weekday").Find(&configs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch day configurations"})
		return
	}
	c.JSON(http.StatusOK, configs)
}

func (h *AgendaHandler) DeleteDayConfiguration(c *gin.Context) {
	if err := h.db.Delete(&models.DayConfiguration{}, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete day configuration"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Day configuration deleted"})
}

type AgendaTemplateRequest struct {
	Name  string   `json:"name"`
	Date  string   `json:"date" binding:"required"` // YYYY-MM-DD
	Slots []string `json:"slots" binding:"required"`
}

func (h *AgendaHandler) CreateTemplate(c *gin.Context) {
	var req AgendaTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date"})
		return
	}
	for _, t := range req.Slots {
		if _, err := parseClock(t); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid slot time, expected HH:MM"})
			return
		}
	}

	template := models.AgendaTemplate{Name: req.Name, Date: date, Slots: req.Slots}
	if err := h.db.Create(&template).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "A template already exists for this date"})
		return
	}
	c.JSON(http.StatusCreated, template)
}

func (h *AgendaHandler) ListTemplates(c *gin.Context) {
	var templates []models.AgendaTemplate
	if err := h.db.Order("date").Find(&templates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch templates"})
		return
	}
	c.JSON(http.StatusOK, templates)
}

func (h *AgendaHandler) DeleteTemplate(c *gin.Context) {
	if err := h.db.Delete(&models.AgendaTemplate{}, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete template"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Template deleted"})
}

type BlockedDayRequest struct {
	Date   string `json:"date" binding:"required"` // YYYY-MM-DD
	Reason string `json:"reason"`
}

func (h *AgendaHandler) CreateBlockedDay(c *gin.Context) {
	var req BlockedDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date"})
		return
	}

	blocked := models.BlockedDay{Date: date, Reason: req.Reason}
	if err := h.db.Create(&blocked).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Day is already blocked"})
		return
	}
	c.JSON(http.StatusCreated, blocked)
}

func (h *AgendaHandler) ListBlockedDays(c *gin.Context) {
	var blocked []models.BlockedDay
	if err := h.db.Order("date").Find(&blocked).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch blocked days"})
		return
	}
	c.JSON(http.StatusOK, blocked)
}

func (h *AgendaHandler) DeleteBlockedDay(c *gin.Context) {
	if err := h.db.Delete(&models.BlockedDay{}, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unblock day"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Day unblocked"})
}

// Slot is one bookable time on a day.
type Slot struct {
	Time          string `json:"time"`
	Available     bool   `json:"available"`
	AppointmentID uint   `json:"appointment_id,omitempty"`
}

// GetSlots builds the slot list for a date: a blocked day has none, a
// template for the date overrides the weekday configuration, and slots
// already holding a non-cancelled appointment come back unavailable.
func (h *AgendaHandler) GetSlots(c *gin.Context) {
	date, err := parseDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing date, expected YYYY-MM-DD"})
		return
	}

	var blocked models.BlockedDay
	if err := h.db.Where("date = ?", date).First(&blocked).Error; err == nil {
		c.JSON(http.StatusOK, gin.H{"date": c.Query("date"), "blocked": true, "reason": blocked.Reason, "slots": []Slot{}})
		return
	}

	var times []string
	var template models.AgendaTemplate
	if err := h.db.Where("date = ?", date).First(&template).Error; err == nil {
		times = template.Slots
	} else {
		var cfg models.DayConfiguration
		if err := h.db.Where("weekday = ? AND is_active = ?", int(date.Weekday()), true).First(&cfg).Error; err != nil {
			c.JSON(http.StatusOK, gin.H{"date": c.Query("date"), "blocked": false, "slots": []Slot{}})
			return
		}
		times, err = buildSlotTimes(cfg)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid day configuration"})
			return
		}
	}

	var appts []models.Appointment
	if err := h.db.Where("date = ? AND status <> ?", date, models.StatusCancelled).Find(&appts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch appointments"})
		return
	}
	booked := make(map[string]uint)
	for _, a := range appts {
		booked[a.Time] = a.ID
	}

	slots := make([]Slot, 0, len(times))
	for _, t := range times {
		slot := Slot{Time: t, Available: true}
		if id, taken := booked[t]; taken {
			slot.Available = false
			slot.AppointmentID = id
		}
		slots = append(slots, slot)
	}

	c.JSON(http.StatusOK, gin.H{"date": c.Query("date"), "blocked": false, "slots": slots})
}

// parseClock converts HH:MM to minutes since midnight.
func parseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	hh, err := strconv.Atoi(parts[0])
	if err != nil || hh < 0 || hh > 23 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	mm, err := strconv.Atoi(parts[1])
	if err != nil || mm < 0 || mm > 59 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	return hh*60 + mm, nil
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// buildSlotTimes expands a weekday configuration into slot start times,
// skipping the lunch window.
func buildSlotTimes(cfg models.DayConfiguration) ([]string, error) {
	start, err := parseClock(cfg.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := parseClock(cfg.EndTime)
	if err != nil {
		return nil, err
	}

	lunchStart, lunchEnd := -1, -1
	if cfg.LunchStart != "" && cfg.LunchEnd != "" {
		if lunchStart, err = parseClock(cfg.LunchStart); err != nil {
			return nil, err
		}
		if lunchEnd, err = parseClock(cfg.LunchEnd); err != nil {
			return nil, err
		}
	}

	step := cfg.SlotMinutes
	if step <= 0 {
		step = 30
	}

	var times []string
	for t := start; t+step <= end; t += step {
		if lunchStart >= 0 && t < lunchEnd && t+step > lunchStart {
			continue
		}
		times = append(times, formatClock(t))
	}
	return times, nil
}
