package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/janduhyvictor94/bruna-clinica-sistema-sub000/config"
	"github.com/janduhyvictor94/bruna-clinica-sistema-sub000/finance"
	"github.com/janduhyvictor94/bruna-clinica-sistema-sub000/models"
)

type DashboardHandler struct {
	db     *gorm.DB
	config *config.Config
}

func NewDashboardHandler(db *gorm.DB, cfg *config.Config) *DashboardHandler {
	return &DashboardHandler{db: db, config: cfg}
}

// loadFinancialRows fetches the rows the aggregation needs, pushing the date
// range (and optional patient) filters into SQL instead of scanning whole
// tables. Installments are fetched when either their received date or due
// date touches the period, so both realized and pending totals come out of
// one read.
func loadFinancialRows(db *gorm.DB, p finance.Period, patientID uint) ([]models.Appointment, []models.Installment, []models.Expense, error) {
	apptQuery := db.Where("date >= ? AND date <= ?", p.From, p.To)
	if patientID != 0 {
		apptQuery = apptQuery.Where("patient_id = ?", patientID)
	}
	var appts []models.Appointment
	if err := apptQuery.Find(&appts).Error; err != nil {
		return nil, nil, nil, err
	}

	instQuery := db.Where(
		"(received_date >= ? AND received_date <= ?) OR (due_date >= ? AND due_date <= ?)",
		p.From, p.To, p.From, p.To,
	)
	if patientID != 0 {
		instQuery = instQuery.Where(
			"appointment_id IN (?)",
			db.Model(&models.Appointment{}).Select("id").Where("patient_id = ?", patientID),
		)
	}
	var installments []models.Installment
	if err := instQuery.Find(&installments).Error; err != nil {
		return nil, nil, nil, err
	}

	var expenses []models.Expense
	if patientID == 0 {
		if err := db.Where("paid_date >= ? AND paid_date <= ?", p.From, p.To).Find(&expenses).Error; err != nil {
			return nil, nil, nil, err
		}
	}

	return appts, installments, expenses, nil
}

// GetDashboard returns the financial aggregate for a period (defaults to
// the current month), optionally filtered to one patient, plus the month's
// goal progress when one is configured.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	p, err := periodFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date range"})
		return
	}

	var patientID uint
	if s := c.Query("patient_id"); s != "" {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid patient ID"})
			return
		}
		patientID = uint(id)
	}

	appts, installments, expenses, err := loadFinancialRows(h.db, p, patientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch financial data"})
		return
	}

	summary := finance.Summarize(appts, installments, expenses, p, patientID != 0)

	response := gin.H{"summary": summary}

	month := p.From.Format("2006-01")
	var goal models.Goal
	if err := h.db.Where("month = ?", month).First(&goal).Error; err == nil {
		response["goal_progress"] = finance.Progress(goal, summary)
	}

	c.JSON(http.StatusOK, response)
}
