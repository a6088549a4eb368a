package handlers

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/janduhyvictor94/bruna-clinica-sistema-sub000/billing"
	"github.com/janduhyvictor94/bruna-clinica-sistema-sub000/config"
	"github.com/janduhyvictor94/bruna-clinica-sistema-sub000/finance"
	"github.com/janduhyvictor94/bruna-clinica-sistema-sub000/models"
)

type ReportHandler struct {
	db     *gorm.DB
	config *config.Config
}

func NewReportHandler(db *gorm.DB, cfg *config.Config) *ReportHandler {
	return &ReportHandler{db: db, config: cfg}
}

// GetFinancialReport returns the per-month financial series for a year
// (defaults to the current year).
func (h *ReportHandler) GetFinancialReport(c *gin.Context) {
	year := time.Now().Year()
	if s := c.Query("year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
			return
		}
		year = y
	}

	p := finance.Period{
		From: time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local),
		To:   time.Date(year, time.December, 31, 0, 0, 0, 0, time.Local),
	}
	appts, installments, expenses, err := loadFinancialRows(h.db, p, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch financial data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":   year,
		"months": finance.MonthlySeries(appts, installments, expenses, year),
		"totals": finance.Summarize(appts, installments, expenses, p, false),
	})
}

// PatientReportRow is one line of the per-patient revenue report.
type PatientReportRow struct {
	PatientID    uint    `json:"patient_id"`
	PatientName  string  `json:"patient_name"`
	Appointments int     `json:"appointments"`
	Revenue      float64 `json:"revenue"`
	MaterialCost float64 `json:"material_cost"`
	Profit       float64 `json:"profit"`
}

// GetPatientReport aggregates performed-appointment revenue per patient for
// a period.
func (h *ReportHandler) GetPatientReport(c *gin.Context) {
	p, err := periodFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date range"})
		return
	}

	// Composite statuses still count as performed, matching the
	// aggregation path.
	var appts []models.Appointment
	if err := h.db.Preload("Patient").
		Where("date >= ? AND date <= ? AND status LIKE ?", p.From, p.To, "%"+models.StatusPerformed+"%").
		Find(&appts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch appointments"})
		return
	}

	apptIDs := make([]uint, 0, len(appts))
	for _, a := range appts {
		apptIDs = append(apptIDs, a.ID)
	}
	var installments []models.Installment
	if len(apptIDs) > 0 {
		if err := h.db.Where("appointment_id IN ?", apptIDs).Find(&installments).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch installments"})
			return
		}
	}

	receivedByAppt := make(map[uint]float64)
	for _, inst := range installments {
		if inst.IsReceived && inst.ReceivedDate != nil && p.Contains(*inst.ReceivedDate) {
			receivedByAppt[inst.AppointmentID] += inst.Value
		}
	}

	rowsByPatient := make(map[uint]*PatientReportRow)
	for _, a := range appts {
		row, ok := rowsByPatient[a.PatientID]
		if !ok {
			row = &PatientReportRow{PatientID: a.PatientID, PatientName: a.Patient.Name}
			rowsByPatient[a.PatientID] = row
		}
		row.Appointments++
		row.Revenue += billing.NetCashTotal(a.Payments) + receivedByAppt[a.ID]
		row.MaterialCost += a.CostAmount
	}

	rows := make([]PatientReportRow, 0, len(rowsByPatient))
	for _, row := range rowsByPatient {
		row.Revenue = billing.Round2(row.Revenue)
		row.MaterialCost = billing.Round2(row.MaterialCost)
		row.Profit = billing.Round2(row.Revenue - row.MaterialCost)
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Revenue > rows[j].Revenue })

	c.JSON(http.StatusOK, rows)
}
