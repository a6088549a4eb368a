package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/janduhyvictor94/bruna-clinica-sistema-sub000/billing"
	"github.com/janduhyvictor94/bruna-clinica-sistema-sub000/config"
	"github.com/janduhyvictor94/bruna-clinica-sistema-sub000/models"
)

type AppointmentHandler struct {
	db     *gorm.DB
	config *config.Config
}

func NewAppointmentHandler(db *gorm.DB, cfg *config.Config) *AppointmentHandler {
	return &AppointmentHandler{db: db, config: cfg}
}

type AppointmentRequest struct {
	PatientID  uint                   `json:"patient_id" binding:"required"`
	Date       string                 `json:"date" binding:"required"` // YYYY-MM-DD
	Time       string                 `json:"time"`
	Status     string                 `json:"status"`
	Type       string                 `json:"type"`
	Notes      string                 `json:"notes"`
	Procedures []models.ProcedureItem `json:"procedures"`
	Materials  []models.MaterialItem  `json:"materials"`
	Payments   []models.PaymentEntry  `json:"payments"`
}

// apply copies the request onto an appointment and recomputes the derived
// totals. Profit excludes credit-card and scheduled entries: those are
// recognized through the installment ledger, not as immediate cash.
func (r *AppointmentRequest) apply(appt *models.Appointment) error {
	date, err := parseDate(r.Date)
	if err != nil {
		return err
	}

	appt.PatientID = r.PatientID
	appt.Date = date
	appt.Time = r.Time
	appt.Status = r.Status
	if appt.Status == "" {
		appt.Status = models.StatusScheduled
	}
	appt.Type = r.Type
	if appt.Type == "" {
		appt.Type = "Novo"
	}
	appt.Notes = r.Notes
	appt.Procedures = r.Procedures
	appt.Materials = r.Materials

	appt.Payments = make(models.PaymentList, len(r.Payments))
	copy(appt.Payments, r.Payments)
	for i := range appt.Payments {
		if appt.Payments[i].EntryID == "" {
			appt.Payments[i].EntryID = uuid.NewString()
		}
	}

	appt.TotalAmount = 0
	for _, p := range appt.Procedures {
		appt.TotalAmount += p.Value
	}
	appt.TotalAmount = billing.Round2(appt.TotalAmount)

	appt.CostAmount = 0
	for _, m := range appt.Materials {
		appt.CostAmount += m.Cost * m.Quantity
	}
	appt.CostAmount = billing.Round2(appt.CostAmount)

	appt.ProfitAmount = billing.Round2(billing.NetCashTotal(appt.Payments) - appt.CostAmount)
	return nil
}

func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req AppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var patient models.Patient
	if err := h.db.First(&patient, req.PatientID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Patient not found"})
		return
	}

	var appt models.Appointment
	if err := req.apply(&appt); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment date"})
		return
	}

	// Validate the installment plan before touching the database so a bad
	// payment list produces zero writes.
	var plan []models.Installment
	if appt.Status == models.StatusPerformed {
		var err error
		plan, err = billing.GeneratePlan(appt.Payments, appt.Date, patient.Name)
		var verr *billing.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build installment plan"})
			return
		}
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&appt).Error; err != nil {
			return err
		}
		if appt.Status == models.StatusPerformed {
			return createDerivedRecords(tx, &appt, plan)
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create appointment"})
		return
	}

	c.JSON(http.StatusCreated, appt)
}

func (h *AppointmentHandler) UpdateAppointment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment ID"})
		return
	}

	var appt models.Appointment
	if err := h.db.First(&appt, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found"})
		return
	}

	var req AppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var patient models.Patient
	if err := h.db.First(&patient, req.PatientID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Patient not found"})
		return
	}

	if err := req.apply(&appt); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment date"})
		return
	}

	var plan []models.Installment
	if appt.Status == models.StatusPerformed {
		var err error
		plan, err = billing.GeneratePlan(appt.Payments, appt.Date, patient.Name)
		var verr *billing.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build installment plan"})
			return
		}
	}

	// Installments and stock movements are replaced wholesale, never
	// diffed: remove everything derived from the old save, then recreate
	// from the new one if it is performed.
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := removeDerivedRecords(tx, appt.ID); err != nil {
			return err
		}
		if err := tx.Save(&appt).Error; err != nil {
			return err
		}
		if appt.Status == models.StatusPerformed {
			return createDerivedRecords(tx, &appt, plan)
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update appointment"})
		return
	}

	c.JSON(http.StatusOK, appt)
}

func (h *AppointmentHandler) GetAppointment(c *gin.Context) {
	id := c.Param("id")
	var appt models.Appointment

	if err := h.db.Preload("Patient").First(&appt, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found"})
		return
	}

	c.JSON(http.StatusOK, appt)
}

func (h *AppointmentHandler) ListAppointments(c *gin.Context) {
	query := h.db.Preload("Patient").Order("date, time")

	if s := c.Query("date"); s != "" {
		date, err := parseDate(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date filter"})
			return
		}
		query = query.Where("date = ?", date)
	}
	if s := c.Query("status"); s != "" {
		query = query.Where("status = ?", s)
	}
	if s := c.Query("patient_id"); s != "" {
		query = query.Where("patient_id = ?", s)
	}

	var appts []models.Appointment
	if err := query.Find(&appts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch appointments"})
		return
	}

	c.JSON(http.StatusOK, appts)
}

func (h *AppointmentHandler) DeleteAppointment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment ID"})
		return
	}

	var appt models.Appointment
	if err := h.db.First(&appt, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found"})
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := removeDerivedRecords(tx, appt.ID); err != nil {
			return err
		}
		return tx.Delete(&appt).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete appointment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Appointment deleted"})
}

// createDerivedRecords persists the installment plan and one stock movement
// per consumed material, deducting material stock by name.
func createDerivedRecords(tx *gorm.DB, appt *models.Appointment, plan []models.Installment) error {
	for i := range plan {
		plan[i].AppointmentID = appt.ID
	}
	if len(plan) > 0 {
		if err := tx.Create(&plan).Error; err != nil {
			return err
		}
	}

	for _, m := range appt.Materials {
		movement := models.StockMovement{
			AppointmentID: appt.ID,
			MaterialName:  m.Name,
			Quantity:      m.Quantity,
			UnitCost:      m.Cost,
			TotalCost:     billing.Round2(m.Cost * m.Quantity),
			MovementDate:  appt.Date,
		}
		if err := tx.Create(&movement).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Material{}).
			Where("name = ?", m.Name).
			UpdateColumn("quantity", gorm.Expr("quantity - ?", m.Quantity)).Error; err != nil {
			return err
		}
	}
	return nil
}

// removeDerivedRecords deletes the installments and stock movements tied to
// an appointment, restoring the deducted stock.
func removeDerivedRecords(tx *gorm.DB, appointmentID uint) error {
	var movements []models.StockMovement
	if err := tx.Where("appointment_id = ?", appointmentID).Find(&movements).Error; err != nil {
		return err
	}
	for _, m := range movements {
		if err := tx.Model(&models.Material{}).
			Where("name = ?", m.MaterialName).
			UpdateColumn("quantity", gorm.Expr("quantity + ?", m.Quantity)).Error; err != nil {
			return err
		}
	}
	if err := tx.Where("appointment_id = ?", appointmentID).Delete(&models.StockMovement{}).Error; err != nil {
		return err
	}
	return tx.Where("appointment_id = ?", appointmentID).Delete(&models.Installment{}).Error
}

// nowDate is stubbed in tests.
var nowDate = func() time.Time { return billing.DateOnly(time.Now()) }
