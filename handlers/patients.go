package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/janduhyvictor94/bruna-clinica-sistema-sub000/config"
	"github.com/janduhyvictor94/bruna-clinica-sistema-sub000/finance"
	"github.com/janduhyvictor94/bruna-clinica-sistema-sub000/models"
)

type PatientHandler struct {
	db     *gorm.DB
	config *config.Config
}

func NewPatientHandler(db *gorm.DB, cfg *config.Config) *PatientHandler {
	return &PatientHandler{db: db, config: cfg}
}

type PatientRequest struct {
	Name      string `json:"name" binding:"required"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	BirthDate string `json:"birth_date"` // YYYY-MM-DD
	Notes     string `json:"notes"`
}

func (r *PatientRequest) apply(p *models.Patient) error {
	p.Name = r.Name
	p.Phone = r.Phone
	p.Email = r.Email
	p.Notes = r.Notes
	p.BirthDate = nil
	if r.BirthDate != "" {
		birth, err := parseDate(r.BirthDate)
		if err != nil {
			return err
		}
		p.BirthDate = &birth
	}
	return nil
}

func (h *PatientHandler) CreatePatient(c *gin.Context) {
	var req PatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var patient models.Patient
	if err := req.apply(&patient); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid birth date"})
		return
	}

	if err := h.db.Create(&patient).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create patient"})
		return
	}

	c.JSON(http.StatusCreated, patient)
}

func (h *PatientHandler) UpdatePatient(c *gin.Context) {
	id := c.Param("id")
	var patient models.Patient
	if err := h.db.First(&patient, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Patient not found"})
		return
	}

	var req PatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.apply(&patient); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid birth date"})
		return
	}

	if err := h.db.Save(&patient).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update patient"})
		return
	}

	c.JSON(http.StatusOK, patient)
}

func (h *PatientHandler) GetPatient(c *gin.Context) {
	id := c.Param("id")
	var patient models.Patient

	if err := h.db.First(&patient, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Patient not found"})
		return
	}

	c.JSON(http.StatusOK, patient)
}

func (h *PatientHandler) ListPatients(c *gin.Context) {
	query := h.db.Order("name")
	if s := c.Query("search"); s != "" {
		query = query.Where("name LIKE ?", "%"+s+"%")
	}

	var patients []models.Patient
	if err := query.Find(&patients).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch patients"})
		return
	}

	c.JSON(http.StatusOK, patients)
}

func (h *PatientHandler) DeletePatient(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid patient ID"})
		return
	}

	var patient models.Patient
	if err := h.db.First(&patient, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Patient not found"})
		return
	}

	// Cascade: every appointment and its derived records go with the
	// patient.
	err := h.db.Transaction(func(tx *gorm.DB) error {
		var appts []models.Appointment
		if err := tx.Where("patient_id = ?", patient.ID).Find(&appts).Error; err != nil {
			return err
		}
		for _, appt := range appts {
			if err := removeDerivedRecords(tx, appt.ID); err != nil {
				return err
			}
			if err := tx.Delete(&appt).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&patient).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete patient"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Patient deleted"})
}

// GetPatientSummary returns the patient's history with their financial
// aggregate: all appointments, all installments, and totals over the whole
// history (expenses are not subtracted on a per-patient view).
func (h *PatientHandler) GetPatientSummary(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid patient ID"})
		return
	}

	var patient models.Patient
	if err := h.db.First(&patient, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Patient not found"})
		return
	}

	var appts []models.Appointment
	if err := h.db.Where("patient_id = ?", patient.ID).Order("date desc").Find(&appts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch appointments"})
		return
	}

	apptIDs := make([]uint, 0, len(appts))
	for _, a := range appts {
		apptIDs = append(apptIDs, a.ID)
	}
	var installments []models.Installment
	if len(apptIDs) > 0 {
		if err := h.db.Where("appointment_id IN ?", apptIDs).Order("due_date").Find(&installments).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch installments"})
			return
		}
	}

	// All-history period.
	p := finance.Period{
		From: time.Date(2000, 1, 1, 0, 0, 0, 0, time.Local),
		To:   time.Date(2100, 1, 1, 0, 0, 0, 0, time.Local),
	}
	summary := finance.Summarize(appts, installments, nil, p, true)

	c.JSON(http.StatusOK, gin.H{
		"patient":      patient,
		"appointments": appts,
		"installments": installments,
		"summary":      summary,
	})
}
