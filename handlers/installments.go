package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/janduhyvictor94/bruna-clinica-sistema-sub000/billing"
	"github.com/janduhyvictor94/bruna-clinica-sistema-sub000/config"
	"github.com/janduhyvictor94/bruna-clinica-sistema-sub000/models"
)

type InstallmentHandler struct {
	db     *gorm.DB
	config *config.Config
}

func NewInstallmentHandler(db *gorm.DB, cfg *config.Config) *InstallmentHandler {
	return &InstallmentHandler{db: db, config: cfg}
}

func (h *InstallmentHandler) ListInstallments(c *gin.Context) {
	query := h.db.Order("due_date, installment_number")

	if c.Query("pending") == "true" {
		query = query.Where("is_received = ?", false)
	}
	if s := c.Query("month"); s != "" {
		from, err := time.ParseInLocation("2006-01", s, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month filter"})
			return
		}
		query = query.Where("due_date >= ? AND due_date < ?", from, from.AddDate(0, 1, 0))
	}
	if s := c.Query("appointment_id"); s != "" {
		query = query.Where("appointment_id = ?", s)
	}

	var installments []models.Installment
	if err := query.Find(&installments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch installments"})
		return
	}

	c.JSON(http.StatusOK, installments)
}

type ReceivePaymentRequest struct {
	Method          string  `json:"method" binding:"required"`
	DiscountPercent float64 `json:"discount_percent"`
	Installments    int     `json:"installments"`
	EntryID         string  `json:"entry_id"`
}

// ReceivePayment reconciles a pending installment: the row is marked
// received with the method the patient actually used, optionally re-split
// into a finer schedule, and the parent appointment's payment entry is
// rewritten to carry the final terms. The whole ledger update runs in one
// transaction.
func (h *InstallmentHandler) ReceivePayment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid installment ID"})
		return
	}

	var req ReceivePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var installment models.Installment
	if err := h.db.First(&installment, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Installment not found"})
		return
	}
	if installment.IsReceived {
		c.JSON(http.StatusConflict, gin.H{"error": "Installment already received"})
		return
	}

	now := nowDate()
	plan := billing.Reconcile(installment, req.Method, req.DiscountPercent, req.Installments, now)

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&plan.Updated).Error; err != nil {
			return err
		}
		if len(plan.Siblings) > 0 {
			if err := tx.Create(&plan.Siblings).Error; err != nil {
				return err
			}
		}

		var appt models.Appointment
		if err := tx.First(&appt, installment.AppointmentID).Error; err != nil {
			return err
		}
		payments, replaced := billing.ReconcilePayments(
			appt.Payments, req.EntryID, installment.Value,
			req.Method, plan.Updated.TotalInstallments, req.DiscountPercent, now,
		)
		if replaced {
			appt.Payments = payments
			appt.ProfitAmount = billing.Round2(billing.NetCashTotal(appt.Payments) - appt.CostAmount)
			if err := tx.Save(&appt).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to receive payment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"installment": plan.Updated,
		"siblings":    plan.Siblings,
	})
}
