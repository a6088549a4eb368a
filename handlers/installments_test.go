package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/janduhyvictor94/bruna-clinica-sistema-sub000/billing"
	appconfig "github.com/janduhyvictor94/bruna-clinica-sistema-sub000/config"
	"github.com/janduhyvictor94/bruna-clinica-sistema-sub000/models"
)

func setupInstallmentRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewInstallmentHandler(db, &appconfig.Config{})

	router := gin.New()
	router.GET("/installments", handler.ListInstallments)
	router.POST("/installments/:id/receive", handler.ReceivePayment)
	return router
}

// seedPendingScheduled creates a performed appointment paid with a single
// scheduled payment and its one pending installment, the state the receive
// flow starts from.
func seedPendingScheduled(t *testing.T, db *gorm.DB, value float64) (models.Appointment, models.Installment) {
	patient := seedPatient(t, db, "Maria Silva")

	appt := models.Appointment{
		PatientID: patient.ID,
		Date:      time.Date(2025, time.April, 1, 0, 0, 0, 0, time.Local),
		Status:    models.StatusPerformed,
		Payments: models.PaymentList{
			{EntryID: "entry-1", Method: billing.MethodScheduled, Value: value, Installments: 1, ScheduledDate: "2025-05-01"},
		},
	}
	assert.NoError(t, db.Create(&appt).Error)

	installment := models.Installment{
		AppointmentID:     appt.ID,
		PatientName:       patient.Name,
		InstallmentNumber: 1,
		TotalInstallments: 1,
		Value:             value,
		DueDate:           time.Date(2025, time.May, 1, 0, 0, 0, 0, time.Local),
	}
	assert.NoError(t, db.Create(&installment).Error)
	return appt, installment
}

func TestReceivePaymentCreditThreeInstallments(t *testing.T) {
	db := setupTestDB(t)
	router := setupInstallmentRouter(db)
	today := time.Date(2025, time.May, 10, 0, 0, 0, 0, time.Local)
	stubNow(t, today)

	appt, installment := seedPendingScheduled(t, db, 900)

	w := postJSON(router, "POST", fmt.Sprintf("/installments/%d/receive", installment.ID), ReceivePaymentRequest{
		Method:       billing.MethodCredit,
		Installments: 3,
		EntryID:      "entry-1",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var rows []models.Installment
	assert.NoError(t, db.Order("installment_number").Find(&rows).Error)
	assert.Len(t, rows, 3)
	for i, row := range rows {
		assert.Equal(t, i+1, row.InstallmentNumber)
		assert.Equal(t, 3, row.TotalInstallments)
		assert.Equal(t, 300.0, row.Value)
		assert.True(t, row.IsReceived)
		expectedDue := billing.AddMonths(today, i+1)
		assert.Equal(t, expectedDue.Format("2006-01-02"), row.DueDate.Format("2006-01-02"))
		if assert.NotNil(t, row.ReceivedDate) {
			assert.Equal(t, expectedDue.Format("2006-01-02"), row.ReceivedDate.Format("2006-01-02"))
		}
	}

	// The scheduled entry now carries the final terms.
	var updated models.Appointment
	assert.NoError(t, db.First(&updated, appt.ID).Error)
	assert.Len(t, updated.Payments, 1)
	assert.Equal(t, billing.MethodCredit, updated.Payments[0].Method)
	assert.Equal(t, 900.0, updated.Payments[0].Value)
	assert.Equal(t, 3, updated.Payments[0].Installments)
	assert.NotNil(t, updated.Payments[0].ReconciledAt)
}

func TestReceivePaymentPixWithDiscount(t *testing.T) {
	db := setupTestDB(t)
	router := setupInstallmentRouter(db)
	today := time.Date(2025, time.May, 10, 0, 0, 0, 0, time.Local)
	stubNow(t, today)

	appt, installment := seedPendingScheduled(t, db, 200)

	w := postJSON(router, "POST", fmt.Sprintf("/installments/%d/receive", installment.ID), ReceivePaymentRequest{
		Method:          billing.MethodPix,
		DiscountPercent: 10,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var rows []models.Installment
	assert.NoError(t, db.Find(&rows).Error)
	assert.Len(t, rows, 1)
	assert.Equal(t, 180.0, rows[0].Value)
	assert.True(t, rows[0].IsReceived)
	assert.Equal(t, today.Format("2006-01-02"), rows[0].DueDate.Format("2006-01-02"))
	if assert.NotNil(t, rows[0].ReceivedDate) {
		assert.Equal(t, today.Format("2006-01-02"), rows[0].ReceivedDate.Format("2006-01-02"))
	}

	// A reconciled cash-like entry must not re-enter the profit as cash:
	// its money already lives in the received installment.
	var updated models.Appointment
	assert.NoError(t, db.First(&updated, appt.ID).Error)
	assert.Equal(t, billing.MethodPix, updated.Payments[0].Method)
	assert.Equal(t, 0.0, updated.ProfitAmount)
}

func TestReceivePaymentThenResaveKeepsRevenue(t *testing.T) {
	db := setupTestDB(t)
	today := time.Date(2025, time.May, 10, 0, 0, 0, 0, time.Local)
	stubNow(t, today)

	appt, installment := seedPendingScheduled(t, db, 200)

	router := setupInstallmentRouter(db)
	w := postJSON(router, "POST", fmt.Sprintf("/installments/%d/receive", installment.ID), ReceivePaymentRequest{
		Method:  billing.MethodPix,
		EntryID: "entry-1",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	// The client round-trips the stored payment list, e.g. to edit the
	// notes. Replacing the ledger must keep the received installment.
	var stored models.Appointment
	assert.NoError(t, db.First(&stored, appt.ID).Error)

	apptRouter := setupAppointmentRouter(db)
	w = postJSON(apptRouter, "PUT", fmt.Sprintf("/appointments/%d", appt.ID), AppointmentRequest{
		PatientID: stored.PatientID,
		Date:      "2025-04-01",
		Status:    models.StatusPerformed,
		Notes:     "retorno em 30 dias",
		Payments:  stored.Payments,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var rows []models.Installment
	assert.NoError(t, db.Find(&rows).Error)
	assert.Len(t, rows, 1)
	assert.Equal(t, 200.0, rows[0].Value)
	assert.True(t, rows[0].IsReceived)
	assert.Equal(t, today.Format("2006-01-02"), rows[0].DueDate.Format("2006-01-02"))
	if assert.NotNil(t, rows[0].ReceivedDate) {
		assert.Equal(t, today.Format("2006-01-02"), rows[0].ReceivedDate.Format("2006-01-02"))
	}

	var updated models.Appointment
	assert.NoError(t, db.First(&updated, appt.ID).Error)
	assert.Equal(t, "retorno em 30 dias", updated.Notes)
	assert.NotNil(t, updated.Payments[0].ReconciledAt)
	assert.Equal(t, 0.0, updated.ProfitAmount)
}

func TestReceivePaymentAlreadyReceived(t *testing.T) {
	db := setupTestDB(t)
	router := setupInstallmentRouter(db)
	stubNow(t, time.Date(2025, time.May, 10, 0, 0, 0, 0, time.Local))

	_, installment := seedPendingScheduled(t, db, 200)
	received := time.Now()
	installment.IsReceived = true
	installment.ReceivedDate = &received
	assert.NoError(t, db.Save(&installment).Error)

	w := postJSON(router, "POST", fmt.Sprintf("/installments/%d/receive", installment.ID), ReceivePaymentRequest{
		Method: billing.MethodPix,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestReceivePaymentNotFound(t *testing.T) {
	db := setupTestDB(t)
	router := setupInstallmentRouter(db)

	w := postJSON(router, "POST", "/installments/999/receive", ReceivePaymentRequest{
		Method: billing.MethodPix,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListInstallmentsPendingFilter(t *testing.T) {
	db := setupTestDB(t)
	router := setupInstallmentRouter(db)
	seedPendingScheduled(t, db, 200)

	received := time.Now()
	assert.NoError(t, db.Create(&models.Installment{
		AppointmentID: 1, InstallmentNumber: 1, TotalInstallments: 1,
		Value: 50, DueDate: time.Now(), IsReceived: true, ReceivedDate: &received,
	}).Error)

	w := postJSON(router, "GET", "/installments?pending=true", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"value":200`)
	assert.NotContains(t, w.Body.String(), `"value":50`)
}
