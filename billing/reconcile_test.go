package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/janduhyvictor94/bruna-clinica-sistema-sub000/models"
)

func pendingInstallment(value float64) models.Installment {
	return models.Installment{
		ID:                7,
		AppointmentID:     3,
		PatientName:       "Maria Silva",
		InstallmentNumber: 1,
		TotalInstallments: 1,
		Value:             value,
		DueDate:           date(2025, time.April, 1),
	}
}

func TestReconcileCreditCardThreeInstallments(t *testing.T) {
	today := date(2025, time.May, 10)
	plan := Reconcile(pendingInstallment(900), MethodCredit, 0, 3, today)

	assert.Equal(t, 300.0, plan.Updated.Value)
	assert.Equal(t, 1, plan.Updated.InstallmentNumber)
	assert.Equal(t, 3, plan.Updated.TotalInstallments)
	assert.Equal(t, date(2025, time.June, 10), plan.Updated.DueDate)
	assert.True(t, plan.Updated.IsReceived)
	if assert.NotNil(t, plan.Updated.ReceivedDate) {
		assert.Equal(t, plan.Updated.DueDate, *plan.Updated.ReceivedDate)
	}

	assert.Len(t, plan.Siblings, 2)
	for i, sibling := range plan.Siblings {
		assert.Equal(t, i+2, sibling.InstallmentNumber)
		assert.Equal(t, 3, sibling.TotalInstallments)
		assert.Equal(t, 300.0, sibling.Value)
		assert.Equal(t, AddMonths(today, i+2), sibling.DueDate)
		assert.True(t, sibling.IsReceived)
		if assert.NotNil(t, sibling.ReceivedDate) {
			assert.Equal(t, sibling.DueDate, *sibling.ReceivedDate)
		}
		assert.Equal(t, uint(3), sibling.AppointmentID)
		assert.Equal(t, "Maria Silva", sibling.PatientName)
	}
}

func TestReconcilePixSinglePaymentWithDiscount(t *testing.T) {
	today := date(2025, time.May, 10)
	plan := Reconcile(pendingInstallment(200), MethodPix, 10, 1, today)

	assert.Equal(t, 180.0, plan.Updated.Value)
	assert.Equal(t, today, plan.Updated.DueDate)
	assert.True(t, plan.Updated.IsReceived)
	if assert.NotNil(t, plan.Updated.ReceivedDate) {
		assert.Equal(t, today, *plan.Updated.ReceivedDate)
	}
	assert.Empty(t, plan.Siblings)
}

func TestReconcileForcesSingleInstallmentForCashMethods(t *testing.T) {
	today := date(2025, time.May, 10)
	plan := Reconcile(pendingInstallment(200), MethodCash, 0, 4, today)

	assert.Equal(t, 1, plan.Updated.TotalInstallments)
	assert.Equal(t, 200.0, plan.Updated.Value)
	assert.Empty(t, plan.Siblings)
}

func TestReconcileIgnoresDiscountForCredit(t *testing.T) {
	today := date(2025, time.May, 10)
	plan := Reconcile(pendingInstallment(300), MethodCredit, 15, 1, today)

	assert.Equal(t, 300.0, plan.Updated.Value)
}

func TestReconcileSplitScheduledPayment(t *testing.T) {
	// Re-splitting the promise keeps the cash-flow convention: the first
	// payment was received today even though its due date steps a month,
	// and the future siblings stay pending.
	today := date(2025, time.May, 10)
	plan := Reconcile(pendingInstallment(600), MethodScheduled, 0, 2, today)

	assert.Equal(t, 300.0, plan.Updated.Value)
	assert.Equal(t, date(2025, time.June, 10), plan.Updated.DueDate)
	assert.True(t, plan.Updated.IsReceived)
	if assert.NotNil(t, plan.Updated.ReceivedDate) {
		assert.Equal(t, today, *plan.Updated.ReceivedDate)
	}

	assert.Len(t, plan.Siblings, 1)
	assert.Equal(t, 300.0, plan.Siblings[0].Value)
	assert.Equal(t, date(2025, time.July, 10), plan.Siblings[0].DueDate)
	assert.False(t, plan.Siblings[0].IsReceived)
	assert.Nil(t, plan.Siblings[0].ReceivedDate)
}

func TestReconcilePayments(t *testing.T) {
	now := date(2025, time.May, 10)
	payments := models.PaymentList{
		{EntryID: "a", Method: MethodCash, Value: 100},
		{EntryID: "b", Method: MethodScheduled, Value: 300, ScheduledDate: "2025-06-01"},
	}

	t.Run("Match By Entry ID", func(t *testing.T) {
		out, ok := ReconcilePayments(payments, "b", 300, MethodPix, 1, 10, now)
		assert.True(t, ok)
		assert.Equal(t, MethodPix, out[1].Method)
		assert.Equal(t, 300.0, out[1].Value)
		assert.Equal(t, 1, out[1].Installments)
		assert.Equal(t, 10.0, out[1].DiscountPercent)
		assert.Empty(t, out[1].ScheduledDate)
		assert.NotNil(t, out[1].ReconciledAt)
		// Original list untouched.
		assert.Equal(t, MethodScheduled, payments[1].Method)
	})

	t.Run("Legacy Match By Value", func(t *testing.T) {
		out, ok := ReconcilePayments(payments, "", 300, MethodCredit, 3, 15, now)
		assert.True(t, ok)
		assert.Equal(t, MethodCredit, out[1].Method)
		assert.Equal(t, 3, out[1].Installments)
		// Credit is not discount-eligible, the percent is dropped.
		assert.Equal(t, 0.0, out[1].DiscountPercent)
	})

	t.Run("No Match", func(t *testing.T) {
		_, ok := ReconcilePayments(payments, "", 999, MethodPix, 1, 0, now)
		assert.False(t, ok)
	})
}
