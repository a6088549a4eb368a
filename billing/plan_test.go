package billing

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/janduhyvictor94/bruna-clinica-sistema-sub000/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		months   int
		expected time.Time
	}{
		{"Mid Month", date(2025, time.March, 15), 1, date(2025, time.April, 15)},
		{"Several Months", date(2025, time.March, 15), 3, date(2025, time.June, 15)},
		{"Clamps To February", date(2025, time.January, 31), 1, date(2025, time.February, 28)},
		{"Clamps To Leap February", date(2024, time.January, 31), 1, date(2024, time.February, 29)},
		{"Clamps To Short Month", date(2025, time.March, 31), 1, date(2025, time.April, 30)},
		{"Crosses Year", date(2025, time.November, 10), 3, date(2026, time.February, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AddMonths(tt.start, tt.months))
		})
	}
}

func TestGeneratePlanCreditCard(t *testing.T) {
	appointmentDate := date(2025, time.March, 10)
	entries := []models.PaymentEntry{
		{Method: MethodCredit, Value: 1000, Installments: 3},
	}

	plan, err := GeneratePlan(entries, appointmentDate, "Maria Silva")
	assert.NoError(t, err)
	assert.Len(t, plan, 3)

	var sum float64
	for i, inst := range plan {
		sum += inst.Value
		assert.Equal(t, i+1, inst.InstallmentNumber)
		assert.Equal(t, 3, inst.TotalInstallments)
		assert.Equal(t, "Maria Silva", inst.PatientName)
		assert.Equal(t, AddMonths(appointmentDate, i+1), inst.DueDate)
		assert.True(t, inst.IsReceived)
		if assert.NotNil(t, inst.ReceivedDate) {
			assert.Equal(t, inst.DueDate, *inst.ReceivedDate)
		}
	}
	assert.Less(t, math.Abs(sum-1000), 0.01)
}

func TestGeneratePlanCreditCardRounding(t *testing.T) {
	// 100 / 3 does not divide evenly; the last installment absorbs the
	// remainder so the total matches exactly.
	entries := []models.PaymentEntry{
		{Method: MethodCredit, Value: 100, Installments: 3},
	}

	plan, err := GeneratePlan(entries, date(2025, time.May, 1), "João")
	assert.NoError(t, err)
	assert.Len(t, plan, 3)
	assert.Equal(t, 33.33, plan[0].Value)
	assert.Equal(t, 33.33, plan[1].Value)
	assert.Equal(t, 33.34, plan[2].Value)
}

func TestGeneratePlanScheduledPayment(t *testing.T) {
	entries := []models.PaymentEntry{
		{Method: MethodScheduled, Value: 500, Installments: 2, ScheduledDate: "2025-06-15"},
	}

	plan, err := GeneratePlan(entries, date(2025, time.March, 10), "Maria Silva")
	assert.NoError(t, err)
	assert.Len(t, plan, 1)
	assert.Equal(t, 1, plan[0].InstallmentNumber)
	assert.Equal(t, 2, plan[0].TotalInstallments)
	assert.Equal(t, 500.0, plan[0].Value)
	assert.Equal(t, date(2025, time.June, 15), plan[0].DueDate)
	assert.False(t, plan[0].IsReceived)
	assert.Nil(t, plan[0].ReceivedDate)
}

func TestGeneratePlanScheduledPaymentMissingDate(t *testing.T) {
	entries := []models.PaymentEntry{
		{Method: MethodCredit, Value: 300, Installments: 2},
		{Method: MethodScheduled, Value: 150.50},
	}

	plan, err := GeneratePlan(entries, date(2025, time.March, 10), "Maria Silva")
	assert.Nil(t, plan)

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "R$ 150.50")
}

func TestGeneratePlanCashEmitsNothing(t *testing.T) {
	entries := []models.PaymentEntry{
		{Method: MethodCash, Value: 200},
		{Method: MethodPix, Value: 100, DiscountPercent: 10},
		{Method: MethodDebit, Value: 50},
	}

	plan, err := GeneratePlan(entries, date(2025, time.March, 10), "Maria Silva")
	assert.NoError(t, err)
	assert.Empty(t, plan)
}

func TestGeneratePlanPreservesEntryOrder(t *testing.T) {
	entries := []models.PaymentEntry{
		{Method: MethodCredit, Value: 200, Installments: 2},
		{Method: MethodCash, Value: 100},
		{Method: MethodScheduled, Value: 300, ScheduledDate: "2025-08-01"},
	}

	plan, err := GeneratePlan(entries, date(2025, time.March, 10), "Ana")
	assert.NoError(t, err)
	assert.Len(t, plan, 3)
	// Credit installments 1 and 2 first, then the scheduled one.
	assert.Equal(t, 100.0, plan[0].Value)
	assert.Equal(t, 100.0, plan[1].Value)
	assert.Equal(t, 300.0, plan[2].Value)
}

func TestGeneratePlanReconciledEntryKeepsLedgerRows(t *testing.T) {
	// A reconciled entry re-emits the rows its reconciliation created, so
	// re-saving the appointment does not drop money already received.
	reconciledAt := date(2025, time.May, 10)

	t.Run("Cash Like With Discount", func(t *testing.T) {
		entries := []models.PaymentEntry{
			{Method: MethodPix, Value: 200, Installments: 1, DiscountPercent: 10, ReconciledAt: &reconciledAt},
		}

		plan, err := GeneratePlan(entries, date(2025, time.April, 1), "Maria Silva")
		assert.NoError(t, err)
		assert.Len(t, plan, 1)
		assert.Equal(t, 180.0, plan[0].Value)
		assert.True(t, plan[0].IsReceived)
		assert.Equal(t, reconciledAt, plan[0].DueDate)
		if assert.NotNil(t, plan[0].ReceivedDate) {
			assert.Equal(t, reconciledAt, *plan[0].ReceivedDate)
		}
	})

	t.Run("Credit Split", func(t *testing.T) {
		entries := []models.PaymentEntry{
			{Method: MethodCredit, Value: 900, Installments: 3, ReconciledAt: &reconciledAt},
		}

		plan, err := GeneratePlan(entries, date(2025, time.April, 1), "Maria Silva")
		assert.NoError(t, err)
		assert.Len(t, plan, 3)
		for i, inst := range plan {
			assert.Equal(t, 300.0, inst.Value)
			assert.True(t, inst.IsReceived)
			// Due dates step from the reconciliation date, not the
			// appointment date.
			assert.Equal(t, AddMonths(reconciledAt, i+1), inst.DueDate)
		}
	})

	t.Run("Split Scheduled Skips Date Validation", func(t *testing.T) {
		// Reconciliation clears the scheduled date; the rebuilt plan must
		// not reject the entry for missing it.
		entries := []models.PaymentEntry{
			{Method: MethodScheduled, Value: 600, Installments: 2, ReconciledAt: &reconciledAt},
		}

		plan, err := GeneratePlan(entries, date(2025, time.April, 1), "Maria Silva")
		assert.NoError(t, err)
		assert.Len(t, plan, 2)
		assert.True(t, plan[0].IsReceived)
		assert.False(t, plan[1].IsReceived)
	})
}

func TestNetValue(t *testing.T) {
	assert.Equal(t, 180.0, NetValue(models.PaymentEntry{Method: MethodCash, Value: 200, DiscountPercent: 10}))
	assert.Equal(t, 200.0, NetValue(models.PaymentEntry{Method: MethodCash, Value: 200}))
	// Discounts do not apply to credit or scheduled methods.
	assert.Equal(t, 200.0, NetValue(models.PaymentEntry{Method: MethodCredit, Value: 200, DiscountPercent: 10}))
	assert.Equal(t, 200.0, NetValue(models.PaymentEntry{Method: MethodScheduled, Value: 200, DiscountPercent: 10}))
}

func TestNetCashTotal(t *testing.T) {
	now := time.Now()
	entries := []models.PaymentEntry{
		{Method: MethodCash, Value: 200},
		{Method: MethodPix, Value: 100, DiscountPercent: 10},
		{Method: MethodCredit, Value: 300, Installments: 2},
		{Method: MethodScheduled, Value: 400, ScheduledDate: "2025-09-01"},
		// Reconciled entries already live in the installment ledger.
		{Method: MethodPix, Value: 50, ReconciledAt: &now},
	}

	assert.Equal(t, 290.0, NetCashTotal(entries))
}
