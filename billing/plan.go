package billing

import (
	"fmt"
	"time"

	"github.com/janduhyvictor94/bruna-clinica-sistema-sub000/models"
)

// ValidationError is a user-facing input error detected before any write is
// issued.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NetValue returns the value of a payment entry after its discount, which
// only applies to discount-eligible (cash-like) methods.
func NetValue(entry models.PaymentEntry) float64 {
	if DiscountEligible(entry.Method) && entry.DiscountPercent > 0 {
		return Round2(entry.Value - entry.Value*entry.DiscountPercent/100)
	}
	return entry.Value
}

// NetCashTotal sums the discounted values of the immediate-cash entries.
// Credit-card and scheduled entries are excluded: those live in the
// installment ledger and must not be double counted. The same goes for
// reconciled entries, which carry a cash-like method after reconciliation
// but whose money is already in the ledger.
func NetCashTotal(entries []models.PaymentEntry) float64 {
	var total float64
	for _, e := range entries {
		if IsImmediateCash(e.Method) && e.ReconciledAt == nil {
			total += NetValue(e)
		}
	}
	return Round2(total)
}

// GeneratePlan turns an appointment's payment entries into the installment
// rows to persist. All entries are validated before any row is built, so a
// validation failure produces zero writes.
//
// Immediate-cash entries emit nothing. A scheduled-payment entry emits one
// pending installment at its chosen due date, full value. A credit-card
// entry splits its value evenly across N installments due 1..N months after
// the appointment date, each created already received on its due date.
// Entries that went through reconciliation re-emit the rows the
// reconciliation produced, so a wholesale ledger rebuild keeps the money
// that was already received.
func GeneratePlan(entries []models.PaymentEntry, appointmentDate time.Time, patientName string) ([]models.Installment, error) {
	dues := make(map[int]time.Time)

	for i, entry := range entries {
		if entry.ReconciledAt != nil || !IsScheduled(entry.Method) {
			continue
		}
		if entry.ScheduledDate == "" {
			return nil, &ValidationError{
				Message: fmt.Sprintf("Selecione a data de vencimento para o agendamento de pagamento de R$ %.2f", entry.Value),
			}
		}
		due, err := time.ParseInLocation(DateLayout, entry.ScheduledDate, appointmentDate.Location())
		if err != nil {
			return nil, &ValidationError{
				Message: fmt.Sprintf("Data de vencimento inválida para o agendamento de pagamento de R$ %.2f", entry.Value),
			}
		}
		dues[i] = due
	}

	base := DateOnly(appointmentDate)
	var plan []models.Installment

	for i, entry := range entries {
		switch {
		case entry.ReconciledAt != nil:
			// Replay the reconciliation so the received rows survive a
			// rebuild instead of vanishing with the replaced ledger.
			rp := Reconcile(models.Installment{
				PatientName: patientName,
				Value:       entry.Value,
			}, entry.Method, entry.DiscountPercent, entry.Installments, *entry.ReconciledAt)
			plan = append(plan, rp.Updated)
			plan = append(plan, rp.Siblings...)
		case IsScheduled(entry.Method):
			total := entry.Installments
			if total < 1 {
				total = 1
			}
			plan = append(plan, models.Installment{
				PatientName:       patientName,
				InstallmentNumber: 1,
				TotalInstallments: total,
				Value:             entry.Value,
				DueDate:           dues[i],
				IsReceived:        false,
			})
		case IsCredit(entry.Method):
			n := entry.Installments
			if n < 1 {
				n = 1
			}
			per := Round2(entry.Value / float64(n))
			for num := 1; num <= n; num++ {
				value := per
				if num == n {
					// Last installment absorbs the rounding remainder.
					value = Round2(entry.Value - per*float64(n-1))
				}
				due := AddMonths(base, num)
				received := due
				plan = append(plan, models.Installment{
					PatientName:       patientName,
					InstallmentNumber: num,
					TotalInstallments: n,
					Value:             value,
					DueDate:           due,
					IsReceived:        true,
					ReceivedDate:      &received,
				})
			}
		}
		// Immediate-cash entries are recognized in the appointment totals.
	}

	return plan, nil
}
