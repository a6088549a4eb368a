package billing

import (
	"time"

	"github.com/janduhyvictor94/bruna-clinica-sistema-sub000/models"
)

// ReconcilePlan is the outcome of receiving a pending installment: the
// original row updated in place plus any sibling rows to create. The caller
// persists the whole plan inside one transaction.
type ReconcilePlan struct {
	Updated  models.Installment
	Siblings []models.Installment
}

// Reconcile transitions a pending installment to received with the method
// the patient actually used, optionally re-splitting the remaining value
// into n installments.
//
// The discount applies only to the first installment and only for
// discount-eligible methods; n is forced to 1 for methods that do not
// support splitting. Credit-card siblings follow the accrual convention
// (received on their due dates); other siblings stay pending.
func Reconcile(original models.Installment, method string, discountPercent float64, n int, today time.Time) ReconcilePlan {
	if !SupportsSplit(method) || n < 1 {
		n = 1
	}
	if !DiscountEligible(method) {
		discountPercent = 0
	}

	today = DateOnly(today)
	base := original.Value / float64(n)
	firstValue := Round2(base - base*discountPercent/100)

	var firstDue, firstReceived time.Time
	if n > 1 || IsCredit(method) {
		firstDue = AddMonths(today, 1)
		if IsCredit(method) {
			firstReceived = firstDue
		} else {
			// Split scheduled payments keep the cash-flow convention: the
			// money was handed over today even though the due date steps.
			firstReceived = today
		}
	} else {
		firstDue = today
		firstReceived = today
	}

	updated := original
	updated.Value = firstValue
	updated.IsReceived = true
	updated.ReceivedDate = &firstReceived
	updated.InstallmentNumber = 1
	updated.TotalInstallments = n
	updated.DueDate = firstDue

	var siblings []models.Installment
	for i := 2; i <= n; i++ {
		due := AddMonths(today, i)
		sibling := models.Installment{
			AppointmentID:     original.AppointmentID,
			PatientName:       original.PatientName,
			InstallmentNumber: i,
			TotalInstallments: n,
			Value:             Round2(base),
			DueDate:           due,
		}
		if IsCredit(method) {
			received := due
			sibling.IsReceived = true
			sibling.ReceivedDate = &received
		}
		siblings = append(siblings, sibling)
	}

	return ReconcilePlan{Updated: updated, Siblings: siblings}
}

// ReconcilePayments rewrites the appointment's payment list after a
// reconciliation: the scheduled entry that originated the installment is
// replaced by an entry carrying the final method, split count and discount.
// Entries are matched by id when the caller knows it, falling back to the
// legacy first-scheduled-entry-with-matching-value heuristic.
func ReconcilePayments(payments models.PaymentList, entryID string, originalValue float64, method string, n int, discountPercent float64, now time.Time) (models.PaymentList, bool) {
	match := -1
	for i, entry := range payments {
		if entryID != "" {
			if entry.EntryID == entryID {
				match = i
				break
			}
			continue
		}
		if IsScheduled(entry.Method) && entry.Value == originalValue && entry.ReconciledAt == nil {
			match = i
			break
		}
	}
	if match < 0 {
		return payments, false
	}

	if !DiscountEligible(method) {
		discountPercent = 0
	}

	reconciledAt := now
	replaced := payments[match]
	replaced.Method = method
	replaced.Installments = n
	replaced.DiscountPercent = discountPercent
	replaced.ScheduledDate = ""
	replaced.ReconciledAt = &reconciledAt

	out := make(models.PaymentList, len(payments))
	copy(out, payments)
	out[match] = replaced
	return out, true
}
