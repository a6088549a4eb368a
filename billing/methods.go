// Package billing holds the installment and reconciliation arithmetic shared
// by the appointment, installment and dashboard handlers. Functions here are
// pure: they take explicit inputs and return the records to persist, so the
// handlers can issue every write inside a single transaction.
//
// Recognition convention: credit-card installments are created already
// received on their due dates (accrual, since card settlement is
// contractually guaranteed), while cash-like methods and scheduled payments
// are tracked strictly cash-basis.
package billing

import "math"

// Payment method vocabulary.
const (
	MethodCash      = "Dinheiro"
	MethodPix       = "Pix"
	MethodDebit     = "Cartão de Débito"
	MethodCredit    = "Cartão de Crédito"
	MethodScheduled = "Agendamento de Pagamento"
	MethodOther     = "Outro"
)

// IsCredit reports whether the method is a credit-card payment.
func IsCredit(method string) bool {
	return method == MethodCredit
}

// IsScheduled reports whether the method is a scheduled (promise-to-pay)
// payment.
func IsScheduled(method string) bool {
	return method == MethodScheduled
}

// IsImmediateCash reports whether the method is recognized directly in the
// appointment totals instead of the installment ledger.
func IsImmediateCash(method string) bool {
	return !IsCredit(method) && !IsScheduled(method)
}

// DiscountEligible reports whether a discount percent applies to the method.
func DiscountEligible(method string) bool {
	switch method {
	case MethodCash, MethodPix, MethodDebit:
		return true
	}
	return false
}

// SupportsSplit reports whether the method accepts an installment count
// greater than one.
func SupportsSplit(method string) bool {
	return IsCredit(method) || IsScheduled(method)
}

// Round2 rounds a monetary value to cents.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
