// Package finance computes cash-basis revenue, material cost and net profit
// over rows already loaded from the store. Keeping the arithmetic here, away
// from the handlers, makes the dashboard and report numbers testable without
// a database.
package finance

import (
	"strings"
	"time"

	"github.com/janduhyvictor94/bruna-clinica-sistema-sub000/billing"
	"github.com/janduhyvictor94/bruna-clinica-sistema-sub000/models"
)

// Period is an inclusive calendar date range.
type Period struct {
	From time.Time
	To   time.Time
}

// Contains reports whether the date falls inside the period, ignoring time
// of day.
func (p Period) Contains(t time.Time) bool {
	d := billing.DateOnly(t)
	return !d.Before(billing.DateOnly(p.From)) && !d.After(billing.DateOnly(p.To))
}

// Month returns the period covering one calendar month.
func Month(year int, month time.Month) Period {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	return Period{From: from, To: from.AddDate(0, 1, -1)}
}

func performed(a models.Appointment) bool {
	return strings.Contains(a.Status, models.StatusPerformed)
}

// CashRevenue sums the discounted immediate-cash payments of performed
// appointments in the period. Credit-card and scheduled entries are excluded
// here; those flow through the installment ledger.
func CashRevenue(appointments []models.Appointment, p Period) float64 {
	var total float64
	for _, a := range appointments {
		if performed(a) && p.Contains(a.Date) {
			total += billing.NetCashTotal(a.Payments)
		}
	}
	return billing.Round2(total)
}

// InstallmentRevenue sums received installments whose received date falls in
// the period.
func InstallmentRevenue(installments []models.Installment, p Period) float64 {
	var total float64
	for _, inst := range installments {
		if inst.IsReceived && inst.ReceivedDate != nil && p.Contains(*inst.ReceivedDate) {
			total += inst.Value
		}
	}
	return billing.Round2(total)
}

// TotalRevenue is cash plus installment revenue for the period.
func TotalRevenue(appointments []models.Appointment, installments []models.Installment, p Period) float64 {
	return billing.Round2(CashRevenue(appointments, p) + InstallmentRevenue(installments, p))
}

// MaterialCost sums the cost of materials consumed by performed appointments
// in the period. The appointment's cost_amount is the single source of
// truth; stock movements are kept for audit only.
func MaterialCost(appointments []models.Appointment, p Period) float64 {
	var total float64
	for _, a := range appointments {
		if performed(a) && p.Contains(a.Date) {
			total += a.CostAmount
		}
	}
	return billing.Round2(total)
}

// PaidExpenses sums operating expenses paid inside the period.
func PaidExpenses(expenses []models.Expense, p Period) float64 {
	var total float64
	for _, e := range expenses {
		if e.IsPaid && e.PaidDate != nil && p.Contains(*e.PaidDate) {
			total += e.Amount
		}
	}
	return billing.Round2(total)
}

// PendingInstallments sums installments still waiting to be received whose
// due date falls in the period.
func PendingInstallments(installments []models.Installment, p Period) float64 {
	var total float64
	for _, inst := range installments {
		if !inst.IsReceived && p.Contains(inst.DueDate) {
			total += inst.Value
		}
	}
	return billing.Round2(total)
}

// Summary is the aggregate block shown on the dashboard and reports.
type Summary struct {
	CashRevenue        float64 `json:"cash_revenue"`
	InstallmentRevenue float64 `json:"installment_revenue"`
	TotalRevenue       float64 `json:"total_revenue"`
	MaterialCost       float64 `json:"material_cost"`
	PaidExpenses       float64 `json:"paid_expenses"`
	NetProfit          float64 `json:"net_profit"`
	PendingReceivables float64 `json:"pending_receivables"`
	PerformedCount     int     `json:"performed_count"`
}

// Summarize computes the full aggregate for the period. Operating expenses
// are only subtracted when the rows are not filtered down to a single
// patient: a per-patient view shows that patient's margin, not the
// clinic's.
func Summarize(appointments []models.Appointment, installments []models.Installment, expenses []models.Expense, p Period, patientFiltered bool) Summary {
	s := Summary{
		CashRevenue:        CashRevenue(appointments, p),
		InstallmentRevenue: InstallmentRevenue(installments, p),
		MaterialCost:       MaterialCost(appointments, p),
		PendingReceivables: PendingInstallments(installments, p),
	}
	s.TotalRevenue = billing.Round2(s.CashRevenue + s.InstallmentRevenue)
	if !patientFiltered {
		s.PaidExpenses = PaidExpenses(expenses, p)
	}
	s.NetProfit = billing.Round2(s.TotalRevenue - s.MaterialCost - s.PaidExpenses)
	for _, a := range appointments {
		if performed(a) && p.Contains(a.Date) {
			s.PerformedCount++
		}
	}
	return s
}

// MonthSummary is one row of the monthly financial report.
type MonthSummary struct {
	Month string `json:"month"` // YYYY-MM
	Summary
}

// MonthlySeries builds the twelve per-month summaries for a year.
func MonthlySeries(appointments []models.Appointment, installments []models.Installment, expenses []models.Expense, year int) []MonthSummary {
	series := make([]MonthSummary, 0, 12)
	for m := time.January; m <= time.December; m++ {
		p := Month(year, m)
		series = append(series, MonthSummary{
			Month:   p.From.Format("2006-01"),
			Summary: Summarize(appointments, installments, expenses, p, false),
		})
	}
	return series
}

// GoalProgress reports how far the month's revenue and appointment count are
// toward the goal. Percentages are not capped at 100.
type GoalProgress struct {
	Month               string  `json:"month"`
	RevenueTarget       float64 `json:"revenue_target"`
	RevenueAchieved     float64 `json:"revenue_achieved"`
	RevenuePercent      float64 `json:"revenue_percent"`
	AppointmentsTarget  int     `json:"appointments_target"`
	AppointmentsCount   int     `json:"appointments_count"`
	AppointmentsPercent float64 `json:"appointments_percent"`
}

// Progress evaluates a goal against the month's aggregate.
func Progress(goal models.Goal, s Summary) GoalProgress {
	gp := GoalProgress{
		Month:              goal.Month,
		RevenueTarget:      goal.RevenueTarget,
		RevenueAchieved:    s.TotalRevenue,
		AppointmentsTarget: goal.AppointmentsTarget,
		AppointmentsCount:  s.PerformedCount,
	}
	if goal.RevenueTarget > 0 {
		gp.RevenuePercent = billing.Round2(s.TotalRevenue / goal.RevenueTarget * 100)
	}
	if goal.AppointmentsTarget > 0 {
		gp.AppointmentsPercent = billing.Round2(float64(s.PerformedCount) / float64(goal.AppointmentsTarget) * 100)
	}
	return gp
}
