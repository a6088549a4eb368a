package billing

import "time"

// DateLayout is the wire format for calendar dates embedded in payment
// entries.
const DateLayout = "2006-01-02"

// DateOnly strips the time component, keeping the location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AddMonths steps a calendar date by n months, clamping to the last day of
// the target month. time.AddDate is not used because it normalizes overflow
// (Jan 31 + 1 month becomes Mar 2/3) instead of clamping to Feb.
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	firstOfTarget := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if d > lastDay {
		d = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), d, 0, 0, 0, 0, t.Location())
}
