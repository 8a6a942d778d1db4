package commission

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Outstanding returns the unpaid remainder of a commission. In well-formed
// data paid never exceeds total, so the result is never negative; if paid
// somehow overshoots, the balance is clamped to zero rather than reported
// as a credit.
func Outstanding(c *Commission) decimal.Decimal {
	balance := c.TotalAmount.Sub(c.PaidAmount)
	if balance.IsNegative() {
		return decimal.Zero
	}

	return balance
}

// DeriveStatus computes the settlement status from paid vs total.
// Comparisons use the amounts as stored, which are already rounded to
// two decimal places by the applier.
func DeriveStatus(paid, total decimal.Decimal) Status {
	switch {
	case paid.GreaterThanOrEqual(total):
		return StatusPaid
	case paid.IsZero():
		return StatusPending
	default:
		return StatusPartial
	}
}

// HistoryByDate returns a copy of the commission's payment history sorted by
// the user-supplied payment date. Insertion order (the order payments were
// actually applied) is preserved in History itself; this accessor exists for
// callers that want the calendar view. The sort is stable so same-day events
// keep their applied order.
func HistoryByDate(c *Commission) []PaymentEvent {
	events := make([]PaymentEvent, len(c.History))
	copy(events, c.History)

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})

	return events
}
