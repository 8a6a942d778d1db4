package commission

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentRequest carries the caller-supplied fields of a payment about to be
// applied. Construct a fresh value per submission; there is no partial reuse.
type PaymentRequest struct {
	Amount     decimal.Decimal
	Type       PaymentType
	Date       time.Time
	Note       string
	ReceiptRef string
}

// Apply validates the request against the commission and returns an updated
// copy with the payment added, plus the appended event. On any validation
// failure the original commission is returned unchanged alongside the error;
// there is no partial mutation.
//
// Validation, in order: amount must be positive, the payment date must not be
// after today (end-of-day, date-only comparison against now), and the amount
// must not exceed the outstanding balance. The request's Type is recorded as
// given; a "total" label does not make the applier recompute the amount.
func Apply(c Commission, req PaymentRequest, now time.Time) (Commission, PaymentEvent, error) {
	if !req.Amount.IsPositive() {
		return c, PaymentEvent{}, ErrInvalidAmount
	}

	if DateOnly(req.Date).After(DateOnly(now)) {
		return c, PaymentEvent{}, ErrInvalidDate
	}

	if req.Amount.GreaterThan(Outstanding(&c)) {
		return c, PaymentEvent{}, ErrAmountExceedsBalance
	}

	event := PaymentEvent{
		CommissionID: c.ID,
		Amount:       req.Amount.Round(2),
		Type:         req.Type,
		Date:         DateOnly(req.Date),
		Note:         req.Note,
		ReceiptRef:   req.ReceiptRef,
		RecordedAt:   now,
	}

	// Round after summation; status derivation sees the rounded value.
	c.PaidAmount = c.PaidAmount.Add(req.Amount).Round(2)
	c.Status = DeriveStatus(c.PaidAmount, c.TotalAmount)
	c.History = append(append([]PaymentEvent(nil), c.History...), event)

	return c, event, nil
}

// SuggestAmount returns round2(outstanding * percent / 100), the quick-amount
// helper behind the 25/50/100% buttons. Purely advisory; nothing is mutated.
func SuggestAmount(c *Commission, percent int64) decimal.Decimal {
	return Outstanding(c).
		Mul(decimal.NewFromInt(percent)).
		Div(decimal.NewFromInt(100)).
		Round(2)
}

// DateOnly strips the time-of-day and location from t, normalizing to UTC
// midnight. Payment dates are calendar dates; whatever timestamp the picker
// supplied is reduced to one before comparison or storage.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParsePaymentDate accepts the date picker's output in either date-only form
// ("2006-01-02") or a full RFC 3339 timestamp, and normalizes to a date-only
// value.
func ParsePaymentDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}

	return DateOnly(t), nil
}
