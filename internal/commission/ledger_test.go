package commission_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/andresgp/comcrm/internal/commission"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestOutstanding(t *testing.T) {
	tests := []struct {
		name  string
		total string
		paid  string
		want  string
	}{
		{name: "Unpaid", total: "1000.00", paid: "0", want: "1000.00"},
		{name: "PartiallyPaid", total: "1000.00", paid: "250.00", want: "750.00"},
		{name: "FullyPaid", total: "1000.00", paid: "1000.00", want: "0"},
		{name: "OverpaidClampsToZero", total: "1000.00", paid: "1000.01", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &commission.Commission{
				TotalAmount: dec(tt.total),
				PaidAmount:  dec(tt.paid),
			}

			assert.True(t, commission.Outstanding(c).Equal(dec(tt.want)),
				"got %s", commission.Outstanding(c))
		})
	}
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name  string
		paid  string
		total string
		want  commission.Status
	}{
		{name: "NothingPaid", paid: "0", total: "1000", want: commission.StatusPending},
		{name: "PartiallyPaid", paid: "0.01", total: "1000", want: commission.StatusPartial},
		{name: "AlmostPaid", paid: "999.99", total: "1000", want: commission.StatusPartial},
		{name: "ExactlyPaid", paid: "1000", total: "1000", want: commission.StatusPaid},
		{name: "Overpaid", paid: "1000.01", total: "1000", want: commission.StatusPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, commission.DeriveStatus(dec(tt.paid), dec(tt.total)))
		})
	}
}

func TestHistoryByDate(t *testing.T) {
	// Payments were applied in one order but dated in another: a payment
	// for the 10th was recorded after one for the 20th.
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	c := &commission.Commission{
		History: []commission.PaymentEvent{
			{Note: "first applied", Date: base.AddDate(0, 0, 19), RecordedAt: base},
			{Note: "second applied", Date: base.AddDate(0, 0, 9), RecordedAt: base.Add(time.Hour)},
			{Note: "third applied", Date: base.AddDate(0, 0, 9), RecordedAt: base.Add(2 * time.Hour)},
		},
	}

	byDate := commission.HistoryByDate(c)

	assert.Equal(t, []string{"second applied", "third applied", "first applied"},
		[]string{byDate[0].Note, byDate[1].Note, byDate[2].Note})

	// Insertion order untouched.
	assert.Equal(t, "first applied", c.History[0].Note)

	// Same events, just reordered.
	assert.ElementsMatch(t, c.History, byDate)
}
