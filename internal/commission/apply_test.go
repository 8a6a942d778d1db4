package commission_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresgp/comcrm/internal/commission"
	"github.com/andresgp/comcrm/internal/currency"
)

var now = time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC)

func newCommission(total, paid string) commission.Commission {
	return commission.Commission{
		ID:          uuid.New(),
		SaleID:      uuid.New(),
		Participant: "Maria Fernandez",
		TotalAmount: dec(total),
		PaidAmount:  dec(paid),
		Currency:    currency.USD,
		Status:      commission.DeriveStatus(dec(paid), dec(total)),
	}
}

func TestApply_PartialPayment(t *testing.T) {
	c := newCommission("1000.00", "0")

	updated, event, err := commission.Apply(c, commission.PaymentRequest{
		Amount: dec("250.00"),
		Type:   commission.PaymentPartial,
		Date:   now,
	}, now)
	require.NoError(t, err)

	assert.True(t, updated.PaidAmount.Equal(dec("250.00")))
	assert.Equal(t, commission.StatusPartial, updated.Status)
	assert.True(t, commission.Outstanding(&updated).Equal(dec("750.00")))

	require.Len(t, updated.History, 1)
	assert.Equal(t, event, updated.History[0])
	assert.True(t, event.Amount.Equal(dec("250.00")))
	assert.Equal(t, now, event.RecordedAt)
}

func TestApply_TotalPayment(t *testing.T) {
	c := newCommission("1000.00", "0")

	updated, _, err := commission.Apply(c, commission.PaymentRequest{
		Amount: dec("1000.00"),
		Type:   commission.PaymentTotal,
		Date:   now,
	}, now)
	require.NoError(t, err)

	assert.True(t, updated.PaidAmount.Equal(dec("1000.00")))
	assert.Equal(t, commission.StatusPaid, updated.Status)
	assert.True(t, commission.Outstanding(&updated).IsZero())
}

func TestApply_SettlesAfterPartials(t *testing.T) {
	c := newCommission("1000.00", "0")

	first, _, err := commission.Apply(c, commission.PaymentRequest{
		Amount: dec("400.00"),
		Type:   commission.PaymentPartial,
		Date:   now,
	}, now)
	require.NoError(t, err)

	second, _, err := commission.Apply(first, commission.PaymentRequest{
		Amount: dec("600.00"),
		Type:   commission.PaymentTotal,
		Date:   now,
	}, now.Add(time.Minute))
	require.NoError(t, err)

	assert.Equal(t, commission.StatusPaid, second.Status)
	assert.Len(t, second.History, 2)

	// Outstanding never increases across applications.
	assert.True(t, commission.Outstanding(&first).LessThan(commission.Outstanding(&c)))
	assert.True(t, commission.Outstanding(&second).LessThan(commission.Outstanding(&first)))
}

func TestApply_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		total   string
		paid    string
		amount  string
		date    time.Time
		wantErr error
	}{
		{
			name: "ZeroAmount", total: "1000.00", paid: "0",
			amount: "0", date: now, wantErr: commission.ErrInvalidAmount,
		},
		{
			name: "NegativeAmount", total: "1000.00", paid: "0",
			amount: "-5.00", date: now, wantErr: commission.ErrInvalidAmount,
		},
		{
			name: "ExceedsBalance", total: "500.00", paid: "400.00",
			amount: "150.00", date: now, wantErr: commission.ErrAmountExceedsBalance,
		},
		{
			name: "FutureDate", total: "1000.00", paid: "0",
			amount: "100.00", date: now.AddDate(0, 0, 1), wantErr: commission.ErrInvalidDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCommission(tt.total, tt.paid)

			got, _, err := commission.Apply(c, commission.PaymentRequest{
				Amount: dec(tt.amount),
				Type:   commission.PaymentPartial,
				Date:   tt.date,
			}, now)

			require.ErrorIs(t, err, tt.wantErr)

			// No mutation on failure.
			assert.Equal(t, c, got)
			assert.Empty(t, got.History)
		})
	}
}

func TestApply_SameDayLaterTimestampAccepted(t *testing.T) {
	// The date boundary is end of day: a payment dated "today" is valid
	// even when its timestamp is past the current wall clock.
	c := newCommission("1000.00", "0")

	laterToday := time.Date(now.Year(), now.Month(), now.Day(), 23, 0, 0, 0, time.UTC)

	_, _, err := commission.Apply(c, commission.PaymentRequest{
		Amount: dec("100.00"),
		Type:   commission.PaymentPartial,
		Date:   laterToday,
	}, now)
	assert.NoError(t, err)
}

func TestApply_RoundsAfterSummation(t *testing.T) {
	c := newCommission("10.00", "0")

	updated, _, err := commission.Apply(c, commission.PaymentRequest{
		Amount: dec("3.333"),
		Type:   commission.PaymentPartial,
		Date:   now,
	}, now)
	require.NoError(t, err)

	assert.True(t, updated.PaidAmount.Equal(dec("3.33")), "got %s", updated.PaidAmount)
}

func TestApply_ExactBalanceWithAdvisoryPartialType(t *testing.T) {
	// The type label does not change the arithmetic: paying the full
	// balance as "partial" still settles the commission.
	c := newCommission("1000.00", "750.00")

	updated, event, err := commission.Apply(c, commission.PaymentRequest{
		Amount: dec("250.00"),
		Type:   commission.PaymentPartial,
		Date:   now,
	}, now)
	require.NoError(t, err)

	assert.Equal(t, commission.StatusPaid, updated.Status)
	assert.Equal(t, commission.PaymentPartial, event.Type)
}

func TestSuggestAmount(t *testing.T) {
	tests := []struct {
		name    string
		total   string
		paid    string
		percent int64
		want    string
	}{
		{name: "HalfOfOutstanding", total: "1000.00", paid: "250.00", percent: 50, want: "375.00"},
		{name: "FullBalance", total: "1000.00", paid: "250.00", percent: 100, want: "750.00"},
		{name: "RoundsToTwoDecimals", total: "100.00", paid: "0", percent: 33, want: "33.00"},
		{name: "RoundsHalfUp", total: "33.35", paid: "0", percent: 50, want: "16.68"},
		{name: "ZeroPercent", total: "1000.00", paid: "0", percent: 0, want: "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCommission(tt.total, tt.paid)

			got := commission.SuggestAmount(&c, tt.percent)
			assert.Equal(t, tt.want, got.StringFixed(2))

			// Advisory only.
			assert.True(t, c.PaidAmount.Equal(dec(tt.paid)))
		})
	}
}

func TestParsePaymentDate(t *testing.T) {
	want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{name: "DateOnly", input: "2024-03-01", want: want},
		{name: "FullTimestamp", input: "2024-03-01T15:04:05Z", want: want},
		{name: "TimestampWithOffset", input: "2024-03-01T23:30:00-04:00", want: want},
		{name: "Garbage", input: "01/03/2024", wantErr: true},
		{name: "Empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := commission.ParsePaymentDate(tt.input)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
