package currency_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresgp/comcrm/internal/currency"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		code   currency.Code
		want   string
	}{
		{name: "DOPWithThousands", amount: "1234.5", code: currency.DOP, want: "RD$ 1,234.50"},
		{name: "USD", amount: "1000", code: currency.USD, want: "$ 1,000.00"},
		{name: "EUR", amount: "987654.321", code: currency.EUR, want: "€ 987,654.32"},
		{name: "MXNSharesDollarSign", amount: "50", code: currency.MXN, want: "$ 50.00"},
		{name: "UnknownCodeFallsBack", amount: "10", code: currency.Code("GBP"), want: "$ 10.00"},
		{name: "Millions", amount: "1234567.89", code: currency.USD, want: "$ 1,234,567.89"},
		{name: "SubThousand", amount: "999.99", code: currency.USD, want: "$ 999.99"},
		{name: "Zero", amount: "0", code: currency.USD, want: "$ 0.00"},
		{name: "Negative", amount: "-1234.5", code: currency.USD, want: "$ -1,234.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, currency.Format(dec(tt.amount), tt.code))
		})
	}
}

func TestSymbol(t *testing.T) {
	assert.Equal(t, "RD$", currency.Symbol(currency.DOP))
	assert.Equal(t, "$", currency.Symbol(currency.USD))
	assert.Equal(t, "$", currency.Symbol(currency.MXN))
	assert.Equal(t, "€", currency.Symbol(currency.EUR))
	assert.Equal(t, "$", currency.Symbol(currency.Code("XXX")))
}

func TestParseAmount_RoundTrip(t *testing.T) {
	amounts := []string{"1234.5", "0", "999.99", "1234567.89", "0.01"}

	for _, a := range amounts {
		for _, code := range []currency.Code{currency.USD, currency.DOP, currency.EUR} {
			formatted := currency.Format(dec(a), code)

			got, err := currency.ParseAmount(formatted)
			require.NoError(t, err, "parsing %q", formatted)
			assert.True(t, got.Equal(dec(a).Round(2)), "round-trip of %q via %q gave %s", a, formatted, got)
		}
	}
}

func TestParseAmount_PlainNumber(t *testing.T) {
	got, err := currency.ParseAmount("1,234.50")
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("1234.50")))
}

func TestParseAmount_Garbage(t *testing.T) {
	_, err := currency.ParseAmount("not money")
	assert.Error(t, err)
}
