package payout

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	refA = "7d444840-9dc0-11d1-b245-5ffdce74fad2"
	refB = "9b2e61a0-64a6-4b44-bb1c-8e21efd03d50"
)

func TestParser_Banreservas(t *testing.T) {
	csv := "Banco de Reservas\n" +
		"Estado de desembolsos\n" +
		"\n" +
		"Fecha;Referencia;Monto;Concepto\n" +
		"15/03/2024;" + refA + ";1,250.00;Pago comision venta Villa Norte\n" +
		"20/03/2024;" + refB + ";300.50;Abono parcial\n" +
		";;Total:;1,550.50\n"

	rows, err := NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, uuid.MustParse(refA), rows[0].CommissionID)
	assert.True(t, rows[0].Amount.Equal(decimal.RequireFromString("1250.00")))
	assert.Equal(t, "Pago comision venta Villa Norte", rows[0].Note)
	assert.Equal(t, 2024, rows[0].Date.Year())
	assert.Equal(t, 15, rows[0].Date.Day())

	assert.True(t, rows[1].Amount.Equal(decimal.RequireFromString("300.50")))
}

func TestParser_PopularEuropeanAmounts(t *testing.T) {
	csv := "Fecha valor;No. Referencia;Importe\n" +
		"15-03-2024;" + refA + ";1.250,75\n"

	rows, err := NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.True(t, rows[0].Amount.Equal(decimal.RequireFromString("1250.75")))
	assert.Empty(t, rows[0].Note)
}

func TestParser_GenericCommaSeparated(t *testing.T) {
	csv := "date,reference,amount,note\n" +
		"2024-03-15," + refA + ",500.00,first\n" +
		"2024-03-16," + refB + ",250.00,second\n"

	rows, err := NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "first", rows[0].Note)
	assert.Equal(t, "second", rows[1].Note)
}

func TestParser_SkipsFooterRows(t *testing.T) {
	csv := "date,reference,amount,note\n" +
		"2024-03-15," + refA + ",500.00,\n" +
		"Total,,500.00,\n" +
		",,,\n"

	rows, err := NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestParser_BadReferenceIsError(t *testing.T) {
	csv := "date,reference,amount,note\n" +
		"2024-03-15,not-a-uuid,500.00,\n"

	_, err := NewParser().Parse(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad commission reference")
}

func TestParser_BadAmountIsError(t *testing.T) {
	csv := "date,reference,amount,note\n" +
		"2024-03-15," + refA + ",lots,\n"

	_, err := NewParser().Parse(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad amount")
}

func TestParser_UnknownFormat(t *testing.T) {
	csv := "foo,bar\n1,2\n"

	_, err := NewParser().Parse(strings.NewReader(csv))
	assert.Error(t, err)
}

func TestParseStyledAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		style amountStyle
		want  string
	}{
		{name: "USPlain", input: "500.00", style: amountUS, want: "500.00"},
		{name: "USThousands", input: "1,234.56", style: amountUS, want: "1234.56"},
		{name: "EuropeanThousands", input: "1.234,56", style: amountEuropean, want: "1234.56"},
		{name: "EuropeanPlain", input: "10,00", style: amountEuropean, want: "10.00"},
		{name: "RoundsExtraPrecision", input: "10.005", style: amountUS, want: "10.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseStyledAmount(tt.input, tt.style)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}
