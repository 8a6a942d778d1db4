// Package payout imports bank payout statements: CSV files listing the
// commission payments actually disbursed, one row per payment, keyed by the
// commission reference printed on the payout order. Each row becomes a
// payment application against its commission.
package payout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Row is one disbursement line from a statement.
type Row struct {
	CommissionID uuid.UUID
	Amount       decimal.Decimal
	Date         time.Time
	Note         string
}
