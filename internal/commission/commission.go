package commission

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andresgp/comcrm/internal/currency"
)

// Status represents the settlement state of a commission, derived from
// how much of the total has been paid out.
type Status string

const (
	StatusPending Status = "pending"
	StatusPartial Status = "partial"
	StatusPaid    Status = "paid"
)

// PaymentType labels a payment as covering part of the balance or all of it.
// The label is advisory: the recorded amount is always the one supplied by
// the caller, and the balance ceiling is enforced regardless of type.
type PaymentType string

const (
	PaymentPartial PaymentType = "partial"
	PaymentTotal   PaymentType = "total"
)

// Commission is the amount owed to a participant from a completed sale.
type Commission struct {
	ID          uuid.UUID
	SaleID      uuid.UUID
	Participant string
	TotalAmount decimal.Decimal
	PaidAmount  decimal.Decimal
	Currency    currency.Code
	Status      Status
	History     []PaymentEvent
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// PaymentEvent is one entry in a commission's payment history. Events are
// append-only: Date is the user-supplied payment date, RecordedAt the system
// time the payment was applied, and the two need not agree in order.
type PaymentEvent struct {
	ID           uuid.UUID
	CommissionID uuid.UUID
	Amount       decimal.Decimal
	Type         PaymentType
	Date         time.Time
	Note         string
	ReceiptRef   string
	RecordedAt   time.Time
}
