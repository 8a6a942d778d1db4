package sale

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andresgp/comcrm/internal/currency"
)

// Sale represents a closed property sale. Its commissions are created with
// it and settled separately through the commission service.
type Sale struct {
	ID        uuid.UUID
	Property  string
	Client    string
	Price     decimal.Decimal
	Currency  currency.Code
	SaleDate  time.Time
	CreatedAt time.Time
	UpdatedAt *time.Time
}
