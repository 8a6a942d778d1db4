package payout

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/andresgp/comcrm/internal/commission"
)

// applier is the slice of the commission service the importer needs.
type applier interface {
	Get(ctx context.Context, id uuid.UUID) (*commission.Commission, error)
	ApplyPayment(ctx context.Context, id uuid.UUID, req commission.PaymentRequest) (*commission.Commission, error)
}

type Service struct {
	parser      *Parser
	commissions applier
}

func NewService(commissions applier) *Service {
	return &Service{
		parser:      NewParser(),
		commissions: commissions,
	}
}

// RowError reports one statement row that could not be applied. The rest of
// the statement is unaffected.
type RowError struct {
	Row Row
	Err error
}

type Result struct {
	Applied []*commission.Commission
	Failed  []RowError
}

// ImportStatement parses the statement and applies each row as a payment.
// Rows are independent: each is its own payment transaction, and a row that
// fails validation (unknown commission, over-balance, future date) is
// reported in Failed while the rest proceed.
func (s *Service) ImportStatement(ctx context.Context, r io.Reader) (*Result, error) {
	rows, err := s.parser.Parse(r)
	if err != nil {
		return nil, err
	}

	result := &Result{}

	for _, row := range rows {
		updated, err := s.applyRow(ctx, row)
		if err != nil {
			result.Failed = append(result.Failed, RowError{Row: row, Err: err})
			continue
		}

		result.Applied = append(result.Applied, updated)
	}

	return result, nil
}

func (s *Service) applyRow(ctx context.Context, row Row) (*commission.Commission, error) {
	current, err := s.commissions.Get(ctx, row.CommissionID)
	if err != nil {
		return nil, err
	}

	// Label the payment "total" when the statement settles the whole
	// balance; the label is advisory but keeps history readable.
	paymentType := commission.PaymentPartial
	if row.Amount.Equal(commission.Outstanding(current)) {
		paymentType = commission.PaymentTotal
	}

	return s.commissions.ApplyPayment(ctx, row.CommissionID, commission.PaymentRequest{
		Amount: row.Amount,
		Type:   paymentType,
		Date:   row.Date,
		Note:   row.Note,
	})
}
