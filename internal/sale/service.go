package sale

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andresgp/comcrm/internal/commission"
	"github.com/andresgp/comcrm/internal/currency"
)

var ErrNotFound = errors.New("sale not found")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=sale
type Repository interface {
	// CreateSale persists the sale and its commissions atomically.
	CreateSale(ctx context.Context, s *Sale, commissions []*commission.Commission) error
	GetSale(ctx context.Context, id uuid.UUID) (*Sale, error)
	ListSales(ctx context.Context, filter ListFilter) ([]*Sale, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SplitParams describes one participant's share of the sale commission as a
// percentage of the sale price.
type SplitParams struct {
	Participant string
	Percent     decimal.Decimal
}

type CreateParams struct {
	Property string
	Client   string
	Price    decimal.Decimal
	Currency currency.Code
	SaleDate time.Time
	Splits   []SplitParams
}

type ListFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
}

// Create records a sale together with one commission per split. Each
// commission total is round2(price * percent / 100) and starts unpaid.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Sale, []*commission.Commission, error) {
	sl := &Sale{
		Property: params.Property,
		Client:   params.Client,
		Price:    params.Price,
		Currency: params.Currency,
		SaleDate: commission.DateOnly(params.SaleDate),
	}

	commissions := make([]*commission.Commission, len(params.Splits))
	for i, split := range params.Splits {
		total := params.Price.
			Mul(split.Percent).
			Div(decimal.NewFromInt(100)).
			Round(2)

		commissions[i] = &commission.Commission{
			Participant: split.Participant,
			TotalAmount: total,
			PaidAmount:  decimal.Zero,
			Currency:    params.Currency,
			Status:      commission.StatusPending,
		}
	}

	if err := s.repo.CreateSale(ctx, sl, commissions); err != nil {
		return nil, nil, err
	}

	return sl, commissions, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Sale, error) {
	return s.repo.GetSale(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Sale, error) {
	return s.repo.ListSales(ctx, filter)
}
