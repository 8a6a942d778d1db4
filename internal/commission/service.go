package commission

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=commission
type Repository interface {
	GetCommission(ctx context.Context, id uuid.UUID) (*Commission, error)
	ListCommissions(ctx context.Context, filter ListFilter) ([]*Commission, error)

	BeginPayment(ctx context.Context, id uuid.UUID) (PaymentTx, error)
}

// PaymentTx is a payment application in progress. The commission row is
// locked for the duration, so the event append and the paid-amount update
// commit together or not at all.
type PaymentTx interface {
	Commission(ctx context.Context) (*Commission, error)
	AppendEvent(ctx context.Context, event *PaymentEvent) error
	SetPaid(ctx context.Context, paid decimal.Decimal, status Status) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type ListFilter struct {
	Status *Status
	SaleID *uuid.UUID
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Commission, error) {
	return s.repo.GetCommission(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Commission, error) {
	return s.repo.ListCommissions(ctx, filter)
}

// ApplyPayment validates req against the current state of the commission and
// records it. Validation failures surface as the sentinel errors in errors.go
// with nothing written; the stored commission is untouched and the caller may
// re-read it as-is.
func (s *Service) ApplyPayment(ctx context.Context, id uuid.UUID, req PaymentRequest) (*Commission, error) {
	ptx, err := s.repo.BeginPayment(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("begin payment: %w", err)
	}
	defer ptx.Rollback()

	current, err := ptx.Commission(ctx)
	if err != nil {
		return nil, fmt.Errorf("load commission: %w", err)
	}

	updated, event, err := Apply(*current, req, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := ptx.AppendEvent(ctx, &event); err != nil {
		return nil, fmt.Errorf("append payment event: %w", err)
	}

	if err := ptx.SetPaid(ctx, updated.PaidAmount, updated.Status); err != nil {
		return nil, fmt.Errorf("update paid amount: %w", err)
	}

	if err := ptx.Commit(); err != nil {
		return nil, fmt.Errorf("commit payment: %w", err)
	}

	updated.History[len(updated.History)-1] = event

	return &updated, nil
}

// HistoryOrder selects which of the two preserved orderings a history query
// returns: the order payments were applied, or the user-supplied dates.
type HistoryOrder string

const (
	OrderRecorded HistoryOrder = "recorded"
	OrderDate     HistoryOrder = "date"
)

func (s *Service) History(ctx context.Context, id uuid.UUID, order HistoryOrder) ([]PaymentEvent, error) {
	c, err := s.repo.GetCommission(ctx, id)
	if err != nil {
		return nil, err
	}

	if order == OrderDate {
		return HistoryByDate(c), nil
	}

	return c.History, nil
}

// Suggest computes the quick-amount for a percentage of the current
// outstanding balance.
func (s *Service) Suggest(ctx context.Context, id uuid.UUID, percent int64) (decimal.Decimal, error) {
	c, err := s.repo.GetCommission(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}

	return SuggestAmount(c, percent), nil
}
