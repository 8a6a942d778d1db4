package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/andresgp/comcrm/internal/commission"
	"github.com/andresgp/comcrm/internal/currency"
	"github.com/andresgp/comcrm/internal/sale"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectSaleColumns = `
	s.id, s.property, s.client, s.price, s.currency, s.sale_date, s.created_at, s.updated_at
`

func scanSale(sc scanner) (*sale.Sale, error) {
	var s sale.Sale

	var currencyStr string

	if err := sc.Scan(
		&s.ID, &s.Property, &s.Client, &s.Price, &currencyStr,
		&s.SaleDate, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}

	s.Currency = currency.Code(currencyStr)

	return &s, nil
}

// CreateSale inserts the sale and its commission rows in one transaction.
func (s *Store) CreateSale(ctx context.Context, sl *sale.Sale, commissions []*commission.Commission) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	saleQuery := `
		INSERT INTO sales (property, client, price, currency, sale_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err = dbTx.QueryRowContext(ctx, saleQuery,
		sl.Property,
		sl.Client,
		sl.Price,
		sl.Currency,
		sl.SaleDate,
	).Scan(&sl.ID, &sl.CreatedAt, &sl.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating sale: %w", err)
	}

	commissionQuery := `
		INSERT INTO commissions (sale_id, participant, total_amount, paid_amount, currency, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`

	for _, c := range commissions {
		c.SaleID = sl.ID

		err := dbTx.QueryRowContext(ctx, commissionQuery,
			c.SaleID,
			c.Participant,
			c.TotalAmount,
			c.PaidAmount,
			c.Currency,
			c.Status,
		).Scan(&c.ID, &c.CreatedAt)
		if err != nil {
			return fmt.Errorf("creating commission for %s: %w", c.Participant, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing sale: %w", err)
	}

	return nil
}

func (s *Store) GetSale(ctx context.Context, id uuid.UUID) (*sale.Sale, error) {
	query := `SELECT ` + selectSaleColumns + `
		FROM sales s
		WHERE s.id = $1`

	sl, err := scanSale(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sale.ErrNotFound
		}

		return nil, fmt.Errorf("getting sale: %w", err)
	}

	return sl, nil
}

func (s *Store) ListSales(ctx context.Context, filter sale.ListFilter) ([]*sale.Sale, error) {
	query := `SELECT ` + selectSaleColumns + `
		FROM sales s
		WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND s.sale_date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND s.sale_date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY s.sale_date DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing sales: %w", err)
	}
	defer rows.Close()

	var sales []*sale.Sale

	for rows.Next() {
		sl, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning sale: %w", err)
		}

		sales = append(sales, sl)
	}

	return sales, nil
}
