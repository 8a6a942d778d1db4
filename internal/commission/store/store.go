package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andresgp/comcrm/internal/commission"
	"github.com/andresgp/comcrm/internal/currency"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

const selectCommissionColumns = `
	c.id, c.sale_id, c.participant, c.total_amount, c.paid_amount,
	c.currency, c.status, c.created_at, c.updated_at
`

// scanCommission reads a commission row in selectCommissionColumns order.
func scanCommission(s scanner) (*commission.Commission, error) {
	var c commission.Commission

	var currencyStr, statusStr string

	if err := s.Scan(
		&c.ID, &c.SaleID, &c.Participant, &c.TotalAmount, &c.PaidAmount,
		&currencyStr, &statusStr, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}

	c.Currency = currency.Code(currencyStr)
	c.Status = commission.Status(statusStr)

	return &c, nil
}

func (s *Store) GetCommission(ctx context.Context, id uuid.UUID) (*commission.Commission, error) {
	query := `SELECT ` + selectCommissionColumns + `
		FROM commissions c
		WHERE c.id = $1`

	c, err := scanCommission(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, commission.ErrNotFound
		}

		return nil, fmt.Errorf("getting commission: %w", err)
	}

	history, err := listEvents(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	c.History = history

	return c, nil
}

func (s *Store) ListCommissions(ctx context.Context, filter commission.ListFilter) ([]*commission.Commission, error) {
	query := `SELECT ` + selectCommissionColumns + `
		FROM commissions c
		WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.Status != nil {
		query += fmt.Sprintf(" AND c.status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.SaleID != nil {
		query += fmt.Sprintf(" AND c.sale_id = $%d", argIdx)

		args = append(args, *filter.SaleID)
		argIdx++
	}

	query += " ORDER BY c.created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing commissions: %w", err)
	}
	defer rows.Close()

	var cs []*commission.Commission

	for rows.Next() {
		c, err := scanCommission(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning commission: %w", err)
		}

		cs = append(cs, c)
	}

	return cs, nil
}

// listEvents loads a commission's payment history in applied (recorded_at)
// order.
func listEvents(ctx context.Context, q querier, commissionID uuid.UUID) ([]commission.PaymentEvent, error) {
	query := `
		SELECT id, commission_id, amount, type, date, note, receipt_ref, recorded_at
		FROM payment_events
		WHERE commission_id = $1
		ORDER BY recorded_at ASC, id ASC
	`

	rows, err := q.QueryContext(ctx, query, commissionID)
	if err != nil {
		return nil, fmt.Errorf("listing payment events: %w", err)
	}
	defer rows.Close()

	var events []commission.PaymentEvent

	for rows.Next() {
		var e commission.PaymentEvent

		var typeStr string

		var note, receiptRef sql.NullString

		if err := rows.Scan(
			&e.ID, &e.CommissionID, &e.Amount, &typeStr, &e.Date,
			&note, &receiptRef, &e.RecordedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning payment event: %w", err)
		}

		e.Type = commission.PaymentType(typeStr)
		e.Note = note.String
		e.ReceiptRef = receiptRef.String

		events = append(events, e)
	}

	return events, nil
}

// BeginPayment opens a transaction and locks the commission row so the event
// append and paid-amount update commit atomically.
func (s *Store) BeginPayment(ctx context.Context, id uuid.UUID) (commission.PaymentTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning payment transaction: %w", err)
	}

	return &paymentTx{tx: dbTx, commissionID: id}, nil
}

type paymentTx struct {
	tx           *sql.Tx
	commissionID uuid.UUID
}

func (p *paymentTx) Commission(ctx context.Context) (*commission.Commission, error) {
	query := `SELECT ` + selectCommissionColumns + `
		FROM commissions c
		WHERE c.id = $1
		FOR UPDATE`

	c, err := scanCommission(p.tx.QueryRowContext(ctx, query, p.commissionID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, commission.ErrNotFound
		}

		return nil, fmt.Errorf("locking commission: %w", err)
	}

	history, err := listEvents(ctx, p.tx, p.commissionID)
	if err != nil {
		return nil, err
	}

	c.History = history

	return c, nil
}

func (p *paymentTx) AppendEvent(ctx context.Context, event *commission.PaymentEvent) error {
	query := `
		INSERT INTO payment_events (commission_id, amount, type, date, note, receipt_ref, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := p.tx.QueryRowContext(ctx, query,
		event.CommissionID,
		event.Amount,
		event.Type,
		event.Date,
		nullable(event.Note),
		nullable(event.ReceiptRef),
		event.RecordedAt,
	).Scan(&event.ID)
	if err != nil {
		return fmt.Errorf("inserting payment event: %w", err)
	}

	return nil
}

func (p *paymentTx) SetPaid(ctx context.Context, paid decimal.Decimal, status commission.Status) error {
	query := `
		UPDATE commissions
		SET paid_amount = $1, status = $2, updated_at = NOW()
		WHERE id = $3
	`

	if _, err := p.tx.ExecContext(ctx, query, paid, status, p.commissionID); err != nil {
		return fmt.Errorf("updating paid amount: %w", err)
	}

	return nil
}

func (p *paymentTx) Commit() error {
	return p.tx.Commit()
}

func (p *paymentTx) Rollback() error {
	return p.tx.Rollback()
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
