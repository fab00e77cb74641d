package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	ledger "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/ledger/domain"
)

// PaymentRepository persists the append-only payment ledger.
type PaymentRepository struct {
	db *sql.DB
}

// NewPaymentRepository constructs a repository.
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create appends a payment row.
func (r *PaymentRepository) Create(ctx context.Context, p ledger.PaymentRecord) error {
	if r == nil || r.db == nil {
		return errors.New("payment repo: nil db")
	}
	day, ok := ledger.ParseDay(p.Date)
	if !ok {
		return ledger.ErrInvalidDate
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO payments (
	id, vehicle_id, paid_on, amount, concept, method, status, category, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		p.ID, p.VehicleID, day, p.Amount, p.Concept, string(p.Method), string(p.Status), string(p.Category), time.Now().UTC())
	return err
}

// GetByID fetches one payment. Returns (nil, nil) when absent.
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*ledger.PaymentRecord, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("payment repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT id, vehicle_id, paid_on, amount, concept, method, status, category
FROM payments
WHERE id = $1
LIMIT 1`, id)
	return scanPayment(row)
}

// UpdateStatus changes a payment's status. Rows are never deleted:
// cancellation is this status change.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, id string, status ledger.PaymentStatus) error {
	if r == nil || r.db == nil {
		return errors.New("payment repo: nil db")
	}
	result, err := r.db.ExecContext(ctx, `
UPDATE payments SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ledger.ErrPaymentNotFound
	}
	return nil
}

// ListByVehicle returns every ledger entry for a vehicle, oldest first.
func (r *PaymentRepository) ListByVehicle(ctx context.Context, vehicleID string) ([]ledger.PaymentRecord, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("payment repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, vehicle_id, paid_on, amount, concept, method, status, category
FROM payments
WHERE vehicle_id = $1
ORDER BY paid_on ASC, id ASC`, vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPayments(rows)
}

// ListByDateRange returns payments dated inside [from, to]. A zero
// bound leaves that side open.
func (r *PaymentRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]ledger.PaymentRecord, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("payment repo: nil db")
	}
	query := `
SELECT id, vehicle_id, paid_on, amount, concept, method, status, category
FROM payments
WHERE ($1::date IS NULL OR paid_on >= $1)
	AND ($2::date IS NULL OR paid_on <= $2)
ORDER BY paid_on ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query, nullableDay(from), nullableDay(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPayments(rows)
}

func nullableDay(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return ledger.TruncateToDay(t.UTC())
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPayment(row rowScanner) (*ledger.PaymentRecord, error) {
	var (
		p        ledger.PaymentRecord
		paidOn   time.Time
		method   string
		status   string
		category sql.NullString
	)
	err := row.Scan(&p.ID, &p.VehicleID, &paidOn, &p.Amount, &p.Concept, &method, &status, &category)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.Date = ledger.FormatDay(paidOn)
	p.Method = ledger.PaymentMethod(method)
	p.Status = ledger.PaymentStatus(status)
	if category.Valid {
		p.Category = ledger.PaymentCategory(category.String)
	}
	return &p, nil
}

func collectPayments(rows *sql.Rows) ([]ledger.PaymentRecord, error) {
	var out []ledger.PaymentRecord
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}
