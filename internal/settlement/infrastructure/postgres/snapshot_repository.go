package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	settlement "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/settlement/domain"
)

// SnapshotRepository persists settlement snapshots and their
// per-vehicle items.
type SnapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository constructs a repository.
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

const snapshotColumns = `id, investor_id, investor_name, period_start, period_end, status, version,
	total_to_pay, paid_to_investor, pending_to_pay,
	admin_commission, gps_income, maintenance_income, insurance_collected, total_income,
	currency, snapshot_hash, void_reason, created_at, updated_at, frozen_at, voided_at`

// FindLatestActive returns the latest draft or frozen snapshot for an
// investor period. Returns (nil, nil) when none exists.
func (r *SnapshotRepository) FindLatestActive(ctx context.Context, investorID string, period settlement.Period) (*settlement.SettlementSnapshot, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("snapshot repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT `+snapshotColumns+`
FROM settlement_snapshots
WHERE investor_id = $1 AND period_start = $2 AND period_end = $3
	AND status IN ('draft','frozen')
ORDER BY version DESC
LIMIT 1`, investorID, period.Start, period.End)
	return scanSnapshot(row)
}

// NextVersion returns the next version for an investor period.
func (r *SnapshotRepository) NextVersion(ctx context.Context, investorID string, period settlement.Period) (int, error) {
	if r == nil || r.db == nil {
		return 0, errors.New("snapshot repo: nil db")
	}
	var maxVersion sql.NullInt64
	err := r.db.QueryRowContext(ctx, `
SELECT MAX(version)
FROM settlement_snapshots
WHERE investor_id = $1 AND period_start = $2 AND period_end = $3`, investorID, period.Start, period.End).Scan(&maxVersion)
	if err != nil {
		return 0, err
	}
	if !maxVersion.Valid {
		return 1, nil
	}
	return int(maxVersion.Int64) + 1, nil
}

// CreateWithItems inserts a snapshot and its items in one transaction.
func (r *SnapshotRepository) CreateWithItems(ctx context.Context, snapshot *settlement.SettlementSnapshot, items []settlement.SnapshotItem) error {
	if r == nil || r.db == nil {
		return errors.New("snapshot repo: nil db")
	}
	if snapshot == nil {
		return errors.New("snapshot repo: nil snapshot")
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
INSERT INTO settlement_snapshots (
	id, investor_id, investor_name, period_start, period_end, status, version,
	total_to_pay, paid_to_investor, pending_to_pay,
	admin_commission, gps_income, maintenance_income, insurance_collected, total_income,
	currency, snapshot_hash, void_reason, created_at, updated_at
) VALUES (
	$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20
)`,
		snapshot.ID, snapshot.InvestorID, snapshot.InvestorName, snapshot.PeriodStart, snapshot.PeriodEnd,
		snapshot.Status, snapshot.Version,
		snapshot.TotalToPay, snapshot.PaidToInvestor, snapshot.PendingToPay,
		snapshot.AdminCommission, snapshot.GPSIncome, snapshot.MaintenanceIncome,
		snapshot.InsuranceCollected, snapshot.TotalIncome,
		snapshot.Currency, snapshot.SnapshotHash, snapshot.VoidReason,
		snapshot.CreatedAt, snapshot.UpdatedAt,
	)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	for _, item := range items {
		_, err := tx.ExecContext(ctx, `
INSERT INTO settlement_snapshot_items (
	snapshot_id, vehicle_id, plate, total_to_pay, paid_to_investor, pending_to_pay,
	paid_installments, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			snapshot.ID, item.VehicleID, item.Plate, item.TotalToPay, item.PaidToInvestor,
			item.PendingToPay, item.PaidInstallments, item.CreatedAt)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// GetByID fetches a snapshot. Returns (nil, nil) when absent.
func (r *SnapshotRepository) GetByID(ctx context.Context, id string) (*settlement.SettlementSnapshot, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("snapshot repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT `+snapshotColumns+`
FROM settlement_snapshots
WHERE id = $1
LIMIT 1`, id)
	return scanSnapshot(row)
}

// ListItems returns the per-vehicle items of a snapshot.
func (r *SnapshotRepository) ListItems(ctx context.Context, id string) ([]settlement.SnapshotItem, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("snapshot repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT snapshot_id, vehicle_id, plate, total_to_pay, paid_to_investor, pending_to_pay,
	paid_installments, created_at
FROM settlement_snapshot_items
WHERE snapshot_id = $1
ORDER BY vehicle_id ASC`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []settlement.SnapshotItem
	for rows.Next() {
		var item settlement.SnapshotItem
		if err := rows.Scan(&item.SnapshotID, &item.VehicleID, &item.Plate, &item.TotalToPay,
			&item.PaidToInvestor, &item.PendingToPay, &item.PaidInstallments, &item.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// MarkFrozen freezes a snapshot and stores its hash.
func (r *SnapshotRepository) MarkFrozen(ctx context.Context, id, hash string, at time.Time) error {
	if r == nil || r.db == nil {
		return errors.New("snapshot repo: nil db")
	}
	result, err := r.db.ExecContext(ctx, `
UPDATE settlement_snapshots
SET status = 'frozen', snapshot_hash = $2, frozen_at = $3, updated_at = $3
WHERE id = $1 AND status = 'draft'`, id, hash, at)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return settlement.ErrSnapshotNotFound
	}
	return nil
}

// MarkVoided voids a snapshot with a reason.
func (r *SnapshotRepository) MarkVoided(ctx context.Context, id, reason string, at time.Time) error {
	if r == nil || r.db == nil {
		return errors.New("snapshot repo: nil db")
	}
	result, err := r.db.ExecContext(ctx, `
UPDATE settlement_snapshots
SET status = 'voided', void_reason = $2, voided_at = $3, updated_at = $3
WHERE id = $1 AND status <> 'voided'`, id, reason, at)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return settlement.ErrSnapshotNotFound
	}
	return nil
}

// ListByInvestor returns all snapshot versions for an investor, newest
// period first.
func (r *SnapshotRepository) ListByInvestor(ctx context.Context, investorID string) ([]settlement.SettlementSnapshot, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("snapshot repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT `+snapshotColumns+`
FROM settlement_snapshots
WHERE investor_id = $1
ORDER BY period_start DESC, version DESC`, investorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []settlement.SettlementSnapshot
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *snapshot)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (*settlement.SettlementSnapshot, error) {
	var (
		s        settlement.SettlementSnapshot
		hash     sql.NullString
		reason   sql.NullString
		frozenAt sql.NullTime
		voidedAt sql.NullTime
	)
	err := row.Scan(&s.ID, &s.InvestorID, &s.InvestorName, &s.PeriodStart, &s.PeriodEnd, &s.Status, &s.Version,
		&s.TotalToPay, &s.PaidToInvestor, &s.PendingToPay,
		&s.AdminCommission, &s.GPSIncome, &s.MaintenanceIncome, &s.InsuranceCollected, &s.TotalIncome,
		&s.Currency, &hash, &reason, &s.CreatedAt, &s.UpdatedAt, &frozenAt, &voidedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if hash.Valid {
		s.SnapshotHash = hash.String
	}
	if reason.Valid {
		s.VoidReason = reason.String
	}
	if frozenAt.Valid {
		s.FrozenAt = frozenAt.Time
	}
	if voidedAt.Valid {
		s.VoidedAt = voidedAt.Time
	}
	return &s, nil
}
