package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	fleet "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/fleet/domain"
	ledger "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/ledger/domain"
)

// MaintenanceRepository persists maintenance jobs.
type MaintenanceRepository struct {
	db *sql.DB
}

// NewMaintenanceRepository constructs a repository.
func NewMaintenanceRepository(db *sql.DB) *MaintenanceRepository {
	return &MaintenanceRepository{db: db}
}

// Create inserts a maintenance record.
func (r *MaintenanceRepository) Create(ctx context.Context, m fleet.MaintenanceRecord) error {
	if r == nil || r.db == nil {
		return errors.New("maintenance repo: nil db")
	}
	day, ok := ledger.ParseDay(m.Date)
	if !ok {
		return ledger.ErrInvalidDate
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO maintenance_records (
	id, vehicle_id, performed_on, cost_materials, cost_labor, sale_price, status, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		m.ID, m.VehicleID, day, m.CostMaterials, m.CostLabor, m.SalePrice, string(m.Status), time.Now().UTC())
	return err
}

// UpdateStatus moves a job through its lifecycle.
func (r *MaintenanceRepository) UpdateStatus(ctx context.Context, id string, status fleet.MaintenanceStatus) error {
	if r == nil || r.db == nil {
		return errors.New("maintenance repo: nil db")
	}
	_, err := r.db.ExecContext(ctx, `
UPDATE maintenance_records SET status = $2 WHERE id = $1`, id, string(status))
	return err
}

// ListByPeriod returns records dated inside [from, to]. A zero bound
// leaves that side open.
func (r *MaintenanceRepository) ListByPeriod(ctx context.Context, from, to time.Time) ([]fleet.MaintenanceRecord, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("maintenance repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, vehicle_id, performed_on, cost_materials, cost_labor, sale_price, status
FROM maintenance_records
WHERE ($1::date IS NULL OR performed_on >= $1)
	AND ($2::date IS NULL OR performed_on <= $2)
ORDER BY performed_on ASC, id ASC`, nullableDay(from), nullableDay(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []fleet.MaintenanceRecord
	for rows.Next() {
		var (
			m           fleet.MaintenanceRecord
			performedOn time.Time
			status      string
		)
		if err := rows.Scan(&m.ID, &m.VehicleID, &performedOn, &m.CostMaterials, &m.CostLabor, &m.SalePrice, &status); err != nil {
			return nil, err
		}
		m.Date = ledger.FormatDay(performedOn)
		m.Status = fleet.MaintenanceStatus(status)
		out = append(out, m)
	}
	return out, rows.Err()
}

func nullableDay(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return ledger.TruncateToDay(t.UTC())
}
