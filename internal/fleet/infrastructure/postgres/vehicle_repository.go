package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	fleet "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/fleet/domain"
)

// VehicleRepository reads and writes the fleet registry.
type VehicleRepository struct {
	db *sql.DB
}

// NewVehicleRepository constructs a repository.
func NewVehicleRepository(db *sql.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

const vehicleColumns = `id, plate, installment_amount, daily_rate, total_installments,
	contract_start_date, non_working_days, status, investor`

// Get fetches one contract. Returns (nil, nil) when absent.
func (r *VehicleRepository) Get(ctx context.Context, id string) (*fleet.VehicleContract, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("vehicle repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT `+vehicleColumns+`
FROM vehicles
WHERE id = $1
LIMIT 1`, id)
	return scanVehicle(row)
}

// ListAll returns the full registry snapshot.
func (r *VehicleRepository) ListAll(ctx context.Context) ([]fleet.VehicleContract, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("vehicle repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT `+vehicleColumns+`
FROM vehicles
ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectVehicles(rows)
}

// ListByInvestor returns contracts backing one investor name.
func (r *VehicleRepository) ListByInvestor(ctx context.Context, investorName string) ([]fleet.VehicleContract, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("vehicle repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT `+vehicleColumns+`
FROM vehicles
WHERE investor = $1
ORDER BY id ASC`, investorName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectVehicles(rows)
}

// Save upserts a contract.
func (r *VehicleRepository) Save(ctx context.Context, v fleet.VehicleContract) error {
	if r == nil || r.db == nil {
		return errors.New("vehicle repo: nil db")
	}
	nonWorking, err := json.Marshal(v.NonWorkingDays)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO vehicles (
	id, plate, installment_amount, daily_rate, total_installments,
	contract_start_date, non_working_days, status, investor, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (id) DO UPDATE SET
	plate = EXCLUDED.plate,
	installment_amount = EXCLUDED.installment_amount,
	daily_rate = EXCLUDED.daily_rate,
	total_installments = EXCLUDED.total_installments,
	contract_start_date = EXCLUDED.contract_start_date,
	non_working_days = EXCLUDED.non_working_days,
	status = EXCLUDED.status,
	investor = EXCLUDED.investor,
	updated_at = EXCLUDED.updated_at`,
		v.ID, v.Plate, v.InstallmentAmount, v.DailyRate, v.TotalInstallments,
		v.ContractStartDate, nonWorking, string(v.Status), v.Investor, time.Now().UTC())
	return err
}

func scanVehicle(row interface{ Scan(dest ...any) error }) (*fleet.VehicleContract, error) {
	var (
		v          fleet.VehicleContract
		startDate  sql.NullString
		nonWorking []byte
		status     string
	)
	err := row.Scan(&v.ID, &v.Plate, &v.InstallmentAmount, &v.DailyRate, &v.TotalInstallments,
		&startDate, &nonWorking, &status, &v.Investor)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if startDate.Valid {
		v.ContractStartDate = startDate.String
	}
	if len(nonWorking) > 0 {
		if err := json.Unmarshal(nonWorking, &v.NonWorkingDays); err != nil {
			return nil, err
		}
	}
	v.Status = fleet.VehicleStatus(status)
	return &v, nil
}

func collectVehicles(rows *sql.Rows) ([]fleet.VehicleContract, error) {
	var out []fleet.VehicleContract
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}
