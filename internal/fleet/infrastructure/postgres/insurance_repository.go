package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	fleet "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/fleet/domain"
	ledger "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/ledger/domain"
)

// InsuranceRepository reads insurance policies and their payments.
type InsuranceRepository struct {
	db *sql.DB
}

// NewInsuranceRepository constructs a repository.
func NewInsuranceRepository(db *sql.DB) *InsuranceRepository {
	return &InsuranceRepository{db: db}
}

// ListPoliciesByVehicle returns policies covering a vehicle.
func (r *InsuranceRepository) ListPoliciesByVehicle(ctx context.Context, vehicleID string) ([]fleet.InsurancePolicy, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("insurance repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, vehicle_id, insurer, policy_number, start_date, end_date, total_amount, installments
FROM insurance_policies
WHERE vehicle_id = $1
ORDER BY start_date ASC`, vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []fleet.InsurancePolicy
	for rows.Next() {
		var policy fleet.InsurancePolicy
		if err := rows.Scan(&policy.ID, &policy.VehicleID, &policy.Insurer, &policy.PolicyNumber,
			&policy.StartDate, &policy.EndDate, &policy.TotalAmount, &policy.Installments); err != nil {
			return nil, err
		}
		out = append(out, policy)
	}
	return out, rows.Err()
}

// ListPaymentsByPeriod returns policy payments dated inside [from, to].
func (r *InsuranceRepository) ListPaymentsByPeriod(ctx context.Context, from, to time.Time) ([]fleet.InsurancePayment, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("insurance repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, policy_id, paid_on, amount, status
FROM insurance_payments
WHERE ($1::date IS NULL OR paid_on >= $1)
	AND ($2::date IS NULL OR paid_on <= $2)
ORDER BY paid_on ASC, id ASC`, nullableDay(from), nullableDay(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []fleet.InsurancePayment
	for rows.Next() {
		var (
			payment fleet.InsurancePayment
			paidOn  time.Time
			status  string
		)
		if err := rows.Scan(&payment.ID, &payment.PolicyID, &paidOn, &payment.Amount, &status); err != nil {
			return nil, err
		}
		payment.Date = ledger.FormatDay(paidOn)
		payment.Status = fleet.InsurancePaymentStatus(status)
		out = append(out, payment)
	}
	return out, rows.Err()
}
