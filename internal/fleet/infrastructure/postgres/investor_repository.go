package postgres

import (
	"context"
	"database/sql"
	"errors"

	fleet "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/fleet/domain"
)

// InvestorRepository reads the investor registry.
type InvestorRepository struct {
	db *sql.DB
}

// NewInvestorRepository constructs a repository.
func NewInvestorRepository(db *sql.DB) *InvestorRepository {
	return &InvestorRepository{db: db}
}

// GetByID fetches one investor. Returns (nil, nil) when absent.
func (r *InvestorRepository) GetByID(ctx context.Context, id string) (*fleet.Investor, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("investor repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT id, name
FROM investors
WHERE id = $1
LIMIT 1`, id)
	var investor fleet.Investor
	err := row.Scan(&investor.ID, &investor.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &investor, nil
}

// List returns all investors ordered by name.
func (r *InvestorRepository) List(ctx context.Context) ([]fleet.Investor, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("investor repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, name
FROM investors
ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []fleet.Investor
	for rows.Next() {
		var investor fleet.Investor
		if err := rows.Scan(&investor.ID, &investor.Name); err != nil {
			return nil, err
		}
		out = append(out, investor)
	}
	return out, rows.Err()
}
