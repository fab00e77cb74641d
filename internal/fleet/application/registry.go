package application

import (
	"context"
	"errors"

	fleet "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/fleet/domain"
)

// VehicleStore loads vehicle contracts from persistence.
type VehicleStore interface {
	Get(ctx context.Context, id string) (*fleet.VehicleContract, error)
	ListAll(ctx context.Context) ([]fleet.VehicleContract, error)
	ListByInvestor(ctx context.Context, investorName string) ([]fleet.VehicleContract, error)
}

// Registry serves vehicle contracts with company-wide non-working days
// merged into each contract's own exception list. Per-contract days
// stay first so duplicates are harmless; the calendar set dedupes.
type Registry struct {
	store    VehicleStore
	holidays []string
}

// NewRegistry constructs a registry. Holidays may be empty.
func NewRegistry(store VehicleStore, holidays []string) (*Registry, error) {
	if store == nil {
		return nil, errors.New("fleet registry: nil store")
	}
	return &Registry{store: store, holidays: holidays}, nil
}

// Get returns one contract with holidays merged.
func (r *Registry) Get(ctx context.Context, id string) (*fleet.VehicleContract, error) {
	vehicle, err := r.store.Get(ctx, id)
	if err != nil || vehicle == nil {
		return vehicle, err
	}
	merged := *vehicle
	merged.NonWorkingDays = r.merge(vehicle.NonWorkingDays)
	return &merged, nil
}

// ListAll returns all contracts with holidays merged.
func (r *Registry) ListAll(ctx context.Context) ([]fleet.VehicleContract, error) {
	vehicles, err := r.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return r.mergeAll(vehicles), nil
}

// ListByInvestor returns an investor's contracts with holidays merged.
func (r *Registry) ListByInvestor(ctx context.Context, investorName string) ([]fleet.VehicleContract, error) {
	vehicles, err := r.store.ListByInvestor(ctx, investorName)
	if err != nil {
		return nil, err
	}
	return r.mergeAll(vehicles), nil
}

func (r *Registry) mergeAll(vehicles []fleet.VehicleContract) []fleet.VehicleContract {
	if len(r.holidays) == 0 {
		return vehicles
	}
	out := make([]fleet.VehicleContract, len(vehicles))
	for i, v := range vehicles {
		out[i] = v
		out[i].NonWorkingDays = r.merge(v.NonWorkingDays)
	}
	return out
}

func (r *Registry) merge(days []string) []string {
	if len(r.holidays) == 0 {
		return days
	}
	merged := make([]string, 0, len(days)+len(r.holidays))
	merged = append(merged, days...)
	merged = append(merged, r.holidays...)
	return merged
}
