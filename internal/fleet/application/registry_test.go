package application

import (
	"context"
	"testing"

	fleet "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/fleet/domain"
)

type stubStore struct {
	vehicles []fleet.VehicleContract
}

func (s stubStore) Get(_ context.Context, id string) (*fleet.VehicleContract, error) {
	for _, v := range s.vehicles {
		if v.ID == id {
			copy := v
			return &copy, nil
		}
	}
	return nil, nil
}

func (s stubStore) ListAll(_ context.Context) ([]fleet.VehicleContract, error) {
	return s.vehicles, nil
}

func (s stubStore) ListByInvestor(_ context.Context, investorName string) ([]fleet.VehicleContract, error) {
	var out []fleet.VehicleContract
	for _, v := range s.vehicles {
		if v.Investor == investorName {
			out = append(out, v)
		}
	}
	return out, nil
}

func TestRegistryMergesHolidays(t *testing.T) {
	store := stubStore{vehicles: []fleet.VehicleContract{
		{ID: "veh-1", Investor: "Ana", NonWorkingDays: []string{"2024-03-08"}},
	}}
	registry, err := NewRegistry(store, []string{"2024-05-01"})
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}

	vehicle, err := registry.Get(context.Background(), "veh-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(vehicle.NonWorkingDays) != 2 {
		t.Fatalf("days = %v", vehicle.NonWorkingDays)
	}

	all, err := registry.ListAll(context.Background())
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all[0].NonWorkingDays) != 2 {
		t.Fatalf("days = %v", all[0].NonWorkingDays)
	}

	// store rows must not be mutated
	if len(store.vehicles[0].NonWorkingDays) != 1 {
		t.Fatalf("store mutated: %v", store.vehicles[0].NonWorkingDays)
	}
}

func TestRegistryWithoutHolidaysPassesThrough(t *testing.T) {
	store := stubStore{vehicles: []fleet.VehicleContract{
		{ID: "veh-1", Investor: "Ana", NonWorkingDays: []string{"2024-03-08"}},
	}}
	registry, err := NewRegistry(store, nil)
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	byInvestor, err := registry.ListByInvestor(context.Background(), "Ana")
	if err != nil {
		t.Fatalf("list by investor: %v", err)
	}
	if len(byInvestor) != 1 || len(byInvestor[0].NonWorkingDays) != 1 {
		t.Fatalf("vehicles = %+v", byInvestor)
	}
}
