package application

import (
	"context"
	"testing"
	"time"

	fleet "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/fleet/domain"
	ledger "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/ledger/domain"
)

type stubVehicleReader struct {
	vehicle *fleet.VehicleContract
}

func (s stubVehicleReader) Get(_ context.Context, _ string) (*fleet.VehicleContract, error) {
	return s.vehicle, nil
}

type stubPaymentReader struct {
	payments []ledger.PaymentRecord
	calls    int
}

func (s *stubPaymentReader) ListByVehicle(_ context.Context, _ string) ([]ledger.PaymentRecord, error) {
	s.calls++
	return s.payments, nil
}

type mapCache struct {
	data map[string]string
}

func newMapCache() *mapCache { return &mapCache{data: make(map[string]string)} }

func (m *mapCache) Get(_ context.Context, key string) (string, bool) {
	value, ok := m.data[key]
	return value, ok
}

func (m *mapCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *mapCache) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }

func statusFixture() (*fleet.VehicleContract, []ledger.PaymentRecord, fixedClock) {
	vehicle := &fleet.VehicleContract{
		ID:                "veh-1",
		Plate:             "ABC123",
		InstallmentAmount: 100,
		DailyRate:         20,
		ContractStartDate: "2024-03-01",
		Status:            fleet.VehicleStatusActive,
	}
	payments := []ledger.PaymentRecord{
		{ID: "p1", VehicleID: "veh-1", Date: "2024-03-05", Amount: 850, Concept: "Pago diario", Status: ledger.PaymentStatusCompleted},
	}
	clock := fixedClock{at: time.Date(2024, 3, 11, 10, 0, 0, 0, time.UTC)}
	return vehicle, payments, clock
}

func TestVehicleStatusFigures(t *testing.T) {
	vehicle, payments, clock := statusFixture()
	reader := &stubPaymentReader{payments: payments}
	svc, err := NewVehicleStatusService(stubVehicleReader{vehicle: vehicle}, reader, nil, clock)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	status, err := svc.Status(context.Background(), "veh-1")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.PaidInstallments != 8.5 || status.ExpectedInstallments != 9 {
		t.Fatalf("paid/expected = %v/%v, want 8.5/9", status.PaidInstallments, status.ExpectedInstallments)
	}
	if status.OverdueInstallments != 0.5 || status.Debt != 50 {
		t.Fatalf("overdue/debt = %v/%v, want 0.5/50", status.OverdueInstallments, status.Debt)
	}
	if status.CompanyEarnings != 170 {
		t.Fatalf("earnings = %v, want 170", status.CompanyEarnings)
	}
	if status.AsOf != "2024-03-11" {
		t.Fatalf("asOf = %q, want 2024-03-11", status.AsOf)
	}
}

func TestVehicleStatusCacheRoundTrip(t *testing.T) {
	vehicle, payments, clock := statusFixture()
	reader := &stubPaymentReader{payments: payments}
	cache := newMapCache()
	svc, err := NewVehicleStatusService(stubVehicleReader{vehicle: vehicle}, reader, cache, clock)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	first, err := svc.Status(context.Background(), "veh-1")
	if err != nil {
		t.Fatalf("first status: %v", err)
	}
	second, err := svc.Status(context.Background(), "veh-1")
	if err != nil {
		t.Fatalf("second status: %v", err)
	}
	if reader.calls != 1 {
		t.Fatalf("payment reads = %d, want 1 (second call cached)", reader.calls)
	}
	if first != second {
		t.Fatalf("cached status differs: %+v != %+v", first, second)
	}

	svc.Invalidate(context.Background(), "veh-1")
	if _, err := svc.Status(context.Background(), "veh-1"); err != nil {
		t.Fatalf("status after invalidate: %v", err)
	}
	if reader.calls != 2 {
		t.Fatalf("payment reads = %d, want 2 after invalidation", reader.calls)
	}
}

func TestVehicleStatusUnknownVehicle(t *testing.T) {
	_, payments, clock := statusFixture()
	reader := &stubPaymentReader{payments: payments}
	svc, err := NewVehicleStatusService(stubVehicleReader{}, reader, nil, clock)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if _, err := svc.Status(context.Background(), "ghost"); err != ErrVehicleNotFound {
		t.Fatalf("err = %v, want ErrVehicleNotFound", err)
	}
}
