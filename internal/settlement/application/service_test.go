package application

import (
	"context"
	"errors"
	"testing"
	"time"

	fleet "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/fleet/domain"
	ledger "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/ledger/domain"
	settlement "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/settlement/domain"
)

type memSnapshotRepo struct {
	snapshots map[string]*settlement.SettlementSnapshot
	items     map[string][]settlement.SnapshotItem
}

func newMemSnapshotRepo() *memSnapshotRepo {
	return &memSnapshotRepo{
		snapshots: make(map[string]*settlement.SettlementSnapshot),
		items:     make(map[string][]settlement.SnapshotItem),
	}
}

func (r *memSnapshotRepo) FindLatestActive(_ context.Context, investorID string, period settlement.Period) (*settlement.SettlementSnapshot, error) {
	var latest *settlement.SettlementSnapshot
	for _, s := range r.snapshots {
		if s.InvestorID != investorID || s.Status == settlement.SnapshotStatusVoided {
			continue
		}
		if !s.PeriodStart.Equal(period.Start) || !s.PeriodEnd.Equal(period.End) {
			continue
		}
		if latest == nil || s.Version > latest.Version {
			copy := *s
			latest = &copy
		}
	}
	return latest, nil
}

func (r *memSnapshotRepo) NextVersion(_ context.Context, investorID string, period settlement.Period) (int, error) {
	max := 0
	for _, s := range r.snapshots {
		if s.InvestorID == investorID && s.PeriodStart.Equal(period.Start) && s.PeriodEnd.Equal(period.End) && s.Version > max {
			max = s.Version
		}
	}
	return max + 1, nil
}

func (r *memSnapshotRepo) CreateWithItems(_ context.Context, snapshot *settlement.SettlementSnapshot, items []settlement.SnapshotItem) error {
	copy := *snapshot
	r.snapshots[snapshot.ID] = &copy
	r.items[snapshot.ID] = items
	return nil
}

func (r *memSnapshotRepo) GetByID(_ context.Context, id string) (*settlement.SettlementSnapshot, error) {
	s, ok := r.snapshots[id]
	if !ok {
		return nil, nil
	}
	copy := *s
	return &copy, nil
}

func (r *memSnapshotRepo) ListItems(_ context.Context, id string) ([]settlement.SnapshotItem, error) {
	return r.items[id], nil
}

func (r *memSnapshotRepo) MarkFrozen(_ context.Context, id, hash string, at time.Time) error {
	s, ok := r.snapshots[id]
	if !ok {
		return settlement.ErrSnapshotNotFound
	}
	s.Status = settlement.SnapshotStatusFrozen
	s.SnapshotHash = hash
	s.FrozenAt = at
	s.UpdatedAt = at
	return nil
}

func (r *memSnapshotRepo) MarkVoided(_ context.Context, id, reason string, at time.Time) error {
	s, ok := r.snapshots[id]
	if !ok {
		return settlement.ErrSnapshotNotFound
	}
	s.Status = settlement.SnapshotStatusVoided
	s.VoidReason = reason
	s.VoidedAt = at
	s.UpdatedAt = at
	return nil
}

func (r *memSnapshotRepo) ListByInvestor(_ context.Context, investorID string) ([]settlement.SettlementSnapshot, error) {
	var out []settlement.SettlementSnapshot
	for _, s := range r.snapshots {
		if s.InvestorID == investorID {
			out = append(out, *s)
		}
	}
	return out, nil
}

type stubInvestors struct{ investor *fleet.Investor }

func (s stubInvestors) GetByID(_ context.Context, _ string) (*fleet.Investor, error) {
	return s.investor, nil
}

type stubFleet struct{ vehicles []fleet.VehicleContract }

func (s stubFleet) ListAll(_ context.Context) ([]fleet.VehicleContract, error) {
	return s.vehicles, nil
}

type stubLedger struct{ payments []ledger.PaymentRecord }

func (s stubLedger) ListByDateRange(_ context.Context, _, _ time.Time) ([]ledger.PaymentRecord, error) {
	return s.payments, nil
}

type stubMaintenance struct{ records []fleet.MaintenanceRecord }

func (s stubMaintenance) ListByPeriod(_ context.Context, _, _ time.Time) ([]fleet.MaintenanceRecord, error) {
	return s.records, nil
}

type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }

func newTestService(t *testing.T, repo *memSnapshotRepo) *Service {
	t.Helper()
	investor := &fleet.Investor{ID: "inv-1", Name: "Ana"}
	vehicles := []fleet.VehicleContract{
		{ID: "veh-1", Plate: "ABC123", InstallmentAmount: 100, DailyRate: 20, Investor: "Ana", Status: fleet.VehicleStatusActive},
	}
	payments := []ledger.PaymentRecord{
		{ID: "p1", VehicleID: "veh-1", Date: "2024-03-10", Amount: 400, Concept: "Pago a inversionista: Ana", Status: ledger.PaymentStatusCompleted},
	}
	svc, err := NewService(
		repo,
		stubInvestors{investor: investor},
		stubFleet{vehicles: vehicles},
		stubLedger{payments: payments},
		stubMaintenance{},
		nil,
		15,
		"PEN",
		fixedClock{at: time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)},
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestGenerateCreatesDraftSnapshot(t *testing.T) {
	repo := newMemSnapshotRepo()
	svc := newTestService(t, repo)

	snapshot, err := svc.Generate(context.Background(), "inv-1", "2024-03-01", "2024-03-31", false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if snapshot.Status != settlement.SnapshotStatusDraft || snapshot.Version != 1 {
		t.Fatalf("snapshot = %+v", snapshot)
	}
	if snapshot.TotalToPay != 600 || snapshot.PaidToInvestor != 400 || snapshot.PendingToPay != 200 {
		t.Fatalf("figures = %v/%v/%v, want 600/400/200", snapshot.TotalToPay, snapshot.PaidToInvestor, snapshot.PendingToPay)
	}
	if snapshot.Currency != "PEN" {
		t.Fatalf("currency = %q", snapshot.Currency)
	}
	items := repo.items[snapshot.ID]
	if len(items) != 1 || items[0].VehicleID != "veh-1" || items[0].PaidInstallments != 4 {
		t.Fatalf("items = %+v", items)
	}
}

func TestGenerateReturnsExistingUnlessRegenerate(t *testing.T) {
	repo := newMemSnapshotRepo()
	svc := newTestService(t, repo)

	first, err := svc.Generate(context.Background(), "inv-1", "2024-03-01", "2024-03-31", false)
	if err != nil {
		t.Fatalf("first generate: %v", err)
	}
	second, err := svc.Generate(context.Background(), "inv-1", "2024-03-01", "2024-03-31", false)
	if err != nil {
		t.Fatalf("second generate: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected existing snapshot, got %s and %s", first.ID, second.ID)
	}
	third, err := svc.Generate(context.Background(), "inv-1", "2024-03-01", "2024-03-31", true)
	if err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	if third.ID == first.ID || third.Version != 2 {
		t.Fatalf("regenerate did not bump version: %+v", third)
	}
}

func TestFreezeAndVoidLifecycle(t *testing.T) {
	repo := newMemSnapshotRepo()
	svc := newTestService(t, repo)

	snapshot, err := svc.Generate(context.Background(), "inv-1", "2024-03-01", "2024-03-31", false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	frozen, err := svc.Freeze(context.Background(), snapshot.ID)
	if err != nil {
		t.Fatalf("freeze: %v", err)
	}
	if frozen.Status != settlement.SnapshotStatusFrozen || frozen.SnapshotHash == "" {
		t.Fatalf("frozen = %+v", frozen)
	}
	again, err := svc.Freeze(context.Background(), snapshot.ID)
	if err != nil {
		t.Fatalf("second freeze: %v", err)
	}
	if again.SnapshotHash != frozen.SnapshotHash {
		t.Fatal("freeze not idempotent")
	}

	voided, err := svc.Void(context.Background(), snapshot.ID, "wrong period")
	if err != nil {
		t.Fatalf("void: %v", err)
	}
	if voided.Status != settlement.SnapshotStatusVoided || voided.VoidReason != "wrong period" {
		t.Fatalf("voided = %+v", voided)
	}
	if _, err := svc.Freeze(context.Background(), snapshot.ID); !errors.Is(err, settlement.ErrSnapshotVoided) {
		t.Fatalf("freeze voided: %v", err)
	}
}

func TestPreviewDoesNotPersist(t *testing.T) {
	repo := newMemSnapshotRepo()
	svc := newTestService(t, repo)

	report, err := svc.Preview(context.Background(), "inv-1", "2024-03-01", "2024-03-31")
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if report.PendingToPay != 200 {
		t.Fatalf("pending = %v, want 200", report.PendingToPay)
	}
	if len(repo.snapshots) != 0 {
		t.Fatal("preview persisted a snapshot")
	}
}

func TestParsePeriodValidation(t *testing.T) {
	if _, err := ParsePeriod("2024-03-01", "2024-02-01"); !errors.Is(err, settlement.ErrInvalidPeriod) {
		t.Fatalf("inverted period: %v", err)
	}
	if _, err := ParsePeriod("", "2024-03-31"); !errors.Is(err, settlement.ErrInvalidPeriod) {
		t.Fatalf("missing start: %v", err)
	}
	if _, err := ParsePeriod("2024-03-01", "marzo"); !errors.Is(err, settlement.ErrInvalidPeriod) {
		t.Fatalf("malformed end: %v", err)
	}
}
