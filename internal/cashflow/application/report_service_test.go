package application

import (
	"context"
	"errors"
	"testing"
	"time"

	cashflow "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/cashflow/domain"
	fleet "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/fleet/domain"
	ledger "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/ledger/domain"
)

type stubPayments struct {
	payments []ledger.PaymentRecord
	err      error
}

func (s stubPayments) ListByDateRange(_ context.Context, _, _ time.Time) ([]ledger.PaymentRecord, error) {
	return s.payments, s.err
}

type stubVehicles struct {
	vehicles []fleet.VehicleContract
}

func (s stubVehicles) ListAll(_ context.Context) ([]fleet.VehicleContract, error) {
	return s.vehicles, nil
}

func TestReportServiceHappyPath(t *testing.T) {
	payments := []ledger.PaymentRecord{
		{ID: "p1", VehicleID: "veh-1", Date: "2024-03-05", Amount: 300, Concept: "Pago diario", Method: ledger.PaymentMethodCash, Status: ledger.PaymentStatusCompleted},
		{ID: "p2", VehicleID: "veh-1", Date: "2024-03-05", Amount: 50, Concept: "compra de repuesto", Method: ledger.PaymentMethodCash, Status: ledger.PaymentStatusCompleted},
	}
	vehicles := []fleet.VehicleContract{
		{ID: "veh-1", InstallmentAmount: 100, DailyRate: 20, Status: fleet.VehicleStatusActive},
	}
	svc, err := NewReportService(stubPayments{payments: payments}, stubVehicles{vehicles: vehicles})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	report, err := svc.Report(context.Background(), cashflow.AxisDate, time.Time{}, time.Time{}, "")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if len(report.Buckets) != 1 || report.Buckets[0].TotalAmount != 350 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestReportServiceRejectsBadInput(t *testing.T) {
	svc, err := NewReportService(stubPayments{}, stubVehicles{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if _, err := svc.Report(context.Background(), cashflow.Axis("weekday"), time.Time{}, time.Time{}, ""); !errors.Is(err, ErrInvalidAxis) {
		t.Fatalf("axis err = %v", err)
	}
	from := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if _, err := svc.Report(context.Background(), cashflow.AxisDate, from, to, ""); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("range err = %v", err)
	}
}

func TestReportServicePropagatesReadError(t *testing.T) {
	boom := errors.New("db down")
	svc, err := NewReportService(stubPayments{err: boom}, stubVehicles{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if _, err := svc.Report(context.Background(), cashflow.AxisVehicle, time.Time{}, time.Time{}, ""); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped db error", err)
	}
}
