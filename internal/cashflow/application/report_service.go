package application

import (
	"context"
	"errors"
	"time"

	cashflow "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/cashflow/domain"
	fleet "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/fleet/domain"
	ledger "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/ledger/domain"
	"github.com/GCLGCLSCZ/flota-sabia-sub000/internal/observability/metrics"
)

var (
	// ErrInvalidAxis is returned for an unsupported grouping axis.
	ErrInvalidAxis = errors.New("cashflow: invalid axis")
	// ErrInvalidRange is returned when from is after to.
	ErrInvalidRange = errors.New("cashflow: from after to")
)

// PaymentReader loads ledger entries for a date window. Zero bounds
// mean the window is open on that side.
type PaymentReader interface {
	ListByDateRange(ctx context.Context, from, to time.Time) ([]ledger.PaymentRecord, error)
}

// VehicleReader loads the fleet registry snapshot.
type VehicleReader interface {
	ListAll(ctx context.Context) ([]fleet.VehicleContract, error)
}

// ReportService produces cash-flow reports over a consistent snapshot
// of payments and vehicles. All arithmetic lives in the domain engine;
// this layer only fetches inputs and records observability.
type ReportService struct {
	payments PaymentReader
	vehicles VehicleReader
}

// NewReportService constructs a service.
func NewReportService(payments PaymentReader, vehicles VehicleReader) (*ReportService, error) {
	if payments == nil {
		return nil, errors.New("cashflow service: nil payment reader")
	}
	if vehicles == nil {
		return nil, errors.New("cashflow service: nil vehicle reader")
	}
	return &ReportService{payments: payments, vehicles: vehicles}, nil
}

// Report aggregates payments along the axis over [from, to] with an
// optional vehicle filter.
func (s *ReportService) Report(ctx context.Context, axis cashflow.Axis, from, to time.Time, vehicleID string) (cashflow.Report, error) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveCashflowReport(string(axis), result, time.Since(start))
	}()

	if !axis.IsValid() {
		result = metrics.ResultError
		return cashflow.Report{}, ErrInvalidAxis
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		result = metrics.ResultError
		return cashflow.Report{}, ErrInvalidRange
	}

	payments, err := s.payments.ListByDateRange(ctx, from, to)
	if err != nil {
		result = metrics.ResultError
		return cashflow.Report{}, err
	}
	vehicles, err := s.vehicles.ListAll(ctx)
	if err != nil {
		result = metrics.ResultError
		return cashflow.Report{}, err
	}

	report := cashflow.Aggregate(payments, vehicles, axis, from, to, vehicleID)
	metrics.AddCashflowOrphans(report.OrphanedPayments)
	return report, nil
}
