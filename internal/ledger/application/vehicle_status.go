package application

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	fleet "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/fleet/domain"
	ledger "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/ledger/domain"
	"github.com/GCLGCLSCZ/flota-sabia-sub000/internal/observability/metrics"
)

// ErrVehicleNotFound is returned when the fleet registry has no such vehicle.
var ErrVehicleNotFound = errors.New("ledger app: vehicle not found")

// VehicleStatus is the per-vehicle card view-model. Money figures are
// rounded for presentation; installment counts stay fractional.
type VehicleStatus struct {
	VehicleID            string  `json:"vehicleId"`
	PaidInstallments     float64 `json:"paidInstallments"`
	ExpectedInstallments float64 `json:"expectedInstallments"`
	OverdueInstallments  float64 `json:"overdueInstallments"`
	Debt                 float64 `json:"debt"`
	CompanyEarnings      float64 `json:"companyEarnings"`
	AsOf                 string  `json:"asOf"`
}

// VehicleReader loads vehicle contracts.
type VehicleReader interface {
	Get(ctx context.Context, id string) (*fleet.VehicleContract, error)
}

// PaymentReader loads ledger entries.
type PaymentReader interface {
	ListByVehicle(ctx context.Context, vehicleID string) ([]ledger.PaymentRecord, error)
}

// Cache is a string cache with TTL semantics. The cached status is a
// display convenience only; the ledger stays the source of truth and
// every payment mutation invalidates the entry.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock uses time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// VehicleStatusService computes the per-vehicle card figures from a
// ledger snapshot, with an optional cache in front.
type VehicleStatusService struct {
	vehicles VehicleReader
	payments PaymentReader
	cache    Cache
	cacheTTL time.Duration
	clock    Clock
}

// NewVehicleStatusService constructs a service. Cache may be nil.
func NewVehicleStatusService(vehicles VehicleReader, payments PaymentReader, cache Cache, clock Clock) (*VehicleStatusService, error) {
	if vehicles == nil {
		return nil, errors.New("vehicle status service: nil vehicle reader")
	}
	if payments == nil {
		return nil, errors.New("vehicle status service: nil payment reader")
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &VehicleStatusService{
		vehicles: vehicles,
		payments: payments,
		cache:    cache,
		cacheTTL: 24 * time.Hour,
		clock:    clock,
	}, nil
}

// Status returns the card figures for one vehicle as of today.
func (s *VehicleStatusService) Status(ctx context.Context, vehicleID string) (VehicleStatus, error) {
	if vehicleID == "" {
		return VehicleStatus{}, ledger.ErrEmptyVehicleID
	}
	today := ledger.TruncateToDay(s.clock.Now())
	key := statusCacheKey(vehicleID, today)

	if s.cache != nil {
		if raw, ok := s.cache.Get(ctx, key); ok {
			var cached VehicleStatus
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				metrics.IncVehicleStatusCache(true)
				return cached, nil
			}
		}
		metrics.IncVehicleStatusCache(false)
	}

	vehicle, err := s.vehicles.Get(ctx, vehicleID)
	if err != nil {
		return VehicleStatus{}, err
	}
	if vehicle == nil {
		return VehicleStatus{}, ErrVehicleNotFound
	}
	payments, err := s.payments.ListByVehicle(ctx, vehicleID)
	if err != nil {
		return VehicleStatus{}, err
	}

	overdue := ledger.Overdue(*vehicle, payments, today)
	status := VehicleStatus{
		VehicleID:            vehicleID,
		PaidInstallments:     overdue.Paid,
		ExpectedInstallments: overdue.Expected,
		OverdueInstallments:  overdue.OverdueInstallments,
		Debt:                 ledger.RoundMoney(overdue.Debt),
		CompanyEarnings:      ledger.RoundMoney(ledger.CompanyEarnings(*vehicle, payments)),
		AsOf:                 ledger.FormatDay(today),
	}

	if s.cache != nil {
		if raw, err := json.Marshal(status); err == nil {
			_ = s.cache.Set(ctx, key, string(raw), s.cacheTTL)
		}
	}
	return status, nil
}

// Invalidate drops the cached status for a vehicle. Called after every
// payment mutation so the cache can never serve ledger-stale figures.
func (s *VehicleStatusService) Invalidate(ctx context.Context, vehicleID string) {
	if s == nil || s.cache == nil || vehicleID == "" {
		return
	}
	today := ledger.TruncateToDay(s.clock.Now())
	_ = s.cache.Delete(ctx, statusCacheKey(vehicleID, today))
}

func statusCacheKey(vehicleID string, day time.Time) string {
	return "vehicle-status:" + vehicleID + ":" + ledger.FormatDay(day)
}
