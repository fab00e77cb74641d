package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"time"

	fleet "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/fleet/domain"
	ledger "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/ledger/domain"
	"github.com/GCLGCLSCZ/flota-sabia-sub000/internal/observability/metrics"
	settlement "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/settlement/domain"
)

// ErrInvestorNotFound is returned when an investor id is unknown.
var ErrInvestorNotFound = errors.New("settlement service: investor not found")

// SnapshotRepository persists settlement snapshots for history.
type SnapshotRepository interface {
	FindLatestActive(ctx context.Context, investorID string, period settlement.Period) (*settlement.SettlementSnapshot, error)
	NextVersion(ctx context.Context, investorID string, period settlement.Period) (int, error)
	CreateWithItems(ctx context.Context, snapshot *settlement.SettlementSnapshot, items []settlement.SnapshotItem) error
	GetByID(ctx context.Context, id string) (*settlement.SettlementSnapshot, error)
	ListItems(ctx context.Context, id string) ([]settlement.SnapshotItem, error)
	MarkFrozen(ctx context.Context, id, hash string, at time.Time) error
	MarkVoided(ctx context.Context, id, reason string, at time.Time) error
	ListByInvestor(ctx context.Context, investorID string) ([]settlement.SettlementSnapshot, error)
}

// InvestorReader loads investors from the registry.
type InvestorReader interface {
	GetByID(ctx context.Context, id string) (*fleet.Investor, error)
}

// FleetReader loads the vehicle registry snapshot.
type FleetReader interface {
	ListAll(ctx context.Context) ([]fleet.VehicleContract, error)
}

// LedgerReader loads payments for a date window.
type LedgerReader interface {
	ListByDateRange(ctx context.Context, from, to time.Time) ([]ledger.PaymentRecord, error)
}

// MaintenanceReader loads maintenance records for a date window.
type MaintenanceReader interface {
	ListByPeriod(ctx context.Context, from, to time.Time) ([]fleet.MaintenanceRecord, error)
}

// InsuranceReader loads insurance payments for a date window.
type InsuranceReader interface {
	ListPaymentsByPeriod(ctx context.Context, from, to time.Time) ([]fleet.InsurancePayment, error)
}

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock uses time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// Service handles settlement workflows. The numbers always come from
// the pure reconciler over a fresh ledger snapshot; the persisted rows
// only record history and are never edited in place.
type Service struct {
	snapshots   SnapshotRepository
	investors   InvestorReader
	vehicles    FleetReader
	payments    LedgerReader
	maintenance MaintenanceReader
	insurance   InsuranceReader
	gpsFee      float64
	currency    string
	clock       Clock
}

// NewService constructs a settlement service. Insurance may be nil when
// no policies are tracked.
func NewService(
	snapshots SnapshotRepository,
	investors InvestorReader,
	vehicles FleetReader,
	payments LedgerReader,
	maintenance MaintenanceReader,
	insurance InsuranceReader,
	gpsFee float64,
	currency string,
	clock Clock,
) (*Service, error) {
	if snapshots == nil {
		return nil, errors.New("settlement service: nil snapshot repository")
	}
	if investors == nil {
		return nil, errors.New("settlement service: nil investor reader")
	}
	if vehicles == nil {
		return nil, errors.New("settlement service: nil fleet reader")
	}
	if payments == nil {
		return nil, errors.New("settlement service: nil ledger reader")
	}
	if maintenance == nil {
		return nil, errors.New("settlement service: nil maintenance reader")
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Service{
		snapshots:   snapshots,
		investors:   investors,
		vehicles:    vehicles,
		payments:    payments,
		maintenance: maintenance,
		insurance:   insurance,
		gpsFee:      gpsFee,
		currency:    currency,
		clock:       clock,
	}, nil
}

// Preview reconciles an investor period without persisting anything.
func (s *Service) Preview(ctx context.Context, investorID, periodStart, periodEnd string) (*settlement.SettlementReport, error) {
	investor, period, err := s.resolve(ctx, investorID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	report, err := s.reconcile(ctx, *investor, period)
	if err != nil {
		return nil, err
	}
	return report, nil
}

// Generate reconciles the period and persists the result as a draft
// snapshot. Unless regenerate is set, an existing draft or frozen
// snapshot for the same investor and period is returned as-is.
func (s *Service) Generate(ctx context.Context, investorID, periodStart, periodEnd string, regenerate bool) (*settlement.SettlementSnapshot, error) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveSettlementGenerate(result, time.Since(start))
	}()

	investor, period, err := s.resolve(ctx, investorID, periodStart, periodEnd)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}

	if !regenerate {
		existing, err := s.snapshots.FindLatestActive(ctx, investorID, period)
		if err != nil {
			result = metrics.ResultError
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	}

	report, err := s.reconcile(ctx, *investor, period)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}
	version, err := s.snapshots.NextVersion(ctx, investorID, period)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}

	now := s.clock.Now().UTC()
	snapshot, items := snapshotFromReport(report, version, s.currency, now)
	if err := s.snapshots.CreateWithItems(ctx, snapshot, items); err != nil {
		result = metrics.ResultError
		return nil, err
	}
	return snapshot, nil
}

// Freeze marks a snapshot frozen and stores its content hash. Frozen
// snapshots are the investor-facing record; regeneration afterwards
// produces a new version instead of touching the frozen rows.
func (s *Service) Freeze(ctx context.Context, id string) (*settlement.SettlementSnapshot, error) {
	result := metrics.ResultSuccess
	defer func() {
		metrics.IncSettlementFreeze(result)
	}()

	snapshot, err := s.snapshots.GetByID(ctx, id)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}
	if snapshot == nil {
		result = metrics.ResultError
		return nil, settlement.ErrSnapshotNotFound
	}
	if snapshot.Status == settlement.SnapshotStatusFrozen {
		return snapshot, nil
	}
	if snapshot.Status == settlement.SnapshotStatusVoided {
		result = metrics.ResultError
		return nil, settlement.ErrSnapshotVoided
	}

	items, err := s.snapshots.ListItems(ctx, id)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}
	hash, err := computeSnapshotHash(snapshot, items)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}
	now := s.clock.Now().UTC()
	if err := s.snapshots.MarkFrozen(ctx, id, hash, now); err != nil {
		result = metrics.ResultError
		return nil, err
	}
	snapshot.Status = settlement.SnapshotStatusFrozen
	snapshot.SnapshotHash = hash
	snapshot.FrozenAt = now
	snapshot.UpdatedAt = now
	return snapshot, nil
}

// Void voids a snapshot. Idempotent.
func (s *Service) Void(ctx context.Context, id, reason string) (*settlement.SettlementSnapshot, error) {
	snapshot, err := s.snapshots.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		return nil, settlement.ErrSnapshotNotFound
	}
	if snapshot.Status == settlement.SnapshotStatusVoided {
		return snapshot, nil
	}
	now := s.clock.Now().UTC()
	if err := s.snapshots.MarkVoided(ctx, id, reason, now); err != nil {
		return nil, err
	}
	snapshot.Status = settlement.SnapshotStatusVoided
	snapshot.VoidReason = reason
	snapshot.VoidedAt = now
	snapshot.UpdatedAt = now
	return snapshot, nil
}

// Get returns a snapshot with its per-vehicle items.
func (s *Service) Get(ctx context.Context, id string) (*settlement.SettlementSnapshot, []settlement.SnapshotItem, error) {
	snapshot, err := s.snapshots.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if snapshot == nil {
		return nil, nil, settlement.ErrSnapshotNotFound
	}
	items, err := s.snapshots.ListItems(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return snapshot, items, nil
}

// List returns all snapshot versions for an investor.
func (s *Service) List(ctx context.Context, investorID string) ([]settlement.SettlementSnapshot, error) {
	if investorID == "" {
		return nil, settlement.ErrEmptyInvestorID
	}
	return s.snapshots.ListByInvestor(ctx, investorID)
}

func (s *Service) resolve(ctx context.Context, investorID, periodStart, periodEnd string) (*fleet.Investor, settlement.Period, error) {
	if investorID == "" {
		return nil, settlement.Period{}, settlement.ErrEmptyInvestorID
	}
	period, err := ParsePeriod(periodStart, periodEnd)
	if err != nil {
		return nil, settlement.Period{}, err
	}
	investor, err := s.investors.GetByID(ctx, investorID)
	if err != nil {
		return nil, settlement.Period{}, err
	}
	if investor == nil {
		return nil, settlement.Period{}, ErrInvestorNotFound
	}
	return investor, period, nil
}

func (s *Service) reconcile(ctx context.Context, investor fleet.Investor, period settlement.Period) (*settlement.SettlementReport, error) {
	payments, err := s.payments.ListByDateRange(ctx, period.Start, period.End)
	if err != nil {
		return nil, err
	}
	vehicles, err := s.vehicles.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	maintenance, err := s.maintenance.ListByPeriod(ctx, period.Start, period.End)
	if err != nil {
		return nil, err
	}
	var insurancePayments []fleet.InsurancePayment
	if s.insurance != nil {
		insurancePayments, err = s.insurance.ListPaymentsByPeriod(ctx, period.Start, period.End)
		if err != nil {
			return nil, err
		}
	}
	report := settlement.Reconcile(investor, period, payments, vehicles, maintenance, insurancePayments, s.gpsFee)
	return &report, nil
}

// ParsePeriod parses inclusive ISO date bounds into a Period.
func ParsePeriod(start, end string) (settlement.Period, error) {
	from, ok := ledger.ParseDay(start)
	if !ok {
		return settlement.Period{}, settlement.ErrInvalidPeriod
	}
	to, ok := ledger.ParseDay(end)
	if !ok {
		return settlement.Period{}, settlement.ErrInvalidPeriod
	}
	if from.After(to) {
		return settlement.Period{}, settlement.ErrInvalidPeriod
	}
	return settlement.Period{Start: from, End: to}, nil
}

func snapshotFromReport(report *settlement.SettlementReport, version int, currency string, now time.Time) (*settlement.SettlementSnapshot, []settlement.SnapshotItem) {
	id := buildSnapshotID(report.InvestorID, report.PeriodStart, report.PeriodEnd, version)
	snapshot := &settlement.SettlementSnapshot{
		ID:                 id,
		InvestorID:         report.InvestorID,
		InvestorName:       report.InvestorName,
		PeriodStart:        report.PeriodStart,
		PeriodEnd:          report.PeriodEnd,
		Status:             settlement.SnapshotStatusDraft,
		Version:            version,
		TotalToPay:         report.TotalToPay,
		PaidToInvestor:     report.PaidToInvestor,
		PendingToPay:       report.PendingToPay,
		AdminCommission:    report.AdminCommission,
		GPSIncome:          report.GPSIncome,
		MaintenanceIncome:  report.MaintenanceIncome,
		InsuranceCollected: report.InsuranceCollected,
		TotalIncome:        report.TotalIncome,
		Currency:           currency,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	items := make([]settlement.SnapshotItem, 0, len(report.Vehicles))
	for _, line := range report.Vehicles {
		items = append(items, settlement.SnapshotItem{
			SnapshotID:       id,
			VehicleID:        line.VehicleID,
			Plate:            line.Plate,
			TotalToPay:       line.TotalToPay,
			PaidToInvestor:   line.PaidToInvestor,
			PendingToPay:     line.PendingToPay,
			PaidInstallments: line.PaidInstallments,
			CreatedAt:        now,
		})
	}
	return snapshot, items
}

func computeSnapshotHash(snapshot *settlement.SettlementSnapshot, items []settlement.SnapshotItem) (string, error) {
	if snapshot == nil {
		return "", errors.New("settlement service: nil snapshot")
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].VehicleID < items[j].VehicleID
	})
	payload := struct {
		Snapshot *settlement.SettlementSnapshot `json:"snapshot"`
		Items    []settlement.SnapshotItem      `json:"items"`
	}{
		Snapshot: snapshot,
		Items:    items,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}

func buildSnapshotID(investorID string, start, end time.Time, version int) string {
	base := investorID + "|" + ledger.FormatDay(start) + "|" + ledger.FormatDay(end) + "|" + strconv.Itoa(version)
	hash := sha256.Sum256([]byte(base))
	return "sett-" + hex.EncodeToString(hash[:8])
}
