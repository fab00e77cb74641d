package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	ledger "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/ledger/domain"
	"github.com/GCLGCLSCZ/flota-sabia-sub000/internal/observability/metrics"
)

// PaymentRepository persists ledger entries. The ledger is append-only;
// UpdateStatus is the only mutation and never removes a row.
type PaymentRepository interface {
	Create(ctx context.Context, payment ledger.PaymentRecord) error
	GetByID(ctx context.Context, id string) (*ledger.PaymentRecord, error)
	UpdateStatus(ctx context.Context, id string, status ledger.PaymentStatus) error
	ListByVehicle(ctx context.Context, vehicleID string) ([]ledger.PaymentRecord, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]ledger.PaymentRecord, error)
}

// StatusInvalidator drops derived per-vehicle figures after a mutation.
type StatusInvalidator interface {
	Invalidate(ctx context.Context, vehicleID string)
}

// RecordPaymentInput is the payload for recording a payment.
type RecordPaymentInput struct {
	VehicleID string
	Date      string
	Amount    float64
	Concept   string
	Method    ledger.PaymentMethod
	Status    ledger.PaymentStatus
	Category  ledger.PaymentCategory
}

// PaymentService handles the payment recording workflow.
type PaymentService struct {
	repo        PaymentRepository
	invalidator StatusInvalidator
	clock       Clock
}

// NewPaymentService constructs a service. The invalidator may be nil.
func NewPaymentService(repo PaymentRepository, invalidator StatusInvalidator, clock Clock) (*PaymentService, error) {
	if repo == nil {
		return nil, errors.New("payment service: nil repository")
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &PaymentService{repo: repo, invalidator: invalidator, clock: clock}, nil
}

// Record validates and appends a payment to the ledger.
func (s *PaymentService) Record(ctx context.Context, input RecordPaymentInput) (*ledger.PaymentRecord, error) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObservePaymentRecord(result, time.Since(start))
	}()

	payment, err := s.buildPayment(input)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		result = metrics.ResultError
		return nil, err
	}
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, payment.VehicleID)
	}
	return &payment, nil
}

// Cancel marks a payment cancelled. Idempotent: cancelling twice
// returns the record unchanged. The row itself is never deleted.
func (s *PaymentService) Cancel(ctx context.Context, id string) (*ledger.PaymentRecord, error) {
	result := metrics.ResultSuccess
	defer func() {
		metrics.IncPaymentCancel(result)
	}()

	payment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}
	if payment == nil {
		result = metrics.ResultError
		return nil, ledger.ErrPaymentNotFound
	}
	if payment.Status == ledger.PaymentStatusCancelled {
		return payment, nil
	}
	if err := s.repo.UpdateStatus(ctx, id, ledger.PaymentStatusCancelled); err != nil {
		result = metrics.ResultError
		return nil, err
	}
	payment.Status = ledger.PaymentStatusCancelled
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, payment.VehicleID)
	}
	return payment, nil
}

func (s *PaymentService) buildPayment(input RecordPaymentInput) (ledger.PaymentRecord, error) {
	if input.VehicleID == "" {
		return ledger.PaymentRecord{}, ledger.ErrEmptyVehicleID
	}
	if input.Amount < 0 {
		return ledger.PaymentRecord{}, ledger.ErrNegativeAmount
	}
	date := input.Date
	if date == "" {
		date = ledger.FormatDay(s.clock.Now())
	}
	if _, ok := ledger.ParseDay(date); !ok {
		return ledger.PaymentRecord{}, ledger.ErrInvalidDate
	}
	method := input.Method
	if method == "" {
		method = ledger.PaymentMethodCash
	}
	status := input.Status
	if status == "" {
		status = ledger.PaymentStatusCompleted
	}
	return ledger.PaymentRecord{
		ID:        uuid.NewString(),
		VehicleID: input.VehicleID,
		Date:      date,
		Amount:    input.Amount,
		Concept:   input.Concept,
		Method:    method,
		Status:    status,
		Category:  input.Category,
	}, nil
}
