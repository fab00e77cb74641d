package ledger

import (
	"time"

	fleet "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/fleet/domain"
)

// OverdueResult is the per-vehicle debt state derived from the ledger.
// Expected counts one installment per working day elapsed; Paid is
// fractional, so OverdueInstallments preserves fractional precision.
type OverdueResult struct {
	Expected            float64
	Paid                float64
	OverdueInstallments float64
	Debt                float64
}

// Overdue computes expected versus paid installments for a vehicle as
// of today. Today is an explicit parameter so the computation is
// deterministic; callers pass wall-clock time at the edge.
//
// A missing, malformed or future contract start date yields the
// all-zero result: a contract that has not started owes nothing.
// Overdue installments are clamped at zero — paying ahead of schedule
// reports zero overdue, never a negative credit.
func Overdue(vehicle fleet.VehicleContract, payments []PaymentRecord, today time.Time) OverdueResult {
	start, ok := ParseDay(vehicle.ContractStartDate)
	if !ok {
		return OverdueResult{}
	}
	today = TruncateToDay(today.UTC())
	if start.After(today) {
		return OverdueResult{}
	}

	calendar := NewCalendarExceptionSet(vehicle.NonWorkingDays)
	expected := float64(calendar.CountWorkingDays(start, today))
	paid := PaidInstallments(vehicle, payments)

	overdue := expected - paid
	if overdue < 0 {
		overdue = 0
	}

	return OverdueResult{
		Expected:            expected,
		Paid:                paid,
		OverdueInstallments: overdue,
		Debt:                overdue * vehicle.InstallmentAmount,
	}
}
