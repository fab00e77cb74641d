package ledger

import (
	"math"

	fleet "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/fleet/domain"
)

// PaidInstallments converts a vehicle's completed, income-classified
// payments into a fractional installment count. It is the single
// source of truth for this figure: there is no stored counter to fall
// back to, so it cannot drift from the ledger.
//
// Investor payouts and maintenance cost entries classify as expense
// and therefore never count as rent. A vehicle without a positive
// installment amount yields 0 rather than an error.
func PaidInstallments(vehicle fleet.VehicleContract, payments []PaymentRecord) float64 {
	if !vehicle.HasInstallmentBasis() {
		return 0
	}
	total := 0.0
	for _, p := range payments {
		if p.VehicleID != vehicle.ID || !p.IsCompleted() {
			continue
		}
		if Classify(p) != KindIncome {
			continue
		}
		total += p.Amount
	}
	return total / vehicle.InstallmentAmount
}

// CompanyEarnings is the commission accrued per paid installment.
// The fractional installment count is used as-is; rounding happens
// only at presentation time.
func CompanyEarnings(vehicle fleet.VehicleContract, payments []PaymentRecord) float64 {
	return vehicle.DailyRate * PaidInstallments(vehicle, payments)
}

// RoundMoney rounds to 2 decimals. Presentation only; never applied
// mid-calculation.
func RoundMoney(value float64) float64 {
	return math.Round(value*100) / 100
}
