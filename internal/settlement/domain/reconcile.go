package settlement

import (
	"strings"
	"time"

	fleet "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/fleet/domain"
	ledger "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/ledger/domain"
)

// MonthlyBaselineDays is the fixed settlement baseline: every vehicle
// owes its investor dailyRate * 30 per period regardless of the actual
// period length. Changing this changes investor-facing totals, so it is
// a named policy, not an inline literal.
const MonthlyBaselineDays = 30

// Period is an inclusive settlement window.
type Period struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether an ISO date string falls inside the period.
// Malformed dates never match.
func (p Period) Contains(date string) bool {
	day, ok := ledger.ParseDay(date)
	if !ok {
		return false
	}
	return ledger.SameOrBetween(day, p.Start, p.End)
}

// VehicleSettlement is the per-vehicle line of a settlement report.
// PendingToPay is deliberately unclamped: a negative value is an
// overpayment and must be visible in the report.
type VehicleSettlement struct {
	VehicleID        string                 `json:"vehicleId"`
	Plate            string                 `json:"plate"`
	TotalToPay       float64                `json:"totalToPay"`
	PaidToInvestor   float64                `json:"paidToInvestor"`
	PendingToPay     float64                `json:"pendingToPay"`
	PaidInstallments float64                `json:"paidInstallments"`
	Payments         []ledger.PaymentRecord `json:"payments"`
}

// SettlementReport is the reconciliation snapshot for one investor and
// period, recomputed from the ledger on demand. It has no state of its
// own; persisting one for history is the snapshot repository's job.
type SettlementReport struct {
	InvestorID   string              `json:"investorId"`
	InvestorName string              `json:"investorName"`
	PeriodStart  time.Time           `json:"periodStart"`
	PeriodEnd    time.Time           `json:"periodEnd"`
	Vehicles     []VehicleSettlement `json:"vehicles"`

	TotalToPay     float64 `json:"totalToPay"`
	PaidToInvestor float64 `json:"paidToInvestor"`
	PendingToPay   float64 `json:"pendingToPay"`

	AdminCommission    float64 `json:"adminCommission"`
	GPSIncome          float64 `json:"gpsIncome"`
	MaintenanceIncome  float64 `json:"maintenanceIncome"`
	InsuranceCollected float64 `json:"insuranceCollected"`
	TotalIncome        float64 `json:"totalIncome"`
}

// Reconcile computes the settlement report for an investor over a
// period. Pure function over the supplied record snapshot.
//
// Per vehicle owned by the investor: totalToPay is the fixed monthly
// baseline; paidToInvestor sums completed payments in the period whose
// concept matches the investor-payout pattern; pendingToPay is their
// difference, unclamped.
//
// Ancillary income streams for the investor-payments view: admin
// commission accrues dailyRate per installment paid in the period
// across all supplied vehicles; GPS income charges gpsMonthlyFee per
// investor payment counted; maintenance income sums the margin of
// completed maintenance jobs dated in the period; insurance collected
// sums completed policy payments dated in the period and is surfaced
// separately, outside TotalIncome.
func Reconcile(
	investor fleet.Investor,
	period Period,
	payments []ledger.PaymentRecord,
	vehicles []fleet.VehicleContract,
	maintenance []fleet.MaintenanceRecord,
	insurancePayments []fleet.InsurancePayment,
	gpsMonthlyFee float64,
) SettlementReport {
	report := SettlementReport{
		InvestorID:   investor.ID,
		InvestorName: investor.Name,
		PeriodStart:  period.Start,
		PeriodEnd:    period.End,
	}

	investorPaymentCount := 0
	for _, v := range investor.VehiclesOf(vehicles) {
		line := reconcileVehicle(investor, v, period, payments)
		investorPaymentCount += len(line.Payments)
		report.Vehicles = append(report.Vehicles, line)
		report.TotalToPay += line.TotalToPay
		report.PaidToInvestor += line.PaidToInvestor
		report.PendingToPay += line.PendingToPay
	}

	for _, v := range vehicles {
		report.AdminCommission += installmentsPaidInPeriod(v, period, payments) * v.DailyRate
	}
	report.GPSIncome = float64(investorPaymentCount) * gpsMonthlyFee
	for _, m := range maintenance {
		if m.Status != fleet.MaintenanceStatusCompleted {
			continue
		}
		if !period.Contains(m.Date) {
			continue
		}
		report.MaintenanceIncome += m.Profit()
	}
	for _, ip := range insurancePayments {
		if ip.Status != fleet.InsurancePaymentStatusCompleted {
			continue
		}
		if !period.Contains(ip.Date) {
			continue
		}
		report.InsuranceCollected += ip.Amount
	}
	report.TotalIncome = report.AdminCommission + report.GPSIncome + report.MaintenanceIncome
	return report
}

func reconcileVehicle(investor fleet.Investor, vehicle fleet.VehicleContract, period Period, payments []ledger.PaymentRecord) VehicleSettlement {
	line := VehicleSettlement{
		VehicleID:  vehicle.ID,
		Plate:      vehicle.Plate,
		TotalToPay: vehicle.DailyRate * MonthlyBaselineDays,
	}
	for _, p := range payments {
		if p.VehicleID != vehicle.ID || !p.IsCompleted() {
			continue
		}
		if !matchesInvestorPayout(p, investor.Name, vehicle.Plate) {
			continue
		}
		if !period.Contains(p.Date) {
			continue
		}
		line.PaidToInvestor += p.Amount
		line.Payments = append(line.Payments, p)
	}
	line.PendingToPay = line.TotalToPay - line.PaidToInvestor
	if vehicle.HasInstallmentBasis() {
		line.PaidInstallments = line.PaidToInvestor / vehicle.InstallmentAmount
	}
	return line
}

// matchesInvestorPayout recognises a payout to the given investor:
// either "inversionista: <name>" appears in the concept, or the
// vehicle plate appears together with "inversionista".
func matchesInvestorPayout(p ledger.PaymentRecord, investorName, plate string) bool {
	concept := strings.ToLower(p.Concept)
	if investorName != "" && strings.Contains(concept, "inversionista: "+strings.ToLower(investorName)) {
		return true
	}
	if plate != "" &&
		strings.Contains(concept, strings.ToLower(plate)) &&
		strings.Contains(concept, "inversionista") {
		return true
	}
	return false
}

// installmentsPaidInPeriod is the accrual calculation scoped to the
// period: completed, income-classified payments dated inside it.
func installmentsPaidInPeriod(vehicle fleet.VehicleContract, period Period, payments []ledger.PaymentRecord) float64 {
	if !vehicle.HasInstallmentBasis() {
		return 0
	}
	total := 0.0
	for _, p := range payments {
		if p.VehicleID != vehicle.ID || !p.IsCompleted() {
			continue
		}
		if ledger.Classify(p) != ledger.KindIncome {
			continue
		}
		if !period.Contains(p.Date) {
			continue
		}
		total += p.Amount
	}
	return total / vehicle.InstallmentAmount
}
