package cashflow

import (
	"sort"
	"time"

	fleet "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/fleet/domain"
	ledger "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/ledger/domain"
)

// Axis selects the grouping dimension for a cash-flow report.
type Axis string

const (
	AxisVehicle Axis = "vehicle"
	AxisDate    Axis = "date"
	AxisMethod  Axis = "method"
)

// IsValid reports whether the axis is one of the supported dimensions.
func (a Axis) IsValid() bool {
	switch a {
	case AxisVehicle, AxisDate, AxisMethod:
		return true
	}
	return false
}

// Bucket is one group of a cash-flow report. Key is a vehicle id, an
// ISO date, or a payment method depending on the axis. Income and
// Expense split TotalAmount by classification; PaidInstallments and
// CompanyEarnings are scoped to the bucket's member payments, not the
// vehicle's full history.
type Bucket struct {
	Key              string                 `json:"key"`
	TotalAmount      float64                `json:"totalAmount"`
	Income           float64                `json:"ingresos"`
	Expense          float64                `json:"egresos"`
	Count            int                    `json:"count"`
	PaidInstallments float64                `json:"paidInstallments"`
	CompanyEarnings  float64                `json:"companyEarnings"`
	Payments         []ledger.PaymentRecord `json:"payments"`
}

// Report is a fully aggregated cash-flow view. OrphanedPayments counts
// entries referencing an unknown vehicle; SkippedRecords counts entries
// whose date could not be parsed. Both are surfaced as warnings rather
// than errors because a partial report is still useful.
type Report struct {
	Axis             Axis     `json:"axis"`
	Buckets          []Bucket `json:"buckets"`
	OrphanedPayments int      `json:"orphanedPayments"`
	SkippedRecords   int      `json:"skippedRecords"`
}

// TotalAmount sums all bucket totals. Because buckets partition the
// filtered payment set exactly, this equals the filtered sum.
func (r Report) TotalAmount() float64 {
	total := 0.0
	for _, b := range r.Buckets {
		total += b.TotalAmount
	}
	return total
}

// Aggregate groups payments along the chosen axis over [from, to]
// (inclusive, date-only; zero bounds leave the range open) with an
// optional vehicle filter. Only completed payments are aggregated;
// pending, cancelled and analysing entries move no total. Payments
// referencing a vehicle not present in vehicles are excluded and
// counted as orphaned; payments with an unparseable date are excluded
// and counted as skipped. Only the filtered set is bucketed, so every
// filtered payment lands in exactly one bucket.
//
// Ordering is part of the contract: vehicle and method buckets sort by
// TotalAmount descending (key ascending on ties), date buckets by date
// descending.
func Aggregate(payments []ledger.PaymentRecord, vehicles []fleet.VehicleContract, axis Axis, from, to time.Time, vehicleID string) Report {
	byID := fleet.VehiclesByID(vehicles)
	report := Report{Axis: axis}
	index := make(map[string]int)

	for _, p := range payments {
		if !p.IsCompleted() {
			continue
		}
		if vehicleID != "" && p.VehicleID != vehicleID {
			continue
		}
		if _, ok := byID[p.VehicleID]; !ok {
			report.OrphanedPayments++
			continue
		}
		date, ok := ledger.ParseDay(p.Date)
		if !ok {
			report.SkippedRecords++
			continue
		}
		if !ledger.SameOrBetween(date, from, to) {
			continue
		}

		key := bucketKey(axis, p, date)
		pos, ok := index[key]
		if !ok {
			pos = len(report.Buckets)
			index[key] = pos
			report.Buckets = append(report.Buckets, Bucket{Key: key})
		}
		b := &report.Buckets[pos]
		b.TotalAmount += p.Amount
		b.Count++
		if ledger.Classify(p) == ledger.KindIncome {
			b.Income += p.Amount
		} else {
			b.Expense += p.Amount
		}
		b.Payments = append(b.Payments, p)
	}

	for i := range report.Buckets {
		fillBucketEarnings(&report.Buckets[i], byID)
	}
	sortBuckets(axis, report.Buckets)
	return report
}

func bucketKey(axis Axis, p ledger.PaymentRecord, date time.Time) string {
	switch axis {
	case AxisVehicle:
		return p.VehicleID
	case AxisMethod:
		return string(p.Method)
	default:
		return ledger.FormatDay(date)
	}
}

// fillBucketEarnings runs the accrual calculator per distinct vehicle
// represented in the bucket, over the bucket's member payments only,
// and sums the results. This intentionally differs from whole-history
// accrual: the figures describe the bucket's slice of the ledger.
func fillBucketEarnings(b *Bucket, byID map[string]fleet.VehicleContract) {
	seen := make(map[string]struct{})
	for _, p := range b.Payments {
		if _, done := seen[p.VehicleID]; done {
			continue
		}
		seen[p.VehicleID] = struct{}{}
		v, ok := byID[p.VehicleID]
		if !ok {
			continue
		}
		b.PaidInstallments += ledger.PaidInstallments(v, b.Payments)
		b.CompanyEarnings += ledger.CompanyEarnings(v, b.Payments)
	}
}

func sortBuckets(axis Axis, buckets []Bucket) {
	if axis == AxisDate {
		sort.Slice(buckets, func(i, j int) bool {
			return buckets[i].Key > buckets[j].Key
		})
		return
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].TotalAmount != buckets[j].TotalAmount {
			return buckets[i].TotalAmount > buckets[j].TotalAmount
		}
		return buckets[i].Key < buckets[j].Key
	})
}
