package settlement

import "time"

const (
	SnapshotStatusDraft  = "draft"
	SnapshotStatusFrozen = "frozen"
	SnapshotStatusVoided = "voided"
)

// SettlementSnapshot is a settlement report persisted for history.
// The figures are always produced by Reconcile; "editing" a settlement
// means recording or cancelling payments and regenerating, never
// mutating a stored total. Freezing fixes the snapshot hash.
type SettlementSnapshot struct {
	ID           string
	InvestorID   string
	InvestorName string
	PeriodStart  time.Time
	PeriodEnd    time.Time
	Status       string
	Version      int

	TotalToPay     float64
	PaidToInvestor float64
	PendingToPay   float64

	AdminCommission    float64
	GPSIncome          float64
	MaintenanceIncome  float64
	InsuranceCollected float64
	TotalIncome        float64

	Currency     string
	SnapshotHash string
	VoidReason   string

	CreatedAt time.Time
	UpdatedAt time.Time
	FrozenAt  time.Time
	VoidedAt  time.Time
}

// SnapshotItem is one per-vehicle line of a persisted snapshot.
type SnapshotItem struct {
	SnapshotID       string
	VehicleID        string
	Plate            string
	TotalToPay       float64
	PaidToInvestor   float64
	PendingToPay     float64
	PaidInstallments float64
	CreatedAt        time.Time
}
