package ledger

// PaymentStatus describes the lifecycle of a ledger entry. The ledger
// is append-only: cancellation is a status change, never a deletion.
type PaymentStatus string

const (
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCancelled PaymentStatus = "cancelled"
	PaymentStatusAnalysing PaymentStatus = "analysing"
)

// PaymentMethod is how the money moved.
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodTransfer PaymentMethod = "transfer"
)

// PaymentCategory is the structured classification tag recorded at
// payment creation. Historical records carry no tag and fall back to
// the free-text concept classifier.
type PaymentCategory string

const (
	CategoryUntagged        PaymentCategory = ""
	CategoryRent            PaymentCategory = "rent"
	CategoryInvestorPayout  PaymentCategory = "investor_payout"
	CategoryMaintenanceCost PaymentCategory = "maintenance_cost"
	CategoryOther           PaymentCategory = "other"
)

// PaymentRecord is one entry in the append-only payment ledger.
// Date is an ISO-8601 date string (date-only semantics).
type PaymentRecord struct {
	ID        string
	VehicleID string
	Date      string
	Amount    float64
	Concept   string
	Method    PaymentMethod
	Status    PaymentStatus
	Category  PaymentCategory
}

// IsCompleted reports whether the payment contributes to financial
// totals. Pending, cancelled and analysing records never do.
func (p PaymentRecord) IsCompleted() bool {
	return p.Status == PaymentStatusCompleted
}
