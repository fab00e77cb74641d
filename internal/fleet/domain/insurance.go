package fleet

// InsurancePaymentStatus describes the state of a scheduled policy payment.
type InsurancePaymentStatus string

const (
	InsurancePaymentStatusPending   InsurancePaymentStatus = "pending"
	InsurancePaymentStatusCompleted InsurancePaymentStatus = "completed"
	InsurancePaymentStatusCancelled InsurancePaymentStatus = "cancelled"
)

// InsurancePolicy holds the terms of a vehicle insurance contract.
// Dates are ISO-8601 date strings.
type InsurancePolicy struct {
	ID           string
	VehicleID    string
	Insurer      string
	PolicyNumber string
	StartDate    string
	EndDate      string
	TotalAmount  float64
	Installments int
}

// InsurancePayment is one payment against a policy schedule.
type InsurancePayment struct {
	ID       string
	PolicyID string
	Date     string
	Amount   float64
	Status   InsurancePaymentStatus
}
