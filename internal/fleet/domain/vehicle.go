package fleet

// VehicleStatus describes the operational state of a vehicle.
type VehicleStatus string

const (
	VehicleStatusActive      VehicleStatus = "active"
	VehicleStatusMaintenance VehicleStatus = "maintenance"
	VehicleStatusInactive    VehicleStatus = "inactive"
)

// VehicleContract holds the rental terms for a single vehicle.
// The ledger engine only reads it; the fleet registry owns mutations.
//
// Dates are ISO-8601 date strings (date-only). A missing or malformed
// ContractStartDate is a valid state: overdue computations treat it as
// "no contract running" rather than an error.
type VehicleContract struct {
	ID                string
	Plate             string
	InstallmentAmount float64
	DailyRate         float64
	TotalInstallments int
	ContractStartDate string
	NonWorkingDays    []string
	Status            VehicleStatus
	Investor          string
}

// HasInstallmentBasis reports whether installment math is possible.
// A vehicle without a positive installment amount has no installment
// plan yet; all derived figures for it are zero.
func (v VehicleContract) HasInstallmentBasis() bool {
	return v.InstallmentAmount > 0
}

// VehiclesByID indexes contracts by vehicle id.
func VehiclesByID(vehicles []VehicleContract) map[string]VehicleContract {
	index := make(map[string]VehicleContract, len(vehicles))
	for _, v := range vehicles {
		index[v.ID] = v
	}
	return index
}
