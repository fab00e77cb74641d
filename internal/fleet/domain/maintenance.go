package fleet

// MaintenanceStatus describes the lifecycle of a maintenance job.
type MaintenanceStatus string

const (
	MaintenanceStatusPending   MaintenanceStatus = "pending"
	MaintenanceStatusCompleted MaintenanceStatus = "completed"
	MaintenanceStatusCancelled MaintenanceStatus = "cancelled"
)

// MaintenanceRecord captures a repair or service job sold to a driver.
// Date is an ISO-8601 date string.
type MaintenanceRecord struct {
	ID            string
	VehicleID     string
	Date          string
	CostMaterials float64
	CostLabor     float64
	SalePrice     float64
	Status        MaintenanceStatus
}

// TotalCost returns materials plus labor.
func (m MaintenanceRecord) TotalCost() float64 {
	return m.CostMaterials + m.CostLabor
}

// Profit returns the margin on the job. Negative when sold below cost.
func (m MaintenanceRecord) Profit() float64 {
	return m.SalePrice - m.TotalCost()
}
