package fleet

// Investor identifies an external capital partner. The set of vehicles
// backing an investor is derived from VehicleContract.Investor matching
// the investor name, never stored on the investor itself.
type Investor struct {
	ID   string
	Name string
}

// VehiclesOf returns the contracts whose investor field matches the
// investor's name.
func (i Investor) VehiclesOf(vehicles []VehicleContract) []VehicleContract {
	if i.Name == "" {
		return nil
	}
	var owned []VehicleContract
	for _, v := range vehicles {
		if v.Investor == i.Name {
			owned = append(owned, v)
		}
	}
	return owned
}
