package ledgerhttp

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	ledgerapp "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/ledger/application"
)

// VehicleStatusHandler serves the derived per-vehicle ledger status.
type VehicleStatusHandler struct {
	service *ledgerapp.VehicleStatusService
}

// NewVehicleStatusHandler constructs a handler.
func NewVehicleStatusHandler(service *ledgerapp.VehicleStatusService) (*VehicleStatusHandler, error) {
	if service == nil {
		return nil, errors.New("vehicle status handler: nil service")
	}
	return &VehicleStatusHandler{service: service}, nil
}

// ServeHTTP handles GET /api/v1/vehicles/{id}/status.
func (h *VehicleStatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/vehicles/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] != "status" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	status, err := h.service.Status(r.Context(), parts[0])
	if err != nil {
		if errors.Is(err, ledgerapp.ErrVehicleNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, "vehicle status error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(status)
}
