// Package ledgerhttp exposes the payment ledger over HTTP.
package ledgerhttp

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/GCLGCLSCZ/flota-sabia-sub000/internal/audit"
	"github.com/GCLGCLSCZ/flota-sabia-sub000/internal/auth"
	ledgerapp "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/ledger/application"
	ledger "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/ledger/domain"
)

// PaymentHandler handles payment APIs.
type PaymentHandler struct {
	service     *ledgerapp.PaymentService
	payments    ledgerapp.PaymentRepository
	auditLogger audit.Logger
}

// NewPaymentHandler constructs a handler.
func NewPaymentHandler(service *ledgerapp.PaymentService, payments ledgerapp.PaymentRepository, auditLogger audit.Logger) (*PaymentHandler, error) {
	if service == nil {
		return nil, errors.New("payment handler: nil service")
	}
	if payments == nil {
		return nil, errors.New("payment handler: nil repository")
	}
	return &PaymentHandler{service: service, payments: payments, auditLogger: auditLogger}, nil
}

// ServeHTTP handles payment routes under /api/v1/payments.
func (h *PaymentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if path == "/api/v1/payments" {
		switch r.Method {
		case http.MethodPost:
			h.handleRecord(w, r)
		case http.MethodGet:
			h.handleList(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}
	if strings.HasPrefix(path, "/api/v1/payments/") {
		rest := strings.TrimPrefix(path, "/api/v1/payments/")
		parts := strings.Split(rest, "/")
		if len(parts) == 2 && parts[1] == "cancel" && r.Method == http.MethodPost {
			h.handleCancel(w, r, parts[0])
			return
		}
		if len(parts) == 1 && parts[0] != "" && r.Method == http.MethodGet {
			h.handleGet(w, r, parts[0])
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
}

func (h *PaymentHandler) handleRecord(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VehicleID string  `json:"vehicle_id"`
		Date      string  `json:"date"`
		Amount    float64 `json:"amount"`
		Concept   string  `json:"concept"`
		Method    string  `json:"method"`
		Status    string  `json:"status"`
		Category  string  `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	payment, err := h.service.Record(r.Context(), ledgerapp.RecordPaymentInput{
		VehicleID: req.VehicleID,
		Date:      req.Date,
		Amount:    req.Amount,
		Concept:   req.Concept,
		Method:    ledger.PaymentMethod(req.Method),
		Status:    ledger.PaymentStatus(req.Status),
		Category:  ledger.PaymentCategory(req.Category),
	})
	if err != nil {
		respondLedgerError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(payment)
	h.logAudit(r, payment, "payment.record")
}

func (h *PaymentHandler) handleCancel(w http.ResponseWriter, r *http.Request, id string) {
	payment, err := h.service.Cancel(r.Context(), id)
	if err != nil {
		respondLedgerError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payment)
	h.logAudit(r, payment, "payment.cancel")
}

func (h *PaymentHandler) handleGet(w http.ResponseWriter, r *http.Request, id string) {
	payment, err := h.payments.GetByID(r.Context(), id)
	if err != nil {
		http.Error(w, "query payment error", http.StatusInternalServerError)
		return
	}
	if payment == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payment)
}

func (h *PaymentHandler) handleList(w http.ResponseWriter, r *http.Request) {
	vehicleID := r.URL.Query().Get("vehicle_id")
	if vehicleID == "" {
		http.Error(w, "vehicle_id is required", http.StatusBadRequest)
		return
	}
	payments, err := h.payments.ListByVehicle(r.Context(), vehicleID)
	if err != nil {
		http.Error(w, "query payments error", http.StatusInternalServerError)
		return
	}
	if payments == nil {
		payments = []ledger.PaymentRecord{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payments)
}

func (h *PaymentHandler) logAudit(r *http.Request, payment *ledger.PaymentRecord, action string) {
	if h.auditLogger == nil || payment == nil {
		return
	}
	meta, _ := json.Marshal(map[string]any{
		"amount": payment.Amount,
		"date":   payment.Date,
		"status": string(payment.Status),
	})
	_ = h.auditLogger.Log(r.Context(), audit.Entry{
		Actor:        auth.SubjectFromContext(r.Context()),
		Role:         string(auth.RoleFromContext(r.Context())),
		Action:       action,
		ResourceType: "payment",
		ResourceID:   payment.ID,
		VehicleID:    payment.VehicleID,
		Metadata:     meta,
		IP:           audit.ClientIP(r),
		UserAgent:    r.UserAgent(),
	})
}

func respondLedgerError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, ledger.ErrPaymentNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ledger.ErrEmptyVehicleID),
		errors.Is(err, ledger.ErrNegativeAmount),
		errors.Is(err, ledger.ErrInvalidDate):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "payment error", http.StatusInternalServerError)
	}
}
