package interfaces

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/GCLGCLSCZ/flota-sabia-sub000/internal/audit"
	"github.com/GCLGCLSCZ/flota-sabia-sub000/internal/auth"
	"github.com/GCLGCLSCZ/flota-sabia-sub000/internal/observability/metrics"
	settlementapp "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/settlement/application"
	settlement "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/settlement/domain"
)

// SnapshotHandler handles settlement APIs.
type SnapshotHandler struct {
	service     *settlementapp.Service
	auditLogger audit.Logger
}

// NewSnapshotHandler constructs a handler.
func NewSnapshotHandler(service *settlementapp.Service, auditLogger audit.Logger) (*SnapshotHandler, error) {
	if service == nil {
		return nil, errors.New("snapshot handler: nil service")
	}
	return &SnapshotHandler{service: service, auditLogger: auditLogger}, nil
}

// ServeHTTP handles settlement routes under /api/v1/settlements.
func (h *SnapshotHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if path == "/api/v1/settlements/generate" && r.Method == http.MethodPost {
		h.handleGenerate(w, r)
		return
	}
	if path == "/api/v1/settlements/preview" && r.Method == http.MethodGet {
		h.handlePreview(w, r)
		return
	}
	if path == "/api/v1/settlements" && r.Method == http.MethodGet {
		h.handleList(w, r)
		return
	}
	if strings.HasPrefix(path, "/api/v1/settlements/") {
		rest := strings.TrimPrefix(path, "/api/v1/settlements/")
		h.handleByID(w, r, rest)
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

func (h *SnapshotHandler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		InvestorID  string `json:"investor_id"`
		PeriodStart string `json:"period_start"`
		PeriodEnd   string `json:"period_end"`
		Regenerate  bool   `json:"regenerate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	snapshot, err := h.service.Generate(r.Context(), req.InvestorID, req.PeriodStart, req.PeriodEnd, req.Regenerate)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	resp := map[string]any{
		"settlement_id": snapshot.ID,
		"status":        snapshot.Status,
		"version":       snapshot.Version,
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
	action := "settlement.generate"
	if req.Regenerate {
		action = "settlement.regenerate"
	}
	h.logAudit(r, snapshot.ID, action, map[string]any{
		"investor_id":  req.InvestorID,
		"period_start": req.PeriodStart,
		"period_end":   req.PeriodEnd,
		"regenerate":   req.Regenerate,
	})
}

func (h *SnapshotHandler) handlePreview(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	report, err := h.service.Preview(r.Context(), query.Get("investor_id"), query.Get("period_start"), query.Get("period_end"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(report)
}

func (h *SnapshotHandler) handleList(w http.ResponseWriter, r *http.Request) {
	investorID := r.URL.Query().Get("investor_id")
	list, err := h.service.List(r.Context(), investorID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

func (h *SnapshotHandler) handleByID(w http.ResponseWriter, r *http.Request, rest string) {
	if rest == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	parts := strings.Split(rest, "/")
	id := parts[0]
	if len(parts) == 1 && r.Method == http.MethodGet {
		h.handleGet(w, r, id)
		return
	}
	if len(parts) == 2 {
		switch parts[1] {
		case "freeze":
			if r.Method == http.MethodPost {
				h.handleFreeze(w, r, id)
				return
			}
		case "void":
			if r.Method == http.MethodPost {
				h.handleVoid(w, r, id)
				return
			}
		case "export.pdf":
			if r.Method == http.MethodGet {
				h.handleExportPDF(w, r, id)
				return
			}
		case "export.xlsx":
			if r.Method == http.MethodGet {
				h.handleExportXLSX(w, r, id)
				return
			}
		}
	}
	w.WriteHeader(http.StatusNotFound)
}

func (h *SnapshotHandler) handleGet(w http.ResponseWriter, r *http.Request, id string) {
	snapshot, items, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	resp := struct {
		Settlement *settlement.SettlementSnapshot `json:"settlement"`
		Items      []settlement.SnapshotItem      `json:"items"`
	}{Settlement: snapshot, Items: items}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (h *SnapshotHandler) handleFreeze(w http.ResponseWriter, r *http.Request, id string) {
	snapshot, err := h.service.Freeze(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	resp := map[string]any{
		"settlement_id": snapshot.ID,
		"status":        snapshot.Status,
		"version":       snapshot.Version,
		"snapshot_hash": snapshot.SnapshotHash,
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
	h.logAudit(r, snapshot.ID, "settlement.freeze", map[string]any{
		"status": snapshot.Status,
	})
}

func (h *SnapshotHandler) handleVoid(w http.ResponseWriter, r *http.Request, id string) {
	var req struct {
		Reason string `json:"reason"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	snapshot, err := h.service.Void(r.Context(), id, req.Reason)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	resp := map[string]any{
		"settlement_id": snapshot.ID,
		"status":        snapshot.Status,
		"version":       snapshot.Version,
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
	h.logAudit(r, snapshot.ID, "settlement.void", map[string]any{
		"reason": req.Reason,
	})
}

func (h *SnapshotHandler) handleExportPDF(w http.ResponseWriter, r *http.Request, id string) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveSettlementExport("pdf", result, time.Since(start))
	}()

	snapshot, items, err := h.service.Get(r.Context(), id)
	if err != nil {
		result = metrics.ResultError
		respondServiceError(w, err)
		return
	}
	data, err := BuildSnapshotPDF(snapshot, items)
	if err != nil {
		result = metrics.ResultError
		http.Error(w, "export pdf error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
	h.logAudit(r, snapshot.ID, "settlement.export", map[string]any{"format": "pdf"})
}

func (h *SnapshotHandler) handleExportXLSX(w http.ResponseWriter, r *http.Request, id string) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveSettlementExport("xlsx", result, time.Since(start))
	}()

	snapshot, items, err := h.service.Get(r.Context(), id)
	if err != nil {
		result = metrics.ResultError
		respondServiceError(w, err)
		return
	}
	data, err := BuildSnapshotXLSX(snapshot, items)
	if err != nil {
		result = metrics.ResultError
		http.Error(w, "export xlsx error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
	h.logAudit(r, snapshot.ID, "settlement.export", map[string]any{"format": "xlsx"})
}

func (h *SnapshotHandler) logAudit(r *http.Request, settlementID, action string, meta map[string]any) {
	if h.auditLogger == nil {
		return
	}
	payload, _ := json.Marshal(meta)
	_ = h.auditLogger.Log(r.Context(), audit.Entry{
		Actor:        auth.SubjectFromContext(r.Context()),
		Role:         string(auth.RoleFromContext(r.Context())),
		Action:       action,
		ResourceType: "settlement",
		ResourceID:   settlementID,
		Metadata:     payload,
		IP:           audit.ClientIP(r),
		UserAgent:    r.UserAgent(),
	})
}

func respondServiceError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, settlementapp.ErrInvestorNotFound),
		errors.Is(err, settlement.ErrSnapshotNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, settlement.ErrSnapshotVoided):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}
