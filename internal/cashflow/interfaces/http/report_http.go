// Package cashflowhttp serves cash-flow reports and CSV exports.
package cashflowhttp

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	cashflowapp "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/cashflow/application"
	cashflow "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/cashflow/domain"
	ledger "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/ledger/domain"
)

// ReportHandler serves GET /api/v1/cashflow.
type ReportHandler struct {
	service *cashflowapp.ReportService
}

// NewReportHandler constructs a ReportHandler.
func NewReportHandler(service *cashflowapp.ReportService) (*ReportHandler, error) {
	if service == nil {
		return nil, errors.New("cashflow handler: nil service")
	}
	return &ReportHandler{service: service}, nil
}

// ServeHTTP handles GET /api/v1/cashflow.
func (h *ReportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	report, ok := buildReport(w, r, h.service)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(report)
}

// ExportCSVHandler serves GET /api/v1/exports/cashflow.csv.
type ExportCSVHandler struct {
	service *cashflowapp.ReportService
}

// NewExportCSVHandler constructs an ExportCSVHandler.
func NewExportCSVHandler(service *cashflowapp.ReportService) (*ExportCSVHandler, error) {
	if service == nil {
		return nil, errors.New("cashflow export handler: nil service")
	}
	return &ExportCSVHandler{service: service}, nil
}

// ServeHTTP handles GET /api/v1/exports/cashflow.csv.
func (h *ExportCSVHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	report, ok := buildReport(w, r, h.service)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	writer := csv.NewWriter(w)
	_ = writer.Write([]string{
		"axis",
		"key",
		"total_amount",
		"ingresos",
		"egresos",
		"count",
		"paid_installments",
		"company_earnings",
	})
	for _, bucket := range report.Buckets {
		_ = writer.Write([]string{
			string(report.Axis),
			bucket.Key,
			formatFloat(bucket.TotalAmount),
			formatFloat(bucket.Income),
			formatFloat(bucket.Expense),
			strconv.Itoa(bucket.Count),
			formatFloat(bucket.PaidInstallments),
			formatFloat(bucket.CompanyEarnings),
		})
	}
	writer.Flush()
}

func buildReport(w http.ResponseWriter, r *http.Request, service *cashflowapp.ReportService) (cashflow.Report, bool) {
	query := r.URL.Query()
	axis := cashflow.Axis(query.Get("axis"))
	if axis == "" {
		axis = cashflow.AxisDate
	}

	from, ok := parseDayQuery(w, query.Get("from"), "from")
	if !ok {
		return cashflow.Report{}, false
	}
	to, ok := parseDayQuery(w, query.Get("to"), "to")
	if !ok {
		return cashflow.Report{}, false
	}

	report, err := service.Report(r.Context(), axis, from, to, query.Get("vehicle_id"))
	if err != nil {
		switch {
		case errors.Is(err, cashflowapp.ErrInvalidAxis), errors.Is(err, cashflowapp.ErrInvalidRange):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "cashflow report error", http.StatusInternalServerError)
		}
		return cashflow.Report{}, false
	}
	return report, true
}

// parseDayQuery parses an optional YYYY-MM-DD bound. Empty means open.
func parseDayQuery(w http.ResponseWriter, value, name string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, true
	}
	day, ok := ledger.ParseDay(value)
	if !ok {
		http.Error(w, name+" must be YYYY-MM-DD", http.StatusBadRequest)
		return time.Time{}, false
	}
	return day, true
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
