package cashflowhttp

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	cashflowapp "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/cashflow/application"
	cashflow "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/cashflow/domain"
	fleet "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/fleet/domain"
	ledger "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/ledger/domain"
)

type stubPayments struct{ payments []ledger.PaymentRecord }

func (s stubPayments) ListByDateRange(_ context.Context, _, _ time.Time) ([]ledger.PaymentRecord, error) {
	return s.payments, nil
}

type stubVehicles struct{ vehicles []fleet.VehicleContract }

func (s stubVehicles) ListAll(_ context.Context) ([]fleet.VehicleContract, error) {
	return s.vehicles, nil
}

func newHandlers(t *testing.T) (*ReportHandler, *ExportCSVHandler) {
	t.Helper()
	vehicles := []fleet.VehicleContract{
		{ID: "veh-1", Plate: "ABC123", InstallmentAmount: 100, DailyRate: 20, Status: fleet.VehicleStatusActive},
	}
	payments := []ledger.PaymentRecord{
		{ID: "p1", VehicleID: "veh-1", Date: "2024-03-04", Amount: 100, Status: ledger.PaymentStatusCompleted},
		{ID: "p2", VehicleID: "veh-1", Date: "2024-03-04", Amount: 200, Status: ledger.PaymentStatusCompleted},
		{ID: "p3", VehicleID: "veh-1", Date: "2024-03-04", Amount: 50, Concept: "Pago a inversionista: Ana", Status: ledger.PaymentStatusCompleted},
		{ID: "p4", VehicleID: "veh-1", Date: "2024-03-05", Amount: 350, Status: ledger.PaymentStatusCompleted},
	}
	svc, err := cashflowapp.NewReportService(stubPayments{payments: payments}, stubVehicles{vehicles: vehicles})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	reportHandler, err := NewReportHandler(svc)
	if err != nil {
		t.Fatalf("new report handler: %v", err)
	}
	exportHandler, err := NewExportCSVHandler(svc)
	if err != nil {
		t.Fatalf("new export handler: %v", err)
	}
	return reportHandler, exportHandler
}

func TestReportHandler_ByDate(t *testing.T) {
	handler, _ := newHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cashflow?axis=date", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("status %d: %s", resp.Code, resp.Body.String())
	}
	var report cashflow.Report
	if err := json.Unmarshal(resp.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(report.Buckets) != 2 {
		t.Fatalf("buckets = %+v", report.Buckets)
	}
	// Date buckets come newest first.
	if report.Buckets[0].Key != "2024-03-05" || report.Buckets[0].TotalAmount != 350 {
		t.Fatalf("first bucket = %+v", report.Buckets[0])
	}
	if report.Buckets[1].Income != 300 || report.Buckets[1].Expense != 50 {
		t.Fatalf("second bucket = %+v", report.Buckets[1])
	}
}

func TestReportHandler_DefaultsToDateAxis(t *testing.T) {
	handler, _ := newHandlers(t)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cashflow", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("status %d", resp.Code)
	}
	var report cashflow.Report
	if err := json.Unmarshal(resp.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.Axis != cashflow.AxisDate {
		t.Fatalf("axis = %q", report.Axis)
	}
}

func TestReportHandler_BadInputs(t *testing.T) {
	handler, _ := newHandlers(t)

	cases := []string{
		"/api/v1/cashflow?axis=color",
		"/api/v1/cashflow?from=04-03-2024",
		"/api/v1/cashflow?from=2024-03-10&to=2024-03-01",
	}
	for _, target := range cases {
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, target, nil))
		if resp.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d", target, resp.Code)
		}
	}
}

func TestExportCSVHandler(t *testing.T) {
	_, handler := newHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/exports/cashflow.csv?axis=vehicle", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("status %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.HasPrefix(resp.Header().Get("Content-Type"), "text/csv") {
		t.Fatalf("content-type = %q", resp.Header().Get("Content-Type"))
	}
	records, err := csv.NewReader(resp.Body).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	// header + one vehicle bucket
	if len(records) != 2 {
		t.Fatalf("records = %+v", records)
	}
	if records[1][1] != "veh-1" || records[1][2] != "700" {
		t.Fatalf("row = %+v", records[1])
	}
}
