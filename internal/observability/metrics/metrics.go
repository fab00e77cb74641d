package metrics

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "flota_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	paymentRecordTotal   *prometheus.CounterVec
	paymentRecordLatency *prometheus.HistogramVec
	paymentCancelTotal   *prometheus.CounterVec

	cashflowReportTotal   *prometheus.CounterVec
	cashflowReportLatency *prometheus.HistogramVec
	cashflowOrphans       prometheus.Counter

	vehicleStatusCache *prometheus.CounterVec

	settlementGenerateTotal   *prometheus.CounterVec
	settlementGenerateLatency *prometheus.HistogramVec
	settlementFreezeTotal     *prometheus.CounterVec
	settlementExportTotal     *prometheus.CounterVec
	settlementExportLatency   *prometheus.HistogramVec
)

// Init registers observability metrics and DB-backed gauges.
func Init(db *sql.DB, logger *log.Logger) {
	registerOnce.Do(func() {
		paymentRecordTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "payment_record_total",
				Help: "Total recorded payments by result",
			},
			[]string{"result"},
		)
		paymentRecordLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "payment_record_latency_seconds",
				Help:    "Payment record latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		paymentCancelTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "payment_cancel_total",
				Help: "Total payment cancellations by result",
			},
			[]string{"result"},
		)

		cashflowReportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "cashflow_report_total",
				Help: "Total cash-flow report computations by axis and result",
			},
			[]string{"axis", "result"},
		)
		cashflowReportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "cashflow_report_latency_seconds",
				Help:    "Cash-flow report latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"axis", "result"},
		)
		cashflowOrphans = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "cashflow_orphaned_payments_total",
				Help: "Total payments excluded from reports for referencing unknown vehicles",
			},
		)

		vehicleStatusCache = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "vehicle_status_cache_total",
				Help: "Vehicle status cache lookups by outcome",
			},
			[]string{"outcome"},
		)

		settlementGenerateTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "settlement_generate_total",
				Help: "Total settlement snapshot generations by result",
			},
			[]string{"result"},
		)
		settlementGenerateLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "settlement_generate_latency_seconds",
				Help:    "Settlement generation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		settlementFreezeTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "settlement_freeze_total",
				Help: "Total settlement freeze operations by result",
			},
			[]string{"result"},
		)
		settlementExportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "settlement_export_total",
				Help: "Total settlement export operations by format and result",
			},
			[]string{"format", "result"},
		)
		settlementExportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "settlement_export_latency_seconds",
				Help:    "Settlement export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		collectors := []prometheus.Collector{
			paymentRecordTotal,
			paymentRecordLatency,
			paymentCancelTotal,
			cashflowReportTotal,
			cashflowReportLatency,
			cashflowOrphans,
			vehicleStatusCache,
			settlementGenerateTotal,
			settlementGenerateLatency,
			settlementFreezeTotal,
			settlementExportTotal,
			settlementExportLatency,
		}
		if db != nil {
			collectors = append(collectors, newDBCollector(db))
		}
		for _, collector := range collectors {
			if err := prometheus.Register(collector); err != nil {
				if logger != nil {
					logger.Printf("metrics register error: %v", err)
				}
			}
		}
	})
}

// ObservePaymentRecord records payment creation latency and result.
func ObservePaymentRecord(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if paymentRecordTotal != nil {
		paymentRecordTotal.WithLabelValues(result).Inc()
	}
	if paymentRecordLatency != nil {
		paymentRecordLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// IncPaymentCancel counts a cancellation attempt.
func IncPaymentCancel(result string) {
	if result == "" {
		result = resultSuccess
	}
	if paymentCancelTotal != nil {
		paymentCancelTotal.WithLabelValues(result).Inc()
	}
}

// ObserveCashflowReport records report latency and result per axis.
func ObserveCashflowReport(axis, result string, duration time.Duration) {
	if axis == "" {
		axis = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if cashflowReportTotal != nil {
		cashflowReportTotal.WithLabelValues(axis, result).Inc()
	}
	if cashflowReportLatency != nil {
		cashflowReportLatency.WithLabelValues(axis, result).Observe(duration.Seconds())
	}
}

// AddCashflowOrphans counts payments excluded for unknown vehicles.
func AddCashflowOrphans(n int) {
	if n > 0 && cashflowOrphans != nil {
		cashflowOrphans.Add(float64(n))
	}
}

// IncVehicleStatusCache counts a cache lookup outcome.
func IncVehicleStatusCache(hit bool) {
	if vehicleStatusCache == nil {
		return
	}
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	vehicleStatusCache.WithLabelValues(outcome).Inc()
}

// ObserveSettlementGenerate records snapshot generation latency and result.
func ObserveSettlementGenerate(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if settlementGenerateTotal != nil {
		settlementGenerateTotal.WithLabelValues(result).Inc()
	}
	if settlementGenerateLatency != nil {
		settlementGenerateLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// IncSettlementFreeze counts a freeze attempt.
func IncSettlementFreeze(result string) {
	if result == "" {
		result = resultSuccess
	}
	if settlementFreezeTotal != nil {
		settlementFreezeTotal.WithLabelValues(result).Inc()
	}
}

// ObserveSettlementExport records export latency and result.
func ObserveSettlementExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if settlementExportTotal != nil {
		settlementExportTotal.WithLabelValues(format, result).Inc()
	}
	if settlementExportLatency != nil {
		settlementExportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
)
