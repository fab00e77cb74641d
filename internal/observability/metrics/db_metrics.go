package metrics

import (
	"database/sql"

	"github.com/prometheus/client_golang/prometheus"
)

// dbCollector exposes connection pool gauges from database/sql stats.
type dbCollector struct {
	db *sql.DB

	openConns *prometheus.Desc
	inUse     *prometheus.Desc
	idle      *prometheus.Desc
	waitCount *prometheus.Desc
}

func newDBCollector(db *sql.DB) *dbCollector {
	return &dbCollector{
		db: db,
		openConns: prometheus.NewDesc(
			metricPrefix+"db_open_connections",
			"Open database connections", nil, nil),
		inUse: prometheus.NewDesc(
			metricPrefix+"db_in_use_connections",
			"Database connections currently in use", nil, nil),
		idle: prometheus.NewDesc(
			metricPrefix+"db_idle_connections",
			"Idle database connections", nil, nil),
		waitCount: prometheus.NewDesc(
			metricPrefix+"db_wait_count_total",
			"Total connection waits", nil, nil),
	}
}

func (c *dbCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.openConns
	ch <- c.inUse
	ch <- c.idle
	ch <- c.waitCount
}

func (c *dbCollector) Collect(ch chan<- prometheus.Metric) {
	if c == nil || c.db == nil {
		return
	}
	stats := c.db.Stats()
	ch <- prometheus.MustNewConstMetric(c.openConns, prometheus.GaugeValue, float64(stats.OpenConnections))
	ch <- prometheus.MustNewConstMetric(c.inUse, prometheus.GaugeValue, float64(stats.InUse))
	ch <- prometheus.MustNewConstMetric(c.idle, prometheus.GaugeValue, float64(stats.Idle))
	ch <- prometheus.MustNewConstMetric(c.waitCount, prometheus.CounterValue, float64(stats.WaitCount))
}
