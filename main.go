package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/GCLGCLSCZ/flota-sabia-sub000/internal/audit"
	"github.com/GCLGCLSCZ/flota-sabia-sub000/internal/auth"
	cashflowapp "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/cashflow/application"
	cashflowhttp "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/cashflow/interfaces/http"
	fleetapp "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/fleet/application"
	fleetrepo "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/fleet/infrastructure/postgres"
	ledgerapp "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/ledger/application"
	ledgerrepo "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/ledger/infrastructure/postgres"
	ledgercache "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/ledger/infrastructure/redis"
	ledgerhttp "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/ledger/interfaces/http"
	"github.com/GCLGCLSCZ/flota-sabia-sub000/internal/observability/metrics"
	"github.com/GCLGCLSCZ/flota-sabia-sub000/internal/settings"
	settlementapp "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/settlement/application"
	settlementrepo "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/settlement/infrastructure/postgres"
	settlementinterfaces "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/settlement/interfaces"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("db ping error: %v", err)
	}

	metrics.Init(db, logger)

	business, err := settings.Load()
	if err != nil {
		logger.Fatalf("settings error: %v", err)
	}

	var auditLogger audit.Logger
	if cfg.AuditLogOnly {
		auditLogger = audit.NewLogWriter(logger)
	} else {
		auditLogger = audit.NewRepository(db)
	}

	var statusCache ledgerapp.Cache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		cache, err := ledgercache.NewCache(client, logger)
		if err != nil {
			logger.Fatalf("redis cache error: %v", err)
		}
		statusCache = cache
	}

	paymentRepo := ledgerrepo.NewPaymentRepository(db)
	vehicleRepo := fleetrepo.NewVehicleRepository(db)
	investorRepo := fleetrepo.NewInvestorRepository(db)
	maintenanceRepo := fleetrepo.NewMaintenanceRepository(db)
	insuranceRepo := fleetrepo.NewInsuranceRepository(db)
	snapshotRepo := settlementrepo.NewSnapshotRepository(db)

	registry, err := fleetapp.NewRegistry(vehicleRepo, business.NonWorkingDays)
	if err != nil {
		logger.Fatalf("fleet registry error: %v", err)
	}

	statusService, err := ledgerapp.NewVehicleStatusService(registry, paymentRepo, statusCache, nil)
	if err != nil {
		logger.Fatalf("vehicle status service error: %v", err)
	}
	paymentService, err := ledgerapp.NewPaymentService(paymentRepo, statusService, nil)
	if err != nil {
		logger.Fatalf("payment service error: %v", err)
	}
	paymentHandler, err := ledgerhttp.NewPaymentHandler(paymentService, paymentRepo, auditLogger)
	if err != nil {
		logger.Fatalf("payment handler error: %v", err)
	}
	statusHandler, err := ledgerhttp.NewVehicleStatusHandler(statusService)
	if err != nil {
		logger.Fatalf("vehicle status handler error: %v", err)
	}

	reportService, err := cashflowapp.NewReportService(paymentRepo, registry)
	if err != nil {
		logger.Fatalf("cashflow service error: %v", err)
	}
	reportHandler, err := cashflowhttp.NewReportHandler(reportService)
	if err != nil {
		logger.Fatalf("cashflow handler error: %v", err)
	}
	exportHandler, err := cashflowhttp.NewExportCSVHandler(reportService)
	if err != nil {
		logger.Fatalf("cashflow export handler error: %v", err)
	}

	settlementService, err := settlementapp.NewService(
		snapshotRepo,
		investorRepo,
		registry,
		paymentRepo,
		maintenanceRepo,
		insuranceRepo,
		business.GPSMonthlyFee,
		business.Currency,
		nil,
	)
	if err != nil {
		logger.Fatalf("settlement service error: %v", err)
	}
	snapshotHandler, err := settlementinterfaces.NewSnapshotHandler(settlementService, auditLogger)
	if err != nil {
		logger.Fatalf("settlement handler error: %v", err)
	}

	policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/payments", paymentHandler)
	mux.Handle("/api/v1/payments/", paymentHandler)
	mux.Handle("/api/v1/vehicles/", statusHandler)
	mux.Handle("/api/v1/cashflow", reportHandler)
	mux.Handle("/api/v1/exports/cashflow.csv", exportHandler)
	mux.Handle("/api/v1/settlements", snapshotHandler)
	mux.Handle("/api/v1/settlements/", snapshotHandler)
	mux.Handle("/api/v1/settlements/generate", snapshotHandler)
	mux.Handle("/api/v1/settlements/preview", snapshotHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(authMiddleware.Wrap(mux), logger)}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

type config struct {
	DatabaseURL   string
	HTTPAddr      string
	JWTSecret     string
	RedisAddr     string
	RedisPassword string
	AuditLogOnly  bool
}

func loadConfig() config {
	cfg := config{
		DatabaseURL:   getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		HTTPAddr:      getenvDefault("HTTP_ADDR", ":8080"),
		JWTSecret:     getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
		RedisAddr:     getenvDefault("REDIS_ADDR", ""),
		RedisPassword: getenvDefault("REDIS_PASSWORD", ""),
		AuditLogOnly:  getenvDefault("AUDIT_LOG_ONLY", "") == "true",
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL or PG_DSN is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("AUTH_JWT_SECRET is required")
	}
	return cfg
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
