package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/verityhealth/verity/internal/api/handlers"
	mw "github.com/verityhealth/verity/internal/api/middleware"
	"github.com/verityhealth/verity/internal/buildconfig"
	"github.com/verityhealth/verity/internal/config"
	"github.com/verityhealth/verity/internal/domain"
	"github.com/verityhealth/verity/internal/enrich"
	"github.com/verityhealth/verity/internal/registry"
	"github.com/verityhealth/verity/internal/service"
	"github.com/verityhealth/verity/internal/store"
	"github.com/verityhealth/verity/internal/verify"
	"go.uber.org/zap"
)

// App holds the router and shared state for lifecycle management.
type App struct {
	Router       *chi.Mux
	Workflow     *service.WorkflowService
	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

func NewApp(db *pgxpool.Pool, logger *zap.Logger) *App {
	// Stores
	providerStore := store.NewProviderStore(db)

	// External clients via provider factories
	registryClient, err := registry.NewClient(config.RegistryProvider(), logger)
	if err != nil {
		logger.Warn("registry client initialization failed; falling back to simulated",
			zap.String("provider", config.RegistryProvider()), zap.Error(err))
		registryClient = registry.NewSimulatedClient(logger)
	} else {
		logger.Info("registry client initialized", zap.String("provider", config.RegistryProvider()))
	}

	// Evidence caching keeps repeat lookups cheap while downgrading their
	// provenance so scoring still discounts them.
	if freshTTL := config.RegistryCacheFreshTTL(); freshTTL > 0 {
		registryClient = registry.NewCachedClient(registryClient, freshTTL, config.RegistryCacheStaleTTL(), logger)
	}

	enrichmentClient, err := enrich.NewClient(config.EnrichmentProvider(), config.OpenAIAPIKey())
	if err != nil {
		logger.Warn("enrichment client initialization failed; falling back to mock",
			zap.String("provider", config.EnrichmentProvider()), zap.Error(err))
		enrichmentClient = enrich.NewMockClient()
	} else {
		logger.Info("enrichment client initialized", zap.String("provider", config.EnrichmentProvider()))
	}

	scorer := verify.NewScorer()
	scorer.SimulationTrust = config.SimulationTrust()

	// Services
	providerSvc := service.NewProviderService(providerStore, logger)
	workflowSvc := service.NewWorkflowService(providerStore, registryClient, enrichmentClient, scorer, logger)
	reportSvc := service.NewReportService(logger)

	// Handlers
	providerHandler := handlers.NewProviderHandler(providerSvc, workflowSvc, logger)
	reportHandler := handlers.NewReportHandler(providerSvc, reportSvc)

	r := chi.NewRouter()

	app := &App{
		Router:    r,
		Workflow:  workflowSvc,
		startTime: time.Now(),
	}

	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount)

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metricsCollector.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst()))

	// Health and metrics
	r.Get("/health", healthHandler(db))
	r.Get("/metrics", app.metricsHandler())

	r.Route("/v1", func(r chi.Router) {
		r.Route("/providers", func(r chi.Router) {
			r.Post("/", providerHandler.Submit)
			r.Get("/", providerHandler.List)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", providerHandler.GetByID)
				r.Post("/reverify", providerHandler.Reverify)
			})
		})

		r.Get("/reports/directory", reportHandler.Directory)
	})

	return app
}

// NewRouter returns just the chi.Mux.
func NewRouter(db *pgxpool.Pool, logger *zap.Logger) *chi.Mux {
	return NewApp(db, logger).Router
}

func healthHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok", "version": buildconfig.Version()})
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  app.requestCount.Load(),
			"error_count":    app.errorCount.Load(),
			"goroutines":     runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"build": buildconfig.VersionInfo(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure stores and clients satisfy interfaces at compile time.
var (
	_ domain.ProviderStore    = (*store.ProviderStore)(nil)
	_ domain.RegistryClient   = (*registry.SimulatedClient)(nil)
	_ domain.RegistryClient   = (*registry.CachedClient)(nil)
	_ domain.RegistryClient   = (*registry.MockClient)(nil)
	_ domain.EnrichmentClient = (*enrich.OpenAIClient)(nil)
	_ domain.EnrichmentClient = (*enrich.MockClient)(nil)
)
