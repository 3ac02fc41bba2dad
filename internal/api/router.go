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
	"go.uber.org/zap"

	"github.com/loretrace/loretrace/internal/api/handlers"
	mw "github.com/loretrace/loretrace/internal/api/middleware"
	"github.com/loretrace/loretrace/internal/buildconfig"
	"github.com/loretrace/loretrace/internal/config"
	"github.com/loretrace/loretrace/internal/domain"
	"github.com/loretrace/loretrace/internal/embedding"
	"github.com/loretrace/loretrace/internal/engine"
	"github.com/loretrace/loretrace/internal/service"
	"github.com/loretrace/loretrace/internal/store"
)

// App holds the router plus the request counters the metrics endpoint reads.
type App struct {
	Router *chi.Mux

	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

// NewApp wires stores, engine and services into the HTTP surface. db may be
// nil, in which case report history and vector evidence are disabled and
// the engine runs in-memory only.
func NewApp(db *pgxpool.Pool, registry *domain.CollectionRegistry, logger *zap.Logger) *App {
	eng := engine.New(engine.Config{
		GlobalScanDepth: config.ScanDepthDefault(),
		Debug:           config.DebugMode(),
	}, registry, logger)

	var reportStore domain.ReportStore
	var vectorSvc *service.VectorEvidenceService
	if db != nil {
		reportStore = store.NewReportStore(db)

		embedder, err := embedding.NewClient(config.EmbeddingProvider(), config.EmbeddingAPIKey())
		if err != nil {
			logger.Warn("embedding client initialization failed",
				zap.String("provider", config.EmbeddingProvider()), zap.Error(err))
		} else {
			vectorSvc = service.NewVectorEvidenceService(store.NewEntryVectorStore(db), embedder, logger)
			logger.Info("vector evidence enabled", zap.String("provider", config.EmbeddingProvider()))
		}
	} else {
		logger.Warn("no database configured; report history and vector evidence disabled")
	}

	attributionSvc := service.NewAttributionService(eng, reportStore, vectorSvc, logger)

	generationHandler := handlers.NewGenerationHandler(attributionSvc)
	reportHandler := handlers.NewReportHandler(attributionSvc)
	vectorHandler := handlers.NewVectorHandler(attributionSvc)

	r := chi.NewRouter()

	app := &App{
		Router:    r,
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

	// Health (no auth)
	r.Get("/health", healthHandler(db))

	// Metrics (no auth)
	r.Get("/metrics", app.metricsHandler())

	// Authenticated routes
	r.Route("/v1", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(config.APIKey()))

		r.Route("/generations", func(r chi.Router) {
			r.Post("/start", generationHandler.Start)
			r.Post("/force-activated", generationHandler.ForceActivated)
			r.Post("/activated", generationHandler.Activated)
		})

		r.Get("/reports", reportHandler.History)
		r.Post("/vectors", vectorHandler.Register)
	})

	return app
}

// NewRouter returns just the chi.Mux.
func NewRouter(db *pgxpool.Pool, registry *domain.CollectionRegistry, logger *zap.Logger) *chi.Mux {
	return NewApp(db, registry, logger).Router
}

func healthHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.Ping(r.Context()); err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
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
			"go_version": runtime.Version(),
			"build":      buildconfig.VersionInfo(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure stores and clients satisfy interfaces at compile time.
var (
	_ domain.ReportStore      = (*store.ReportStore)(nil)
	_ domain.EntryVectorStore = (*store.EntryVectorStore)(nil)
	_ domain.EmbeddingClient  = (*embedding.OpenAIClient)(nil)
	_ domain.EmbeddingClient  = (*embedding.MockClient)(nil)
)
