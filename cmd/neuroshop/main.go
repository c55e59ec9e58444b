// Command neuroshop serves the price aggregation API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/neuroshop/internal/adapters/http/api"
	"github.com/okian/neuroshop/internal/adapters/http/site"
	"github.com/okian/neuroshop/internal/adapters/http/swagger"
	app "github.com/okian/neuroshop/internal/app"
	"github.com/okian/neuroshop/internal/config"
	"github.com/okian/neuroshop/pkg/logger"
	"github.com/okian/neuroshop/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 30 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	serviceMetricsInterval    = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		log.Error(ctx, "failed to load config", logger.Error(err))
		os.Exit(1)
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := newService(ctx, cfg)
	if err := svc.Start(ctx); err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		os.Exit(1)
	}

	go startSystemMetricsUpdater(ctx)
	go startServiceMetricsUpdater(ctx, svc)

	if n, err := svc.Warm(ctx, cfg.WarmupQueries); err != nil {
		log.Warn(ctx, "warm-up partially rejected", logger.Int("accepted", n), logger.Error(err))
	}

	srv := newHTTPServer(ctx, cfg, svc)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr), logger.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(context.Background(), "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
	}
	if err := svc.Stop(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "service shutdown failed", logger.Error(err))
	}
	log.Info(shutdownCtx, "server stopped")
}

// newService builds the search service from configuration.
func newService(ctx context.Context, cfg *config.Config) *app.Service {
	return app.New(
		app.WithLogger(logger.Named("service")),
		app.WithRegistry(buildRegistry(ctx, cfg)),
		app.WithDeduper(newDeduper(cfg)),
		app.WithSearchCacheTTL(cfg.SearchCacheTTL()),
		app.WithClassifierCacheTTL(cfg.ClassifierCacheTTL()),
		app.WithProviderTimeout(cfg.ProviderTimeout()),
		app.WithGatewayTimeout(cfg.GatewayTimeout()),
		app.WithPipelineTimeout(cfg.PipelineTimeout()),
		app.WithClassifierTimeout(cfg.ClassifierTimeout()),
		app.WithEnrichTimeout(cfg.EnrichTimeout()),
		app.WithMaxQueryLength(cfg.MaxQueryLength),
		app.WithWorkerCount(cfg.WarmupWorkers),
		app.WithQueueSize(cfg.WarmupQueueSize),
	)
}

// newHTTPServer registers every route and wraps them in the shared middleware.
func newHTTPServer(ctx context.Context, cfg *config.Config, svc *app.Service) *http.Server {
	mux := http.NewServeMux()
	site.Register(ctx, mux)
	swagger.Register(ctx, mux)
	api.NewServer(svc, api.WithVersion(version), api.WithLogger(logger.Named("api"))).Register(ctx, mux)

	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Stack(mux),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

// startServiceMetricsUpdater refreshes the queue gauge, which workers drain
// without touching it.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.UpdateQueueSize(svc.QueueLen(ctx))
		}
	}
}
