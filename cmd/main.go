package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/whichracket/advisor/internal/adapters/feed"
	"github.com/whichracket/advisor/internal/adapters/http/api"
	"github.com/whichracket/advisor/internal/adapters/http/site"
	"github.com/whichracket/advisor/internal/adapters/http/swagger"
	app "github.com/whichracket/advisor/internal/app"
	"github.com/whichracket/advisor/internal/config"
	"github.com/whichracket/advisor/pkg/logger"
	"github.com/whichracket/advisor/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 10 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env).
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input).
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Load both data feeds; a failure in either is fatal before any session
	// state exists.
	items, questions, err := feed.Load(ctx, cfg.CatalogPath, cfg.QuestionsPath)
	if err != nil {
		log.Error(ctx, "failed to load data feeds", logger.Error(err))
		return
	}
	log.Info(ctx, "data feeds loaded",
		logger.Int("catalogItems", len(items)),
		logger.Int("questions", len(questions)),
	)

	svc := app.New(
		app.WithLogger(log),
		app.WithCatalogItems(items),
		app.WithQuestions(questions),
		app.WithTopK(cfg.TopK),
		app.WithFocusCount(cfg.FocusCount),
		app.WithEffectScale(cfg.EffectScale),
		app.WithStyleHybridThreshold(cfg.StyleHybridThreshold),
		app.WithStyleDisplayRange(cfg.StyleDisplayRange),
		app.WithSessionCapacity(cfg.SessionCapacity),
		app.WithSessionShardCount(cfg.SessionShardCount),
	)
	if err := svc.Start(ctx); err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		return
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)

	// HTTP mux and routes.
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	site.Register(ctx, mux)

	apiServer := api.NewServer(svc, svc, cfg.MaxRecommendLimit)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// startSystemMetricsUpdater periodically refreshes system-level metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			metrics.UpdateSystemMemoryUsage(m.Alloc)
			metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
		}
	}
}
