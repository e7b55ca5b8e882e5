package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"media-preview/internal/app"
	"media-preview/internal/handlers"
	"media-preview/internal/logging"
	"media-preview/internal/memory"
	"media-preview/internal/metrics"
	"media-preview/internal/middleware"
	"media-preview/internal/startup"
	"media-preview/internal/workers"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

func main() {
	startTime := time.Now()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logging.Warn("Failed to load .env: %v", err)
	}

	startup.PrintBanner()

	cfg, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}
	startup.LogConfig(cfg)

	limit := memory.ConfigureFromEnv()
	monitor := memory.NewMonitor(limit.GoMemLimit, memory.DefaultWatermarks, 2*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go monitor.Run(ctx)

	metrics.InitializeMetrics()
	build := startup.GetBuildInfo()
	metrics.AppInfo.WithLabelValues(build.Version, build.Commit, build.GoVersion).Set(1)

	a, err := app.New(cfg)
	if err != nil {
		startup.LogFatal("Startup failed: %v", err)
	}

	startup.LogToolsHeader()
	for name, check := range a.Checks() {
		startup.LogToolCheck(name, check())
	}

	slots := workers.NewSlots(workers.ForCPU(cfg.PreviewWorkers, 0), monitor)
	h := handlers.New(a.Processor, slots, a.Checks()).WithMemory(monitor)

	router := mux.NewRouter()
	h.Register(router, cfg.MetricsEnabled)
	router.Use(middleware.Metrics("/metrics", "/healthz", "/readyz"))

	startup.LogHTTPRoutes(router, cfg.LogHealthChecks)

	handler := middleware.RequestID(middleware.Logger(middleware.LoggingConfig{
		SkipPaths:       []string{"/metrics"},
		LogHealthChecks: cfg.LogHealthChecks,
	})(router))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	go handleShutdown(srv, a, cancel)

	startup.LogServerStarted(startup.ServerConfig{
		Port:            cfg.Port,
		MetricsEnabled:  cfg.MetricsEnabled,
		Workers:         slots.Size(),
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
}

func handleShutdown(srv *http.Server, a *app.App, stopMonitor context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	startup.LogShutdownStep("Stopping memory monitor")
	stopMonitor()
	startup.LogShutdownStepComplete("Memory monitor stopped")

	startup.LogShutdownStep("Releasing libvips")
	a.Close()
	startup.LogShutdownStepComplete("libvips released")

	startup.LogShutdownComplete()
}
