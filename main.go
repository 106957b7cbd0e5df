package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"raw-loader/internal/decoder"
	"raw-loader/internal/exiftool"
	"raw-loader/internal/extract"
	"raw-loader/internal/filesystem"
	"raw-loader/internal/handlers"
	"raw-loader/internal/logging"
	"raw-loader/internal/media"
	"raw-loader/internal/memory"
	"raw-loader/internal/metrics"
	"raw-loader/internal/middleware"
	"raw-loader/internal/pipeline"
	"raw-loader/internal/startup"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	startTime := time.Now()

	// Must run before any large allocation
	memResult := memory.ConfigureFromEnv()

	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}
	startup.LogMemoryConfig(memResult)

	monitor := memory.NewMonitor(memory.DefaultConfig())
	monitor.Start()

	tools := startup.CheckTools(config)
	startup.LogVipsInit(media.InitVips())

	var collector *metrics.Collector
	if config.MetricsEnabled {
		metrics.InitializeMetrics()
		metrics.SetAppInfo(startup.Version, startup.Commit, startup.GoVersion)
		metrics.SetToolAvailable("decoder", tools.Decoder)
		metrics.SetToolAvailable("thumb_decoder", tools.ThumbDecoder)
		metrics.SetToolAvailable("exiftool", tools.Exiftool)
		metrics.SetToolAvailable("libvips", media.IsVipsAvailable())
		filesystem.SetObserver(metrics.NewFilesystemObserver())

		collector = metrics.NewCollector(monitor, 15*time.Second)
		collector.Start()
	}

	var observer extract.Observer
	if config.MetricsEnabled {
		observer = metrics.NewExtractionObserver()
	}
	p := pipeline.New(
		decoder.New(config.DecoderBin, config.ThumbDecoderBin),
		exiftool.New(config.ExiftoolBin, tools.Exiftool),
		observer,
	)
	p.Gate = monitor
	p.MaxDimension = config.PreviewMaxDimension

	h := handlers.New(p, config, tools)
	h.SetMemoryStatus(monitor)

	router := setupRouter(h, config.MetricsEnabled)
	startup.LogHTTPRoutes(router, config.LogStaticFiles, config.LogHealthChecks)

	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogStaticFiles = config.LogStaticFiles
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	handler := middleware.Logger(loggingConfig)(router)

	srv := &http.Server{
		Addr:              ":" + config.Port,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
		// Developments are bounded by REQUEST_TIMEOUT instead
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		handleShutdown(srv, monitor, collector)
		close(done)
	}()

	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
	<-done
}

func setupRouter(h *handlers.Handlers, metricsEnabled bool) *mux.Router {
	r := mux.NewRouter()
	if metricsEnabled {
		r.Use(middleware.Metrics(middleware.DefaultMetricsConfig()))
		r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	}

	r.HandleFunc("/health", h.HealthCheck).Methods("GET", "HEAD")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET", "HEAD")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/options", h.Options).Methods("GET")
	api.HandleFunc("/develop/{path:.*}", h.Develop).Methods("GET", "HEAD")
	api.HandleFunc("/preview/{path:.*}", h.Preview).Methods("GET", "HEAD")
	api.HandleFunc("/thumbnail/{path:.*}", h.Thumbnail).Methods("GET", "HEAD")
	api.HandleFunc("/info/{path:.*}", h.Info).Methods("GET")

	return r
}

func handleShutdown(srv *http.Server, monitor *memory.Monitor, collector *metrics.Collector) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// In-flight developments finish before the tools they use go away
	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	if collector != nil {
		startup.LogShutdownStep("Stopping metrics collector")
		collector.Stop()
		startup.LogShutdownStepComplete("Metrics collector stopped")
	}

	startup.LogShutdownStep("Stopping memory monitor")
	monitor.Stop()
	startup.LogShutdownStepComplete("Memory monitor stopped")

	startup.LogShutdownStep("Shutting down libvips")
	media.ShutdownVips()
	startup.LogShutdownStepComplete("libvips shut down")

	startup.LogShutdownComplete()
}
