package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"

	"github.com/launchbase/api-template/internal/config"
	"github.com/launchbase/api-template/internal/cors"
	"github.com/launchbase/api-template/internal/handlers"
	"github.com/launchbase/api-template/internal/logger"
	"github.com/launchbase/api-template/internal/middleware"
	"github.com/launchbase/api-template/internal/telemetry"
)

const serviceName = "api-template"

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	// Load .env if present; a missing file is fine, the process environment wins
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.ServerDebugMode || *debugFlag

	zapLogger, err := logger.New(cfg.Env, debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = logger.Sync(zapLogger)
	}()

	resolved, err := cfg.ResolvedCORS()
	if err != nil {
		// Load already validated origins; treat a failure here as fatal anyway
		zapLogger.Fatal("failed_to_resolve_cors_config", zap.Error(err))
	}

	zapLogger.Info("starting_server",
		zap.String("environment", cfg.Env.String()),
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.String("rate_limit", cfg.RateLimit),
		zap.Strings("cors_origins", resolved.Origins),
		zap.Strings("cors_methods", resolved.Methods),
		zap.Strings("cors_headers", resolved.Headers),
	)

	// Advisory at runtime; `configure check` turns this into a hard failure
	// for deploy pipelines.
	if !cors.IsSecure(resolved.Origins, cfg.Env, cfg.CORSAllowInsecureLocalhost) {
		zapLogger.Warn("cors_policy_insecure_for_environment",
			zap.String("environment", cfg.Env.String()),
			zap.Strings("cors_origins", resolved.Origins),
		)
	}

	// Initialize OpenTelemetry if enabled
	if cfg.OTELEnabled {
		if cfg.OTELEndpoint == "" {
			zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
		} else {
			tp, err := telemetry.InitTracer(context.Background(), serviceName, cfg.OTELEndpoint)
			if err != nil {
				zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
			} else {
				zapLogger.Info("otel_tracer_initialized",
					zap.String("endpoint", cfg.OTELEndpoint),
				)
				defer func() {
					shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer shutdownCancel()
					if err := telemetry.Shutdown(shutdownCtx, tp); err != nil {
						zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
					}
				}()
			}
		}
	}

	rateLimitMW, err := middleware.RateLimit(cfg.RateLimit, cfg.RedisURL, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed_to_create_rate_limiter", zap.Error(err))
	}

	healthChecker := handlers.NewHealthChecker(zapLogger)

	// Setup router
	r := mux.NewRouter()

	// Middleware in gorilla/mux executes in registration order; CORS runs
	// early so preflights short-circuit before the body/content checks.
	if cfg.OTELEnabled && cfg.OTELEndpoint != "" {
		r.Use(otelmux.Middleware(serviceName))
	}
	r.Use(middleware.SecurityHeaders(cfg.EnableHSTS))
	r.Use(middleware.CORS(resolved))
	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	r.Use(middleware.ContentType)
	r.Use(middleware.Timeout(middleware.DefaultRequestTimeout))
	r.Use(middleware.ErrorHandler(zapLogger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(zapLogger))

	// Health check is registered before the rate-limited subrouter so that
	// probes are never throttled.
	r.HandleFunc("/api/v1/health", healthChecker.HealthCheck).Methods("GET")
	r.HandleFunc("/version", versionInfo).Methods("GET")

	// Rate-limited API routes; new endpoints belong on this subrouter.
	apiRouter := r.PathPrefix("/api/v1").Subrouter()
	apiRouter.Use(rateLimitMW)

	// Catch-all OPTIONS handler so preflight requests reach the CORS
	// middleware even for paths without an explicit OPTIONS route.
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        r,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		zapLogger.Info("server_starting",
			zap.String("port", cfg.ServerPort),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server_forced_to_shutdown", zap.Error(err))
	}

	zapLogger.Info("server_exited")
}

func versionInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := fmt.Fprintf(w, `{"version":"1.0.0","timestamp":"%s"}`, time.Now().UTC().Format(time.RFC3339)); err != nil {
		_ = err
	}
}
