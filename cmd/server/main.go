package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sales-assist-go/internal/config"
	"github.com/sales-assist-go/internal/handlers"
	"github.com/sales-assist-go/internal/i18n"
	"github.com/sales-assist-go/internal/middleware"
	"github.com/sales-assist-go/internal/services/cache"
	"github.com/sales-assist-go/internal/services/gateway"
	"github.com/sales-assist-go/internal/services/sanitize"
	"github.com/sales-assist-go/pkg/logger"
	"github.com/sirupsen/logrus"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "configs/config.yaml", "Path to configuration file")
	envFile := flag.String("env", ".env", "Path to .env file")
	flag.Parse()

	// Load .env file if exists
	if err := godotenv.Load(*envFile); err != nil {
		// It's okay if .env doesn't exist
		fmt.Printf("Warning: .env file not found: %v\n", err)
	}

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewLogger(&cfg.Logging)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.Info("Starting analysis service...")

	// Initialize rate limit store
	store, closeStore, err := newRateLimitStore(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize rate limit store")
	}
	defer closeStore()

	// Each pipeline has its own quota over the shared store.
	analyzeLimiter := middleware.NewRateLimiter(store, cfg.RateLimit.AnalyzeLimit, cfg.RateLimit.Window, middleware.BearerKey, log)
	liveScreenLimiter := middleware.NewRateLimiter(store, cfg.RateLimit.LiveScreenLimit, cfg.RateLimit.Window, middleware.BearerKey, log)

	// Initialize services
	gatewayClient := gateway.NewClient(&cfg.Gateway, log)
	cacheService := cache.NewCache(&cfg.Cache, log)
	localizer := i18n.NewLocalizer(cfg.I18n.DefaultLanguage)
	metrics := middleware.NewMetrics()
	limits := sanitize.LimitsFromConfig(&cfg.Limits)

	// Start metrics server if enabled
	if cfg.Monitoring.Metrics.Enabled {
		go func() {
			log.WithFields(logrus.Fields{
				"port": cfg.Monitoring.Metrics.Port,
				"path": cfg.Monitoring.Metrics.Path,
			}).Info("Starting metrics server")

			if err := middleware.StartMetricsServer(cfg.Monitoring.Metrics.Port, cfg.Monitoring.Metrics.Path); err != nil {
				log.WithError(err).Error("Metrics server failed")
			}
		}()
	}

	// Initialize handlers
	analyzeHandler := handlers.NewAnalyzeHandler(limits, analyzeLimiter, cacheService, gatewayClient, metrics, localizer, log)
	liveScreenHandler := handlers.NewLiveScreenHandler(limits, liveScreenLimiter, cacheService, gatewayClient, metrics, localizer, log)

	// Setup router
	router := mux.NewRouter()
	router.Handle("/functions/v1/analyze-message", analyzeHandler).Methods(http.MethodPost)
	router.Handle("/functions/v1/live-screen-analysis", liveScreenHandler).Methods(http.MethodPost)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      middleware.CORS(router),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("HTTP server failed")
		}
	}()

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server shutdown failed")
	}

	log.Info("Service stopped")
}

// newRateLimitStore selects the configured store backend. The returned
// close function is a no-op for disabled limiting.
func newRateLimitStore(cfg *config.Config, log *logrus.Logger) (middleware.Store, func(), error) {
	if !cfg.RateLimit.Enabled {
		return nil, func() {}, nil
	}

	switch cfg.RateLimit.Store {
	case "redis":
		store, err := middleware.NewRedisStore(&cfg.RateLimit.Redis)
		if err != nil {
			return nil, nil, err
		}
		log.WithField("addr", cfg.RateLimit.Redis.Addr).Info("Using redis rate limit store")
		return store, func() {
			if err := store.Close(); err != nil {
				log.WithError(err).Error("Failed to close redis store")
			}
		}, nil
	default:
		store := middleware.NewMemoryStore()
		log.Info("Using in-memory rate limit store")
		return store, store.Close, nil
	}
}
