package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hirenbhut/social-api/internal/config"
	"github.com/hirenbhut/social-api/internal/repository/postgres"
	"github.com/hirenbhut/social-api/internal/worker"
	"github.com/hirenbhut/social-api/pkg/logger"
	"github.com/hirenbhut/social-api/pkg/metrics"
)

// workerConfig holds the settings that only the cleanup worker cares
// about, taken from the environment so deployments can tune the sweep
// without touching the shared config file.
type workerConfig struct {
	CleanupInterval time.Duration `envconfig:"CLEANUP_INTERVAL" default:"1h"`
	MetricsPort     int           `envconfig:"METRICS_PORT" default:"9090"`
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	var wcfg workerConfig
	if err := envconfig.Process("WORKER", &wcfg); err != nil {
		fmt.Fprintf(os.Stderr, "failed to read worker environment: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(&logger.Config{
		Level:      logger.InfoLevel,
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
		Pretty:     cfg.Logging.Pretty,
	})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	activityRepo := postgres.NewActivityRepository(postgres.NewBaseRepository(db))
	m := metrics.New("social_api_worker")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cleanup := worker.NewActivityCleanupWorker(activityRepo, log, m, wcfg.CleanupInterval)
	go cleanup.Start(ctx)

	metricsSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", wcfg.MetricsPort),
		Handler: promhttp.Handler(),
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "failed to start metrics endpoint")
		}
	}()

	log.Info("cleanup worker started", "interval", wcfg.CleanupInterval.String())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down worker")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		log.Error(err, "metrics endpoint forced to shutdown")
	}
}
