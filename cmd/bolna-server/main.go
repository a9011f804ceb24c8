// bolna-server hosts the assistant run pipeline: a websocket endpoint that
// executes an agent's tasks stage by stage, and a completion endpoint that
// settles cost accounting and recording archival once the call ends.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sachanayush47/bolna/internal/agent/adapters"
	"github.com/sachanayush47/bolna/internal/agent/app"
	"github.com/sachanayush47/bolna/internal/agent/executors"
	"github.com/sachanayush47/bolna/internal/agent/ports"
	"github.com/sachanayush47/bolna/internal/config"
	"github.com/sachanayush47/bolna/internal/observability"
	"github.com/sachanayush47/bolna/internal/server"
	"github.com/sachanayush47/bolna/internal/shared/token"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	localMode := flag.Bool("local", false, "use in-memory stores instead of AWS")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := observability.NewLogger(observability.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	metrics, err := observability.NewMetricsCollector(observability.MetricsConfig{
		Enabled:        cfg.Metrics.Enabled,
		PrometheusPort: cfg.Metrics.PrometheusPort,
	})
	if err != nil {
		log.Fatalf("init metrics: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	telephony := adapters.NewTwilioClient(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken)

	var (
		runStore    ports.RunStore
		objectStore ports.ObjectStore
	)
	if *localMode {
		runStore, objectStore = adapters.NewMemoryStores()
		logger.Warn("running with in-memory stores; cost records and recordings will not survive restart")
	} else {
		dynamo, err := adapters.NewDynamoRunStore(ctx, cfg.AWS.Region, cfg.AWS.RunTable)
		if err != nil {
			log.Fatalf("init dynamodb store: %v", err)
		}
		s3Store, err := adapters.NewS3Store(ctx, cfg.AWS.Region)
		if err != nil {
			log.Fatalf("init s3 store: %v", err)
		}
		runStore, objectStore = dynamo, s3Store
	}

	pricing := pricingFromConfig(cfg.Pricing)
	estimator := app.NewTokenCostEstimator(token.NewCounter(), pricing)
	accountant := app.NewCostAccountant(telephony, runStore, estimator, pricing, logger, metrics)
	archiver := app.NewRecordingArchiver(telephony, objectStore, cfg.AWS.RecordingBucket, logger)

	// Stage executors are deployment-specific; registrations happen here.
	registry := executors.NewRegistry()
	executors.RegisterPassthrough(registry)

	srv := server.New(server.Config{
		Host:        cfg.Server.Host,
		Port:        cfg.Server.Port,
		EnableCORS:  true,
		ReadTimeout: 30 * time.Second,
	}, server.Deps{
		Factory:    registry,
		Accountant: accountant,
		Archiver:   archiver,
		Logger:     logger,
		Metrics:    metrics,
	})

	logger.Info("starting bolna-server", "host", cfg.Server.Host, "port", cfg.Server.Port, "local", *localMode)

	if err := srv.Start(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := metrics.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics shutdown", "error", err)
	}
	logger.Info("server stopped")
}

func pricingFromConfig(pc config.PricingConfig) app.Pricing {
	pricing := app.DefaultPricing()
	if pc.LLMInputPerToken > 0 {
		pricing.LLMInputPerToken = pc.LLMInputPerToken
	}
	if pc.LLMOutputPerToken > 0 {
		pricing.LLMOutputPerToken = pc.LLMOutputPerToken
	}
	if pc.TranscriptionPerSecond > 0 {
		pricing.TranscriptionPerSecond = pc.TranscriptionPerSecond
	}
	if pc.SynthesisPerChar > 0 {
		pricing.SynthesisPerChar = pc.SynthesisPerChar
	}
	return pricing
}
