// Package main runs the pump.fun launch watcher: a WebSocket listener for
// token creations, the staged filter pipeline, rolling market stats and
// the gated alert path.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"solana-launch-watch/internal/alert"
	"solana-launch-watch/internal/config"
	"solana-launch-watch/internal/delivery"
	"solana-launch-watch/internal/filter"
	"solana-launch-watch/internal/history"
	"solana-launch-watch/internal/intel"
	"solana-launch-watch/internal/liquidity"
	"solana-launch-watch/internal/listener"
	"solana-launch-watch/internal/monitor"
	"solana-launch-watch/internal/observability"
	"solana-launch-watch/internal/solana"
	"solana-launch-watch/internal/stats"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML configuration file")
	wsEndpoint := flag.String("ws-endpoint", "", "Solana WebSocket endpoint (overrides config)")
	rpcEndpoint := flag.String("rpc-endpoint", "", "Solana RPC HTTP endpoint (overrides config)")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus metrics HTTP address (overrides config)")
	dryRun := flag.Bool("dry-run", false, "Log alerts instead of posting to the webhook")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("configuration failed")
	}
	if *wsEndpoint != "" {
		cfg.Endpoints.WSURL = *wsEndpoint
	}
	if *rpcEndpoint != "" {
		cfg.Endpoints.RPCURL = *rpcEndpoint
	}
	if *metricsAddr != "" {
		cfg.Metrics.Addr = *metricsAddr
	}
	if *dryRun {
		cfg.General.DryRun = true
	}

	setupLogging(cfg.General)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		cancel()
	}()

	if cfg.Metrics.Enabled {
		go serveMetrics(cfg.Metrics.Addr)
	}

	if err := run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("watcher stopped")
	}
	log.Info().Msg("watcher stopped")
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func setupLogging(general config.GeneralConfig) {
	level, err := zerolog.ParseLevel(general.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if general.LogFormat == "text" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	rpc := solana.NewHTTPClient(cfg.Endpoints.RPCURL,
		solana.WithRateLimit(cfg.Endpoints.RPCRateRPS, cfg.Endpoints.RPCRateBurst))

	ws, err := solana.NewWSClient(ctx, cfg.Endpoints.WSURL, nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	pipeline := buildPipeline(cfg, rpc)

	gate := alert.NewGate(alert.Config{
		Cooldown:       time.Duration(cfg.Alerts.CooldownSec) * time.Second,
		BudgetWindow:   time.Duration(cfg.Alerts.BudgetWindowSec) * time.Second,
		BudgetCapacity: cfg.Alerts.BudgetCapacity,
	})

	var sinks []delivery.Sink
	if cfg.Alerts.WebhookURL != "" && !cfg.General.DryRun {
		sinks = append(sinks, delivery.NewWebhookSink(delivery.WebhookConfig{
			URL:     cfg.Alerts.WebhookURL,
			Headers: cfg.Alerts.WebhookHeaders,
		}))
	}
	if len(sinks) == 0 {
		sinks = append(sinks, delivery.NewConsoleSink())
	}

	var reporter *intel.Reporter
	if cfg.Intel.Enabled && cfg.Intel.BaseURL != "" {
		reporter = intel.NewReporter(intel.Config{
			BaseURL:   cfg.Intel.BaseURL,
			QueueSize: cfg.Intel.QueueSize,
		})
		reporter.Start()
		defer reporter.Stop()

		if err := reporter.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("intel service unreachable, reporting stays best effort")
		}
	}

	// The trade feed is produced by a separate ingestion process. Without
	// one the watcher still detects and filters launches but never alerts.
	var trades <-chan stats.TradeEvent
	log.Warn().Msg("no trade feed configured, running in detection-only mode")

	m := monitor.New(monitor.Options{
		Listener: listener.New(ws, listener.Config{
			MatchString:    cfg.Listener.MatchString,
			CreatorAddress: cfg.Listener.CreatorAddress,
		}),
		Pipeline:        pipeline,
		Rolling:         stats.NewRolling(cfg.Stats.WindowMs, nil),
		Gate:            gate,
		Sinks:           sinks,
		Intel:           reporter,
		History:         history.NewStore(cfg.History.Path),
		Trades:          trades,
		LaunchThreshold: cfg.Alerts.LaunchThreshold,
		SweepInterval:   time.Duration(cfg.Stats.SweepEverySec) * time.Second,
	})

	return m.Run(ctx)
}

func buildPipeline(cfg *config.Config, rpc solana.RPCClient) *filter.Pipeline {
	var stages []filter.Stage

	if config.StageEnabled(cfg.Filters.Symbol.Enabled) {
		stages = append(stages, filter.SymbolStage{})
	}
	if config.StageEnabled(cfg.Filters.Denylist.Enabled) {
		stages = append(stages, filter.NewDenylistStage(filter.Denylist{
			Creators: cfg.Filters.Denylist.Creators,
			Mints:    cfg.Filters.Denylist.Mints,
		}))
	}
	if config.StageEnabled(cfg.Filters.Security.Enabled) {
		stages = append(stages, filter.NewSecurityStage(filter.SecurityConfig{
			NameBlacklist:    cfg.Filters.Security.NameBlacklist,
			PassCooldown:     time.Duration(cfg.Filters.Security.PassCooldownSec) * time.Second,
			CooldownCapacity: cfg.Filters.Security.CooldownCapacity,
		}, nil))
	}
	if config.StageEnabled(cfg.Filters.Wallet.Enabled) {
		stages = append(stages, filter.NewWalletStage(rpc, filter.WalletConfig{
			MinTxCount: cfg.Filters.Wallet.MinTxCount,
			MinAge:     time.Duration(cfg.Filters.Wallet.MinAgeMinutes) * time.Minute,
		}))
	}
	if config.StageEnabled(cfg.Filters.Liquidity.Enabled) {
		resolver := liquidity.NewResolver(
			liquidity.NewAPISource(cfg.Endpoints.PumpAPIURL),
			liquidity.NewCurveSource(rpc),
			liquidity.NewEstimatorSource(cfg.Endpoints.RPCURL),
		)
		stages = append(stages, filter.NewLiquidityStage(resolver, filter.LiquidityConfig{
			MinSOL: cfg.Filters.Liquidity.MinSOL,
			MaxSOL: cfg.Filters.Liquidity.MaxSOL,
		}))
	}

	return filter.NewPipeline(stages...)
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	log.Info().Str("addr", addr).Msg("metrics server listening")
	if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("metrics server failed")
	}
}
