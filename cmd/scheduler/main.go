package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/KushT00/Forex-Ultimate/internal/candle"
	"github.com/KushT00/Forex-Ultimate/internal/config"
	"github.com/KushT00/Forex-Ultimate/internal/logger"
	"github.com/KushT00/Forex-Ultimate/internal/scheduler"
	"github.com/KushT00/Forex-Ultimate/internal/server"
	"github.com/KushT00/Forex-Ultimate/internal/strategy"
	"github.com/KushT00/Forex-Ultimate/internal/tradelog"
	"github.com/KushT00/Forex-Ultimate/pkg/marketdata"
)

// runAction wires the configured schedules into the scheduler and runs it
// until the process receives an interrupt.
func runAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Flags override the config file when set.
	if provider := cmd.String("provider"); provider != "" {
		cfg.Provider = provider
	}

	if listen := cmd.String("listen"); listen != "" {
		cfg.Server.ListenAddr = listen
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	appLogger, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer appLogger.Sync()

	provider, err := marketdata.NewProvider(marketdata.ProviderType(cfg.Provider), os.Getenv("POLYGON_API_KEY"))
	if err != nil {
		return fmt.Errorf("failed to create market data provider: %w", err)
	}

	store, err := tradelog.Open(cfg.TradeLogPath, appLogger)
	if err != nil {
		return fmt.Errorf("failed to open trade log: %w", err)
	}
	appLogger.Info("trade log opened",
		zap.String("path", cfg.TradeLogPath),
		zap.Int("existing_signals", store.Len()))

	clock := candle.SystemClock{}
	runner := scheduler.NewRunner(clock, appLogger)
	sched := scheduler.New(clock, appLogger, runner, store, scheduler.Config{
		Workers:      cfg.Scheduler.Workers,
		QueueSize:    cfg.Scheduler.QueueSize,
		DrainTimeout: cfg.DrainTimeout(),
	})

	for _, entry := range cfg.Schedules {
		strat, err := strategy.New(entry.Strategy, provider)
		if err != nil {
			return fmt.Errorf("failed to create strategy for schedule %s: %w", entry.Name, err)
		}
		if err := sched.AddSchedule(entry.Name, strat, entry.Symbols, entry.TimeframeMinutes); err != nil {
			return fmt.Errorf("failed to register schedule %s: %w", entry.Name, err)
		}
	}

	if cfg.Server.ListenAddr != "" {
		statusServer := server.NewServer(store, sched, appLogger)
		if err := statusServer.Start(cfg.Server.ListenAddr); err != nil {
			return fmt.Errorf("failed to start status server: %w", err)
		}
		defer statusServer.Stop()
	}

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := sched.Run(runCtx); err != nil {
		return fmt.Errorf("scheduler stopped with error: %w", err)
	}

	appLogger.Info("scheduler stopped", zap.Int("signals_logged", store.Len()))
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "scheduler",
		Usage: "Run multi-timeframe trading strategies on candle boundaries",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "config",
				Aliases:  []string{"c"},
				Usage:    "Path to the YAML configuration file",
				Value:    "config.yaml",
				Required: false,
			},
			&cli.StringFlag{
				Name:     "provider",
				Aliases:  []string{"p"},
				Usage:    fmt.Sprintf("Data provider to use (%s or %s), overrides the config file", marketdata.ProviderBinance, marketdata.ProviderPolygon),
				Required: false,
			},
			&cli.StringFlag{
				Name:     "listen",
				Aliases:  []string{"l"},
				Usage:    "Status API listen address, overrides the config file",
				Required: false,
			},
		},
		Action: runAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
