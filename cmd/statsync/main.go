package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/courtdata/statsync/external/hoopstats"
	"github.com/courtdata/statsync/internal/config"
	"github.com/courtdata/statsync/internal/domain/league"
	"github.com/courtdata/statsync/internal/infrastructure/repository/postgres"
	"github.com/courtdata/statsync/internal/platform/logging"
	"github.com/courtdata/statsync/internal/platform/resilience"
	"github.com/courtdata/statsync/internal/platform/schemamap"
	"github.com/courtdata/statsync/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logging.NewJSON(logging.LevelInfo)
		boot.Error("load config", "error", err)
		_ = boot.Sync()
		os.Exit(1)
	}

	logger := logging.NewJSON(cfg.LogLevel).With(
		"service", cfg.ServiceName,
		"version", cfg.ServiceVersion,
		"env", cfg.AppEnv,
	)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("sync run failed", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *logging.Logger) error {
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.DBURL)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	db.SetMaxOpenConns(cfg.MaxWorkers * 2)
	db.SetConnMaxIdleTime(5 * time.Minute)

	contracts, err := config.LoadContracts(cfg.ContractsPath)
	if err != nil {
		return err
	}

	leagues, err := selectLeagues(cfg.Leagues)
	if err != nil {
		return err
	}

	schema := schemamap.New(nil)
	registries := postgres.NewRegistryStore(db, schema, nil)
	results := postgres.NewResultStore(db)
	ledger := postgres.NewFailureLedger(db)

	provider := hoopstats.NewClient(hoopstats.ClientConfig{
		BaseURL:    cfg.ProviderBaseURL,
		UserAgent:  cfg.ProviderUserAgent,
		Timeout:    cfg.ProviderTimeout,
		MaxRetries: cfg.ProviderMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.ProviderCircuitEnabled,
			FailureThreshold: cfg.ProviderCircuitFailureCount,
			OpenTimeout:      cfg.ProviderCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.ProviderCircuitHalfOpenMaxReq,
		},
	})

	combos := usecase.NewCombinationService(leagues, registries, cfg.ThroughYear, logger)
	resolver := usecase.NewResolverService(combos, results, ledger, schema, logger)
	executor := usecase.NewExecutorService(provider, results, ledger, logger)

	scheduler, err := usecase.NewSchedulerService(contracts, registries, logger)
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "sync run starting",
		"contracts", len(contracts),
		"leagues", cfg.Leagues,
		"workers", cfg.MaxWorkers,
		"dry_run", cfg.DryRun,
	)

	for {
		if err := ctx.Err(); err != nil {
			logger.WarnContext(ctx, "sync run interrupted")
			return err
		}

		if err := scheduler.Refresh(ctx); err != nil {
			return err
		}

		contract, ok := scheduler.Next()
		if !ok {
			if scheduler.Finished() {
				break
			}
			logger.WarnContext(ctx, "no eligible endpoints remain",
				"states", scheduler.States(),
				"blocked", scheduler.Blocked(),
			)
			break
		}

		report, err := resolver.Missing(ctx, contract)
		if err != nil {
			if errors.Is(err, usecase.ErrRegistryUnavailable) {
				// Eligibility is rechecked on the next Refresh once the
				// producer endpoint has landed rows.
				logger.WarnContext(ctx, "endpoint registry not ready",
					"endpoint", contract.Name,
					"error", err,
				)
				if markErr := scheduler.MarkFailed(contract.Name); markErr != nil {
					return markErr
				}
				continue
			}
			return err
		}

		logger.InfoContext(ctx, "resolved outstanding work",
			"endpoint", contract.Name,
			"space", report.SpaceSize,
			"collected", report.Collected,
			"excluded", report.Excluded,
			"missing", len(report.Missing),
		)

		result, err := executor.Execute(ctx, report.Missing, usecase.ExecuteInput{
			MaxWorkers: cfg.MaxWorkers,
			DryRun:     cfg.DryRun,
		})
		if err != nil {
			return err
		}

		if result.FailedCount > 0 && result.SuccessCount == 0 && result.ItemCount > 0 {
			if err := scheduler.MarkFailed(contract.Name); err != nil {
				return err
			}
			continue
		}
		if err := scheduler.MarkDone(contract.Name); err != nil {
			return err
		}
	}

	logger.InfoContext(ctx, "sync run finished",
		"states", scheduler.States(),
		"blocked", scheduler.Blocked(),
	)
	return nil
}

func selectLeagues(ids []string) ([]league.League, error) {
	catalog := league.Defaults()
	out := make([]league.League, 0, len(ids))
	for _, id := range ids {
		found, ok := league.ByID(catalog, id)
		if !ok {
			return nil, errors.New("unknown league id " + id)
		}
		out = append(out, found)
	}
	return out, nil
}
