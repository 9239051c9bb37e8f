package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/grauwolf32/soccer/config"
	"github.com/grauwolf32/soccer/models"
	"github.com/grauwolf32/soccer/scraper/soccerstats"
	"github.com/grauwolf32/soccer/services"
	"github.com/grauwolf32/soccer/storage"
	"github.com/grauwolf32/soccer/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()
	logger.SetDebug(cfg.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("=== Soccer draw-streak tracker starting ===")
	logger.Info("Config | store: %s | seasons: %d | fixtures: %d | fetch: %s | concurrency: %d | rate: %dms",
		cfg.StorePath, cfg.NSeasons, cfg.MFixtures, cfg.FetchMode, cfg.MaxConcurrency, cfg.RateLimitMs)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("%v", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *utils.Logger) error {
	backend, err := openBackend(cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	store, err := backend.Load()
	switch {
	case errors.Is(err, os.ErrNotExist):
		logger.Info("No dataset at %s yet, starting with an initial load", cfg.StorePath)
		store = storage.NewStore()
	case err != nil:
		return fmt.Errorf("load dataset: %w", err)
	default:
		logger.Info("Loaded %d leagues in %d countries, %d matches from %s",
			store.Len(), len(store.Countries()), store.MatchCount(), cfg.StorePath)
	}

	store, err = update(ctx, cfg, logger, backend, store)
	if err != nil {
		return err
	}

	// Eligibility and head-to-head use every stored match; the selection
	// only narrows the rows that get reported.
	idx := services.NewTeamViewBuilder(logger).Build(store)
	all := services.NewStreakAnalyzer(logger, services.StreakOptions{
		NSeasons:  cfg.NSeasons,
		MFixtures: cfg.MFixtures,
	}).Run(idx)

	stats, err := services.SelectStats(store, idx, all, services.Selection{
		Countries:   cfg.CountryFilter,
		League:      cfg.LeagueFilter,
		Team:        cfg.TeamFilter,
		IncludeCups: cfg.IncludeCups,
	})
	if err != nil {
		return err
	}
	logger.Info("Reporting %d of %d analysed teams", len(stats), len(all))
	if len(stats) == 0 {
		logger.Warn("No selected team has matches in the last %d seasons, the report will be empty", cfg.NSeasons)
	}

	if err := writeReport(cfg, stats); err != nil {
		return err
	}
	logger.Info("Report with %d teams saved to %s", len(stats), cfg.ReportPath)

	insightStats := stats
	if cfg.PostgresEnabled {
		if pgWriter, err := storage.NewPostgresWriter(cfg.DSN()); err != nil {
			logger.Error("Failed to connect to PostgreSQL: %v", err)
		} else {
			defer pgWriter.Close()
			insightStats = mirrorStats(logger, pgWriter, stats)
		}
	}

	insightSvc := services.NewInsightService(logger)
	insightSvc.Print(insightSvc.Generate(insightStats))

	fmt.Printf("  Done. Dataset → %s | Report → %s\n\n", cfg.StorePath, cfg.ReportPath)
	return nil
}

// update merges fresh data into store and persists it. A failed merge keeps
// the stored dataset and the run carries on with it.
func update(ctx context.Context, cfg *config.Config, logger *utils.Logger, backend storage.StoreBackend, store *storage.Store) (*storage.Store, error) {
	loader, err := newLoader(cfg, logger)
	if err != nil {
		return nil, err
	}
	defer loader.Close()

	client, err := soccerstats.NewClient(loader, logger, soccerstats.Options{
		BaseURL:        cfg.BaseURL,
		MaxConcurrency: cfg.MaxConcurrency,
		RateLimitMs:    cfg.RateLimitMs,
		Countries:      cfg.CountryFilter,
	})
	if err != nil {
		return nil, err
	}

	merger := services.NewMerger(client, logger, services.MergeOptions{
		InitialSeasons: cfg.InitialSeasons,
		MaxConcurrency: cfg.MaxConcurrency,
		RateLimitMs:    cfg.RateLimitMs,
	})

	next, report, err := merger.Merge(ctx, store)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		logger.Error("Update failed, using the stored dataset: %v", err)
		return store, nil
	}
	if len(report.FailedLeagues) > 0 {
		logger.Warn("%d leagues could not be updated this run", len(report.FailedLeagues))
	}

	if err := backend.Save(next); err != nil {
		return nil, fmt.Errorf("save dataset: %w", err)
	}
	logger.Info("Dataset saved: %d leagues, %d matches", next.Len(), next.MatchCount())
	return next, nil
}

func openBackend(cfg *config.Config) (storage.StoreBackend, error) {
	if !cfg.UseSQLite() {
		return storage.NewJSONFile(cfg.StorePath), nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.StorePath), 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	db, err := storage.OpenSQLite(cfg.StorePath)
	if err != nil {
		return nil, err
	}
	return db, nil
}

func newLoader(cfg *config.Config, logger *utils.Logger) (soccerstats.PageLoader, error) {
	timeout := time.Duration(cfg.RequestTimeoutSec) * time.Second
	switch cfg.FetchMode {
	case "browser":
		loader, err := soccerstats.NewBrowserLoader(logger, cfg.ChromeBin, cfg.MaxRetries, timeout)
		if err != nil {
			return nil, err
		}
		return loader, nil
	case "http", "":
		return soccerstats.NewHTTPLoader(cfg.MaxRetries, timeout), nil
	default:
		return nil, fmt.Errorf("unknown FETCH_MODE %q (want http or browser)", cfg.FetchMode)
	}
}

func writeReport(cfg *config.Config, stats []*models.DrawStreakStat) error {
	w, err := storage.NewCSVWriter(cfg.ReportPath, cfg.ReportDelimiter)
	if err != nil {
		return err
	}
	return writeRows(w, services.ReportRows(stats, services.ReportOptions{
		Delimiter:            cfg.ReportDelimiter,
		Locale:               cfg.ReportLocale,
		Fixtures:             cfg.MFixtures,
		IncludeDrawFrequency: cfg.ReportDrawFrequency,
	}))
}

func writeRows(w storage.RowWriter, rows [][]string) error {
	if err := w.WriteRows(rows); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// mirrorStats stores the report in sink and, when the sink can read it back,
// returns the stored rows for the summary. Failures are logged and the
// in-memory stats are used instead.
func mirrorStats(logger *utils.Logger, sink storage.StatsWriter, stats []*models.DrawStreakStat) []*models.DrawStreakStat {
	if err := sink.Write(stats); err != nil {
		logger.Error("Report sink write failed: %v", err)
		return stats
	}
	logger.Info("Report stored in the database (table: draw_streaks)")

	reader, ok := sink.(storage.StatsReader)
	if !ok {
		return stats
	}
	dbStats, err := reader.FetchAll()
	if err != nil {
		logger.Error("Failed to fetch report from DB for insights: %v", err)
		return stats
	}
	return dbStats
}
