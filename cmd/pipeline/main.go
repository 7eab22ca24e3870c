package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/losthumanity/SentimentFinance/internal/adapter/metrics"
	"github.com/losthumanity/SentimentFinance/internal/adapter/postgres"
	"github.com/losthumanity/SentimentFinance/internal/app"
	"github.com/losthumanity/SentimentFinance/internal/domain"
	"github.com/losthumanity/SentimentFinance/internal/platform/config"
	"github.com/losthumanity/SentimentFinance/internal/platform/logging"
	"github.com/losthumanity/SentimentFinance/internal/sentiment"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := postgres.RunMigrationsWithLock(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return pool
}

func loadEntities(cfg *config.Config) []domain.TrackedEntity {
	if cfg.EntitiesFile == "" {
		return config.DefaultEntities()
	}
	entities, err := config.LoadEntities(cfg.EntitiesFile)
	if err != nil {
		slog.Error("Failed to load tracked entities", "file", cfg.EntitiesFile, "error", err)
		os.Exit(1)
	}
	return entities
}

func readBatch(path string) []domain.RawArticle {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			slog.Error("Failed to open batch file", "path", path, "error", err)
			os.Exit(1)
		}
		defer f.Close()
		r = f
	}

	var batch []domain.RawArticle
	if err := json.NewDecoder(r).Decode(&batch); err != nil {
		slog.Error("Failed to decode batch JSON", "error", err)
		os.Exit(1)
	}
	return batch
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		slog.Error("Failed to encode output", "error", err)
		os.Exit(1)
	}
}

func runReports(ctx context.Context, pool *pgxpool.Pool, cfg *config.Config, entityName, sector, articleURL string, sectorDays, trending, cleanupDays int) {
	analytics := postgres.NewAnalytics(pool, cfg.StoreTimeout)
	store := postgres.NewCoordinator(pool, cfg.StoreTimeout)

	switch {
	case entityName != "":
		if _, err := store.GetEntityByName(ctx, entityName); err != nil {
			slog.Error("Unknown entity", "entity", entityName, "error", err)
			os.Exit(1)
		}
		report, err := analytics.WeeklyEntityReport(ctx, entityName)
		if err != nil {
			slog.Error("Failed to generate weekly report", "entity", entityName, "error", err)
			os.Exit(1)
		}
		printJSON(report)

	case sector != "":
		report, err := analytics.SectorSentiment(ctx, sector, sectorDays)
		if err != nil {
			slog.Error("Failed to generate sector report", "sector", sector, "error", err)
			os.Exit(1)
		}
		printJSON(report)

	case articleURL != "":
		article, err := store.GetArticleByKey(ctx, articleURL)
		if err != nil {
			slog.Error("Unknown article", "url", articleURL, "error", err)
			os.Exit(1)
		}
		results, err := store.GetResults(ctx, article.ID)
		if err != nil {
			slog.Error("Failed to read sentiment results", "url", articleURL, "error", err)
			os.Exit(1)
		}
		printJSON(map[string]any{"article": article, "results": results})

	case trending > 0:
		list, err := analytics.TrendingEntities(ctx, trending)
		if err != nil {
			slog.Error("Failed to list trending entities", "error", err)
			os.Exit(1)
		}
		printJSON(list)

	case cleanupDays > 0:
		deleted, err := analytics.CleanupOldArticles(ctx, cleanupDays)
		if err != nil {
			slog.Error("Failed to clean up old articles", "error", err)
			os.Exit(1)
		}
		slog.Info("Cleanup complete", "deleted", deleted)
	}
}

func main() {
	input := flag.String("input", "-", "path to the JSON article batch, - for stdin")
	reportEntity := flag.String("report-entity", "", "print the weekly sentiment report for an entity and exit")
	reportSector := flag.String("report-sector", "", "print the sector sentiment report and exit")
	sectorDays := flag.Int("sector-days", 30, "lookback window for the sector report, in days")
	showArticle := flag.String("show-article", "", "print a stored article and its sentiment results by URL and exit")
	trending := flag.Int("trending", 0, "print the N most-covered entities of the last day and exit")
	cleanupDays := flag.Int("cleanup-days", 0, "delete articles older than N days and exit")
	flag.Parse()

	cfg := setupConfig()

	// Initialize structured logging
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Pipeline starting", "env", cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool := setupDB(cfg)
	defer pool.Close()

	if *reportEntity != "" || *reportSector != "" || *showArticle != "" || *trending > 0 || *cleanupDays > 0 {
		runReports(ctx, pool, cfg, *reportEntity, *reportSector, *showArticle, *sectorDays, *trending, *cleanupDays)
		return
	}

	batch := readBatch(*input)
	if len(batch) == 0 {
		slog.Info("Empty batch, nothing to do")
		return
	}

	scorer := sentiment.NewScorer(sentiment.Config{
		WeightLexical:   cfg.WeightLexical,
		WeightValence:   cfg.WeightValence,
		WeightKeyword:   cfg.WeightKeyword,
		ConfidenceFloor: cfg.ConfidenceFloor,
		MinTokens:       cfg.MinScoringTokens,
	})
	store := postgres.NewCoordinator(pool, cfg.StoreTimeout)
	matcher := app.NewMatcher(loadEntities(cfg))
	pm := metrics.NewPipelineMetrics(metrics.NewRegistry())

	pipeline := app.NewPipeline(scorer, store, matcher, pm, app.Options{
		Concurrency:       cfg.BatchConcurrency,
		StoreMaxRetries:   cfg.StoreMaxRetries,
		StoreRetryBackoff: cfg.StoreRetryBackoff,
	})

	summary, err := pipeline.Run(ctx, batch)
	if err != nil {
		if summary != nil {
			printJSON(summary)
		}
		if errors.Is(err, context.Canceled) {
			slog.Warn("Batch interrupted", "error", err)
			os.Exit(130)
		}
		slog.Error("Batch aborted", "error", err)
		os.Exit(1)
	}

	printJSON(summary)
}
