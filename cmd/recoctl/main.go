package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"book-recommender/internal/di"
	"book-recommender/internal/domain"
	"book-recommender/internal/infra"
	"book-recommender/internal/infra/config"
	"book-recommender/internal/infra/logger"
	"book-recommender/internal/usecase"
)

var (
	version = "dev"

	// Global flags
	verbose bool

	// Warm command flags
	warmSection  string
	warmCategory string

	// Purge command flags
	olderThanHours int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "recoctl",
	Short:   "Operate the book recommendation cache",
	Version: version,
}

var warmCmd = &cobra.Command{
	Use:   "warm",
	Short: "Force-regenerate the cache entry for a (section, category) pair",
	Long: `Force-regenerate the cache entry for a (section, category) pair.

The entry is rebuilt through the full pipeline (generation, cover
enrichment, retailer links) and upserted, regardless of its current age.

Examples:
  # Warm the award-winning science fiction list
  recoctl warm --section award-winning --category science-fiction

  # Warm the new releases mystery list
  recoctl warm --section new --category mystery`,
	RunE: runWarm,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List cache entries with their age",
	RunE:  showStatus,
}

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete cache entries older than a threshold",
	RunE:  runPurge,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	warmCmd.Flags().StringVar(&warmSection, "section", "award-winning", "section (award-winning or new)")
	warmCmd.Flags().StringVar(&warmCategory, "category", "", "category, e.g. science-fiction")
	_ = warmCmd.MarkFlagRequired("category")

	purgeCmd.Flags().IntVar(&olderThanHours, "older-than", 24, "delete entries not updated in this many hours")

	rootCmd.AddCommand(warmCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(purgeCmd)
}

func newLogger() *slog.Logger {
	if verbose {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return logger.New()
}

func connect(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
	pool, err := infra.NewPostgresDB(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	return pool, nil
}

func runWarm(cmd *cobra.Command, args []string) error {
	log := newLogger()
	cfg := config.Load()
	ctx := cmd.Context()

	pool, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	// Zero TTL: any existing entry counts as stale, so warm always regenerates.
	cfg.CacheTTLHours = 0
	components := di.NewApplicationComponents(cfg, pool, log)

	log.Info("warming cache entry",
		slog.String("section", warmSection),
		slog.String("category", warmCategory))

	output, err := components.RecommendUsecase.Execute(ctx, usecase.RecommendBooksInput{
		Section:  domain.Section(warmSection),
		Category: warmCategory,
	})
	if err != nil {
		return fmt.Errorf("warm failed: %w", err)
	}

	log.Info("cache entry warmed", slog.Int("count", len(output.Recommendations)))
	return nil
}

func showStatus(cmd *cobra.Command, args []string) error {
	log := newLogger()
	cfg := config.Load()
	ctx := cmd.Context()

	pool, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	components := di.NewApplicationComponents(cfg, pool, log)
	entries, err := components.CacheRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("list entries: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println("cache is empty")
		return nil
	}

	now := time.Now()
	fmt.Printf("%-30s %-15s %-25s %s\n", "CATEGORY", "SECTION", "UPDATED", "STATE")
	for _, entry := range entries {
		state := "fresh"
		if !components.Freshness.Fresh(entry.UpdatedAt, now) {
			state = "stale"
		}
		fmt.Printf("%-30s %-15s %-25s %s\n",
			entry.Category,
			string(entry.Section),
			entry.UpdatedAt.Format(time.RFC3339),
			state,
		)
	}
	return nil
}

func runPurge(cmd *cobra.Command, args []string) error {
	log := newLogger()
	cfg := config.Load()
	ctx := cmd.Context()

	pool, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	components := di.NewApplicationComponents(cfg, pool, log)

	cutoff := time.Now().Add(-time.Duration(olderThanHours) * time.Hour)
	keys, err := components.CacheRepo.ListStale(ctx, cutoff, 1000)
	if err != nil {
		return fmt.Errorf("list stale entries: %w", err)
	}

	for _, key := range keys {
		if err := components.CacheRepo.Delete(ctx, key.Category, key.Section); err != nil {
			return fmt.Errorf("delete %s/%s: %w", key.Category, key.Section, err)
		}
		log.Info("purged cache entry",
			slog.String("category", key.Category),
			slog.String("section", string(key.Section)))
	}

	log.Info("purge completed", slog.Int("deleted", len(keys)))
	return nil
}
