package worker

import (
	"context"
	"log/slog"
	"time"

	"book-recommender/internal/domain"
	"book-recommender/internal/usecase"
)

const (
	refreshBatchSize = 10
	refreshTimeout   = 5 * time.Minute
	initialBackoff   = 1 * time.Minute
	maxBackoff       = 30 * time.Minute
)

// CacheRefresher periodically regenerates cache entries that have passed
// their TTL, so hot categories stay warm instead of paying the generation
// latency on the next user request. Purely opportunistic: the serving path
// never depends on it.
type CacheRefresher struct {
	cacheRepo   domain.RecommendationCacheRepository
	recommendUC usecase.RecommendBooksUsecase
	freshness   domain.FreshnessPolicy
	interval    time.Duration
	logger      *slog.Logger
	stopChan    chan struct{}
	backoff     time.Duration
}

func NewCacheRefresher(
	cacheRepo domain.RecommendationCacheRepository,
	recommendUC usecase.RecommendBooksUsecase,
	freshness domain.FreshnessPolicy,
	interval time.Duration,
	logger *slog.Logger,
) *CacheRefresher {
	return &CacheRefresher{
		cacheRepo:   cacheRepo,
		recommendUC: recommendUC,
		freshness:   freshness,
		interval:    interval,
		logger:      logger,
		stopChan:    make(chan struct{}),
	}
}

func (w *CacheRefresher) Start() {
	w.logger.Info("Starting CacheRefresher", "interval", w.interval.String())
	go w.run()
}

func (w *CacheRefresher) Stop() {
	w.logger.Info("Stopping CacheRefresher")
	close(w.stopChan)
}

func (w *CacheRefresher) run() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ticker.C:
			w.refreshStale()
			if w.backoff > 0 {
				ticker.Reset(w.backoff)
			} else {
				ticker.Reset(w.interval)
			}
		}
	}
}

func (w *CacheRefresher) refreshStale() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	cutoff := time.Now().Add(-w.freshness.TTL())
	keys, err := w.cacheRepo.ListStale(ctx, cutoff, refreshBatchSize)
	if err != nil {
		w.logger.Error("Failed to list stale cache entries", "error", err)
		w.backoff = w.nextBackoff(w.backoff)
		return
	}
	if len(keys) == 0 {
		w.backoff = 0
		return
	}

	w.logger.Info("Refreshing stale cache entries", "count", len(keys))

	failed := 0
	for _, key := range keys {
		// The orchestrator sees the stale entry as a miss, regenerates,
		// and upserts. Failures only delay the refresh; the row is retried
		// on the next tick.
		_, err := w.recommendUC.Execute(ctx, usecase.RecommendBooksInput{
			Section:  key.Section,
			Category: key.Category,
		})
		if err != nil {
			failed++
			w.logger.Warn("Cache refresh failed",
				"category", key.Category,
				"section", string(key.Section),
				"error", err)
		}
	}

	if failed == len(keys) {
		w.backoff = w.nextBackoff(w.backoff)
		w.logger.Warn("Refresher backing off", "backoff", w.backoff)
	} else {
		w.backoff = 0
	}
}

func (w *CacheRefresher) nextBackoff(current time.Duration) time.Duration {
	if current == 0 {
		return initialBackoff
	}
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}
