package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"book-recommender/internal/domain"
	"book-recommender/internal/usecase"

	"github.com/stretchr/testify/assert"
)

// --- stubs ---

type stubCacheRepo struct {
	mu       sync.Mutex
	stale    []domain.CacheKey
	listErr  error
	listed   int
	lastArgs struct {
		cutoff time.Time
		limit  int
	}
}

func (s *stubCacheRepo) Get(ctx context.Context, category string, section domain.Section) (*domain.CacheEntry, error) {
	return nil, nil
}

func (s *stubCacheRepo) Upsert(ctx context.Context, entry *domain.CacheEntry) error { return nil }

func (s *stubCacheRepo) ListStale(ctx context.Context, cutoff time.Time, limit int) ([]domain.CacheKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listed++
	s.lastArgs.cutoff = cutoff
	s.lastArgs.limit = limit
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.stale, nil
}

func (s *stubCacheRepo) Delete(ctx context.Context, category string, section domain.Section) error {
	return nil
}

func (s *stubCacheRepo) List(ctx context.Context) ([]domain.CacheEntry, error) { return nil, nil }

type stubRecommendUsecase struct {
	mu     sync.Mutex
	inputs []usecase.RecommendBooksInput
	err    error
}

func (s *stubRecommendUsecase) Execute(ctx context.Context, input usecase.RecommendBooksInput) (*usecase.RecommendBooksOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputs = append(s.inputs, input)
	if s.err != nil {
		return nil, s.err
	}
	return &usecase.RecommendBooksOutput{}, nil
}

func (s *stubRecommendUsecase) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inputs)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// --- tests ---

func TestCacheRefresher_RefreshesEachStaleKey(t *testing.T) {
	repo := &stubCacheRepo{stale: []domain.CacheKey{
		{Category: "science-fiction", Section: domain.SectionAwardWinning},
		{Category: "mystery", Section: domain.SectionNew},
	}}
	uc := &stubRecommendUsecase{}

	w := NewCacheRefresher(repo, uc, domain.NewFreshnessPolicy(24*time.Hour), time.Hour, testLogger())
	w.refreshStale()

	assert.Equal(t, 2, uc.callCount())
	assert.Equal(t, "science-fiction", uc.inputs[0].Category)
	assert.Equal(t, domain.SectionNew, uc.inputs[1].Section)
	assert.Equal(t, refreshBatchSize, repo.lastArgs.limit)
	assert.WithinDuration(t, time.Now().Add(-24*time.Hour), repo.lastArgs.cutoff, 5*time.Second,
		"cutoff tracks the freshness TTL")
	assert.Zero(t, w.backoff, "successful pass resets backoff")
}

func TestCacheRefresher_NoStaleKeysIsANoop(t *testing.T) {
	repo := &stubCacheRepo{}
	uc := &stubRecommendUsecase{}

	w := NewCacheRefresher(repo, uc, domain.NewFreshnessPolicy(24*time.Hour), time.Hour, testLogger())
	w.refreshStale()

	assert.Zero(t, uc.callCount())
}

func TestCacheRefresher_BacksOffWhenListingFails(t *testing.T) {
	repo := &stubCacheRepo{listErr: errors.New("db down")}
	uc := &stubRecommendUsecase{}

	w := NewCacheRefresher(repo, uc, domain.NewFreshnessPolicy(24*time.Hour), time.Hour, testLogger())
	w.refreshStale()
	assert.Equal(t, initialBackoff, w.backoff)

	w.refreshStale()
	assert.Equal(t, 2*initialBackoff, w.backoff)
}

func TestCacheRefresher_AllKeysFailingBacksOff(t *testing.T) {
	repo := &stubCacheRepo{stale: []domain.CacheKey{
		{Category: "poetry", Section: domain.SectionNew},
	}}
	uc := &stubRecommendUsecase{err: &domain.UpstreamGenerationError{Message: "model offline"}}

	w := NewCacheRefresher(repo, uc, domain.NewFreshnessPolicy(24*time.Hour), time.Hour, testLogger())
	w.refreshStale()

	assert.Equal(t, 1, uc.callCount(), "failures do not abort the batch")
	assert.Equal(t, initialBackoff, w.backoff)
}

func TestCacheRefresher_StartStop(t *testing.T) {
	repo := &stubCacheRepo{}
	uc := &stubRecommendUsecase{}

	w := NewCacheRefresher(repo, uc, domain.NewFreshnessPolicy(24*time.Hour), 10*time.Millisecond, testLogger())
	w.Start()

	assert.Eventually(t, func() bool {
		repo.mu.Lock()
		defer repo.mu.Unlock()
		return repo.listed > 0
	}, time.Second, 5*time.Millisecond)

	w.Stop()
}
