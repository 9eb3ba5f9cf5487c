package usecase

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"book-recommender/internal/domain"
)

// RecommendBooksInput defines the input for one recommendation request.
type RecommendBooksInput struct {
	Section  domain.Section
	Category string
}

// RecommendBooksOutput carries the served list and whether it came from cache.
type RecommendBooksOutput struct {
	Recommendations []domain.BookRecommendation
	FromCache       bool
}

// RecommendBooksUsecase is the request orchestrator: cache lookup,
// generation on miss, parallel enrichment, persist, respond.
type RecommendBooksUsecase interface {
	Execute(ctx context.Context, input RecommendBooksInput) (*RecommendBooksOutput, error)
}

type recommendBooksUsecase struct {
	cacheRepo   domain.RecommendationCacheRepository
	freshness   domain.FreshnessPolicy
	generateUC  GenerateRecommendationsUsecase
	covers      domain.CoverResolver
	linkBuilder domain.RetailLinkBuilder
	now         func() time.Time
	logger      *slog.Logger
}

// NewRecommendBooksUsecase creates the orchestrator.
func NewRecommendBooksUsecase(
	cacheRepo domain.RecommendationCacheRepository,
	freshness domain.FreshnessPolicy,
	generateUC GenerateRecommendationsUsecase,
	covers domain.CoverResolver,
	linkBuilder domain.RetailLinkBuilder,
	logger *slog.Logger,
) RecommendBooksUsecase {
	return &recommendBooksUsecase{
		cacheRepo:   cacheRepo,
		freshness:   freshness,
		generateUC:  generateUC,
		covers:      covers,
		linkBuilder: linkBuilder,
		now:         time.Now,
		logger:      logger,
	}
}

// Execute serves a recommendation list for (section, category).
//
// Cache-read failures and stale entries are both treated as misses, and a
// cache-write failure never fails the request: the path degrades to
// "always regenerate" rather than surfacing storage errors. Only
// generation errors propagate to the caller.
func (u *recommendBooksUsecase) Execute(ctx context.Context, input RecommendBooksInput) (*RecommendBooksOutput, error) {
	now := u.now()

	entry, err := u.cacheRepo.Get(ctx, input.Category, input.Section)
	if err != nil {
		u.logger.Warn("cache_read_failed",
			slog.String("section", string(input.Section)),
			slog.String("category", input.Category),
			slog.String("error", err.Error()))
	}
	if entry != nil && u.freshness.Fresh(entry.UpdatedAt, now) {
		u.logger.Info("cache_hit",
			slog.String("section", string(input.Section)),
			slog.String("category", input.Category),
			slog.Int("count", len(entry.Recommendations)))
		return &RecommendBooksOutput{
			Recommendations: entry.Recommendations,
			FromCache:       true,
		}, nil
	}

	recs, err := u.generateUC.Execute(ctx, GenerateRecommendationsInput{
		Section:  input.Section,
		Category: input.Category,
	})
	if err != nil {
		return nil, err
	}

	u.enrich(ctx, recs)

	if err := u.cacheRepo.Upsert(ctx, &domain.CacheEntry{
		Category:        input.Category,
		Section:         input.Section,
		Recommendations: recs,
		UpdatedAt:       u.now(),
	}); err != nil {
		// The caller already has the freshly generated list; losing the
		// cache write only costs a regeneration on the next request.
		u.logger.Warn("cache_write_failed",
			slog.String("section", string(input.Section)),
			slog.String("category", input.Category),
			slog.String("error", err.Error()))
	}

	return &RecommendBooksOutput{Recommendations: recs}, nil
}

// enrich attaches the retailer link inline and fans out one cover lookup per
// item. All lookups are issued before any is awaited, and enrichment only
// completes once every lookup has settled. Cover failures leave ImageURL
// empty; they never fail the request.
func (u *recommendBooksUsecase) enrich(ctx context.Context, recs []domain.BookRecommendation) {
	g, gctx := errgroup.WithContext(ctx)

	for i := range recs {
		recs[i].AmazonURL = u.linkBuilder.BuildLink(recs[i].Title, recs[i].Author)

		g.Go(func() error {
			imageURL, err := u.covers.Resolve(gctx, recs[i].Title, recs[i].Author)
			if err != nil {
				u.logger.Warn("cover_lookup_failed",
					slog.String("title", recs[i].Title),
					slog.String("author", recs[i].Author),
					slog.String("error", err.Error()))
				return nil // best-effort decoration
			}
			recs[i].ImageURL = imageURL
			return nil
		})
	}

	_ = g.Wait()
}
