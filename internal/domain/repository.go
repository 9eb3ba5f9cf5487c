package domain

import (
	"context"
	"time"
)

// RecommendationCacheRepository defines the operations for the keyed
// recommendation cache.
type RecommendationCacheRepository interface {
	// Get retrieves the entry for the composite key.
	// Returns nil, nil if not found.
	Get(ctx context.Context, category string, section Section) (*CacheEntry, error)

	// Upsert inserts or overwrites the single entry for (category, section).
	Upsert(ctx context.Context, entry *CacheEntry) error

	// ListStale returns keys whose entries were last updated before cutoff,
	// ordered oldest first.
	ListStale(ctx context.Context, cutoff time.Time, limit int) ([]CacheKey, error)

	// Delete removes the entry for the composite key if it exists.
	Delete(ctx context.Context, category string, section Section) error

	// List returns all entries without their recommendation payloads,
	// ordered by updated_at descending.
	List(ctx context.Context) ([]CacheEntry, error)
}

// CoverResolver looks up a cover image URL for a title/author pair.
// An empty URL with a nil error means no cover was found.
type CoverResolver interface {
	Resolve(ctx context.Context, title, author string) (string, error)
}
