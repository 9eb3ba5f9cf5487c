package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"book-recommender/internal/domain"
)

// RecommendationCacheRepository persists cache entries in PostgreSQL with
// upsert semantics on (category, section).
type RecommendationCacheRepository struct {
	db *pgxpool.Pool
}

func NewRecommendationCacheRepository(db *pgxpool.Pool) domain.RecommendationCacheRepository {
	return &RecommendationCacheRepository{db: db}
}

func (r *RecommendationCacheRepository) Get(ctx context.Context, category string, section domain.Section) (*domain.CacheEntry, error) {
	query := `
		SELECT id, category, section, recommendations, updated_at
		FROM recommendation_cache
		WHERE category = $1 AND section = $2
	`

	var entry domain.CacheEntry
	var sectionValue string
	var recsBytes []byte

	err := r.db.QueryRow(ctx, query, category, string(section)).Scan(
		&entry.ID,
		&entry.Category,
		&sectionValue,
		&recsBytes,
		&entry.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}
	entry.Section = domain.Section(sectionValue)

	if err := json.Unmarshal(recsBytes, &entry.Recommendations); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached recommendations: %w", err)
	}

	return &entry, nil
}

func (r *RecommendationCacheRepository) Upsert(ctx context.Context, entry *domain.CacheEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	recsBytes, err := json.Marshal(entry.Recommendations)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	query := `
		INSERT INTO recommendation_cache (id, category, section, recommendations, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (category, section)
		DO UPDATE SET recommendations = EXCLUDED.recommendations, updated_at = EXCLUDED.updated_at
	`

	_, err = r.db.Exec(ctx, query,
		entry.ID,
		entry.Category,
		string(entry.Section),
		recsBytes,
		entry.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert cache entry: %w", err)
	}
	return nil
}

func (r *RecommendationCacheRepository) ListStale(ctx context.Context, cutoff time.Time, limit int) ([]domain.CacheKey, error) {
	query := `
		SELECT category, section
		FROM recommendation_cache
		WHERE updated_at < $1
		ORDER BY updated_at ASC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale cache entries: %w", err)
	}
	defer rows.Close()

	var keys []domain.CacheKey
	for rows.Next() {
		var key domain.CacheKey
		var section string
		if err := rows.Scan(&key.Category, &section); err != nil {
			return nil, fmt.Errorf("failed to scan cache key: %w", err)
		}
		key.Section = domain.Section(section)
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cache keys: %w", err)
	}
	return keys, nil
}

func (r *RecommendationCacheRepository) Delete(ctx context.Context, category string, section domain.Section) error {
	query := `DELETE FROM recommendation_cache WHERE category = $1 AND section = $2`
	if _, err := r.db.Exec(ctx, query, category, string(section)); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

func (r *RecommendationCacheRepository) List(ctx context.Context) ([]domain.CacheEntry, error) {
	query := `
		SELECT id, category, section, updated_at
		FROM recommendation_cache
		ORDER BY updated_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list cache entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.CacheEntry
	for rows.Next() {
		var entry domain.CacheEntry
		var section string
		if err := rows.Scan(&entry.ID, &entry.Category, &section, &entry.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cache entry: %w", err)
		}
		entry.Section = domain.Section(section)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cache entries: %w", err)
	}
	return entries, nil
}
