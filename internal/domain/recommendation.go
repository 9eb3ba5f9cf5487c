package domain

import (
	"time"

	"github.com/google/uuid"
)

// Section selects which recommendation flavor a request is asking for.
type Section string

const (
	// SectionAwardWinning covers the broad historical window (1950-2024).
	SectionAwardWinning Section = "award-winning"
	// SectionNew covers recently published titles (last ~2 years).
	SectionNew Section = "new"
)

// BookRecommendation is a single recommended title as returned to callers.
// All generated fields are strings on the wire because the upstream model
// authors them as free text; ImageURL is empty when no cover was found.
type BookRecommendation struct {
	Title           string   `json:"title"`
	Author          string   `json:"author"`
	PublicationYear string   `json:"publicationYear"`
	Description     string   `json:"description"`
	Themes          []string `json:"themes"`
	Rating          string   `json:"rating"`
	ImageURL        string   `json:"imageUrl,omitempty"`
	AmazonURL       string   `json:"amazonUrl"`
}

// CacheKey identifies the single cache row for a (category, section) pair.
type CacheKey struct {
	Category string
	Section  Section
}

// CacheEntry is the persisted recommendation list for one cache key.
// Rows are upserted; at most one entry exists per key.
type CacheEntry struct {
	ID              uuid.UUID
	Category        string
	Section         Section
	Recommendations []BookRecommendation
	UpdatedAt       time.Time
}
