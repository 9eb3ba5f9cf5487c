package usecase

import (
	"encoding/json"
	"fmt"
	"strings"

	"book-recommender/internal/domain"
)

// OutputParser turns raw LLM output into normalized recommendations.
// The upstream output is free-text JSON with no schema guarantee, so each
// item is coerced defensively instead of rejected.
type OutputParser struct{}

// NewOutputParser creates a parser instance (currently stateless).
func NewOutputParser() OutputParser {
	return OutputParser{}
}

// Parse decodes the JSON array emitted by the LLM and normalizes every item.
func (p OutputParser) Parse(raw string) ([]domain.BookRecommendation, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, &domain.UpstreamGenerationError{Message: "invalid response format"}
	}

	var items []map[string]any
	if err := json.Unmarshal([]byte(trimmed), &items); err != nil {
		return nil, &domain.MalformedGenerationError{Cause: err}
	}

	recs := make([]domain.BookRecommendation, 0, len(items))
	for _, item := range items {
		recs = append(recs, domain.BookRecommendation{
			Title:           stringField(item, "title"),
			Author:          stringField(item, "author"),
			PublicationYear: stringField(item, "publicationYear"),
			Description:     stringField(item, "description"),
			Themes:          themesField(item),
			Rating:          stringField(item, "rating"),
		})
	}
	return recs, nil
}

// stringField stringifies the named field; missing or null values become "".
func stringField(item map[string]any, key string) string {
	value, ok := item[key]
	if !ok || value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case float64:
		// JSON numbers decode to float64; years come back as integers.
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// themesField coerces the themes array; anything that is not an array
// becomes an empty slice, non-string elements are stringified.
func themesField(item map[string]any) []string {
	raw, ok := item["themes"].([]any)
	if !ok {
		return []string{}
	}
	themes := make([]string, 0, len(raw))
	for _, t := range raw {
		if s, ok := t.(string); ok {
			themes = append(themes, s)
			continue
		}
		themes = append(themes, fmt.Sprintf("%v", t))
	}
	return themes
}
