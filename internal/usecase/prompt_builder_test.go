package usecase_test

import (
	"testing"

	"book-recommender/internal/domain"
	"book-recommender/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func TestSectionPromptBuilder_Build(t *testing.T) {
	builder := usecase.NewSectionPromptBuilder()

	t.Run("Award-winning section uses the historical window", func(t *testing.T) {
		messages, err := builder.Build(usecase.PromptInput{
			Section:  domain.SectionAwardWinning,
			Category: "science-fiction",
			Count:    15,
		})
		assert.NoError(t, err)
		assert.Len(t, messages, 2)
		assert.Equal(t, "system", messages[0].Role)
		assert.Contains(t, messages[0].Content, "15 award-winning science-fiction books")
		assert.Contains(t, messages[0].Content, "between 1950 and 2024")
		assert.Equal(t, "user", messages[1].Role)
		assert.Contains(t, messages[1].Content, "science-fiction")
	})

	t.Run("New section uses the recent window", func(t *testing.T) {
		messages, err := builder.Build(usecase.PromptInput{
			Section:  domain.SectionNew,
			Category: "mystery",
			Count:    15,
		})
		assert.NoError(t, err)
		assert.Contains(t, messages[0].Content, "recently published mystery books")
		assert.Contains(t, messages[0].Content, "between 2022 and 2024")
	})

	t.Run("Prompt states the structured output contract", func(t *testing.T) {
		messages, err := builder.Build(usecase.PromptInput{
			Section:  domain.SectionAwardWinning,
			Category: "history",
			Count:    15,
		})
		assert.NoError(t, err)
		for _, field := range []string{"title", "author", "publicationYear", "description", "themes", "rating"} {
			assert.Contains(t, messages[0].Content, "\""+field+"\"")
		}
		assert.Contains(t, messages[0].Content, "JSON array")
	})

	t.Run("Zero count falls back to 15", func(t *testing.T) {
		messages, err := builder.Build(usecase.PromptInput{
			Section:  domain.SectionNew,
			Category: "poetry",
		})
		assert.NoError(t, err)
		assert.Contains(t, messages[0].Content, "exactly 15")
	})

	t.Run("Unknown section flows through to the broad template", func(t *testing.T) {
		messages, err := builder.Build(usecase.PromptInput{
			Section:  domain.Section("surprise-me"),
			Category: "essays",
			Count:    15,
		})
		assert.NoError(t, err)
		assert.Contains(t, messages[0].Content, "award-winning essays books")
	})
}
