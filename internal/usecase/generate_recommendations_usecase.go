package usecase

import (
	"context"
	"log/slog"
	"time"

	"book-recommender/internal/domain"
)

// GenerateRecommendationsInput defines the input for one generation run.
type GenerateRecommendationsInput struct {
	Section  domain.Section
	Category string
}

// GenerateRecommendationsUsecase produces a fresh recommendation list from
// the generative API. It does not touch the cache or enrich results.
type GenerateRecommendationsUsecase interface {
	Execute(ctx context.Context, input GenerateRecommendationsInput) ([]domain.BookRecommendation, error)
}

type generateRecommendationsUsecase struct {
	promptBuilder PromptBuilder
	llmClient     domain.LLMClient
	parser        OutputParser
	count         int
	temperature   float64
	logger        *slog.Logger
}

// NewGenerateRecommendationsUsecase creates a generation usecase.
func NewGenerateRecommendationsUsecase(
	promptBuilder PromptBuilder,
	llmClient domain.LLMClient,
	parser OutputParser,
	count int,
	temperature float64,
	logger *slog.Logger,
) GenerateRecommendationsUsecase {
	return &generateRecommendationsUsecase{
		promptBuilder: promptBuilder,
		llmClient:     llmClient,
		parser:        parser,
		count:         count,
		temperature:   temperature,
		logger:        logger,
	}
}

// Execute builds the section prompt, requests a single non-streaming
// completion, and parses the result. Generation errors are returned to the
// caller unmodified; there is no retry.
func (u *generateRecommendationsUsecase) Execute(ctx context.Context, input GenerateRecommendationsInput) ([]domain.BookRecommendation, error) {
	messages, err := u.promptBuilder.Build(PromptInput{
		Section:  input.Section,
		Category: input.Category,
		Count:    u.count,
	})
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := u.llmClient.Chat(ctx, messages, u.temperature)
	if err != nil {
		u.logger.Error("generation_failed",
			slog.String("section", string(input.Section)),
			slog.String("category", input.Category),
			slog.String("error", err.Error()))
		return nil, err
	}

	recs, err := u.parser.Parse(resp.Text)
	if err != nil {
		u.logger.Error("generation_parse_failed",
			slog.String("section", string(input.Section)),
			slog.String("category", input.Category),
			slog.String("model", u.llmClient.Version()),
			slog.String("error", err.Error()))
		return nil, err
	}

	u.logger.Info("generation_completed",
		slog.String("section", string(input.Section)),
		slog.String("category", input.Category),
		slog.Int("count", len(recs)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))

	return recs, nil
}
