package di

import (
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"book-recommender/internal/adapter/googlebooks"
	"book-recommender/internal/adapter/openai"
	"book-recommender/internal/adapter/repository"
	"book-recommender/internal/domain"
	"book-recommender/internal/infra/config"
	"book-recommender/internal/usecase"
	"book-recommender/internal/worker"
)

// ApplicationComponents holds all wired dependencies for the application.
type ApplicationComponents struct {
	// Repositories
	CacheRepo domain.RecommendationCacheRepository

	// Policies
	Freshness   domain.FreshnessPolicy
	LinkBuilder domain.RetailLinkBuilder

	// Adapters
	LLMClient     domain.LLMClient
	CoverResolver domain.CoverResolver

	// Usecases
	GenerateUsecase  usecase.GenerateRecommendationsUsecase
	RecommendUsecase usecase.RecommendBooksUsecase

	// Worker (started by the caller when enabled)
	Refresher *worker.CacheRefresher
}

// NewApplicationComponents wires all dependencies from config and database pool.
func NewApplicationComponents(cfg *config.Config, pool *pgxpool.Pool, log *slog.Logger) *ApplicationComponents {
	cacheRepo := repository.NewRecommendationCacheRepository(pool)

	llmClient := openai.NewChatClient(
		cfg.LLMAPIURL,
		cfg.LLMAPIKey,
		cfg.LLMModel,
		time.Duration(cfg.LLMTimeoutSeconds)*time.Second,
		log,
	)
	coverResolver := googlebooks.NewClient(
		cfg.BooksAPIURL,
		cfg.BooksAPIKey,
		time.Duration(cfg.BooksTimeoutSeconds)*time.Second,
		log,
	)

	freshness := domain.NewFreshnessPolicy(time.Duration(cfg.CacheTTLHours) * time.Hour)
	linkBuilder := domain.NewRetailLinkBuilder(cfg.AffiliateTag)

	generateUC := usecase.NewGenerateRecommendationsUsecase(
		usecase.NewSectionPromptBuilder(),
		llmClient,
		usecase.NewOutputParser(),
		cfg.RecommendationCount,
		cfg.LLMTemperature,
		log,
	)
	recommendUC := usecase.NewRecommendBooksUsecase(
		cacheRepo,
		freshness,
		generateUC,
		coverResolver,
		linkBuilder,
		log,
	)

	refresher := worker.NewCacheRefresher(
		cacheRepo,
		recommendUC,
		freshness,
		time.Duration(cfg.RefreshIntervalMin)*time.Minute,
		log,
	)

	return &ApplicationComponents{
		CacheRepo:        cacheRepo,
		Freshness:        freshness,
		LinkBuilder:      linkBuilder,
		LLMClient:        llmClient,
		CoverResolver:    coverResolver,
		GenerateUsecase:  generateUC,
		RecommendUsecase: recommendUC,
		Refresher:        refresher,
	}
}
