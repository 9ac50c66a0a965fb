package bootstrap

import (
	"context"
	"log"

	"catalog-chat-be/internal/config"
	"catalog-chat-be/internal/controller"
	"catalog-chat-be/internal/pkg/logger"
	"catalog-chat-be/internal/repository/unitofwork"
	"catalog-chat-be/internal/service"
	"catalog-chat-be/pkg/embedding"
	"catalog-chat-be/pkg/llm/factory"
	"catalog-chat-be/pkg/rag/agent"
	"catalog-chat-be/pkg/rag/history"
	"catalog-chat-be/pkg/rag/prompt"
	"catalog-chat-be/pkg/rag/reflection"
	"catalog-chat-be/pkg/rag/retrieval"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController    controller.IChatController
	CatalogController controller.ICatalogController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Core facades exposed for shutdown handling
	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "openai" {
		embeddingProvider = embedding.NewOpenAIProvider(
			cfg.Ai.EmbeddingBaseURL,
			cfg.Ai.EmbeddingApiKey,
			cfg.Ai.EmbeddingModel,
			cfg.Ai.CallTimeout,
		)
		log.Printf("[INFO] Using Embedding Provider: OPENAI (%s)", cfg.Ai.EmbeddingModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(
			cfg.Ai.EmbeddingApiKey,
			cfg.Ai.EmbeddingModel,
			cfg.Ai.CallTimeout,
		)
		log.Printf("[INFO] Using Embedding Provider: GEMINI (%s)", cfg.Ai.EmbeddingModel)
	}

	primaryProvider, err := factory.NewProvider(factory.ProviderConfig{
		Type:    cfg.Ai.PrimaryProvider,
		BaseURL: cfg.Ai.PrimaryBaseURL,
		ApiKey:  cfg.Ai.PrimaryApiKey,
		Model:   cfg.Ai.PrimaryModel,
		Timeout: cfg.Ai.CallTimeout,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize primary LLM provider: %v", err)
	}
	secondaryProvider, err := factory.NewProvider(factory.ProviderConfig{
		Type:    cfg.Ai.SecondaryProvider,
		BaseURL: cfg.Ai.SecondaryBaseURL,
		ApiKey:  cfg.Ai.SecondaryApiKey,
		Model:   cfg.Ai.SecondaryModel,
		Timeout: cfg.Ai.CallTimeout,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize secondary LLM provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Providers: %s primary, %s failover", cfg.Ai.PrimaryModel, cfg.Ai.SecondaryModel)

	// 4. Redis (keyword vocabulary cache)
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		rdb = nil
	}

	// 5. Retrieval pipeline
	ragLogger := log.New(log.Writer(), "", log.LstdFlags)
	store := history.NewGormStore(uowFactory)
	index := retrieval.NewPgIndex(uowFactory)
	retriever := retrieval.NewHybridRetriever(index, cfg.Ai.RRFK, ragLogger)

	responder := reflection.NewResponder(
		primaryProvider,
		secondaryProvider,
		store,
		prompt.DefaultPersona,
		cfg.Ai.SemanticCacheMinSim,
		ragLogger,
	)

	guardedAgent := agent.NewGuardedAgent(
		responder,
		retriever,
		embeddingProvider,
		store,
		agent.Config{
			SimilarityThreshold: cfg.Ai.SimilarityThreshold,
			MaxHistoryItems:     cfg.Ai.MaxHistoryItems,
			TopK:                cfg.Ai.TopK,
			Persona:             prompt.DefaultPersona,
			CallTimeout:         cfg.Ai.CallTimeout,
		},
		ragLogger,
	)

	// 6. Services
	publisherService := service.NewPublisherService(cfg.Keys.EmbedVariantTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.EmbedVariantTopic,
		uowFactory,
		embeddingProvider,
	)

	keywordService := service.NewKeywordService(uowFactory, rdb, sysLogger)
	chatService := service.NewChatService(guardedAgent, keywordService, sysLogger)
	catalogService := service.NewCatalogService(uowFactory, publisherService)

	// 7. Controllers
	return &Container{
		ChatController:    controller.NewChatController(chatService, keywordService, sysLogger),
		CatalogController: controller.NewCatalogController(catalogService),

		ConsumerService: consumerService,
		Logger:          sysLogger,
	}
}
