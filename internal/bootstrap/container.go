package bootstrap

import (
	"context"
	"log"
	"os"
	"time"

	"elecciones-rag-be/internal/config"
	"elecciones-rag-be/internal/controller"
	"elecciones-rag-be/internal/pkg/logger"
	"elecciones-rag-be/internal/repository/implementation"
	"elecciones-rag-be/internal/repository/memory"
	"elecciones-rag-be/internal/repository/redisstore"
	"elecciones-rag-be/internal/service"
	"elecciones-rag-be/internal/websocket"
	embeddingFactory "elecciones-rag-be/pkg/embedding/factory"
	llmFactory "elecciones-rag-be/pkg/llm/factory"
	"elecciones-rag-be/pkg/llm/resilience"
	"elecciones-rag-be/pkg/rag/answer"
	"elecciones-rag-be/pkg/rag/graph"
	"elecciones-rag-be/pkg/rag/intent"
	"elecciones-rag-be/pkg/rag/metadata"
	"elecciones-rag-be/pkg/rag/party"
	"elecciones-rag-be/pkg/rag/retrieval"
	"elecciones-rag-be/pkg/trace"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AgentController controller.IAgentController

	// WebSocket
	AskHandler *websocket.AskHandler

	// Background Services (Exposed for main.go to run)
	FeedbackConsumer service.IFeedbackConsumer

	// System Logger (structured, file-rotated)
	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Loggers. The structured logger handles operational events; the agent
	// pipeline keeps a plain stdout logger so workflow steps read as a trace.
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	agentLogger := log.New(os.Stdout, "", log.LstdFlags)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	embeddingProvider, err := embeddingFactory.NewEmbeddingProvider(
		cfg.Ai.EmbeddingProvider,
		cfg.Ai.EmbeddingModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.GeminiApiKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize Embedding Provider: %v", err)
	}
	sysLogger.Info("Bootstrap", "Embedding provider ready", map[string]interface{}{
		"provider": cfg.Ai.EmbeddingProvider,
		"model":    cfg.Ai.EmbeddingModel,
	})

	llmProvider, err := llmFactory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.GeminiApiKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	sysLogger.Info("Bootstrap", "LLM provider ready", map[string]interface{}{
		"provider": cfg.Ai.LLMProvider,
		"model":    cfg.Ai.LLMModel,
	})

	// Every model call goes through the guard: timeout, rate-limit retry and
	// one shared circuit breaker.
	guard := resilience.NewGuard(llmProvider, resilience.GuardConfig{
		Timeout: cfg.Resilience.LLMTimeout,
		Retry: resilience.RetryConfig{
			MaxAttempts:     cfg.Resilience.RetryMaxAttempts,
			InitialDelay:    cfg.Resilience.RetryInitialDelay,
			MaxDelay:        cfg.Resilience.RetryMaxDelay,
			ExponentialBase: cfg.Resilience.RetryExponentialBase,
		},
		Breaker: resilience.BreakerConfig{
			FailureThreshold: cfg.Resilience.BreakerFailureThreshold,
			RecoveryTimeout:  cfg.Resilience.BreakerRecoveryTimeout,
		},
		BreakerEnabled: cfg.Resilience.BreakerEnabled,
	}, agentLogger)

	// 4. Retrieval
	planChunkRepo := implementation.NewPlanChunkRepository(db)
	router := retrieval.NewRouter(planChunkRepo, embeddingProvider, retrieval.Config{
		SpecificPartyLimit: cfg.Retrieval.SpecificPartyLimit,
		GeneralPlanLimit:   cfg.Retrieval.GeneralPlanLimit,
		ComparisonPerParty: cfg.Retrieval.ComparisonPerParty,
		ComparisonMaxTotal: cfg.Retrieval.ComparisonMaxTotal,
		DefaultLimit:       cfg.Retrieval.DefaultLimit,
	}, agentLogger)

	// 5. Checkpoints: Redis when configured, in-process cache otherwise.
	var checkpoints graph.CheckpointStore
	if cfg.Redis.Enabled {
		redisRepo := redisstore.New(
			cfg.Redis.Addr,
			cfg.Redis.Password,
			cfg.Redis.DB,
			redisstore.WithTTL(cfg.Redis.CheckpointTTL),
		)
		if err := redisRepo.Ping(context.Background()); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		checkpoints = redisRepo
		sysLogger.Info("Bootstrap", "Checkpoint store: redis", map[string]interface{}{"addr": cfg.Redis.Addr})
	} else {
		checkpoints = memory.NewCheckpointRepository(cfg.Redis.CheckpointTTL, 10*time.Minute)
		sysLogger.Info("Bootstrap", "Checkpoint store: in-memory", nil)
	}

	// 6. Agent Workflow
	sink := trace.NewOtelSink(agentLogger)
	agentGraph := graph.NewGraph(
		intent.NewClassifier(guard, agentLogger),
		party.NewExtractor(guard, agentLogger),
		router,
		answer.NewGenerator(guard, cfg.Retrieval.ContextTruncateLength, agentLogger),
		metadata.Answer,
		checkpoints,
		sink,
		agentLogger,
	)

	// 7. Services
	agentService := service.NewAgentService(agentGraph, guard.Breaker())
	feedbackService := service.NewFeedbackService(pubSub, agentLogger)
	feedbackConsumer := service.NewFeedbackConsumer(pubSub, sink, agentLogger)

	return &Container{
		AgentController:  controller.NewAgentController(agentService, feedbackService),
		AskHandler:       websocket.NewAskHandler(agentService, agentLogger),
		FeedbackConsumer: feedbackConsumer,
		Logger:           sysLogger,
	}
}
