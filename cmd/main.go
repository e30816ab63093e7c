package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"gomoku_agent/internal/adapters"
	"gomoku_agent/internal/bootstrap"
	agentDelivery "gomoku_agent/internal/delivery/agent"
	gameDelivery "gomoku_agent/internal/delivery/game"
	ownMiddleware "gomoku_agent/internal/middleware"
	"gomoku_agent/internal/repository"
	agentuc "gomoku_agent/internal/usecase/agent"
	gameuc "gomoku_agent/internal/usecase/game"
)

type mainDeliveryHandler struct {
	agent *agentDelivery.AgentHandler
	game  *gameDelivery.GameHandler
}

type dataBaseAdapters struct {
	redisAdapter *adapters.AdapterRedis
	mongoAdapter *adapters.AdapterMongo
}

func main() {
	logger := NewLogger()
	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		logger.Error("Failed to setup configuration", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go handleShutdown(cancel, logger)

	databaseAdapters := initDatabaseAdapters(ctx, logger, cfg)
	defer databaseAdapters.mongoAdapter.Close(ctx)
	defer databaseAdapters.redisAdapter.Close(ctx)

	r := chi.NewRouter()
	handlers := initializeDeliveryHandlers(*cfg, logger, databaseAdapters)
	handlers.Router(r, cfg.IsLocalCors)

	port := ":" + cfg.ServerPort
	logger.Infof("Server is running on port %s", port)
	if err := http.ListenAndServe(port, r); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

func NewLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}

func (h *mainDeliveryHandler) Router(r *chi.Mux, isLocalCors bool) {
	if isLocalCors {
		r.Use(ownMiddleware.CORS)
	}
	r.Use(middleware.Logger)

	r.Post("/suggestMove", h.agent.HandleSuggestMove)
	r.Post("/newGame", h.game.HandleNewGame)
	r.Post("/move", h.game.HandleMove)
	r.Post("/getGameByPublicKey", h.game.HandleGetGame)
	r.Get("/games", h.game.HandleListGames)
	r.Get("/playGame", h.game.HandlePlayGame)
}

func initDatabaseAdapters(ctx context.Context, log *zap.SugaredLogger, cfg *bootstrap.Config) *dataBaseAdapters {
	mongoAdapter := adapters.NewAdapterMongo(cfg)
	if err := mongoAdapter.Init(ctx); err != nil {
		log.Fatal("Failed to initialize MongoDB", zap.Error(err))
	}

	redisAdapter := adapters.NewAdapterRedis(cfg)
	if err := redisAdapter.Init(ctx); err != nil {
		log.Fatal("Failed to initialize Redis", zap.Error(err))
	}

	log.Info("Database adapters initialized")
	return &dataBaseAdapters{
		redisAdapter: redisAdapter,
		mongoAdapter: mongoAdapter,
	}
}

func initializeDeliveryHandlers(
	cfg bootstrap.Config,
	log *zap.SugaredLogger,
	databaseAdapters *dataBaseAdapters,
) *mainDeliveryHandler {
	var llmStore agentuc.LlmStore
	if cfg.LlmEnabled && cfg.MistralApiKey != "" {
		llmAdapter := adapters.NewLlmAdapter(cfg.MistralApiKey, cfg.MistralModel)
		llmStore = repository.NewLlmRepository(llmAdapter, log)
		log.Infof("LLM consultation enabled with model %s", cfg.MistralModel)
	} else {
		log.Info("LLM consultation disabled, the agent plays the tactical cascade alone")
	}

	agentUseCase := agentuc.NewAgentUseCase(llmStore, log)
	gameUseCase := gameuc.NewGameUseCase(
		repository.NewGameRepository(cfg, log, databaseAdapters.redisAdapter.GetClient(), databaseAdapters.mongoAdapter.Database),
		agentUseCase,
		log,
	)

	return &mainDeliveryHandler{
		agent: agentDelivery.NewAgentHandler(log, agentUseCase),
		game:  gameDelivery.NewGameHandler(cfg, log, gameUseCase),
	}
}

func handleShutdown(cancelFunc context.CancelFunc, log *zap.SugaredLogger) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info("Received shutdown signal")
	cancelFunc()
	time.Sleep(1 * time.Second) // give connections time to close
}
