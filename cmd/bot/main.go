package main

import (
	"context"
	"math/rand"
	"os/signal"
	"syscall"
	"time"

	"lexibot/internal/adapter"
	"lexibot/internal/adapter/explain"
	"lexibot/internal/cache"
	"lexibot/internal/config"
	"lexibot/internal/database"
	"lexibot/internal/handler"
	"lexibot/internal/logger"
	"lexibot/internal/repository"
	"lexibot/internal/server"
	"lexibot/internal/service"
	"lexibot/internal/token"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()
	appLogger := logger.Get()

	db, err := database.NewSQLXSqliteDB(cfg.DB.Path)
	if err != nil {
		appLogger.Fatal("Failed to open database", zap.Error(err), zap.String("path", cfg.DB.Path))
	}
	defer db.Close()

	if err := database.RunMigrations(db.DB, "database/migrations"); err != nil {
		appLogger.Fatal("Failed to run migrations", zap.Error(err))
	}
	appLogger.Info("Database ready", zap.String("path", cfg.DB.Path))

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err), zap.String("address", cfg.Redis.Address))
	}
	defer redisClient.Close()
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)

	explainer, err := explain.NewOpenAIExplainer(cfg.LLM)
	if err != nil {
		appLogger.Fatal("Failed to initialize explanation generator", zap.Error(err))
	}

	termRepo := repository.NewSQLXSavedTermRepository(db)
	attemptRepo := repository.NewSQLXQuizAttemptRepository(db)

	resultCache := service.NewResultCacheService(cacheAdapter, cfg.Session.ResultTTL)
	sessionService := service.NewSessionService(explainer, resultCache, termRepo)

	signer := token.NewSigner(cfg.Telegram.TokenSecret)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	quizService := service.NewQuizService(termRepo, attemptRepo, explainer, signer, cfg.Session.PageSize, rng)

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		appLogger.Fatal("Failed to connect to Telegram", zap.Error(err))
	}
	appLogger.Info("Authorized on Telegram", zap.String("username", api.Self.UserName))

	bot := handler.NewBot(api, sessionService, quizService, signer, int64(cfg.Session.Workers))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Telegram.PublicURL != "" {
		runWebhook(ctx, cfg, api, bot, appLogger)
	} else {
		runPolling(ctx, api, bot, appLogger)
	}

	appLogger.Info("Bot exited gracefully")
}

// runWebhook registers the webhook with Telegram and serves it over
// HTTP until the context is cancelled.
func runWebhook(ctx context.Context, cfg *config.Config, api *tgbotapi.BotAPI, bot *handler.Bot, appLogger *zap.Logger) {
	wh, err := tgbotapi.NewWebhook(cfg.Telegram.PublicURL + cfg.Telegram.WebhookPath)
	if err != nil {
		appLogger.Fatal("Failed to build webhook config", zap.Error(err))
	}
	if _, err := api.Request(wh); err != nil {
		appLogger.Fatal("Failed to register webhook", zap.Error(err))
	}

	srv := server.New(&cfg.Server, cfg.Telegram.WebhookPath, bot)
	go func() {
		appLogger.Info("Starting webhook server",
			zap.Int("port", cfg.Server.Port),
			zap.String("path", cfg.Telegram.WebhookPath))
		if err := srv.Listen(); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
}

// runPolling consumes updates over long polling, for deployments
// without a public URL.
func runPolling(ctx context.Context, api *tgbotapi.BotAPI, bot *handler.Bot, appLogger *zap.Logger) {
	// A leftover webhook blocks getUpdates.
	if _, err := api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		appLogger.Warn("Failed to clear webhook", zap.Error(err))
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := api.GetUpdatesChan(u)

	appLogger.Info("Polling for updates")
	bot.Run(ctx, updates)
	api.StopReceivingUpdates()
}
