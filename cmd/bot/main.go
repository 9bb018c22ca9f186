package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Freeeeeet/mentor_connect_bot/internal/apiclient"
	"github.com/Freeeeeet/mentor_connect_bot/internal/app"
	"github.com/Freeeeeet/mentor_connect_bot/internal/config"
	"github.com/Freeeeeet/mentor_connect_bot/internal/controller"
	"github.com/Freeeeeet/mentor_connect_bot/internal/repository"
	"github.com/Freeeeeet/mentor_connect_bot/internal/service"
	"github.com/Freeeeeet/mentor_connect_bot/internal/session"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting mentor connect bot",
		zap.String("environment", cfg.Environment),
		zap.String("api_base_url", cfg.API.BaseURL))
	if !cfg.DotEnvLoaded {
		logger.Info("⚠️  No .env file found, using environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Bot stopped with error", zap.Error(err))
	}
	logger.Info("👋 Bot stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	pool, err := pgxpool.New(ctx, cfg.GetDBDSN())
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}
	logger.Info("✅ Connected to database")

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		return err
	}
	defer migrator.Close()

	if err := migrator.Run(ctx); err != nil {
		return err
	}

	// Сессии хранятся в Postgres, scope = Telegram ID пользователя
	store := session.NewStore(repository.NewAuthStorageRepository(pool), logger)

	api, err := apiclient.New(cfg.API.BaseURL, store, logger, apiclient.WithTimeout(cfg.API.Timeout))
	if err != nil {
		return err
	}

	authService := service.NewAuthService(api, store, logger)
	dashboardService := service.NewDashboardService(api, logger)

	botInstance, err := bot.New(cfg.TelegramToken)
	if err != nil {
		return err
	}

	botController := controller.NewBotController(botInstance, api, authService, dashboardService, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		// меню команд не критично, бот работает и без него
		logger.Warn("Bot commands menu not set", zap.Error(err))
	}

	scheduler := app.NewScheduler(store, cfg.SweepInterval, logger)
	scheduler.SetDialogPruner(botController)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	return botController.Start(ctx)
}
