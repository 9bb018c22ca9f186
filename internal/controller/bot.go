package controller

import (
	"context"
	"strings"

	"github.com/Freeeeeet/mentor_connect_bot/internal/apiclient"
	"github.com/Freeeeeet/mentor_connect_bot/internal/controller/handlers"
	"github.com/Freeeeeet/mentor_connect_bot/internal/controller/router"
	"github.com/Freeeeeet/mentor_connect_bot/internal/controller/state"
	"github.com/Freeeeeet/mentor_connect_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot          *bot.Bot
	handlers     *handlers.Handlers
	stateManager *state.Manager
	logger       *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	api *apiclient.Client,
	authService *service.AuthService,
	dashboardService *service.DashboardService,
	logger *zap.Logger,
) *BotController {
	// Создаём менеджер состояний диалогов
	stateManager := state.NewManager()

	cmdHandlers := handlers.NewHandlers(
		authService,
		dashboardService,
		api,
		stateManager,
		logger,
	)

	// После 401/403 клиент уже очистил сессию, остаётся пригласить ко входу
	api.SetUnauthorizedHandler(func(ctx context.Context, telegramID int64) {
		cmdHandlers.RedirectToLogin(ctx, botInstance, telegramID)
	})

	return &BotController{
		bot:          botInstance,
		handlers:     cmdHandlers,
		stateManager: stateManager,
		logger:       logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/login", bot.MatchTypeExact, c.handlers.HandleLogin)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/logout", bot.MatchTypeExact, c.handlers.HandleLogout)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)

	// Защищённые разделы: доступ проверяет router.Resolve
	for _, route := range router.Routes {
		c.bot.RegisterHandler(bot.HandlerTypeMessageText, route.Command, bot.MatchTypeExact, c.handlers.Protected(route))
	}

	// Текст и документы для диалогов, команды сюда не попадают
	c.bot.RegisterHandlerMatchFunc(handlers.IsDialogMessage, c.handlers.HandleMessage)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.handlers.HandleCallbackQuery)

	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Start / open your dashboard"},
		{Command: "login", Description: "🔑 Log in"},
		{Command: "logout", Description: "🚪 Log out"},
		{Command: "help", Description: "❓ All commands"},
		{Command: "cancel", Description: "✖️ Cancel the current action"},
	}
	for _, route := range router.Routes {
		commands = append(commands, models.BotCommand{
			Command:     strings.TrimPrefix(route.Command, "/"),
			Description: route.Description + " (" + string(route.Role) + ")",
		})
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})
	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set", zap.Int("commands", len(commands)))
	return nil
}

// PruneDialogs забывает брошенные диалоги
func (c *BotController) PruneDialogs() int {
	return c.stateManager.Prune()
}

// Start запускает бота и блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
