package handlers

import (
	"context"
	"strings"

	"github.com/Freeeeeet/mentor_connect_bot/internal/controller/keyboard"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Callback data
const (
	LoginStart      = "login"
	LoginRolePrefix = "login_role:" // login_role:Mentor
	Logout          = "logout"

	NewUserRolePrefix  = "newuser_role:"  // newuser_role:Mentee
	MapMentorPrefix    = "map_mentor:"    // map_mentor:2
	MapMenteePrefix    = "map_mentee:"    // map_mentee:3
	SessionsPagePrefix = "sessions_page:" // sessions_page:1

	LogMenteePrefix     = "log_mentee:"     // log_mentee:3
	LogFluencyPrefix    = "log_fluency:"    // log_fluency:7
	LogConfidencePrefix = "log_confidence:" // log_confidence:8
	TodoMenteePrefix    = "todo_mentee:"    // todo_mentee:3

	ToggleTodoPrefix = "toggle_todo:" // toggle_todo:5
)

// HandleCallbackQuery распределяет нажатия inline кнопок
func (h *Handlers) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	callback := update.CallbackQuery
	data := callback.Data

	h.logger.Info("Routing callback",
		zap.String("data", data),
		zap.Int64("user_id", callback.From.ID))

	switch {
	case data == keyboard.Noop:
		h.answerCallback(ctx, b, callback.ID, "")

	// ===== Вход и выход =====
	case data == LoginStart:
		h.answerCallback(ctx, b, callback.ID, "")
		h.startLogin(ctx, b, callbackChatID(callback), callback.From.ID)
	case strings.HasPrefix(data, LoginRolePrefix):
		h.handleLoginRoleCallback(ctx, b, callback)
	case data == Logout:
		h.answerCallback(ctx, b, callback.ID, "")
		h.logout(ctx, b, callbackChatID(callback), callback.From.ID)

	// ===== Навигация по разделам =====
	case strings.HasPrefix(data, NavPrefix):
		h.answerCallback(ctx, b, callback.ID, "")
		h.navigate(ctx, b, callbackChatID(callback), callback.From.ID, strings.TrimPrefix(data, NavPrefix))

	// ===== Админ =====
	case strings.HasPrefix(data, NewUserRolePrefix):
		h.handleCreateUserRoleCallback(ctx, b, callback)
	case strings.HasPrefix(data, MapMentorPrefix):
		h.handleMapMentorCallback(ctx, b, callback)
	case strings.HasPrefix(data, MapMenteePrefix):
		h.handleMapMenteeCallback(ctx, b, callback)
	case strings.HasPrefix(data, SessionsPagePrefix):
		h.handleSessionsPageCallback(ctx, b, callback)

	// ===== Ментор =====
	case strings.HasPrefix(data, LogMenteePrefix):
		h.handleLogMenteeCallback(ctx, b, callback)
	case strings.HasPrefix(data, LogFluencyPrefix):
		h.handleLogFluencyCallback(ctx, b, callback)
	case strings.HasPrefix(data, LogConfidencePrefix):
		h.handleLogConfidenceCallback(ctx, b, callback)
	case strings.HasPrefix(data, TodoMenteePrefix):
		h.handleTodoMenteeCallback(ctx, b, callback)

	// ===== Подопечный =====
	case strings.HasPrefix(data, ToggleTodoPrefix):
		h.handleToggleTodoCallback(ctx, b, callback)

	default:
		h.logger.Warn("Unknown callback", zap.String("data", data))
		h.answerCallback(ctx, b, callback.ID, "❓ Unknown action")
	}
}
