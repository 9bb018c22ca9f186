package handlers

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/mentor_connect_bot/internal/controller/keyboard"
	"github.com/Freeeeeet/mentor_connect_bot/internal/controller/router"
	"github.com/Freeeeeet/mentor_connect_bot/internal/controller/state"
	"github.com/Freeeeeet/mentor_connect_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Callback навигации по разделам: nav:/todos
const NavPrefix = "nav:"

// Protected обработчик команды защищённого раздела
func (h *Handlers) Protected(route router.Route) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil || update.Message.From == nil {
			return
		}
		h.navigate(ctx, b, update.Message.Chat.ID, update.Message.From.ID, route.Command)
	}
}

// navigate проверяет доступ и показывает раздел либо отправляет на вход.
// Переход в раздел прерывает незаконченный диалог.
func (h *Handlers) navigate(ctx context.Context, b *bot.Bot, chatID, telegramID int64, command string) {
	route, ok := router.Lookup(command)
	if !ok {
		h.logger.Warn("Unknown route", zap.String("command", command))
		return
	}

	user, err := h.auth.CurrentUser(ctx, telegramID)
	if err != nil {
		h.logger.Error("Failed to read session", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Something went wrong. Please try again later.")
		return
	}

	decision := router.Resolve(user, route.Role)
	h.logger.Debug("Route resolved",
		zap.Int64("telegram_id", telegramID),
		zap.String("command", command),
		zap.Stringer("decision", decision))

	if decision.Redirect() {
		h.sendLoginPrompt(ctx, b, chatID, loginReason(decision, route.Role))
		return
	}

	h.stateManager.ClearState(telegramID)
	h.views[command](ctx, b, Screen{ChatID: chatID, TelegramID: telegramID, User: user})
}

func loginReason(decision router.Decision, required model.Role) string {
	if decision == router.WrongRole {
		return fmt.Sprintf("🔒 This section is available to %s accounts only.", required)
	}
	return "🔒 Please log in to continue."
}

// sendLoginPrompt приглашение ко входу с кнопкой
func (h *Handlers) sendLoginPrompt(ctx context.Context, b *bot.Bot, chatID int64, reason string) {
	kb := keyboard.NewBuilder().
		Row(keyboard.Button("🔑 Log in", LoginStart)).
		Build()
	h.sendWithKeyboard(ctx, b, chatID, reason+"\n\nUse /login to sign in.", kb)
}

// RedirectToLogin вызывается API клиентом после 401/403: сессия уже очищена.
// Приглашение отправляется один раз: если пользователь уже на входе
// (или приглашение уже ушло, например от соседнего запроса дашборда), второе не отправляется.
func (h *Handlers) RedirectToLogin(ctx context.Context, b *bot.Bot, telegramID int64) {
	if !h.stateManager.StartUnless(telegramID, state.StateLoginPrompted, state.UserState.IsLogin) {
		return
	}
	h.logger.Info("Session rejected by backend, asking to log in again", zap.Int64("telegram_id", telegramID))
	h.sendLoginPrompt(ctx, b, telegramID, "🔒 Your session has expired or access was denied.")
}

// render показывает раздел внутри оболочки: заголовок с пользователем и навигация роли
func (h *Handlers) render(ctx context.Context, b *bot.Bot, s Screen, body string) {
	kb := keyboard.NewBuilder().AddRows(navRows(s.User.Role)).Build()
	h.sendWithKeyboard(ctx, b, s.ChatID, shellText(s.User, body), kb)
}

// shellText заголовок оболочки + содержимое раздела
func shellText(user *model.User, body string) string {
	return fmt.Sprintf("👤 %s · %s\n\n%s", user.Name, user.Role, body)
}

// navRows навигация роли по две кнопки в ряд, последней идёт выход
func navRows(role model.Role) [][]models.InlineKeyboardButton {
	var buttons []models.InlineKeyboardButton
	for _, route := range router.NavFor(role) {
		buttons = append(buttons, keyboard.Button(route.Label, NavPrefix+route.Command))
	}

	return keyboard.NewBuilder().
		Grid(2, buttons...).
		Row(keyboard.Button("🚪 Log out", Logout)).
		Rows()
}
