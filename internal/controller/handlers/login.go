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

// HandleLogin обрабатывает команду /login
func (h *Handlers) HandleLogin(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	h.startLogin(ctx, b, update.Message.Chat.ID, update.Message.From.ID)
}

func (h *Handlers) startLogin(ctx context.Context, b *bot.Bot, chatID, telegramID int64) {
	h.stateManager.Start(telegramID, state.StateLoginName)
	h.sendMessage(ctx, b, chatID,
		"🔑 Log in\n\n"+
			"Step 1 of 3: Enter your name\n\n"+
			"To cancel use /cancel")
}

func (h *Handlers) handleLoginName(ctx context.Context, b *bot.Bot, msg *models.Message, name string) {
	if name == "" {
		h.sendError(ctx, b, msg.Chat.ID, "❌ Name cannot be empty. Try again:")
		return
	}

	telegramID := msg.From.ID
	h.stateManager.SetData(telegramID, "name", name)
	h.stateManager.SetState(telegramID, state.StateLoginRole)

	h.sendWithKeyboard(ctx, b, msg.Chat.ID, "Step 2 of 3: Choose your role", roleKeyboard(LoginRolePrefix, model.Roles))
}

// roleKeyboard кнопки выбора роли
func roleKeyboard(prefix string, roles []model.Role) *models.InlineKeyboardMarkup {
	buttons := make([]models.InlineKeyboardButton, 0, len(roles))
	for _, role := range roles {
		buttons = append(buttons, keyboard.Button(string(role), prefix+string(role)))
	}
	return keyboard.NewBuilder().Row(buttons...).Build()
}

// handleLoginRoleText роль можно и напечатать вместо кнопки
func (h *Handlers) handleLoginRoleText(ctx context.Context, b *bot.Bot, msg *models.Message, text string) {
	role, err := model.ParseRole(text)
	if err != nil {
		h.sendWithKeyboard(ctx, b, msg.Chat.ID, "👆 Please choose a role:", roleKeyboard(LoginRolePrefix, model.Roles))
		return
	}
	h.chooseLoginRole(ctx, b, msg.Chat.ID, msg.From.ID, role)
}

func (h *Handlers) handleLoginRoleCallback(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	h.answerCallback(ctx, b, callback.ID, "")

	if h.stateManager.GetState(callback.From.ID) != state.StateLoginRole {
		h.sendMessage(ctx, b, callbackChatID(callback), "⌛ This login attempt has expired. Use /login to start again.")
		return
	}

	role, err := parseRoleCallback(callback.Data, LoginRolePrefix)
	if err != nil {
		h.logger.Warn("Bad login role callback", zap.String("data", callback.Data), zap.Error(err))
		h.sendError(ctx, b, callbackChatID(callback), ErrorMessage(err))
		return
	}
	h.chooseLoginRole(ctx, b, callbackChatID(callback), callback.From.ID, role)
}

// parseRoleCallback "login_role:Mentor" -> RoleMentor
func parseRoleCallback(data, prefix string) (model.Role, error) {
	arg, err := callbackArg(data, prefix)
	if err != nil {
		return "", err
	}
	role, err := model.ParseRole(arg)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return role, nil
}

func (h *Handlers) chooseLoginRole(ctx context.Context, b *bot.Bot, chatID, telegramID int64, role model.Role) {
	h.stateManager.SetData(telegramID, "role", role)
	h.stateManager.SetState(telegramID, state.StateLoginPassword)

	h.sendMessage(ctx, b, chatID, fmt.Sprintf(
		"Role: %s\n\n"+
			"Step 3 of 3: Enter your password\n"+
			"🔐 The message with your password will be deleted.", role))
}

func (h *Handlers) handleLoginPassword(ctx context.Context, b *bot.Bot, msg *models.Message, password string) {
	chatID := msg.Chat.ID
	telegramID := msg.From.ID

	// пароль не должен оставаться в истории чата
	h.deleteMessage(ctx, b, chatID, msg.ID)

	name, okName := state.Value[string](h.stateManager, telegramID, "name")
	role, okRole := state.Value[model.Role](h.stateManager, telegramID, "role")
	if !okName || !okRole {
		h.stateManager.ClearState(telegramID)
		h.sendError(ctx, b, chatID, "⌛ This login attempt has expired. Use /login to start again.")
		return
	}

	// состояние очищается после запроса: хук 401 видит, что пользователь на входе
	user, err := h.auth.Login(ctx, telegramID, name, role, password)
	h.stateManager.ClearState(telegramID)
	if err != nil {
		h.sendError(ctx, b, chatID, ErrorMessage(err)+"\n\nUse /login to try again.")
		return
	}

	h.sendMessage(ctx, b, chatID, fmt.Sprintf("✅ Welcome, %s!", user.Name))
	h.navigate(ctx, b, chatID, telegramID, router.HomeFor(user.Role))
}
