package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/mentor_connect_bot/internal/controller/keyboard"
	"github.com/Freeeeeet/mentor_connect_bot/internal/controller/router"
	"github.com/Freeeeeet/mentor_connect_bot/internal/controller/state"
	"github.com/Freeeeeet/mentor_connect_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	chatID := update.Message.Chat.ID
	telegramID := update.Message.From.ID

	user, err := h.auth.CurrentUser(ctx, telegramID)
	if err != nil {
		h.logger.Error("Failed to read session", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Something went wrong. Please try again later.")
		return
	}

	if user != nil {
		h.navigate(ctx, b, chatID, telegramID, router.HomeFor(user.Role))
		return
	}

	welcomeText := fmt.Sprintf(
		"👋 Hi, %s!\n\n"+
			"Welcome to Mentor Connect: mentors, mentees and admins in one place.\n\n"+
			"Use /login to sign in with the account your admin created for you.\n"+
			"/help shows all commands.",
		update.Message.From.FirstName,
	)

	kb := keyboard.NewBuilder().
		Row(keyboard.Button("🔑 Log in", LoginStart)).
		Build()
	h.sendWithKeyboard(ctx, b, chatID, welcomeText, kb)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText())
}

// helpText справка, собранная из таблицы разделов
func helpText() string {
	var sb strings.Builder
	sb.WriteString("📚 Commands\n\n")
	sb.WriteString("/start - Start or open your dashboard\n")
	sb.WriteString("/login - Log in\n")
	sb.WriteString("/logout - Log out\n")
	sb.WriteString("/cancel - Cancel the current action\n")
	sb.WriteString("/help - Show this help\n")

	for _, role := range model.Roles {
		fmt.Fprintf(&sb, "\n%s:\n", role)
		for _, route := range router.NavFor(role) {
			fmt.Fprintf(&sb, "%s - %s\n", route.Command, route.Description)
		}
	}
	return sb.String()
}

// HandleLogout обрабатывает команду /logout
func (h *Handlers) HandleLogout(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	h.logout(ctx, b, update.Message.Chat.ID, update.Message.From.ID)
}

func (h *Handlers) logout(ctx context.Context, b *bot.Bot, chatID, telegramID int64) {
	h.stateManager.ClearState(telegramID)

	if err := h.auth.Logout(ctx, telegramID); err != nil {
		h.logger.Error("Failed to clear session", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Could not log out. Please try again.")
		return
	}

	h.sendLoginPrompt(ctx, b, chatID, "👋 You have been logged out.")
}

// HandleCancel обрабатывает команду /cancel - отмена текущего диалога
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	telegramID := update.Message.From.ID
	if h.stateManager.GetState(telegramID) == state.StateNone {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "ℹ️ Nothing to cancel.")
		return
	}

	h.stateManager.ClearState(telegramID)
	h.sendMessage(ctx, b, update.Message.Chat.ID, "✅ Cancelled.\n\nUse /help to see available commands.")
}

// IsDialogMessage подходит ли сообщение под HandleMessage: всё, кроме команд
func IsDialogMessage(update *models.Update) bool {
	if update.Message == nil || update.Message.From == nil {
		return false
	}
	if update.Message.Document != nil {
		return true
	}
	return update.Message.Text != "" && !strings.HasPrefix(update.Message.Text, "/")
}

// HandleMessage обрабатывает текст и документы в зависимости от шага диалога
func (h *Handlers) HandleMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	telegramID := msg.From.ID
	current := h.stateManager.GetState(telegramID)

	h.logger.Debug("Dialog message",
		zap.Int64("telegram_id", telegramID),
		zap.String("state", string(current)),
		zap.Bool("document", msg.Document != nil))

	if msg.Document != nil {
		h.handleDocument(ctx, b, msg, current)
		return
	}

	text := strings.TrimSpace(msg.Text)

	switch current {
	case state.StateLoginPrompted:
		h.sendLoginPrompt(ctx, b, msg.Chat.ID, "🔒 Your session has ended.")
	case state.StateLoginName:
		h.handleLoginName(ctx, b, msg, text)
	case state.StateLoginRole:
		h.handleLoginRoleText(ctx, b, msg, text)
	case state.StateLoginPassword:
		h.handleLoginPassword(ctx, b, msg, text)

	case state.StateCreateUserName:
		h.handleCreateUserName(ctx, b, msg, text)
	case state.StateCreateUserPassword:
		h.handleCreateUserPassword(ctx, b, msg, text)
	case state.StateUploadTitle:
		h.handleUploadTitle(ctx, b, msg, text)
	case state.StateUploadFile:
		h.sendMessage(ctx, b, msg.Chat.ID, "📎 Please send the PDF as a document, or /cancel.")

	case state.StateSetMeetLink:
		h.handleSetMeetLink(ctx, b, msg, text)
	case state.StateLogSessionNotes:
		h.handleLogSessionNotes(ctx, b, msg, text)
	case state.StateLogSessionNextSteps:
		h.handleLogSessionNextSteps(ctx, b, msg, text)
	case state.StateAssignTodoTitle:
		h.handleAssignTodoTitle(ctx, b, msg, text)
	case state.StateAssignTodoDescription:
		h.handleAssignTodoDescription(ctx, b, msg, text)
	case state.StateAssignTodoDueDate:
		h.handleAssignTodoDueDate(ctx, b, msg, text)

	case state.StateCreateUserRole, state.StateMapMentor, state.StateMapMentee,
		state.StateLogSessionMentee, state.StateLogSessionFluency, state.StateLogSessionConfidence,
		state.StateAssignTodoMentee:
		h.sendMessage(ctx, b, msg.Chat.ID, "👆 Please choose one of the buttons above, or /cancel.")

	default:
		h.sendMessage(ctx, b, msg.Chat.ID, "🤔 I don't understand. Use /help to see available commands.")
	}
}

// requireScreen повторно проверяет доступ на шагах диалога и в callback:
// сессия могла закончиться после начала диалога
func (h *Handlers) requireScreen(ctx context.Context, b *bot.Bot, chatID, telegramID int64, role model.Role) (Screen, bool) {
	user, err := h.auth.CurrentUser(ctx, telegramID)
	if err != nil {
		h.logger.Error("Failed to read session", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Something went wrong. Please try again later.")
		return Screen{}, false
	}

	decision := router.Resolve(user, role)
	if decision.Redirect() {
		h.stateManager.ClearState(telegramID)
		h.sendLoginPrompt(ctx, b, chatID, loginReason(decision, role))
		return Screen{}, false
	}

	return Screen{ChatID: chatID, TelegramID: telegramID, User: user}, true
}
