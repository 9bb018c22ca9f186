package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Freeeeeet/mentor_connect_bot/internal/apiclient"
	"github.com/Freeeeeet/mentor_connect_bot/internal/controller/keyboard"
	"github.com/Freeeeeet/mentor_connect_bot/internal/controller/state"
	"github.com/Freeeeeet/mentor_connect_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ClearValue ответ "-" очищает значение
const ClearValue = "-"

func (h *Handlers) showMentorDashboard(ctx context.Context, b *bot.Bot, s Screen) {
	d := h.dashboards.Mentor(ctx, s.TelegramID, s.User)
	if anyUnauthorized(d.Mentees.Err, d.MeetLink.Err) {
		return
	}

	body := fmt.Sprintf(
		"📊 Mentor Dashboard\n\n"+
			"🎥 Meet link: %s\n\n"+
			"👥 Mentees: %s",
		section(d.MeetLink.Err, func() string { return formatMeetLink(d.MeetLink.Data) }),
		section(d.Mentees.Err, func() string {
			return fmt.Sprintf("%d\n%s", len(d.Mentees.Data), formatUsers(d.Mentees.Data, "No mentees assigned yet."))
		}),
	)
	h.render(ctx, b, s, body)
}

// ===== Ссылка на встречу =====

func (h *Handlers) showMeetLink(ctx context.Context, b *bot.Bot, s Screen) {
	link, err := h.conn(s).GetMeetLink(ctx, s.User.ID)
	if err != nil {
		h.reportError(ctx, b, s.ChatID, err)
		return
	}

	h.stateManager.Start(s.TelegramID, state.StateSetMeetLink)
	h.render(ctx, b, s, fmt.Sprintf(
		"🎥 Your meet link: %s\n\n"+
			"Send a new link (http or https) to update it, %q to remove it, or /cancel.",
		formatMeetLink(link), ClearValue))
}

func (h *Handlers) handleSetMeetLink(ctx context.Context, b *bot.Bot, msg *models.Message, text string) {
	if text == ClearValue {
		text = ""
	}

	// неверную ссылку можно поправить, не выходя из диалога
	if err := apiclient.ValidateMeetLink(text); err != nil {
		h.sendError(ctx, b, msg.Chat.ID, ErrorMessage(err)+"\n\nTry again or /cancel:")
		return
	}

	s, ok := h.requireScreen(ctx, b, msg.Chat.ID, msg.From.ID, model.RoleMentor)
	if !ok {
		return
	}
	h.stateManager.ClearState(s.TelegramID)

	link, err := h.conn(s).SetMeetLink(ctx, s.User.ID, text)
	if err != nil {
		h.reportError(ctx, b, s.ChatID, err)
		return
	}

	if link == "" {
		h.render(ctx, b, s, "✅ Meet link removed")
		return
	}
	h.render(ctx, b, s, "✅ Meet link updated: "+link)
}

func (h *Handlers) showAssignedMentees(ctx context.Context, b *bot.Bot, s Screen) {
	mentees, err := h.conn(s).ListAssignedMentees(ctx, s.User.ID)
	if err != nil {
		h.reportError(ctx, b, s.ChatID, err)
		return
	}
	h.render(ctx, b, s, fmt.Sprintf("👥 My Mentees (%d)\n\n%s", len(mentees), formatUsers(mentees, "No mentees assigned yet.")))
}

// menteePicker кнопки выбора подопечного; false если подопечных нет
func (h *Handlers) menteePicker(ctx context.Context, b *bot.Bot, s Screen, prefix string) (*models.InlineKeyboardMarkup, map[string]string, bool) {
	mentees, err := h.conn(s).ListAssignedMentees(ctx, s.User.ID)
	if err != nil {
		h.reportError(ctx, b, s.ChatID, err)
		return nil, nil, false
	}
	if len(mentees) == 0 {
		h.render(ctx, b, s, "👥 No mentees assigned yet. Ask an admin to map mentees to you.")
		return nil, nil, false
	}

	names := make(map[string]string, len(mentees))
	buttons := make([]models.InlineKeyboardButton, 0, len(mentees))
	for _, m := range mentees {
		names[m.ID] = m.Name
		buttons = append(buttons, keyboard.Button("🧑‍🎓 "+m.Name, prefix+m.ID))
	}
	return keyboard.NewBuilder().Grid(2, buttons...).Build(), names, true
}

// pickMentee общий шаг выбора подопечного в диалогах ментора
func (h *Handlers) pickMentee(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, prefix string, expected state.UserState) (Screen, string, bool) {
	h.answerCallback(ctx, b, callback.ID, "")

	s, ok := h.requireScreen(ctx, b, callbackChatID(callback), callback.From.ID, model.RoleMentor)
	if !ok {
		return Screen{}, "", false
	}
	if h.stateManager.GetState(s.TelegramID) != expected {
		h.sendMessage(ctx, b, s.ChatID, "⌛ This form has expired. Please start again.")
		return Screen{}, "", false
	}

	menteeID, err := callbackArg(callback.Data, prefix)
	if err != nil {
		h.sendError(ctx, b, s.ChatID, ErrorMessage(err))
		return Screen{}, "", false
	}

	h.stateManager.SetData(s.TelegramID, "mentee_id", menteeID)
	return s, menteeID, true
}

func (h *Handlers) menteeName(telegramID int64, menteeID string) string {
	names, _ := state.Value[map[string]string](h.stateManager, telegramID, "mentee_names")
	if name, ok := names[menteeID]; ok {
		return name
	}
	return "#" + menteeID
}

// ===== Запись о встрече =====

func (h *Handlers) startLogSession(ctx context.Context, b *bot.Bot, s Screen) {
	kb, names, ok := h.menteePicker(ctx, b, s, LogMenteePrefix)
	if !ok {
		return
	}

	h.stateManager.Start(s.TelegramID, state.StateLogSessionMentee)
	h.stateManager.SetData(s.TelegramID, "mentee_names", names)
	h.sendWithKeyboard(ctx, b, s.ChatID,
		"📝 Log session\n\n"+
			"Step 1 of 5: Choose the mentee\n\n"+
			"To cancel use /cancel", kb)
}

// scoreKeyboard оценки 1..10 по пять в ряд
func scoreKeyboard(prefix string) *models.InlineKeyboardMarkup {
	buttons := make([]models.InlineKeyboardButton, 0, model.MaxScore)
	for score := model.MinScore; score <= model.MaxScore; score++ {
		buttons = append(buttons, keyboard.Button(strconv.Itoa(score), prefix+strconv.Itoa(score)))
	}
	return keyboard.NewBuilder().Grid(5, buttons...).Build()
}

func (h *Handlers) handleLogMenteeCallback(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	s, menteeID, ok := h.pickMentee(ctx, b, callback, LogMenteePrefix, state.StateLogSessionMentee)
	if !ok {
		return
	}

	h.stateManager.SetState(s.TelegramID, state.StateLogSessionFluency)
	h.editOrSend(ctx, b, callback, fmt.Sprintf(
		"Mentee: %s\n\nStep 2 of 5: Fluency score (%d-%d)",
		h.menteeName(s.TelegramID, menteeID), model.MinScore, model.MaxScore), scoreKeyboard(LogFluencyPrefix))
}

// scoreStep общий шаг выбора оценки
func (h *Handlers) scoreStep(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, prefix string, expected state.UserState) (Screen, int, bool) {
	h.answerCallback(ctx, b, callback.ID, "")

	s, ok := h.requireScreen(ctx, b, callbackChatID(callback), callback.From.ID, model.RoleMentor)
	if !ok {
		return Screen{}, 0, false
	}
	if h.stateManager.GetState(s.TelegramID) != expected {
		h.sendMessage(ctx, b, s.ChatID, "⌛ This form has expired. Use /logsession to start again.")
		return Screen{}, 0, false
	}

	score, err := callbackInt(callback.Data, prefix)
	if err == nil && !model.ValidScore(score) {
		err = fmt.Errorf("%w: score %d", ErrInvalidFormat, score)
	}
	if err != nil {
		h.sendError(ctx, b, s.ChatID, ErrorMessage(err))
		return Screen{}, 0, false
	}
	return s, score, true
}

func (h *Handlers) handleLogFluencyCallback(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	s, score, ok := h.scoreStep(ctx, b, callback, LogFluencyPrefix, state.StateLogSessionFluency)
	if !ok {
		return
	}

	h.stateManager.SetData(s.TelegramID, "fluency", score)
	h.stateManager.SetState(s.TelegramID, state.StateLogSessionConfidence)
	h.editOrSend(ctx, b, callback, fmt.Sprintf(
		"🗣 Fluency: %d\n\nStep 3 of 5: Confidence score (%d-%d)",
		score, model.MinScore, model.MaxScore), scoreKeyboard(LogConfidencePrefix))
}

func (h *Handlers) handleLogConfidenceCallback(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	s, score, ok := h.scoreStep(ctx, b, callback, LogConfidencePrefix, state.StateLogSessionConfidence)
	if !ok {
		return
	}

	h.stateManager.SetData(s.TelegramID, "confidence", score)
	h.stateManager.SetState(s.TelegramID, state.StateLogSessionNotes)
	h.editOrSend(ctx, b, callback, fmt.Sprintf("💪 Confidence: %d\n\nStep 4 of 5: Enter session notes", score), nil)
}

func (h *Handlers) handleLogSessionNotes(ctx context.Context, b *bot.Bot, msg *models.Message, notes string) {
	if notes == "" {
		h.sendError(ctx, b, msg.Chat.ID, "❌ Notes cannot be empty. Try again:")
		return
	}

	h.stateManager.SetData(msg.From.ID, "notes", notes)
	h.stateManager.SetState(msg.From.ID, state.StateLogSessionNextSteps)
	h.sendMessage(ctx, b, msg.Chat.ID, "Step 5 of 5: Enter next steps")
}

func (h *Handlers) handleLogSessionNextSteps(ctx context.Context, b *bot.Bot, msg *models.Message, nextSteps string) {
	if nextSteps == "" {
		h.sendError(ctx, b, msg.Chat.ID, "❌ Next steps cannot be empty. Try again:")
		return
	}

	s, ok := h.requireScreen(ctx, b, msg.Chat.ID, msg.From.ID, model.RoleMentor)
	if !ok {
		return
	}

	rec := model.NewSessionRecord{NextSteps: nextSteps}
	rec.MenteeID, _ = state.Value[string](h.stateManager, s.TelegramID, "mentee_id")
	rec.FluencyScore, _ = state.Value[int](h.stateManager, s.TelegramID, "fluency")
	rec.ConfidenceScore, _ = state.Value[int](h.stateManager, s.TelegramID, "confidence")
	rec.Notes, _ = state.Value[string](h.stateManager, s.TelegramID, "notes")
	h.stateManager.ClearState(s.TelegramID)

	saved, err := h.conn(s).LogSession(ctx, rec)
	if err != nil {
		h.reportError(ctx, b, s.ChatID, err)
		return
	}

	h.logger.Info("Session logged",
		zap.Int64("telegram_id", s.TelegramID),
		zap.String("session_id", saved.ID),
		zap.String("mentee_id", rec.MenteeID))
	h.render(ctx, b, s, "✅ Session logged successfully\n\n"+formatSessionRecord(saved))
}

// ===== Задача для подопечного =====

func (h *Handlers) startAssignTodo(ctx context.Context, b *bot.Bot, s Screen) {
	kb, names, ok := h.menteePicker(ctx, b, s, TodoMenteePrefix)
	if !ok {
		return
	}

	h.stateManager.Start(s.TelegramID, state.StateAssignTodoMentee)
	h.stateManager.SetData(s.TelegramID, "mentee_names", names)
	h.sendWithKeyboard(ctx, b, s.ChatID,
		"✅ Assign todo\n\n"+
			"Step 1 of 4: Choose the mentee\n\n"+
			"To cancel use /cancel", kb)
}

func (h *Handlers) handleTodoMenteeCallback(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	s, menteeID, ok := h.pickMentee(ctx, b, callback, TodoMenteePrefix, state.StateAssignTodoMentee)
	if !ok {
		return
	}

	h.stateManager.SetState(s.TelegramID, state.StateAssignTodoTitle)
	h.editOrSend(ctx, b, callback, fmt.Sprintf(
		"Mentee: %s\n\nStep 2 of 4: Enter the task title", h.menteeName(s.TelegramID, menteeID)), nil)
}

func (h *Handlers) handleAssignTodoTitle(ctx context.Context, b *bot.Bot, msg *models.Message, title string) {
	if title == "" {
		h.sendError(ctx, b, msg.Chat.ID, "❌ Title cannot be empty. Try again:")
		return
	}

	h.stateManager.SetData(msg.From.ID, "title", title)
	h.stateManager.SetState(msg.From.ID, state.StateAssignTodoDescription)
	h.sendMessage(ctx, b, msg.Chat.ID, "Step 3 of 4: Enter the task description")
}

func (h *Handlers) handleAssignTodoDescription(ctx context.Context, b *bot.Bot, msg *models.Message, description string) {
	if description == "" {
		h.sendError(ctx, b, msg.Chat.ID, "❌ Description cannot be empty. Try again:")
		return
	}

	h.stateManager.SetData(msg.From.ID, "description", description)
	h.stateManager.SetState(msg.From.ID, state.StateAssignTodoDueDate)
	h.sendMessage(ctx, b, msg.Chat.ID, "Step 4 of 4: Enter the due date (YYYY-MM-DD)")
}

func (h *Handlers) handleAssignTodoDueDate(ctx context.Context, b *bot.Bot, msg *models.Message, dueDate string) {
	s, ok := h.requireScreen(ctx, b, msg.Chat.ID, msg.From.ID, model.RoleMentor)
	if !ok {
		return
	}

	todo := model.NewTodo{DueDate: dueDate}
	todo.MenteeID, _ = state.Value[string](h.stateManager, s.TelegramID, "mentee_id")
	todo.Title, _ = state.Value[string](h.stateManager, s.TelegramID, "title")
	todo.Description, _ = state.Value[string](h.stateManager, s.TelegramID, "description")
	menteeName := h.menteeName(s.TelegramID, todo.MenteeID)

	created, err := h.conn(s).AssignTodo(ctx, todo)
	if errors.Is(err, apiclient.ErrValidation) {
		// неверную дату можно ввести заново
		h.sendError(ctx, b, s.ChatID, ErrorMessage(err)+"\n\nTry again or /cancel:")
		return
	}
	h.stateManager.ClearState(s.TelegramID)
	if err != nil {
		h.reportError(ctx, b, s.ChatID, err)
		return
	}

	h.logger.Info("Todo assigned",
		zap.Int64("telegram_id", s.TelegramID),
		zap.String("todo_id", created.ID),
		zap.String("mentee_id", todo.MenteeID))
	h.render(ctx, b, s, fmt.Sprintf("✅ Task assigned to %s\n\n%s", menteeName, formatTodo(created)))
}
