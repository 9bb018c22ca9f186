package handlers

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/mentor_connect_bot/internal/controller/keyboard"
	"github.com/Freeeeeet/mentor_connect_bot/internal/controller/state"
	"github.com/Freeeeeet/mentor_connect_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ключ последнего показанного списка задач в данных диалога
const todosKey = "todos"

func (h *Handlers) showMenteeDashboard(ctx context.Context, b *bot.Bot, s Screen) {
	d := h.dashboards.Mentee(ctx, s.TelegramID, s.User)
	if anyUnauthorized(d.Mentor.Err, d.Todos.Err, d.Resources.Err) {
		return
	}

	body := fmt.Sprintf(
		"📊 Mentee Dashboard\n\n"+
			"%s\n\n"+
			"✅ Todos: %s\n"+
			"📄 Resources: %s",
		section(d.Mentor.Err, func() string { return formatMentorInfo(d.Mentor.Data) }),
		section(d.Todos.Err, func() string {
			return fmt.Sprintf("%d/%d done", countCompleted(d.Todos.Data), len(d.Todos.Data))
		}),
		section(d.Resources.Err, func() string { return fmt.Sprint(len(d.Resources.Data)) }),
	)
	h.render(ctx, b, s, body)
}

func formatMentorInfo(info *model.MentorInfo) string {
	if info == nil {
		return "🧑‍🏫 No mentor assigned yet."
	}
	return fmt.Sprintf("🧑‍🏫 Mentor: %s\n🎥 Meet link: %s", info.MentorName, formatMeetLink(info.MeetLink))
}

func (h *Handlers) showMeet(ctx context.Context, b *bot.Bot, s Screen) {
	info, err := h.conn(s).GetMentorForMentee(ctx, s.User.ID)
	if err != nil {
		h.reportError(ctx, b, s.ChatID, err)
		return
	}
	h.render(ctx, b, s, "🎥 Join Meet\n\n"+formatMentorInfo(info))
}

func (h *Handlers) showMaterials(ctx context.Context, b *bot.Bot, s Screen) {
	resources, err := h.conn(s).ListMenteeResources(ctx)
	if err != nil {
		h.reportError(ctx, b, s.ChatID, err)
		return
	}
	h.render(ctx, b, s, fmt.Sprintf("📄 Resources (%d)\n\n%s", len(resources), formatResources(resources)))
}

// ===== Задачи =====

func (h *Handlers) showTodos(ctx context.Context, b *bot.Bot, s Screen) {
	todos, err := h.conn(s).ListTodos(ctx, s.User.ID)
	if err != nil {
		h.reportError(ctx, b, s.ChatID, err)
		return
	}

	h.stateManager.SetData(s.TelegramID, todosKey, todos)
	h.sendWithKeyboard(ctx, b, s.ChatID, shellText(s.User, formatTodos(todos)), todosKeyboard(s.User.Role, todos))
}

// todosKeyboard кнопка переключения на каждую задачу + навигация
func todosKeyboard(role model.Role, todos []*model.Todo) *models.InlineKeyboardMarkup {
	kb := keyboard.NewBuilder()
	for _, t := range todos {
		kb.Row(keyboard.Button(todoMark(t)+" "+t.Title, ToggleTodoPrefix+t.ID))
	}
	return kb.AddRows(navRows(role)).Build()
}

// handleToggleTodoCallback переключает задачу и перерисовывает список:
// меняется только переключённая задача, остальные берутся из последнего показа
func (h *Handlers) handleToggleTodoCallback(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	s, ok := h.requireScreen(ctx, b, callbackChatID(callback), callback.From.ID, model.RoleMentee)
	if !ok {
		h.answerCallback(ctx, b, callback.ID, "")
		return
	}

	todoID, err := callbackArg(callback.Data, ToggleTodoPrefix)
	if err != nil {
		h.answerCallbackAlert(ctx, b, callback.ID, ErrorMessage(err))
		return
	}

	conn := h.conn(s)
	updated, err := conn.ToggleTodo(ctx, todoID)
	if err != nil {
		h.answerCallback(ctx, b, callback.ID, "")
		h.reportError(ctx, b, s.ChatID, err)
		return
	}

	todos, ok := state.Value[[]*model.Todo](h.stateManager, s.TelegramID, todosKey)
	if ok {
		todos = model.ReplaceTodo(todos, updated)
	} else if todos, err = conn.ListTodos(ctx, s.User.ID); err != nil {
		h.logger.Warn("Failed to reload todos after toggle", zap.Error(err))
		todos = []*model.Todo{updated}
	}
	h.stateManager.SetData(s.TelegramID, todosKey, todos)

	toast := "↩️ Marked as not done"
	if updated.Completed {
		toast = "✅ Marked as done"
	}
	h.answerCallback(ctx, b, callback.ID, toast)
	h.editOrSend(ctx, b, callback, shellText(s.User, formatTodos(todos)), todosKeyboard(s.User.Role, todos))
}
