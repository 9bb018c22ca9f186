package handlers

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Freeeeeet/mentor_connect_bot/internal/apiclient"
	"github.com/Freeeeeet/mentor_connect_bot/internal/controller/router"
	"github.com/Freeeeeet/mentor_connect_bot/internal/model"
	"github.com/Freeeeeet/mentor_connect_bot/internal/session"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"api detail", &apiclient.APIError{Status: 400, Detail: "User already exists"}, "❌ User already exists"},
		{"wrapped api", fmt.Errorf("create: %w", &apiclient.APIError{Status: 422, Detail: "Bad"}), "❌ Bad"},
		{"validation", fmt.Errorf("%w: title is required", apiclient.ErrValidation), "❌ title is required"},
		{"transport", fmt.Errorf("%w: dial", apiclient.ErrRequestFailed), "❌ Could not reach the server. Please try again later."},
		{"no session", session.ErrNoSession, "🔒 Please /login first."},
		{"format", ErrInvalidFormat, "❌ Invalid data"},
		{"other", errors.New("boom"), "❌ Something went wrong"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorMessage(tt.err))
		})
	}
}

func TestCallbackArgs(t *testing.T) {
	arg, err := callbackArg("toggle_todo:12", ToggleTodoPrefix)
	require.NoError(t, err)
	assert.Equal(t, "12", arg)

	_, err = callbackArg("toggle_todo:", ToggleTodoPrefix)
	assert.ErrorIs(t, err, ErrInvalidFormat)

	n, err := callbackInt("log_fluency:7", LogFluencyPrefix)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	_, err = callbackInt("log_fluency:x", LogFluencyPrefix)
	assert.ErrorIs(t, err, ErrInvalidFormat)

	role, err := parseRoleCallback("login_role:mentee", LoginRolePrefix)
	require.NoError(t, err)
	assert.Equal(t, model.RoleMentee, role)

	_, err = parseRoleCallback("login_role:Owner", LoginRolePrefix)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestNavRows_FollowRoleRoutes(t *testing.T) {
	rows := navRows(model.RoleMentee)

	var data []string
	for _, row := range rows {
		for _, btn := range row {
			data = append(data, btn.CallbackData)
		}
	}

	assert.Equal(t, []string{"nav:/mentee", "nav:/meet", "nav:/todos", "nav:/materials", Logout}, data)
}

func TestHelpText_ListsEveryRoute(t *testing.T) {
	help := helpText()
	for _, r := range router.Routes {
		assert.Contains(t, help, r.Command)
	}
}

func TestReassignmentNotice(t *testing.T) {
	current := map[string]*model.MentorMenteeMapping{
		"3": {MentorID: "2", MentorName: "Alice", MenteeID: "3", MenteeName: "Charlie"},
	}

	assert.Empty(t, reassignmentNotice(current, "2", "3"), "same mentor")
	assert.Empty(t, reassignmentNotice(current, "2", "4"), "no previous mentor")
	assert.Contains(t, reassignmentNotice(current, "5", "3"), "Charlie was previously mapped to Alice")
	assert.Empty(t, reassignmentNotice(nil, "5", "3"))
}

func TestFormatTodosAndKeyboard(t *testing.T) {
	todos := []*model.Todo{
		{ID: "1", Title: "Read", DueDate: "2024-06-01", Completed: true},
		{ID: "2", Title: "Write", DueDate: "2024-06-02"},
	}

	text := formatTodos(todos)
	assert.Contains(t, text, "(1/2 done)")
	assert.Contains(t, text, "✅ Read (due 2024-06-01)")
	assert.Contains(t, text, "⬜️ Write (due 2024-06-02)")

	kb := todosKeyboard(model.RoleMentee, todos)
	require.GreaterOrEqual(t, len(kb.InlineKeyboard), 2)
	assert.Equal(t, "toggle_todo:1", kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "toggle_todo:2", kb.InlineKeyboard[1][0].CallbackData)

	assert.Contains(t, formatTodos(nil), "No tasks assigned yet.")
}

func TestScoreKeyboard(t *testing.T) {
	kb := scoreKeyboard(LogFluencyPrefix)
	require.Len(t, kb.InlineKeyboard, 2)
	assert.Equal(t, "log_fluency:1", kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "log_fluency:10", kb.InlineKeyboard[1][4].CallbackData)
}

func TestIsPDF(t *testing.T) {
	assert.True(t, isPDF(&models.Document{MimeType: "application/pdf"}))
	assert.True(t, isPDF(&models.Document{FileName: "Guide.PDF"}))
	assert.False(t, isPDF(&models.Document{FileName: "notes.docx", MimeType: "application/msword"}))
}

func TestIsDialogMessage(t *testing.T) {
	assert.True(t, IsDialogMessage(messageUpdate(1, "hello")))
	assert.False(t, IsDialogMessage(messageUpdate(1, "/todos")))
	assert.False(t, IsDialogMessage(&models.Update{}))

	doc := messageUpdate(1, "")
	doc.Message.Document = &models.Document{FileID: "f"}
	assert.True(t, IsDialogMessage(doc))
}

func TestSection(t *testing.T) {
	assert.Equal(t, "3", section(nil, func() string { return "3" }))
	assert.Equal(t, "⚠️ Request failed", section(&apiclient.APIError{Status: 500, Detail: "Request failed"}, nil))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2024-05-01", formatDate("2024-05-01T10:00:00"))
	assert.Equal(t, "bad", formatDate("bad"))
}
