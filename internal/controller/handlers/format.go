package handlers

import (
	"fmt"
	"strings"

	"github.com/Freeeeeet/mentor_connect_bot/internal/model"
)

// formatDate обрезает ISO дату-время до YYYY-MM-DD
func formatDate(raw string) string {
	if len(raw) >= len(model.DateLayout) {
		return raw[:len(model.DateLayout)]
	}
	return raw
}

func formatMeetLink(link string) string {
	if link == "" {
		return "not set yet"
	}
	return link
}

func formatResource(r *model.Resource) string {
	return fmt.Sprintf("📄 %s\n   %s\n   Uploaded %s", r.Title, r.URL, formatDate(r.UploadedAt))
}

func formatResources(resources []*model.Resource) string {
	if len(resources) == 0 {
		return "No resources uploaded yet."
	}
	lines := make([]string, 0, len(resources))
	for _, r := range resources {
		lines = append(lines, formatResource(r))
	}
	return strings.Join(lines, "\n\n")
}

func formatSessionRecord(r *model.SessionRecord) string {
	return fmt.Sprintf(
		"📅 %s · %s → %s\n"+
			"🗣 Fluency: %d/%d · 💪 Confidence: %d/%d\n"+
			"📝 %s\n"+
			"➡️ %s",
		r.Date, r.MentorName, r.MenteeName,
		r.FluencyScore, model.MaxScore, r.ConfidenceScore, model.MaxScore,
		r.Notes,
		r.NextSteps,
	)
}

func formatMappings(mappings []*model.MentorMenteeMapping) string {
	if len(mappings) == 0 {
		return "No mappings yet."
	}
	lines := make([]string, 0, len(mappings))
	for _, m := range mappings {
		lines = append(lines, fmt.Sprintf("🔗 %s → %s", m.MentorName, m.MenteeName))
	}
	return strings.Join(lines, "\n")
}

func formatUsers(users []*model.User, empty string) string {
	if len(users) == 0 {
		return empty
	}
	lines := make([]string, 0, len(users))
	for _, u := range users {
		lines = append(lines, "• "+u.Name)
	}
	return strings.Join(lines, "\n")
}

func todoMark(t *model.Todo) string {
	if t.Completed {
		return "✅"
	}
	return "⬜️"
}

func formatTodo(t *model.Todo) string {
	return fmt.Sprintf("%s %s (due %s)\n   %s", todoMark(t), t.Title, t.DueDate, t.Description)
}

// formatTodos список задач со счётчиком выполненных
func formatTodos(todos []*model.Todo) string {
	if len(todos) == 0 {
		return "✅ My Todos\n\nNo tasks assigned yet."
	}

	lines := make([]string, 0, len(todos))
	for _, t := range todos {
		lines = append(lines, formatTodo(t))
	}
	return fmt.Sprintf("✅ My Todos (%d/%d done)\n\n%s", countCompleted(todos), len(todos), strings.Join(lines, "\n\n"))
}

func countCompleted(todos []*model.Todo) int {
	done := 0
	for _, t := range todos {
		if t.Completed {
			done++
		}
	}
	return done
}

// section текст секции дашборда или предупреждение, если её не удалось загрузить
func section(err error, text func() string) string {
	if err != nil {
		return "⚠️ " + strings.TrimPrefix(ErrorMessage(err), "❌ ")
	}
	return text()
}
