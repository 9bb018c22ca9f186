package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Freeeeeet/mentor_connect_bot/internal/model"
)

// MaxMeetLinkLength ограничение бэкенда на длину ссылки
const MaxMeetLinkLength = 500

func (s *Conn) GetMeetLink(ctx context.Context, mentorID string) (string, error) {
	var resp meetLinkPayload
	err := s.client.do(ctx, s.scope, request{
		path: "/mentor/" + url.PathEscape(mentorID) + "/meet-link",
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.MeetLink, nil
}

// SetMeetLink сохраняет ссылку на встречу. Пустая строка удаляет ссылку.
func (s *Conn) SetMeetLink(ctx context.Context, mentorID, meetLink string) (string, error) {
	meetLink = strings.TrimSpace(meetLink)
	if err := ValidateMeetLink(meetLink); err != nil {
		return "", err
	}

	var resp meetLinkPayload
	err := s.client.do(ctx, s.scope, request{
		method: http.MethodPut,
		path:   "/mentor/" + url.PathEscape(mentorID) + "/meet-link",
		body:   meetLinkPayload{MeetLink: meetLink},
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.MeetLink, nil
}

// ValidateMeetLink пустая ссылка или http(s) URL
func ValidateMeetLink(link string) error {
	if link == "" {
		return nil
	}
	if len(link) > MaxMeetLinkLength {
		return validationErr("meet link must be at most %d characters", MaxMeetLinkLength)
	}
	if !strings.HasPrefix(link, "http://") && !strings.HasPrefix(link, "https://") {
		return validationErr("meet link must be a valid http(s) URL")
	}
	return nil
}

// ListAssignedMentees подопечные ментора
func (s *Conn) ListAssignedMentees(ctx context.Context, mentorID string) ([]*model.User, error) {
	var resp []wireUser
	err := s.client.do(ctx, s.scope, request{
		path: "/mentor/" + url.PathEscape(mentorID) + "/mentees",
	}, &resp)
	if err != nil {
		return nil, err
	}
	return usersToModel(resp)
}

// LogSession записывает итоги встречи
func (s *Conn) LogSession(ctx context.Context, rec model.NewSessionRecord) (*model.SessionRecord, error) {
	if rec.MenteeID == "" {
		return nil, validationErr("mentee is required")
	}
	if !model.ValidScore(rec.FluencyScore) {
		return nil, validationErr("fluency score must be between %d and %d", model.MinScore, model.MaxScore)
	}
	if !model.ValidScore(rec.ConfidenceScore) {
		return nil, validationErr("confidence score must be between %d and %d", model.MinScore, model.MaxScore)
	}
	if strings.TrimSpace(rec.Notes) == "" || strings.TrimSpace(rec.NextSteps) == "" {
		return nil, validationErr("notes and next steps are required")
	}
	if rec.Date == "" {
		rec.Date = time.Now().Format(model.DateLayout)
	}
	if _, err := time.Parse(model.DateLayout, rec.Date); err != nil {
		return nil, validationErr("date must be in YYYY-MM-DD format")
	}

	var resp wireSessionRecord
	err := s.client.do(ctx, s.scope, request{
		method: http.MethodPost,
		path:   "/mentor/sessions",
		body: logSessionRequest{
			MenteeID:        wireID(rec.MenteeID),
			Date:            rec.Date,
			FluencyScore:    rec.FluencyScore,
			ConfidenceScore: rec.ConfidenceScore,
			Notes:           strings.TrimSpace(rec.Notes),
			NextSteps:       strings.TrimSpace(rec.NextSteps),
		},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.toModel(), nil
}

// AssignTodo назначает задачу подопечному
func (s *Conn) AssignTodo(ctx context.Context, todo model.NewTodo) (*model.Todo, error) {
	if todo.MenteeID == "" {
		return nil, validationErr("mentee is required")
	}
	if strings.TrimSpace(todo.Title) == "" || strings.TrimSpace(todo.Description) == "" {
		return nil, validationErr("title and description are required")
	}
	if _, err := time.Parse(model.DateLayout, todo.DueDate); err != nil {
		return nil, validationErr("due date must be in YYYY-MM-DD format")
	}

	var resp wireTodo
	err := s.client.do(ctx, s.scope, request{
		method: http.MethodPost,
		path:   "/mentor/todos",
		body: assignTodoRequest{
			MenteeID:    wireID(todo.MenteeID),
			Title:       strings.TrimSpace(todo.Title),
			Description: strings.TrimSpace(todo.Description),
			DueDate:     todo.DueDate,
		},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.toModel(), nil
}
