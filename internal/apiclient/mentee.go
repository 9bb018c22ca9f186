package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Freeeeeet/mentor_connect_bot/internal/model"
)

// GetMentorForMentee ментор подопечного, nil если ментор не назначен
func (s *Conn) GetMentorForMentee(ctx context.Context, menteeID string) (*model.MentorInfo, error) {
	var resp *wireMentorInfo
	err := s.client.do(ctx, s.scope, request{
		path: "/mentee/" + url.PathEscape(menteeID) + "/mentor",
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, nil
	}
	return &model.MentorInfo{
		MentorName: resp.MentorName,
		MeetLink:   resp.MeetLink,
	}, nil
}

func (s *Conn) ListTodos(ctx context.Context, menteeID string) ([]*model.Todo, error) {
	var resp []wireTodo
	err := s.client.do(ctx, s.scope, request{
		path: "/mentee/" + url.PathEscape(menteeID) + "/todos",
	}, &resp)
	if err != nil {
		return nil, err
	}

	todos := make([]*model.Todo, 0, len(resp))
	for _, item := range resp {
		todos = append(todos, item.toModel())
	}
	return todos, nil
}

// ToggleTodo переключает отметку о выполнении и возвращает обновлённую задачу
func (s *Conn) ToggleTodo(ctx context.Context, todoID string) (*model.Todo, error) {
	var resp wireTodo
	err := s.client.do(ctx, s.scope, request{
		method: http.MethodPatch,
		path:   "/mentee/todos/" + url.PathEscape(todoID) + "/toggle",
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.toModel(), nil
}

// ListMenteeResources материалы, доступные подопечному
func (s *Conn) ListMenteeResources(ctx context.Context) ([]*model.Resource, error) {
	return s.listResources(ctx, "/mentee/resources")
}
