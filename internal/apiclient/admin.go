package apiclient

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/Freeeeeet/mentor_connect_bot/internal/model"
)

// MinPasswordLength минимальная длина пароля при создании пользователя
const MinPasswordLength = 6

// CreateUser создаёт ментора или подопечного
func (s *Conn) CreateUser(ctx context.Context, name string, role model.Role, password string) (*model.User, error) {
	name = strings.TrimSpace(name)
	password = strings.TrimSpace(password)
	if name == "" || password == "" {
		return nil, validationErr("name and password are required")
	}
	if role != model.RoleMentor && role != model.RoleMentee {
		return nil, validationErr("only Mentor or Mentee accounts can be created")
	}
	if len(password) < MinPasswordLength {
		return nil, validationErr("password must be at least %d characters", MinPasswordLength)
	}

	var resp wireUser
	err := s.client.do(ctx, s.scope, request{
		method: http.MethodPost,
		path:   "/admin/users",
		body: credentialsRequest{
			Name:     name,
			Role:     role.Wire(),
			Password: password,
		},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.toModel()
}

// MapMentor назначает ментора подопечному.
// Бэкенд переназначает подопечного, если у него уже был ментор.
func (s *Conn) MapMentor(ctx context.Context, mentorID, menteeID string) (*model.MapResult, error) {
	if mentorID == "" || menteeID == "" {
		return nil, validationErr("mentor and mentee are required")
	}

	var resp mapMentorResponse
	err := s.client.do(ctx, s.scope, request{
		method: http.MethodPost,
		path:   "/admin/map-mentor",
		body: mapMentorRequest{
			MentorID: wireID(mentorID),
			MenteeID: wireID(menteeID),
		},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.toModel(), nil
}

// UploadResource загружает PDF-материал
func (s *Conn) UploadResource(ctx context.Context, title, fileName string, content io.Reader) (*model.Resource, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, validationErr("resource title is required")
	}
	if !strings.EqualFold(filepath.Ext(fileName), ".pdf") {
		return nil, validationErr("only PDF files can be uploaded")
	}
	if content == nil {
		return nil, validationErr("file is required")
	}

	var resp wireResource
	err := s.client.do(ctx, s.scope, request{
		method: http.MethodPost,
		path:   "/admin/resources",
		fields: map[string]string{"title": title},
		file: &multipartFile{
			field:       "file",
			name:        filepath.Base(fileName),
			contentType: "application/pdf",
			content:     content,
		},
	}, &resp)
	if err != nil {
		return nil, err
	}

	res := resp.toModel()
	res.URL = s.client.absoluteURL(res.URL)
	return res, nil
}

// ListResources список материалов для администратора
func (s *Conn) ListResources(ctx context.Context) ([]*model.Resource, error) {
	return s.listResources(ctx, "/admin/resources")
}

func (s *Conn) listResources(ctx context.Context, path string) ([]*model.Resource, error) {
	var resp []wireResource
	if err := s.client.do(ctx, s.scope, request{path: path}, &resp); err != nil {
		return nil, err
	}

	resources := make([]*model.Resource, 0, len(resp))
	for _, item := range resp {
		res := item.toModel()
		res.URL = s.client.absoluteURL(res.URL)
		resources = append(resources, res)
	}
	return resources, nil
}

// ListSessions журнал всех встреч
func (s *Conn) ListSessions(ctx context.Context) ([]*model.SessionRecord, error) {
	var resp []wireSessionRecord
	if err := s.client.do(ctx, s.scope, request{path: "/admin/sessions"}, &resp); err != nil {
		return nil, err
	}

	records := make([]*model.SessionRecord, 0, len(resp))
	for _, item := range resp {
		records = append(records, item.toModel())
	}
	return records, nil
}

// ListMappings все назначения менторов
func (s *Conn) ListMappings(ctx context.Context) ([]*model.MentorMenteeMapping, error) {
	var resp []wireMapping
	if err := s.client.do(ctx, s.scope, request{path: "/admin/mappings"}, &resp); err != nil {
		return nil, err
	}

	mappings := make([]*model.MentorMenteeMapping, 0, len(resp))
	for _, item := range resp {
		mappings = append(mappings, item.toModel())
	}
	return mappings, nil
}

func (s *Conn) ListMentors(ctx context.Context) ([]*model.User, error) {
	return s.listUsers(ctx, "/admin/mentors")
}

func (s *Conn) ListMentees(ctx context.Context) ([]*model.User, error) {
	return s.listUsers(ctx, "/admin/mentees")
}

func (s *Conn) listUsers(ctx context.Context, path string) ([]*model.User, error) {
	var resp []wireUser
	if err := s.client.do(ctx, s.scope, request{path: path}, &resp); err != nil {
		return nil, err
	}
	return usersToModel(resp)
}
