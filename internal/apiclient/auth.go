package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/Freeeeeet/mentor_connect_bot/internal/model"
)

// LoginResult ответ на успешный вход
type LoginResult struct {
	Token     string
	TokenType string
	User      *model.User
}

// Login проверяет учётные данные. Сессию не сохраняет, это делает вызывающий.
func (s *Conn) Login(ctx context.Context, name string, role model.Role, password string) (*LoginResult, error) {
	name = strings.TrimSpace(name)
	if name == "" || password == "" {
		return nil, validationErr("name and password are required")
	}
	if !role.Valid() {
		return nil, validationErr("unknown role %q", role)
	}

	var resp loginResponse
	err := s.client.do(ctx, s.scope, request{
		method: http.MethodPost,
		path:   "/auth/login",
		// старый токен не отправляется, даже если пользователь уже вошёл
		anonymous: true,
		body: credentialsRequest{
			Name:     name,
			Role:     role.Wire(),
			Password: password,
		},
	}, &resp)
	if err != nil {
		return nil, err
	}

	if resp.AccessToken == "" {
		return nil, fmt.Errorf("login: empty access token")
	}

	user, err := resp.User.toModel()
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	return &LoginResult{
		Token:     resp.AccessToken,
		TokenType: resp.TokenType,
		User:      user,
	}, nil
}
