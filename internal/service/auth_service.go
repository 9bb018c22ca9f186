package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/mentor_connect_bot/internal/apiclient"
	"github.com/Freeeeeet/mentor_connect_bot/internal/model"
	"github.com/Freeeeeet/mentor_connect_bot/internal/session"
	"go.uber.org/zap"
)

type AuthService struct {
	api    *apiclient.Client
	store  *session.Store
	logger *zap.Logger
}

func NewAuthService(api *apiclient.Client, store *session.Store, logger *zap.Logger) *AuthService {
	return &AuthService{
		api:    api,
		store:  store,
		logger: logger,
	}
}

// Login входит в систему и сохраняет токен вместе с пользователем
func (s *AuthService) Login(ctx context.Context, scope int64, name string, role model.Role, password string) (*model.User, error) {
	res, err := s.api.For(scope).Login(ctx, name, role, password)
	if err != nil {
		s.logger.Info("Login rejected",
			zap.Int64("scope", scope),
			zap.String("name", name),
			zap.String("role", string(role)),
			zap.Error(err))
		return nil, err
	}

	if err := s.store.SetStoredAuth(ctx, scope, res.Token, res.User); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	s.logger.Info("User logged in",
		zap.Int64("scope", scope),
		zap.String("user_id", res.User.ID),
		zap.String("role", string(res.User.Role)))

	return res.User, nil
}

// Logout очищает сессию
func (s *AuthService) Logout(ctx context.Context, scope int64) error {
	if err := s.store.ClearStoredAuth(ctx, scope); err != nil {
		return err
	}
	s.logger.Info("User logged out", zap.Int64("scope", scope))
	return nil
}

// CurrentUser пользователь сессии или nil
func (s *AuthService) CurrentUser(ctx context.Context, scope int64) (*model.User, error) {
	return s.store.StoredUser(ctx, scope)
}

// RequireUser пользователь сессии или session.ErrNoSession
func (s *AuthService) RequireUser(ctx context.Context, scope int64) (*model.User, error) {
	user, err := s.store.StoredUser(ctx, scope)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, session.ErrNoSession
	}
	return user, nil
}
