// Package session хранит токен и профиль вошедшего пользователя.
//
// Хранилище устроено как пространство ключей на каждый scope (Telegram ID в боте,
// 0 в CLI) с двумя ключами: токен и JSON пользователя.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/mentor_connect_bot/internal/model"
	"go.uber.org/zap"
)

const (
	TokenKey = "mentor_connect_auth_token"
	UserKey  = "mentor_connect_auth_user"
)

// ErrNoSession пользователь не вошёл в систему
var ErrNoSession = errors.New("no active session")

// Backend key/value хранилище с разделением по scope
type Backend interface {
	Get(ctx context.Context, scope int64, key string) (string, bool, error)
	// Put записывает все значения атомарно
	Put(ctx context.Context, scope int64, values map[string]string) error
	Delete(ctx context.Context, scope int64, keys ...string) error
}

// Lister backend, умеющий перечислить значения ключа по всем scope
type Lister interface {
	ListValues(ctx context.Context, key string) (map[int64]string, error)
}

type Store struct {
	backend Backend
	logger  *zap.Logger
}

func NewStore(backend Backend, logger *zap.Logger) *Store {
	return &Store{
		backend: backend,
		logger:  logger,
	}
}

// SetStoredAuth сохраняет токен и пользователя одной операцией
func (s *Store) SetStoredAuth(ctx context.Context, scope int64, token string, user *model.User) error {
	if user == nil {
		return fmt.Errorf("set stored auth: user is nil")
	}

	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	if err := s.backend.Put(ctx, scope, map[string]string{
		TokenKey: token,
		UserKey:  string(raw),
	}); err != nil {
		return fmt.Errorf("set stored auth: %w", err)
	}

	return nil
}

// StoredToken возвращает токен или пустую строку
func (s *Store) StoredToken(ctx context.Context, scope int64) (string, error) {
	token, _, err := s.backend.Get(ctx, scope, TokenKey)
	if err != nil {
		return "", fmt.Errorf("get stored token: %w", err)
	}
	return token, nil
}

// StoredUser возвращает пользователя или nil.
// Повреждённый JSON считается отсутствием сессии и очищает хранилище.
func (s *Store) StoredUser(ctx context.Context, scope int64) (*model.User, error) {
	raw, ok, err := s.backend.Get(ctx, scope, UserKey)
	if err != nil {
		return nil, fmt.Errorf("get stored user: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}

	user, decodeErr := decodeUser(raw)
	if decodeErr != nil {
		s.logger.Warn("Corrupt stored user, clearing session",
			zap.Int64("scope", scope),
			zap.Error(decodeErr))
		if err := s.ClearStoredAuth(ctx, scope); err != nil {
			return nil, err
		}
		return nil, nil
	}

	return user, nil
}

// SetStoredUser заменяет пользователя, nil удаляет только запись пользователя
func (s *Store) SetStoredUser(ctx context.Context, scope int64, user *model.User) error {
	if user == nil {
		if err := s.backend.Delete(ctx, scope, UserKey); err != nil {
			return fmt.Errorf("remove stored user: %w", err)
		}
		return nil
	}

	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	if err := s.backend.Put(ctx, scope, map[string]string{UserKey: string(raw)}); err != nil {
		return fmt.Errorf("set stored user: %w", err)
	}
	return nil
}

// ClearStoredAuth удаляет токен и пользователя
func (s *Store) ClearStoredAuth(ctx context.Context, scope int64) error {
	if err := s.backend.Delete(ctx, scope, TokenKey, UserKey); err != nil {
		return fmt.Errorf("clear stored auth: %w", err)
	}
	return nil
}

// SweepExpired очищает сессии с истёкшим токеном, возвращает количество очищенных
func (s *Store) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	lister, ok := s.backend.(Lister)
	if !ok {
		return 0, nil
	}

	tokens, err := lister.ListValues(ctx, TokenKey)
	if err != nil {
		return 0, fmt.Errorf("list tokens: %w", err)
	}

	cleared := 0
	for scope, token := range tokens {
		exp, ok := TokenExpiry(token)
		if !ok || exp.After(now) {
			continue
		}
		if err := s.ClearStoredAuth(ctx, scope); err != nil {
			return cleared, err
		}
		cleared++
	}

	return cleared, nil
}

func decodeUser(raw string) (*model.User, error) {
	var user model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, err
	}

	role, err := model.ParseRole(string(user.Role))
	if err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, errors.New("stored user has no id")
	}
	user.Role = role

	return &user, nil
}
