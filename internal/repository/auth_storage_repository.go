package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/mentor_connect_bot/internal/repository/base"
	"github.com/Freeeeeet/mentor_connect_bot/internal/session"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuthStorageRepository хранит сессии бота в Postgres (таблица auth_storage).
// Реализует session.Backend и session.Lister.
type AuthStorageRepository struct {
	*base.Repository
}

var (
	_ session.Backend = (*AuthStorageRepository)(nil)
	_ session.Lister  = (*AuthStorageRepository)(nil)
)

func NewAuthStorageRepository(pool *pgxpool.Pool) *AuthStorageRepository {
	return &AuthStorageRepository{Repository: base.NewRepository(pool)}
}

// Get получает значение ключа для scope
func (r *AuthStorageRepository) Get(ctx context.Context, scope int64, key string) (string, bool, error) {
	query := `
		SELECT value
		FROM auth_storage
		WHERE scope = $1 AND key = $2
	`

	var value string
	err := r.QueryRow(ctx, query, scope, key).Scan(&value)
	if err != nil {
		if base.IsNotFound(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get auth storage value: %w", err)
	}

	return value, true, nil
}

// Put записывает все значения в одной транзакции
func (r *AuthStorageRepository) Put(ctx context.Context, scope int64, values map[string]string) error {
	query := `
		INSERT INTO auth_storage (scope, key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (scope, key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = NOW()
	`

	return r.WithTx(ctx, func(tx pgx.Tx) error {
		for key, value := range values {
			if _, err := tx.Exec(ctx, query, scope, key, value); err != nil {
				return fmt.Errorf("put auth storage value %s: %w", key, err)
			}
		}
		return nil
	})
}

// Delete удаляет ключи scope
func (r *AuthStorageRepository) Delete(ctx context.Context, scope int64, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	query := `
		DELETE FROM auth_storage
		WHERE scope = $1 AND key = ANY($2)
	`

	if _, err := r.ExecAffected(ctx, query, scope, keys); err != nil {
		return fmt.Errorf("delete auth storage values: %w", err)
	}
	return nil
}

// ListValues значения ключа по всем scope (для очистки истёкших сессий)
func (r *AuthStorageRepository) ListValues(ctx context.Context, key string) (map[int64]string, error) {
	query := `
		SELECT scope, value
		FROM auth_storage
		WHERE key = $1
	`

	rows, err := r.Query(ctx, query, key)
	if err != nil {
		return nil, fmt.Errorf("list auth storage values: %w", err)
	}
	defer rows.Close()

	result := make(map[int64]string)
	for rows.Next() {
		var (
			scope int64
			value string
		)
		if err := rows.Scan(&scope, &value); err != nil {
			return nil, fmt.Errorf("scan auth storage value: %w", err)
		}
		result[scope] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate auth storage values: %w", err)
	}

	return result, nil
}
