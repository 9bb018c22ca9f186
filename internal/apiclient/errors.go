package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// DefaultErrorMessage текст ошибки, если бэкенд не прислал detail
const DefaultErrorMessage = "Request failed"

var (
	// ErrRequestFailed сетевая ошибка или ошибка транспорта
	ErrRequestFailed = errors.New("request failed")
	// ErrUnauthorized ответ 401/403, сессия уже очищена
	ErrUnauthorized = errors.New("unauthorized")
	// ErrValidation данные не прошли проверку до отправки запроса
	ErrValidation = errors.New("invalid input")
)

// APIError ответ бэкенда с кодом не из 2xx
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return e.Detail
}

// Is позволяет проверять errors.Is(err, ErrUnauthorized)
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && isAuthFailure(e.Status)
}

func isAuthFailure(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusForbidden
}

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// parseDetail достаёт detail из тела ошибки.
// detail бывает строкой или списком ошибок валидации [{"msg": "..."}].
func parseDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return DefaultErrorMessage
	}

	var text string
	if err := json.Unmarshal(payload.Detail, &text); err == nil {
		if text == "" {
			return DefaultErrorMessage
		}
		return text
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(payload.Detail, &items); err == nil && len(items) > 0 && items[0].Msg != "" {
		return items[0].Msg
	}

	return DefaultErrorMessage
}
