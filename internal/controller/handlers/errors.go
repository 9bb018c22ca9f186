package handlers

import (
	"errors"
	"strings"

	"github.com/Freeeeeet/mentor_connect_bot/internal/apiclient"
	"github.com/Freeeeeet/mentor_connect_bot/internal/session"
)

// Ошибки разбора callback
var (
	ErrNoMessage     = errors.New("no message in callback")
	ErrInvalidFormat = errors.New("invalid callback format")
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	var apiErr *apiclient.APIError
	switch {
	case errors.As(err, &apiErr):
		return "❌ " + apiErr.Detail
	case errors.Is(err, apiclient.ErrValidation):
		return "❌ " + strings.TrimPrefix(err.Error(), apiclient.ErrValidation.Error()+": ")
	case errors.Is(err, apiclient.ErrRequestFailed):
		return "❌ Could not reach the server. Please try again later."
	case errors.Is(err, session.ErrNoSession):
		return "🔒 Please /login first."
	case errors.Is(err, ErrNoMessage):
		return "❌ This message is no longer available"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Invalid data"
	default:
		return "❌ Something went wrong"
	}
}
