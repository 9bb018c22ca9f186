package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/mentor_connect_bot/internal/apiclient"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// sendMessage отправляет сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	h.sendWithKeyboard(ctx, b, chatID, text, nil)
}

// sendWithKeyboard отправляет сообщение с inline клавиатурой
func (h *Handlers) sendWithKeyboard(ctx context.Context, b *bot.Bot, chatID int64, text string, kb *models.InlineKeyboardMarkup) {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}
	if kb != nil {
		params.ReplyMarkup = kb
	}

	if _, err := b.SendMessage(ctx, params); err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// sendError отправляет сообщение об ошибке и логирует если не удалось
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send error message",
			zap.Int64("chat_id", chatID),
			zap.String("text", text),
			zap.Error(err),
		)
	}
}

// reportError показывает ошибку пользователю.
// При 401/403 приглашение ко входу уже отправлено хуком клиента.
func (h *Handlers) reportError(ctx context.Context, b *bot.Bot, chatID int64, err error) {
	if errors.Is(err, apiclient.ErrUnauthorized) {
		return
	}
	h.sendError(ctx, b, chatID, ErrorMessage(err))
}

// deleteMessage удаляет сообщение, ошибки только логируются
func (h *Handlers) deleteMessage(ctx context.Context, b *bot.Bot, chatID int64, messageID int) {
	_, err := b.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    chatID,
		MessageID: messageID,
	})
	if err != nil {
		h.logger.Warn("Failed to delete message",
			zap.Int64("chat_id", chatID),
			zap.Int("message_id", messageID),
			zap.Error(err))
	}
}

// answerCallback отвечает на callback query (без alert)
func (h *Handlers) answerCallback(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	h.answer(ctx, b, callbackID, text, false)
}

// answerCallbackAlert отвечает на callback query с alert
func (h *Handlers) answerCallbackAlert(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	h.answer(ctx, b, callbackID, text, true)
}

func (h *Handlers) answer(ctx context.Context, b *bot.Bot, callbackID string, text string, alert bool) {
	_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       alert,
	})
	if err != nil {
		h.logger.Warn("Failed to answer callback", zap.Error(err))
	}
}

// editOrSend заменяет сообщение с кнопками, если оно ещё доступно
func (h *Handlers) editOrSend(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, text string, kb *models.InlineKeyboardMarkup) {
	msg := callbackMessage(callback)
	if msg == nil {
		h.sendWithKeyboard(ctx, b, callback.From.ID, text, kb)
		return
	}

	params := &bot.EditMessageTextParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
		Text:      text,
	}
	if kb != nil {
		params.ReplyMarkup = kb
	}
	if _, err := b.EditMessageText(ctx, params); err != nil {
		h.logger.Warn("Failed to edit message, sending new one", zap.Error(err))
		h.sendWithKeyboard(ctx, b, msg.Chat.ID, text, kb)
	}
}

// callbackMessage сообщение, к которому привязана кнопка
func callbackMessage(callback *models.CallbackQuery) *models.Message {
	return callback.Message.Message
}

// callbackChatID чат callback, для личного чата совпадает с пользователем
func callbackChatID(callback *models.CallbackQuery) int64 {
	if msg := callbackMessage(callback); msg != nil {
		return msg.Chat.ID
	}
	return callback.From.ID
}

// callbackArg значение после префикса: "toggle_todo:7" -> "7"
func callbackArg(data, prefix string) (string, error) {
	arg, ok := strings.CutPrefix(data, prefix)
	if !ok || arg == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidFormat, data)
	}
	return arg, nil
}

// callbackInt числовое значение после префикса
func callbackInt(data, prefix string) (int, error) {
	arg, err := callbackArg(data, prefix)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, data)
	}
	return n, nil
}
