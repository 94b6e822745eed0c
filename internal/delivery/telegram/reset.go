package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func (h *Handler) handleResetPrompt() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		msg := newPlainMessage(chatID, msgResetPrompt)
		msg.ReplyMarkup = buildResetKeyboard()
		return h.send(msg)
	}
}

func (h *Handler) handleResetCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, chatID int64, params []string) {
	if len(params) != 1 {
		h.logger.Warn("invalid reset callback", zap.String("data", cb.Data))
		return
	}

	text := msgResetCancelled

	switch params[0] {
	case resetConfirm:
		if err := h.resetService.ResetUser(ctx, cb.From.ID); err != nil {
			h.logger.Error("failed to reset user",
				zap.Int64("user_id", cb.From.ID),
				zap.Error(err),
			)
			text = msgResetUnavailable
		} else {
			text = msgResetDone
		}
	case resetCancel:
	default:
		h.logger.Warn("unknown reset callback", zap.String("data", cb.Data))
		return
	}

	if cb.Message == nil {
		h.sendError(chatID, text)
		return
	}

	// Replace the prompt with the result and drop its keyboard.
	edit := tgbotapi.NewEditMessageText(chatID, cb.Message.MessageID, text)
	if _, err := h.bot.Request(edit); err != nil {
		h.logger.Error("failed to update reset prompt",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}
