package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	data := decodeCallback(cb.Data)
	chatID := callbackChatID(cb)

	var toast string

	switch data.Action {
	case actionQuiz:
		toast = h.handleQuizCallback(ctx, cb, chatID, data.Params)
	case actionProfile:
		_ = h.withErrorHandling(h.handleProfile(cb.From))(ctx, chatID)
	case actionHistory:
		_ = h.withErrorHandling(h.handleHistory(cb.From.ID))(ctx, chatID)
	case actionExport:
		_ = h.withErrorHandling(h.handleExport(cb.From.ID))(ctx, chatID)
	case actionReset:
		h.handleResetCallback(ctx, cb, chatID, data.Params)
	case actionNoop:
	default:
		h.logger.Warn("unknown callback action",
			zap.String("data", cb.Data),
		)
	}

	// Remove the user's "clock".
	answer := tgbotapi.NewCallback(cb.ID, toast)
	if _, err := h.bot.Request(answer); err != nil {
		h.logger.Error("callback answer error",
			zap.String("callback_id", cb.ID),
			zap.Error(err),
		)
	}
}

// handleQuizCallback returns the text of the toast shown to the user, if any.
func (h *Handler) handleQuizCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, chatID int64, params []string) string {
	if len(params) == 0 {
		h.logger.Warn("quiz callback without sub-action", zap.String("data", cb.Data))
		return ""
	}

	switch params[0] {
	case quizMenu:
		_ = h.withErrorHandling(h.handleQuizMenu("", cb.From.ID))(ctx, chatID)
		return ""

	case quizLevel:
		if len(params) != 2 || params[1] == "" {
			h.logger.Warn("invalid quiz level callback", zap.String("data", cb.Data))
			return ""
		}
		return h.startQuiz(cb.From.ID, chatID, params[1])

	case quizAnswer:
		d, err := parseQuizAnswer(params[1:])
		if err != nil {
			h.logger.Warn("invalid quiz answer callback", zap.String("data", cb.Data), zap.Error(err))
			return ""
		}
		return h.answerQuestion(cb.From.ID, chatID, d)

	case quizNext:
		d, err := parseQuizNext(params[1:])
		if err != nil {
			h.logger.Warn("invalid quiz next callback", zap.String("data", cb.Data), zap.Error(err))
			return ""
		}
		return h.nextQuestion(cb.From.ID, chatID, d)

	default:
		h.logger.Warn("unknown quiz callback", zap.String("data", cb.Data))
		return ""
	}
}
