package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func (h *Handler) handleProfile(from *tgbotapi.User) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		stats, err := h.statsService.GetStats(ctx, from.ID)
		if err != nil {
			h.logger.Error("failed to get user stats",
				zap.Int64("user_id", from.ID),
				zap.Error(err),
			)
			h.sendError(chatID, msgProfileUnavailable)
			return nil
		}

		msg := newMessage(chatID, formatProfile(usernameOf(from), stats))
		msg.ReplyMarkup = buildProfileKeyboard()

		return h.send(msg)
	}
}

func (h *Handler) handleHistory(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		records, err := h.statsService.History(ctx, userID, historyLength)
		if err != nil {
			h.logger.Error("failed to get quiz history",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
			h.sendError(chatID, msgHistoryUnavailable)
			return nil
		}

		if len(records) == 0 {
			return h.send(newPlainMessage(chatID, msgHistoryEmpty))
		}

		return h.send(newMessage(chatID, formatHistory(records, h.titles)))
	}
}

func (h *Handler) handleExport(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		data, err := h.exporter.Export(ctx, userID)
		if err != nil {
			h.logger.Error("failed to export quiz history",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
			h.sendError(chatID, msgExportUnavailable)
			return nil
		}

		doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
			Name:  exportFileName,
			Bytes: data,
		})
		doc.Caption = "Your quiz history"

		return h.send(doc)
	}
}
