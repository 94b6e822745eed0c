package telegram

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/insaafai/ipc-quiz-bot/internal/service"
)

// handleQuizMenu shows the level picker, or starts a level passed as argument.
func (h *Handler) handleQuizMenu(args string, userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if levelID := strings.TrimSpace(args); levelID != "" {
			if toast := h.startQuiz(userID, chatID, levelID); toast != "" {
				h.sendError(chatID, toast)
			}
			return nil
		}

		levels := h.quizService.Levels()
		if len(levels) == 0 {
			h.sendError(chatID, msgQuizUnavailable)
			return nil
		}

		msg := newMessage(chatID, formatLevelsMenu(levels))
		msg.ReplyMarkup = buildLevelsKeyboard(levels)

		return h.send(msg)
	}
}

// startQuiz starts a level. The question itself is rendered by the presenter.
func (h *Handler) startQuiz(userID, chatID int64, levelID string) string {
	state, err := h.quizService.Start(userID, chatID, levelID)
	if err != nil {
		if errors.Is(err, service.ErrLevelNotFound) {
			return msgLevelNotFound
		}

		h.logger.Error("failed to start quiz",
			zap.Int64("user_id", userID),
			zap.String("level_id", levelID),
			zap.Error(err),
		)
		return msgQuizUnavailable
	}

	h.logger.Info("quiz started",
		zap.Int64("user_id", userID),
		zap.String("level_id", state.LevelID),
		zap.Int("total", state.Total),
	)

	return ""
}

func (h *Handler) answerQuestion(userID, chatID int64, d quizAnswerData) string {
	state := h.quizService.State(userID)
	if state.Status == service.StatusNotStarted {
		return msgNoActiveQuiz
	}
	if !isCurrentQuestion(state, d.LevelID, d.Question) {
		return msgQuestionExpired
	}
	if state.Answered {
		return msgAlreadyAnswered
	}

	outcome, err := h.quizService.Answer(userID, d.AnswerIndex)
	switch {
	case errors.Is(err, service.ErrInvalidOption):
		h.logger.Warn("answer index out of range",
			zap.Int64("user_id", userID),
			zap.Int("answer", d.AnswerIndex),
		)
		return msgInvalidOption
	case errors.Is(err, service.ErrInvalidState):
		return msgQuestionExpired
	case err != nil:
		h.logger.Error("failed to submit answer",
			zap.Int64("user_id", userID),
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		return msgInternalError
	}

	if outcome.Correct {
		return "✅ Correct!"
	}
	return "❌ Incorrect"
}

func (h *Handler) nextQuestion(userID, chatID int64, d quizNextData) string {
	state := h.quizService.State(userID)
	if state.Status == service.StatusNotStarted {
		return msgNoActiveQuiz
	}
	if !isCurrentQuestion(state, d.LevelID, d.Question) {
		return msgQuestionExpired
	}
	if !state.Answered {
		return msgAnswerFirst
	}

	completed, err := h.quizService.Next(userID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidState) {
			return msgQuestionExpired
		}
		h.logger.Error("failed to advance quiz",
			zap.Int64("user_id", userID),
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		return msgInternalError
	}

	if completed {
		h.logger.Info("quiz completed",
			zap.Int64("user_id", userID),
			zap.String("level_id", state.LevelID),
		)
	}

	return ""
}

// isCurrentQuestion reports whether a button belongs to the question on screen.
func isCurrentQuestion(state service.SessionState, levelID string, question int) bool {
	return state.Status == service.StatusInProgress &&
		state.LevelID == levelID &&
		state.Index == question
}
