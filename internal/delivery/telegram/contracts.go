package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/insaafai/ipc-quiz-bot/internal/domain/entities"
	"github.com/insaafai/ipc-quiz-bot/internal/service"
	"github.com/insaafai/ipc-quiz-bot/internal/storage"
)

// BotAPI is the part of *tgbotapi.BotAPI the bot relies on.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
}

type UserService interface {
	EnsureUser(ctx context.Context, userID, chatID int64, username string) error
}

type QuizService interface {
	Levels() []*entities.QuizLevel
	Start(userID, chatID int64, levelID string) (service.SessionState, error)
	Answer(userID int64, selectedIndex int) (service.AnswerOutcome, error)
	Next(userID int64) (bool, error)
	State(userID int64) service.SessionState
}

type StatsService interface {
	GetStats(ctx context.Context, userID int64) (*entities.UserStats, error)
	History(ctx context.Context, userID int64, limit int) ([]*entities.ScoreRecord, error)
}

type ResetService interface {
	ResetUser(ctx context.Context, userID int64) error
}

type HistoryExporter interface {
	Export(ctx context.Context, userID int64) ([]byte, error)
}

// QuestionMessages remembers the message showing the current question of a chat.
type QuestionMessages interface {
	Get(chatID int64) (storage.QuestionMessage, bool)
	Delete(chatID int64)
	UpsertAndGetPrev(chatID int64, messageID int) (storage.QuestionMessage, bool)
}
