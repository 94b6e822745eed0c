package service

import (
	"context"

	"github.com/insaafai/ipc-quiz-bot/internal/domain/entities"
)

type UserRepository interface {
	Save(ctx context.Context, user *entities.User) (bool, error)
	Exists(ctx context.Context, userID int64) (bool, error)
}

type ScoreRepository interface {
	GetStats(ctx context.Context, userID int64) (*entities.UserStats, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]*entities.ScoreRecord, error)
}

// StatsCache caches aggregated user stats.
type StatsCache interface {
	Get(ctx context.Context, userID int64) (*entities.UserStats, error)
	Set(ctx context.Context, stats *entities.UserStats) error
	Invalidate(ctx context.Context, userID int64) error
}

// EngineStore keeps one quiz engine per user.
type EngineStore interface {
	Get(userID int64) (*QuizEngine, bool)
	Store(userID int64, engine *QuizEngine)
	Delete(userID int64)
	All() []*QuizEngine
}

// ListenerFactory returns the listener rendering quiz events into a chat.
type ListenerFactory func(chatID int64) Listener
