package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/insaafai/ipc-quiz-bot/internal/domain/entities"
)

const defaultHistoryLimit = 20

// StatsService serves quiz statistics with a read-through cache.
type StatsService struct {
	repository ScoreRepository
	cache      StatsCache
	logger     *zap.Logger
}

func NewStatsService(repository ScoreRepository, cache StatsCache, logger *zap.Logger) *StatsService {
	return &StatsService{
		repository: repository,
		cache:      cache,
		logger:     logger,
	}
}

// GetStats returns aggregated quiz stats of the user.
// Cache failures are logged and fall through to the repository.
func (s *StatsService) GetStats(ctx context.Context, userID int64) (*entities.UserStats, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, userID)
		if err != nil {
			s.logger.Warn("stats cache get failed",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
		}
		if cached != nil {
			return cached, nil
		}
	}

	stats, err := s.repository.GetStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get stats: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, stats); err != nil {
			s.logger.Warn("stats cache set failed",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
		}
	}

	return stats, nil
}

// History returns the latest scores of the user, newest first.
func (s *StatsService) History(ctx context.Context, userID int64, limit int) ([]*entities.ScoreRecord, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	records, err := s.repository.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}

	return records, nil
}
