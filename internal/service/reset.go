package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

type HistoryResetter interface {
	ResetUser(ctx context.Context, userID int64) (int64, error)
}

// ResetService erases a user's quiz history and current session.
type ResetService struct {
	repository HistoryResetter
	cache      StatsCache
	quiz       *QuizService
	logger     *zap.Logger
}

func NewResetService(repository HistoryResetter, cache StatsCache, quiz *QuizService, logger *zap.Logger) *ResetService {
	return &ResetService{
		repository: repository,
		cache:      cache,
		quiz:       quiz,
		logger:     logger,
	}
}

func (s *ResetService) ResetUser(ctx context.Context, userID int64) error {
	if s.quiz != nil {
		s.quiz.Discard(userID)
	}

	deleted, err := s.repository.ResetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("reset user %d: %w", userID, err)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, userID); err != nil {
			s.logger.Warn("failed to invalidate stats cache",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("user quiz history reset",
		zap.Int64("user_id", userID),
		zap.Int64("deleted_scores", deleted),
	)

	return nil
}
