package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/insaafai/ipc-quiz-bot/internal/domain/entities"
)

type mockScoreRepository struct {
	mock.Mock
}

func (m *mockScoreRepository) GetStats(ctx context.Context, userID int64) (*entities.UserStats, error) {
	args := m.Called(ctx, userID)
	stats, _ := args.Get(0).(*entities.UserStats)
	return stats, args.Error(1)
}

func (m *mockScoreRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*entities.ScoreRecord, error) {
	args := m.Called(ctx, userID, limit)
	records, _ := args.Get(0).([]*entities.ScoreRecord)
	return records, args.Error(1)
}

type mockStatsCache struct {
	mock.Mock
}

func (m *mockStatsCache) Get(ctx context.Context, userID int64) (*entities.UserStats, error) {
	args := m.Called(ctx, userID)
	stats, _ := args.Get(0).(*entities.UserStats)
	return stats, args.Error(1)
}

func (m *mockStatsCache) Set(ctx context.Context, stats *entities.UserStats) error {
	return m.Called(ctx, stats).Error(0)
}

func (m *mockStatsCache) Invalidate(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

func TestStatsService_GetStats(t *testing.T) {
	ctx := context.Background()
	stats := &entities.UserStats{UserID: 1, QuizzesTaken: 3, AverageScore: 70, BestScore: 100}

	t.Run("cache hit", func(t *testing.T) {
		repo := &mockScoreRepository{}
		cache := &mockStatsCache{}
		cache.On("Get", ctx, int64(1)).Return(stats, nil).Once()

		got, err := NewStatsService(repo, cache, zap.NewNop()).GetStats(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, stats, got)

		repo.AssertNotCalled(t, "GetStats", mock.Anything, mock.Anything)
	})

	t.Run("cache miss fills cache", func(t *testing.T) {
		repo := &mockScoreRepository{}
		repo.On("GetStats", ctx, int64(1)).Return(stats, nil).Once()
		cache := &mockStatsCache{}
		cache.On("Get", ctx, int64(1)).Return(nil, nil).Once()
		cache.On("Set", ctx, stats).Return(nil).Once()

		got, err := NewStatsService(repo, cache, zap.NewNop()).GetStats(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, stats, got)

		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("cache failure falls through", func(t *testing.T) {
		repo := &mockScoreRepository{}
		repo.On("GetStats", ctx, int64(1)).Return(stats, nil).Once()
		cache := &mockStatsCache{}
		cache.On("Get", ctx, int64(1)).Return(nil, errors.New("redis down")).Once()
		cache.On("Set", ctx, stats).Return(errors.New("redis down")).Once()

		got, err := NewStatsService(repo, cache, zap.NewNop()).GetStats(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 3, got.QuizzesTaken)
	})

	t.Run("repository failure", func(t *testing.T) {
		dbErr := errors.New("db down")
		repo := &mockScoreRepository{}
		repo.On("GetStats", ctx, int64(1)).Return(nil, dbErr).Once()

		_, err := NewStatsService(repo, nil, zap.NewNop()).GetStats(ctx, 1)
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestStatsService_History(t *testing.T) {
	ctx := context.Background()
	records := []*entities.ScoreRecord{
		{ID: 2, UserID: 1, LevelID: "level2", Percentage: 80, RecordedAt: time.Now()},
	}

	repo := &mockScoreRepository{}
	repo.On("ListByUser", ctx, int64(1), defaultHistoryLimit).Return(records, nil).Once()
	repo.On("ListByUser", ctx, int64(1), 5).Return(records, nil).Once()

	svc := NewStatsService(repo, nil, zap.NewNop())

	got, err := svc.History(ctx, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, records, got)

	_, err = svc.History(ctx, 1, 5)
	require.NoError(t, err)

	repo.AssertExpectations(t)
}
