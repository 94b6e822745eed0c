package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insaafai/ipc-quiz-bot/internal/domain/entities"
	"github.com/insaafai/ipc-quiz-bot/internal/infra/postgres"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return mock
}

func TestScoreRepository_GetStats(t *testing.T) {
	ctx := context.Background()
	last := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		count   int
		avg     float64
		best    int
		last    *time.Time
		wantAvg int
	}{
		{name: "half rounds up", count: 2, avg: 66.5, best: 83, last: &last, wantAvg: 67},
		{name: "below half rounds down", count: 3, avg: 33.33, best: 50, last: &last, wantAvg: 33},
		{name: "no scores", count: 0, avg: 0, best: 0, last: nil, wantAvg: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockPool(t)
			mock.ExpectQuery(regexp.QuoteMeta("FROM quiz_scores")).
				WithArgs(int64(5)).
				WillReturnRows(pgxmock.NewRows([]string{"count", "avg", "max", "last"}).
					AddRow(tt.count, tt.avg, tt.best, tt.last))

			stats, err := NewScoreRepository(mock).GetStats(ctx, 5)
			require.NoError(t, err)

			assert.Equal(t, int64(5), stats.UserID)
			assert.Equal(t, tt.count, stats.QuizzesTaken)
			assert.Equal(t, tt.wantAvg, stats.AverageScore)
			assert.Equal(t, tt.best, stats.BestScore)
			assert.Equal(t, tt.last, stats.LastPlayedAt)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestScoreRepository_ListByUser(t *testing.T) {
	ctx := context.Background()
	recordedAt := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	columns := []string{"id", "user_id", "level_id", "percentage", "recorded_at"}

	t.Run("newest first", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(regexp.QuoteMeta("ORDER BY recorded_at DESC")).
			WithArgs(int64(5), 10).
			WillReturnRows(pgxmock.NewRows(columns).
				AddRow(int64(2), int64(5), "level2", 70, recordedAt).
				AddRow(int64(1), int64(5), "level1", 100, recordedAt.Add(-time.Hour)))

		records, err := NewScoreRepository(mock).ListByUser(ctx, 5, 10)
		require.NoError(t, err)

		require.Len(t, records, 2)
		assert.Equal(t, "level2", records[0].LevelID)
		assert.Equal(t, 70, records[0].Percentage)
		assert.Equal(t, int64(1), records[1].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no scores", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM quiz_scores")).
			WithArgs(int64(5), 10).
			WillReturnRows(pgxmock.NewRows(columns))

		records, err := NewScoreRepository(mock).ListByUser(ctx, 5, 10)
		require.NoError(t, err)

		assert.NotNil(t, records)
		assert.Empty(t, records)
	})
}

func TestScoreWriter_WriteScore(t *testing.T) {
	ctx := context.Background()
	recordedAt := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

	t.Run("score and last quiz in one transaction", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO quiz_scores")).
			WithArgs(int64(5), "level1", 80, recordedAt).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(11)))
		mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET last_quiz_at = $2")).
			WithArgs(int64(5), recordedAt).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectCommit()

		rec := &entities.ScoreRecord{UserID: 5, LevelID: "level1", Percentage: 80, RecordedAt: recordedAt}
		require.NoError(t, NewScoreWriter(postgres.NewTransactor(mock)).WriteScore(ctx, rec))

		assert.Equal(t, int64(11), rec.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown user rolls back", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO quiz_scores")).
			WithArgs(int64(5), "level1", 80, recordedAt).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(11)))
		mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET last_quiz_at = $2")).
			WithArgs(int64(5), recordedAt).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		mock.ExpectRollback()

		rec := &entities.ScoreRecord{UserID: 5, LevelID: "level1", Percentage: 80, RecordedAt: recordedAt}
		err := NewScoreWriter(postgres.NewTransactor(mock)).WriteScore(ctx, rec)

		assert.ErrorIs(t, err, ErrUserNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
