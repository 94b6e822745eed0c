package repository

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/insaafai/ipc-quiz-bot/internal/domain/entities"
	"github.com/insaafai/ipc-quiz-bot/internal/infra/postgres"
)

// ScoreRepository stores finished quiz percentages.
type ScoreRepository struct {
	db postgres.DBTX
}

func NewScoreRepository(db postgres.DBTX) *ScoreRepository {
	return &ScoreRepository{db: db}
}

// Insert stores a score record and fills its ID.
func (r *ScoreRepository) Insert(ctx context.Context, rec *entities.ScoreRecord) error {
	query := `
		INSERT INTO quiz_scores (user_id, level_id, percentage, recorded_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, rec.UserID, rec.LevelID, rec.Percentage, rec.RecordedAt).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("insert quiz score: %w", err)
	}

	return nil
}

// GetStats aggregates all scores of the user.
func (r *ScoreRepository) GetStats(ctx context.Context, userID int64) (*entities.UserStats, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(AVG(percentage), 0),
			COALESCE(MAX(percentage), 0),
			MAX(recorded_at)
		FROM quiz_scores
		WHERE user_id = $1
	`

	var (
		avg  float64
		last *time.Time
	)
	stats := entities.UserStats{UserID: userID}
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&stats.QuizzesTaken,
		&avg,
		&stats.BestScore,
		&last,
	)
	if err != nil {
		return nil, fmt.Errorf("get quiz stats: %w", err)
	}

	stats.AverageScore = int(math.Round(avg))
	stats.LastPlayedAt = last

	return &stats, nil
}

// ListByUser returns the newest scores of the user.
func (r *ScoreRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*entities.ScoreRecord, error) {
	query := `
		SELECT id, user_id, level_id, percentage, recorded_at
		FROM quiz_scores
		WHERE user_id = $1
		ORDER BY recorded_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list quiz scores: %w", err)
	}
	defer rows.Close()

	records := make([]*entities.ScoreRecord, 0)
	for rows.Next() {
		var rec entities.ScoreRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.LevelID, &rec.Percentage, &rec.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan quiz score: %w", err)
		}
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quiz scores: %w", err)
	}

	return records, nil
}

// ScoreWriter stores a finished quiz in one transaction:
// the score row and the user's last quiz timestamp.
type ScoreWriter struct {
	transactor *postgres.Transactor
}

func NewScoreWriter(transactor *postgres.Transactor) *ScoreWriter {
	return &ScoreWriter{transactor: transactor}
}

func (w *ScoreWriter) WriteScore(ctx context.Context, rec *entities.ScoreRecord) error {
	return w.transactor.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := NewScoreRepository(tx).Insert(ctx, rec); err != nil {
			return err
		}
		return NewUserRepository(tx).TouchLastQuiz(ctx, rec.UserID, rec.RecordedAt)
	})
}
