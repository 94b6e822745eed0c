package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/insaafai/ipc-quiz-bot/internal/infra/postgres"
)

// ResetRepository wipes the quiz history of a user.
type ResetRepository struct {
	transactor *postgres.Transactor
}

func NewResetRepository(transactor *postgres.Transactor) *ResetRepository {
	return &ResetRepository{transactor: transactor}
}

// ResetUser deletes all scores of the user and clears the last quiz time.
// It returns the number of deleted scores.
func (r *ResetRepository) ResetUser(ctx context.Context, userID int64) (int64, error) {
	var deleted int64

	err := r.transactor.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM quiz_scores WHERE user_id = $1`, userID)
		if err != nil {
			return fmt.Errorf("delete quiz_scores: %w", err)
		}
		deleted = tag.RowsAffected()

		if _, err := tx.Exec(ctx, `UPDATE users SET last_quiz_at = NULL WHERE id = $1`, userID); err != nil {
			return fmt.Errorf("clear last_quiz_at: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return deleted, nil
}
