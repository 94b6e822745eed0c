package entities

import "time"

// UserStats aggregates quiz history of a single user.
type UserStats struct {
	UserID       int64      `json:"user_id"`
	QuizzesTaken int        `json:"quizzes_taken"`
	AverageScore int        `json:"average_score"` // rounded mean percentage
	BestScore    int        `json:"best_score"`
	LastPlayedAt *time.Time `json:"last_played_at,omitempty"`
}
