package entities

import "time"

// QuizLevel is a named, fixed, ordered set of quiz questions.
type QuizLevel struct {
	ID          string     `json:"id" yaml:"id" validate:"required"`
	Title       string     `json:"title" yaml:"title" validate:"required"`
	Description string     `json:"description" yaml:"description"`
	Questions   []Question `json:"questions" yaml:"questions" validate:"required,min=1,dive"`
}

// Total returns the number of questions in the level.
func (l *QuizLevel) Total() int {
	return len(l.Questions)
}

// QuizResult is the outcome of a completed quiz session.
type QuizResult struct {
	LevelID     string    // level the session was played on
	Score       int       // number of correctly answered questions
	Total       int       // number of questions in the level
	Percentage  int       // score as a rounded percentage of total
	CompletedAt time.Time // moment the last question was advanced past
}

// NewQuizResult builds a result for the given level and score.
func NewQuizResult(levelID string, score, total int, completedAt time.Time) QuizResult {
	return QuizResult{
		LevelID:     levelID,
		Score:       score,
		Total:       total,
		Percentage:  Percentage(score, total),
		CompletedAt: completedAt,
	}
}

// Percentage returns 100*score/total rounded half up.
// A non-positive total yields zero.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*score + total) / (2 * total)
}

// ScoreRecord is a persisted quiz percentage of a user.
type ScoreRecord struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	LevelID    string    `json:"level_id"`
	Percentage int       `json:"percentage"`
	RecordedAt time.Time `json:"recorded_at"`
}
