package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/insaafai/ipc-quiz-bot/internal/domain/entities"
)

var (
	ErrLevelNotFound       = errors.New("quiz level not found")
	ErrEmptyQuestionBank   = errors.New("question bank has no levels")
	ErrDuplicateLevel      = errors.New("duplicate quiz level id")
	ErrCorrectIndexInRange = errors.New("correct index out of options range")
)

// QuestionBank provides read-only access to the quiz levels.
// The whole bank is loaded in memory at construction time.
type QuestionBank struct {
	levels []*entities.QuizLevel
	byID   map[string]*entities.QuizLevel
}

// NewQuestionBank loads and validates the bank from a JSON or YAML file.
func NewQuestionBank(path string) (*QuestionBank, error) {
	levels, err := loadLevels(path)
	if err != nil {
		return nil, err
	}

	return NewQuestionBankFromLevels(levels)
}

// NewQuestionBankFromLevels validates levels and builds a bank preserving their order.
func NewQuestionBankFromLevels(levels []*entities.QuizLevel) (*QuestionBank, error) {
	if len(levels) == 0 {
		return nil, ErrEmptyQuestionBank
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	byID := make(map[string]*entities.QuizLevel, len(levels))
	for _, level := range levels {
		if level == nil {
			return nil, fmt.Errorf("nil level in question bank")
		}
		if err := validate.Struct(level); err != nil {
			return nil, fmt.Errorf("validate level %q: %w", level.ID, err)
		}
		if _, exists := byID[level.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateLevel, level.ID)
		}

		for i, q := range level.Questions {
			if !q.HasOption(q.CorrectIndex) {
				return nil, fmt.Errorf("level %s question %d: %w", level.ID, i+1, ErrCorrectIndexInRange)
			}
		}

		byID[level.ID] = level
	}

	return &QuestionBank{
		levels: levels,
		byID:   byID,
	}, nil
}

// GetLevel returns the level with the given id.
func (b *QuestionBank) GetLevel(levelID string) (*entities.QuizLevel, error) {
	level, ok := b.byID[levelID]
	if !ok {
		return nil, ErrLevelNotFound
	}
	return level, nil
}

// Levels returns all levels in the order they were declared.
func (b *QuestionBank) Levels() []*entities.QuizLevel {
	return b.levels
}

func loadLevels(path string) ([]*entities.QuizLevel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var wrapper struct {
		Levels []*entities.QuizLevel `json:"levels" yaml:"levels"`
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err = yaml.Unmarshal(data, &wrapper); err != nil {
			return nil, fmt.Errorf("failed to unmarshal question bank YAML: %w", err)
		}
	default:
		if err = json.Unmarshal(data, &wrapper); err != nil {
			return nil, fmt.Errorf("failed to unmarshal question bank JSON: %w", err)
		}
	}

	return wrapper.Levels, nil
}
