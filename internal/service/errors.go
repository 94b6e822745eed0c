package service

import (
	"errors"

	"github.com/insaafai/ipc-quiz-bot/internal/repository"
)

var (
	// ErrInvalidState is returned when an engine operation is invoked outside its precondition.
	ErrInvalidState = errors.New("invalid quiz state")
	// ErrInvalidOption is returned when the selected index is not one of the question options.
	ErrInvalidOption = errors.New("selected option out of range")
	// ErrLevelNotFound is returned when neither the level nor the fallback level exists.
	ErrLevelNotFound = repository.ErrLevelNotFound
	// ErrSinkFailure wraps failures of the score persistence sink. It never leaves the engine.
	ErrSinkFailure = errors.New("score sink failure")
)
