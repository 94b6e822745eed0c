package storage

import (
	"sync"

	"github.com/insaafai/ipc-quiz-bot/internal/service"
)

// QuizStorage provides in-memory storage for quiz engines by user ID.
type QuizStorage struct {
	mu      sync.RWMutex
	engines map[int64]*service.QuizEngine
}

// NewQuizStorage creates a new QuizStorage.
func NewQuizStorage() *QuizStorage {
	return &QuizStorage{
		engines: make(map[int64]*service.QuizEngine),
	}
}

// Store saves the engine of a given user, replacing any previous one.
func (s *QuizStorage) Store(userID int64, engine *service.QuizEngine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engines[userID] = engine
}

// Get retrieves the engine of a given user.
func (s *QuizStorage) Get(userID int64) (*service.QuizEngine, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.engines[userID]
	return e, ok
}

// All returns every stored engine.
func (s *QuizStorage) All() []*service.QuizEngine {
	s.mu.RLock()
	defer s.mu.RUnlock()

	engines := make([]*service.QuizEngine, 0, len(s.engines))
	for _, e := range s.engines {
		engines = append(engines, e)
	}
	return engines
}

// Delete removes the engine of a given user.
func (s *QuizStorage) Delete(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.engines, userID)
}
