package service

import (
	"context"
	"sync"

	"github.com/insaafai/ipc-quiz-bot/internal/domain/entities"
)

type UserService struct {
	repository UserRepository

	mu         sync.RWMutex
	registered map[int64]struct{}
}

func NewUserService(repository UserRepository) *UserService {
	return &UserService{
		repository: repository,
		registered: make(map[int64]struct{}),
	}
}

// EnsureUser registers the user on first contact.
func (s *UserService) EnsureUser(ctx context.Context, userID, chatID int64, username string) error {
	if s.IsRegistered(userID) {
		return nil
	}

	exists, err := s.repository.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		if _, err = s.repository.Save(ctx, entities.NewUser(userID, chatID, username)); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.registered[userID] = struct{}{}
	s.mu.Unlock()

	return nil
}

// IsRegistered reports whether the user was stored during this process lifetime.
func (s *UserService) IsRegistered(userID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.registered[userID]
	return ok
}
