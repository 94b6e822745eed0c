package storage

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/insaafai/ipc-quiz-bot/internal/service"
)

func TestQuizStorage(t *testing.T) {
	s := NewQuizStorage()

	_, ok := s.Get(1)
	assert.False(t, ok)
	assert.Empty(t, s.All())

	first := service.NewQuizEngine(nil, nil, zap.NewNop())
	second := service.NewQuizEngine(nil, nil, zap.NewNop())

	s.Store(1, first)
	s.Store(2, second)

	got, ok := s.Get(1)
	require.True(t, ok)
	assert.Same(t, first, got)
	assert.Len(t, s.All(), 2)

	s.Store(1, second)
	got, _ = s.Get(1)
	assert.Same(t, second, got)

	s.Delete(1)
	_, ok = s.Get(1)
	assert.False(t, ok)
	assert.Len(t, s.All(), 1)
}

func TestQuizStorage_Concurrent(t *testing.T) {
	s := NewQuizStorage()

	var wg sync.WaitGroup
	for i := int64(0); i < 50; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			s.Store(userID, service.NewQuizEngine(nil, nil, zap.NewNop()))
			_, _ = s.Get(userID)
			_ = s.All()
		}(i)
	}
	wg.Wait()

	assert.Len(t, s.All(), 50)
}

func TestMessageStorage(t *testing.T) {
	s := NewMessageStorage()

	_, ok := s.Get(10)
	assert.False(t, ok)

	_, hadPrev := s.UpsertAndGetPrev(10, 100)
	assert.False(t, hadPrev)

	prev, hadPrev := s.UpsertAndGetPrev(10, 101)
	require.True(t, hadPrev)
	assert.Equal(t, 100, prev.MessageID)
	assert.Equal(t, int64(10), prev.ChatID)

	cur, ok := s.Get(10)
	require.True(t, ok)
	assert.Equal(t, 101, cur.MessageID)
	assert.False(t, cur.SentAt.IsZero())

	_, hadPrev = s.UpsertAndGetPrev(20, 200)
	assert.False(t, hadPrev)

	s.Delete(10)
	_, ok = s.Get(10)
	assert.False(t, ok)

	_, ok = s.Get(20)
	assert.True(t, ok)
}
