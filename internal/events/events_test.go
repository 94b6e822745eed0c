package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/insaafai/ipc-quiz-bot/internal/domain/entities"
)

type fakeWriter struct {
	mu      sync.Mutex
	records []*entities.ScoreRecord
	err     error
}

func (w *fakeWriter) WriteScore(_ context.Context, rec *entities.ScoreRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	rec.ID = int64(len(w.records) + 1)
	w.records = append(w.records, rec)
	return nil
}

func (w *fakeWriter) written() []*entities.ScoreRecord {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]*entities.ScoreRecord(nil), w.records...)
}

type fakeInvalidator struct {
	mu    sync.Mutex
	users []int64
}

func (f *fakeInvalidator) Invalidate(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users = append(f.users, userID)
	return nil
}

func (f *fakeInvalidator) invalidated() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.users...)
}

func TestScorePipeline(t *testing.T) {
	logger := zap.NewNop()
	pubSub := NewPubSub(logger)
	t.Cleanup(func() { _ = pubSub.Close() })

	writer := &fakeWriter{}
	cache := &fakeInvalidator{}

	router, err := NewRouter(pubSub, NewScoreConsumer(writer, cache, logger), logger)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	go func() { _ = router.Run(ctx) }()
	<-router.Running()

	publisher := NewScorePublisher(pubSub, logger)
	require.NoError(t, publisher.RecordScore(context.Background(), 42, "level3", 80))

	// Publishing blocks until the consumer has handled the event.
	require.Len(t, writer.written(), 1)
	assert.Equal(t, []int64{42}, cache.invalidated())

	rec := writer.written()[0]
	assert.Equal(t, int64(42), rec.UserID)
	assert.Equal(t, "level3", rec.LevelID)
	assert.Equal(t, 80, rec.Percentage)
	assert.False(t, rec.RecordedAt.IsZero())
}

func TestScorePublisher_CancelledContext(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubSub.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewScorePublisher(pubSub, zap.NewNop()).RecordScore(ctx, 1, "level1", 100)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScoreConsumer_Handle(t *testing.T) {
	t.Run("malformed payload is acked", func(t *testing.T) {
		writer := &fakeWriter{}
		consumer := NewScoreConsumer(writer, nil, zap.NewNop())

		err := consumer.Handle(message.NewMessage(watermill.NewUUID(), []byte("{")))
		assert.NoError(t, err)
		assert.Empty(t, writer.written())
	})

	t.Run("write failure is acked without invalidation", func(t *testing.T) {
		writer := &fakeWriter{err: errors.New("db down")}
		cache := &fakeInvalidator{}
		consumer := NewScoreConsumer(writer, cache, zap.NewNop())

		payload, err := json.Marshal(ScoreRecorded{UserID: 5, LevelID: "level1", Percentage: 60, RecordedAt: time.Now()})
		require.NoError(t, err)

		assert.NoError(t, consumer.Handle(message.NewMessage(watermill.NewUUID(), payload)))
		assert.Empty(t, cache.invalidated())
	})
}
