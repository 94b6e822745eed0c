package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"go.uber.org/zap"

	"github.com/insaafai/ipc-quiz-bot/internal/domain/entities"
)

const (
	handlerName  = "persist_quiz_score"
	writeTimeout = 5 * time.Second
)

// ScoreWriter durably stores a score record.
type ScoreWriter interface {
	WriteScore(ctx context.Context, rec *entities.ScoreRecord) error
}

// StatsInvalidator drops cached stats of a user.
type StatsInvalidator interface {
	Invalidate(ctx context.Context, userID int64) error
}

// ScoreConsumer persists ScoreRecorded events.
type ScoreConsumer struct {
	writer ScoreWriter
	cache  StatsInvalidator
	logger *zap.Logger
}

func NewScoreConsumer(writer ScoreWriter, cache StatsInvalidator, logger *zap.Logger) *ScoreConsumer {
	return &ScoreConsumer{
		writer: writer,
		cache:  cache,
		logger: logger,
	}
}

// Handle stores one event. Failures are logged and the message is acked:
// scores are best-effort and never redelivered.
func (c *ScoreConsumer) Handle(msg *message.Message) error {
	var event ScoreRecorded
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		c.logger.Error("malformed score event",
			zap.String("message_id", msg.UUID),
			zap.Error(err),
		)
		return nil
	}

	ctx, cancel := context.WithTimeout(msg.Context(), writeTimeout)
	defer cancel()

	rec := &entities.ScoreRecord{
		UserID:     event.UserID,
		LevelID:    event.LevelID,
		Percentage: event.Percentage,
		RecordedAt: event.RecordedAt,
	}

	if err := c.writer.WriteScore(ctx, rec); err != nil {
		c.logger.Error("failed to persist quiz score",
			zap.String("message_id", msg.UUID),
			zap.Int64("user_id", event.UserID),
			zap.String("level_id", event.LevelID),
			zap.Error(err),
		)
		return nil
	}

	if c.cache != nil {
		if err := c.cache.Invalidate(ctx, event.UserID); err != nil {
			c.logger.Warn("failed to invalidate stats cache",
				zap.Int64("user_id", event.UserID),
				zap.Error(err),
			)
		}
	}

	c.logger.Info("quiz score persisted",
		zap.Int64("score_id", rec.ID),
		zap.Int64("user_id", rec.UserID),
		zap.String("level_id", rec.LevelID),
		zap.Int("percentage", rec.Percentage),
	)

	return nil
}

// NewRouter builds the message router delivering score events to the consumer.
func NewRouter(subscriber message.Subscriber, consumer *ScoreConsumer, logger *zap.Logger) (*message.Router, error) {
	router, err := message.NewRouter(message.RouterConfig{}, NewZapLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("new router: %w", err)
	}

	router.AddMiddleware(middleware.Recoverer)
	router.AddNoPublisherHandler(handlerName, TopicScoreRecorded, subscriber, consumer.Handle)

	return router, nil
}
