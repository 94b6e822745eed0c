package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"
)

// ScorePublisher is the quiz score sink: it publishes ScoreRecorded events.
type ScorePublisher struct {
	publisher message.Publisher
	logger    *zap.Logger
	topic     string
	now       func() time.Time
}

func NewScorePublisher(publisher message.Publisher, logger *zap.Logger) *ScorePublisher {
	return &ScorePublisher{
		publisher: publisher,
		logger:    logger,
		topic:     TopicScoreRecorded,
		now:       time.Now,
	}
}

// RecordScore publishes the finished quiz percentage of the user.
func (p *ScorePublisher) RecordScore(ctx context.Context, userID int64, levelID string, percentage int) error {
	event := ScoreRecorded{
		UserID:     userID,
		LevelID:    levelID,
		Percentage: percentage,
		RecordedAt: p.now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal score event: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_type", p.topic)
	msg.Metadata.Set("timestamp", event.RecordedAt.Format(time.RFC3339))

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("publish score event: %w", err)
	}

	p.logger.Debug("score event published",
		zap.String("message_id", msg.UUID),
		zap.Int64("user_id", userID),
		zap.String("level_id", levelID),
		zap.Int("percentage", percentage),
	)

	return nil
}
