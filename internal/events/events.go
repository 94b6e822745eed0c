package events

import (
	"time"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.uber.org/zap"
)

// TopicScoreRecorded carries finished quiz scores.
const TopicScoreRecorded = "quiz.score_recorded"

// ScoreRecorded is published once per completed quiz of an authenticated user.
type ScoreRecorded struct {
	UserID     int64     `json:"user_id"`
	LevelID    string    `json:"level_id"`
	Percentage int       `json:"percentage"`
	RecordedAt time.Time `json:"recorded_at"`
}

// NewPubSub creates the in-process pub/sub for score events. Publish returns
// only after the consumer has acked the message, so a returned RecordScore
// means the score has been handled.
func NewPubSub(logger *zap.Logger) *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{
		BlockPublishUntilSubscriberAck: true,
	}, NewZapLogger(logger))
}
