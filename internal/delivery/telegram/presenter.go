package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/insaafai/ipc-quiz-bot/internal/domain/entities"
	"github.com/insaafai/ipc-quiz-bot/internal/service"
)

// Presenter renders quiz engine events as Telegram messages.
type Presenter struct {
	bot      BotAPI
	messages QuestionMessages
	titles   map[string]string
	logger   *zap.Logger
}

func NewPresenter(bot BotAPI, messages QuestionMessages, levels []*entities.QuizLevel, logger *zap.Logger) *Presenter {
	titles := make(map[string]string, len(levels))
	for _, l := range levels {
		titles[l.ID] = l.Title
	}

	return &Presenter{
		bot:      bot,
		messages: messages,
		titles:   titles,
		logger:   logger,
	}
}

// ForChat returns a listener bound to a single chat.
func (p *Presenter) ForChat(chatID int64) service.Listener {
	return &chatPresenter{Presenter: p, chatID: chatID}
}

type chatPresenter struct {
	*Presenter
	chatID int64
}

// QuestionShown sends the question with its options as buttons.
func (c *chatPresenter) QuestionShown(v service.QuestionView) {
	msg := newMessage(c.chatID, formatQuizQuestion(c.title(v.LevelID), v))
	msg.ReplyMarkup = buildQuizAnswerKeyboard(v)

	sent, err := c.bot.Send(msg)
	if err != nil {
		c.logger.Error("failed to send quiz question",
			zap.Int64("chat_id", c.chatID),
			zap.String("level_id", v.LevelID),
			zap.Int("question", v.Index),
			zap.Error(err),
		)
		return
	}

	// A question of an abandoned quiz must not stay clickable.
	if prev, ok := c.messages.UpsertAndGetPrev(c.chatID, sent.MessageID); ok && prev.MessageID != sent.MessageID {
		c.clearKeyboard(prev.MessageID)
	}
}

// AnswerEvaluated rewrites the question message with feedback.
func (c *chatPresenter) AnswerEvaluated(v service.AnswerView) {
	stored, ok := c.messages.Get(c.chatID)
	if !ok {
		c.logger.Warn("no question message to update",
			zap.Int64("chat_id", c.chatID),
		)
		return
	}

	edit := newEdit(c.chatID, stored.MessageID, formatAnswerFeedback(c.title(v.LevelID), v))
	kb := buildAnsweredKeyboard(v)
	edit.ReplyMarkup = &kb

	c.request(edit, "failed to show answer feedback")
}

// QuizCompleted sends the result screen.
func (c *chatPresenter) QuizCompleted(r entities.QuizResult) {
	if stored, ok := c.messages.Get(c.chatID); ok {
		c.clearKeyboard(stored.MessageID)
		c.messages.Delete(c.chatID)
	}

	msg := newMessage(c.chatID, formatQuizResult(c.title(r.LevelID), r))
	msg.ReplyMarkup = buildQuizResultKeyboard(r.LevelID)

	if _, err := c.bot.Send(msg); err != nil {
		c.logger.Error("failed to send quiz result",
			zap.Int64("chat_id", c.chatID),
			zap.String("level_id", r.LevelID),
			zap.Error(err),
		)
	}
}

func (c *chatPresenter) clearKeyboard(messageID int) {
	edit := tgbotapi.NewEditMessageReplyMarkup(c.chatID, messageID, tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{},
	})
	c.request(edit, "failed to clear quiz keyboard")
}

func (c *chatPresenter) request(ch tgbotapi.Chattable, errMsg string) {
	if _, err := c.bot.Request(ch); err != nil {
		c.logger.Error(errMsg,
			zap.Int64("chat_id", c.chatID),
			zap.Error(err),
		)
	}
}

func (p *Presenter) title(levelID string) string {
	if t, ok := p.titles[levelID]; ok {
		return t
	}
	return levelID
}
