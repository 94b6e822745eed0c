package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type Handler struct {
	bot          BotAPI
	logger       *zap.Logger
	userService  UserService
	quizService  QuizService
	statsService StatsService
	exporter     HistoryExporter
	resetService ResetService
	titles       map[string]string
}

func NewHandler(
	bot BotAPI,
	logger *zap.Logger,
	userService UserService,
	quizService QuizService,
	statsService StatsService,
	exporter HistoryExporter,
	resetService ResetService,
) *Handler {
	titles := make(map[string]string)
	for _, l := range quizService.Levels() {
		titles[l.ID] = l.Title
	}

	return &Handler{
		bot:          bot,
		logger:       logger,
		userService:  userService,
		quizService:  quizService,
		statsService: statsService,
		exporter:     exporter,
		resetService: resetService,
		titles:       titles,
	}
}

// Commands returns the bot command list shown in the Telegram menu.
func Commands() []tgbotapi.BotCommand {
	return []tgbotapi.BotCommand{
		{Command: "start", Description: "Start the bot"},
		{Command: "quiz", Description: "Pick a quiz level"},
		{Command: "profile", Description: "Your quiz stats"},
		{Command: "history", Description: "Recent quiz results"},
		{Command: "export", Description: "Download quiz history"},
		{Command: "reset", Description: "Erase quiz history"},
		{Command: "help", Description: "Help"},
	}
}

// Run processes updates one by one until ctx is cancelled.
func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.ensureUser(ctx, update.CallbackQuery.From, callbackChatID(update.CallbackQuery))
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	from := update.Message.From
	chatID := update.Message.Chat.ID
	h.ensureUser(ctx, from, chatID)

	if !update.Message.IsCommand() {
		_ = h.send(newPlainMessage(chatID, msgUnknownCommand))
		return
	}

	switch update.Message.Command() {
	case "start", "help":
		_ = h.send(newMessage(chatID, welcomeMessage()))

	case "quiz":
		_ = h.withErrorHandling(h.handleQuizMenu(update.Message.CommandArguments(), from.ID))(ctx, chatID)

	case "profile":
		_ = h.withErrorHandling(h.handleProfile(from))(ctx, chatID)

	case "history":
		_ = h.withErrorHandling(h.handleHistory(from.ID))(ctx, chatID)

	case "export":
		_ = h.withErrorHandling(h.handleExport(from.ID))(ctx, chatID)

	case "reset":
		_ = h.withErrorHandling(h.handleResetPrompt())(ctx, chatID)

	default:
		_ = h.send(newPlainMessage(chatID, msgUnknownCommand))
	}
}

// ensureUser registers the sender. Failures only cost score persistence.
func (h *Handler) ensureUser(ctx context.Context, from *tgbotapi.User, chatID int64) {
	if from == nil {
		return
	}

	if err := h.userService.EnsureUser(ctx, from.ID, chatID, from.UserName); err != nil {
		h.logger.Error("failed to ensure user",
			zap.Int64("user_id", from.ID),
			zap.Error(err),
		)
	}
}

func (h *Handler) sendError(chatID int64, text string) {
	_ = h.send(newPlainMessage(chatID, text))
}

func (h *Handler) send(c tgbotapi.Chattable) error {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
		return err
	}
	return nil
}

func callbackChatID(cb *tgbotapi.CallbackQuery) int64 {
	if cb.Message != nil && cb.Message.Chat != nil {
		return cb.Message.Chat.ID
	}
	return cb.From.ID
}
