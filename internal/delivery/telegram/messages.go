// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/insaafai/ipc-quiz-bot/internal/domain/entities"
	"github.com/insaafai/ipc-quiz-bot/internal/service"
)

// Error messages.
const (
	msgQuizUnavailable    = "Could not start the quiz, please try again later."
	msgLevelNotFound      = "This quiz level does not exist."
	msgQuestionExpired    = "This question is no longer active."
	msgAlreadyAnswered    = "You have already answered this question."
	msgAnswerFirst        = "Answer the question first."
	msgInvalidOption      = "This option is not available."
	msgNoActiveQuiz       = "You have no active quiz. Use /quiz to pick a level."
	msgProfileUnavailable = "Could not load your profile, please try again later."
	msgHistoryUnavailable = "Could not load your quiz history, please try again later."
	msgExportUnavailable  = "Could not export your quiz history, please try again later."
	msgHistoryEmpty       = "You have not finished any quizzes yet. Use /quiz to start one."
	msgInternalError      = "Something went wrong. Please try again later."
	msgResetUnavailable   = "Could not erase your quiz history, please try again later."
	msgResetPrompt        = "Erase all your quiz results? Your stats and history will start from zero."
	msgResetDone          = "Your quiz history has been erased."
	msgResetCancelled     = "Nothing was erased."
	msgUnknownCommand     = "Unknown command. Available commands:\n\n/quiz — pick a quiz level\n/profile — your stats\n/history — recent results\n/export — download your history\n/reset — erase your history\n/help — help"
)

const (
	historyLength          = 10
	exportFileName         = "ipc-quiz-history.xlsx"
	progressBarLength      = 10
	resultProgressBarWidth = 10
)

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

// newPlainMessage creates a plain message without MarkdownV2 parse mode.
func newPlainMessage(chatID int64, text string) tgbotapi.MessageConfig {
	return tgbotapi.NewMessage(chatID, text)
}

// newEdit creates an edit with MarkdownV2 parse mode.
func newEdit(chatID int64, msgID int, text string) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	return edit
}

// welcomeMessage builds welcome message safely for MarkdownV2.
func welcomeMessage() string {
	var sb strings.Builder

	sb.WriteString(bold("InsaafAI IPC Quiz"))
	sb.WriteString("\n\n")
	sb.WriteString(md("Test your knowledge of the Indian Penal Code, level by level."))
	sb.WriteString("\n\n")

	sb.WriteString(md("📚 /quiz — pick one of the quiz levels"))
	sb.WriteString("\n")
	sb.WriteString(md("👤 /profile — quizzes taken and average score"))
	sb.WriteString("\n")
	sb.WriteString(md("🕘 /history — your latest results"))
	sb.WriteString("\n")
	sb.WriteString(md("📄 /export — download your history as a spreadsheet"))
	sb.WriteString("\n")
	sb.WriteString(md("🗑 /reset — erase your quiz history"))
	sb.WriteString("\n\n")

	sb.WriteString(md("Each question has one correct answer. Good luck!"))

	return sb.String()
}

// formatLevelsMenu formats the level picker.
func formatLevelsMenu(levels []*entities.QuizLevel) string {
	var sb strings.Builder
	sb.WriteString(bold("⚖️ Legal Quiz Challenge"))
	sb.WriteString("\n\n")

	for i, l := range levels {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(bold(l.Title))
		sb.WriteString("\n")
		sb.WriteString(md(fmt.Sprintf("%s · %d questions", l.Description, l.Total())))
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatQuizQuestion formats a quiz question (MarkdownV2 safe for question text).
func formatQuizQuestion(title string, v service.QuestionView) string {
	return fmt.Sprintf(
		"%s\n%s\n\n%s",
		bold(title),
		md(fmt.Sprintf("Question %d of %d · Score: %d", v.Index+1, v.Total, v.Score)),
		bold(v.Prompt),
	)
}

// formatAnswerFeedback formats a question after it was answered (MarkdownV2 safe).
func formatAnswerFeedback(title string, v service.AnswerView) string {
	var feedback string
	if v.Correct {
		feedback = md("✅ Correct!")
	} else {
		feedback = fmt.Sprintf(
			"%s\n%s %s",
			md("❌ Incorrect"),
			md("Correct answer:"),
			bold(v.Options[v.CorrectIndex]),
		)
	}

	return fmt.Sprintf(
		"%s\n%s\n\n%s\n\n%s",
		bold(title),
		md(fmt.Sprintf("Question %d of %d · Score: %d", v.Index+1, v.Total, v.Score)),
		bold(v.Prompt),
		feedback,
	)
}

// formatQuizResult formats quiz results (MarkdownV2 safe).
func formatQuizResult(title string, r entities.QuizResult) string {
	emoji, message := "📚", "Keep studying the Code!"
	switch {
	case r.Percentage >= 90:
		emoji, message = "🌟", "Excellent result!"
	case r.Percentage >= 70:
		emoji, message = "👍", "Good result!"
	case r.Percentage >= 50:
		emoji, message = "💪", "Not bad, keep going!"
	}

	return fmt.Sprintf(
		"%s %s\n%s\n\n%s %s\n%s\n\n%s",
		md(emoji),
		bold("Quiz completed!"),
		md(title),
		md("You scored"),
		bold(fmt.Sprintf("%d out of %d (%d%%)", r.Score, r.Total, r.Percentage)),
		md(buildProgressBar(r.Percentage, 100, resultProgressBarWidth)),
		md(message),
	)
}

// formatProfile formats user quiz statistics.
func formatProfile(username string, s *entities.UserStats) string {
	last := "never"
	if s.LastPlayedAt != nil {
		last = s.LastPlayedAt.UTC().Format("02 Jan 2006")
	}

	return fmt.Sprintf(
		"%s\n\n%s\n\n%s\n%s\n%s\n%s\n",
		bold("👤 "+username),
		md(buildProgressBar(s.AverageScore, 100, progressBarLength)),
		md(fmt.Sprintf("🧠 Quizzes taken: %d", s.QuizzesTaken)),
		md(fmt.Sprintf("🎯 Average score: %d%%", s.AverageScore)),
		md(fmt.Sprintf("🏆 Best score: %d%%", s.BestScore)),
		md(fmt.Sprintf("📅 Last quiz: %s", last)),
	)
}

// formatHistory formats the latest quiz scores.
func formatHistory(records []*entities.ScoreRecord, titles map[string]string) string {
	var sb strings.Builder
	sb.WriteString(bold("🕘 Recent results"))
	sb.WriteString("\n\n")

	for _, r := range records {
		title := titles[r.LevelID]
		if title == "" {
			title = r.LevelID
		}
		sb.WriteString(md(fmt.Sprintf("%s · %s · %d%%",
			r.RecordedAt.UTC().Format("02 Jan 15:04"),
			title,
			r.Percentage,
		)))
		sb.WriteString("\n")
	}

	return sb.String()
}

// buildProgressBar creates ASCII progress bar.
func buildProgressBar(current, total, length int) string {
	if total <= 0 {
		return "[" + strings.Repeat("░", length) + "]"
	}

	filled := current * length / total
	if filled > length {
		filled = length
	}
	if filled < 0 {
		filled = 0
	}

	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", length-filled) + "]"
}

func usernameOf(u *tgbotapi.User) string {
	if u == nil {
		return "Guest"
	}
	if u.UserName != "" {
		return u.UserName
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
