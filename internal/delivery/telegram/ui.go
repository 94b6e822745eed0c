package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/insaafai/ipc-quiz-bot/internal/domain/entities"
	"github.com/insaafai/ipc-quiz-bot/internal/service"
)

// buildLevelsKeyboard builds the level picker, two levels per row.
func buildLevelsKeyboard(levels []*entities.QuizLevel) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton

	for _, l := range levels {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(l.Title, buildQuizLevelCallback(l.ID)))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildQuizAnswerKeyboard builds keyboard for quiz question.
func buildQuizAnswerKeyboard(v service.QuestionView) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, option := range v.Options {
		data := buildQuizAnswerCallback(v.LevelID, v.Index, i)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(option, data)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildAnsweredKeyboard marks the correct and the selected option and offers to move on.
func buildAnsweredKeyboard(v service.AnswerView) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, option := range v.Options {
		text := option
		switch {
		case i == v.CorrectIndex:
			text = "✅ " + option
		case i == v.SelectedIndex:
			text = "❌ " + option
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(text, buildNoopCallback())))
	}

	next := "Next question ▶️"
	if v.Index+1 == v.Total {
		next = "Show result 🏁"
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(next, buildQuizNextCallback(v.LevelID, v.Index)),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildQuizResultKeyboard builds keyboard for quiz results screen.
func buildQuizResultKeyboard(levelID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Try again", buildQuizLevelCallback(levelID)),
			tgbotapi.NewInlineKeyboardButtonData("📚 Back to quizzes", buildQuizMenuCallback()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👤 My profile", buildProfileCallback()),
		),
	)
}

// buildResetKeyboard builds keyboard for reset confirmation.
func buildResetKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Yes, erase", buildResetConfirmCallback()),
			tgbotapi.NewInlineKeyboardButtonData("Cancel", buildResetCancelCallback()),
		),
	)
}

// buildProfileKeyboard builds keyboard for profile screen.
func buildProfileKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🕘 History", buildHistoryCallback()),
			tgbotapi.NewInlineKeyboardButtonData("📄 Export", buildExportCallback()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎯 Start a quiz", buildQuizMenuCallback()),
		),
	)
}
