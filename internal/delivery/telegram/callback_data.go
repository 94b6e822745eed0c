package telegram

import (
	"errors"
	"strconv"
	"strings"
)

// Callback action constants.
const (
	actionQuiz    = "quiz"
	actionProfile = "profile"
	actionHistory = "history"
	actionExport  = "export"
	actionReset   = "reset"
	actionNoop    = "noop"
)

// Reset sub-actions.
const (
	resetConfirm = "confirm"
	resetCancel  = "cancel"
)

// Quiz sub-actions.
const (
	quizMenu   = "menu"
	quizLevel  = "level"
	quizAnswer = "answer"
	quizNext   = "next"
)

var errMalformedCallback = errors.New("malformed callback data")

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	if len(parts) == 0 {
		return callbackData{Raw: data}
	}

	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// quizAnswerData identifies an option of a specific question.
type quizAnswerData struct {
	LevelID     string
	Question    int
	AnswerIndex int
}

// quizNextData identifies the question the user wants to move past.
type quizNextData struct {
	LevelID  string
	Question int
}

// buildQuizMenuCallback builds callback data for the level picker.
func buildQuizMenuCallback() string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{quizMenu},
	}.encode()
}

// buildQuizLevelCallback builds callback data for starting a level.
func buildQuizLevelCallback(levelID string) string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{quizLevel, levelID},
	}.encode()
}

// buildQuizAnswerCallback builds callback data for answering a quiz question.
func buildQuizAnswerCallback(levelID string, question, answerIndex int) string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{
			quizAnswer,
			levelID,
			strconv.Itoa(question),
			strconv.Itoa(answerIndex),
		},
	}.encode()
}

// buildQuizNextCallback builds callback data for moving to the next question.
func buildQuizNextCallback(levelID string, question int) string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{quizNext, levelID, strconv.Itoa(question)},
	}.encode()
}

func buildProfileCallback() string {
	return actionProfile
}

func buildHistoryCallback() string {
	return actionHistory
}

func buildExportCallback() string {
	return actionExport
}

func buildResetConfirmCallback() string {
	return callbackData{Action: actionReset, Params: []string{resetConfirm}}.encode()
}

func buildResetCancelCallback() string {
	return callbackData{Action: actionReset, Params: []string{resetCancel}}.encode()
}

func buildNoopCallback() string {
	return actionNoop
}

// parseQuizAnswer parses params of a quiz answer callback (without the sub-action).
func parseQuizAnswer(params []string) (quizAnswerData, error) {
	if len(params) != 3 || params[0] == "" {
		return quizAnswerData{}, errMalformedCallback
	}

	question, err1 := strconv.Atoi(params[1])
	answer, err2 := strconv.Atoi(params[2])
	if err1 != nil || err2 != nil || question < 0 || answer < 0 {
		return quizAnswerData{}, errMalformedCallback
	}

	return quizAnswerData{
		LevelID:     params[0],
		Question:    question,
		AnswerIndex: answer,
	}, nil
}

// parseQuizNext parses params of a quiz next callback (without the sub-action).
func parseQuizNext(params []string) (quizNextData, error) {
	if len(params) != 2 || params[0] == "" {
		return quizNextData{}, errMalformedCallback
	}

	question, err := strconv.Atoi(params[1])
	if err != nil || question < 0 {
		return quizNextData{}, errMalformedCallback
	}

	return quizNextData{
		LevelID:  params[0],
		Question: question,
	}, nil
}
