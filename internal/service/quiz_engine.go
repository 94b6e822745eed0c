package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sourcegraph/conc"
	"go.uber.org/zap"

	"github.com/insaafai/ipc-quiz-bot/internal/domain/entities"
)

const defaultSinkTimeout = 5 * time.Second

// QuestionBank resolves quiz levels by id.
type QuestionBank interface {
	GetLevel(levelID string) (*entities.QuizLevel, error)
}

// ScoreSink durably records a finished quiz percentage for a user.
type ScoreSink interface {
	RecordScore(ctx context.Context, userID int64, levelID string, percentage int) error
}

// IdentityFunc reports the authenticated user, if any.
type IdentityFunc func() (userID int64, ok bool)

// Listener receives engine events for rendering.
type Listener interface {
	QuestionShown(view QuestionView)
	AnswerEvaluated(view AnswerView)
	QuizCompleted(result entities.QuizResult)
}

// Status is the state of the engine's session.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// QuestionView is what the presentation layer needs to render the current question.
type QuestionView struct {
	LevelID string
	Index   int // 0-based
	Total   int
	Score   int
	Prompt  string
	Options []string
}

// AnswerView describes an evaluated answer.
type AnswerView struct {
	LevelID       string
	Index         int
	Total         int
	Score         int
	SelectedIndex int
	CorrectIndex  int
	Correct       bool
	Prompt        string
	Options       []string
}

// AnswerOutcome is returned from SubmitAnswer.
type AnswerOutcome struct {
	Correct       bool
	SelectedIndex int
	CorrectIndex  int
	Score         int
}

// SessionState is a read-only snapshot of the engine.
type SessionState struct {
	Status   Status
	LevelID  string
	Index    int
	Total    int
	Score    int
	Answered bool
}

type quizSession struct {
	levelID      string
	questions    []entities.Question
	currentIndex int
	score        int
	answered     bool
}

func (s *quizSession) completed() bool {
	return s.currentIndex >= len(s.questions)
}

// EngineOption configures a QuizEngine.
type EngineOption func(*QuizEngine)

// WithFallbackLevel sets the level used when StartQuiz receives an unknown id.
// An empty id disables the fallback.
func WithFallbackLevel(levelID string) EngineOption {
	return func(e *QuizEngine) {
		e.fallbackLevel = levelID
	}
}

// WithIdentity sets the function reporting the authenticated user.
func WithIdentity(fn IdentityFunc) EngineOption {
	return func(e *QuizEngine) {
		e.identity = fn
	}
}

// WithListener subscribes a listener to engine events.
func WithListener(l Listener) EngineOption {
	return func(e *QuizEngine) {
		e.listener = l
	}
}

// WithSinkTimeout bounds a single sink call.
func WithSinkTimeout(d time.Duration) EngineOption {
	return func(e *QuizEngine) {
		if d > 0 {
			e.sinkTimeout = d
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) EngineOption {
	return func(e *QuizEngine) {
		e.now = now
	}
}

// QuizEngine drives a single quiz session from level selection through completion.
//
// The engine holds at most one session. It is not safe for concurrent use: callers
// invoke it from one event loop. Only the score sink runs outside the caller's
// goroutine and it never touches session state.
type QuizEngine struct {
	bank          QuestionBank
	sink          ScoreSink
	logger        *zap.Logger
	identity      IdentityFunc
	listener      Listener
	fallbackLevel string
	sinkTimeout   time.Duration
	now           func() time.Time

	session *quizSession
	result  *entities.QuizResult

	sinkCalls conc.WaitGroup
}

// NewQuizEngine creates an engine in the NotStarted state.
func NewQuizEngine(bank QuestionBank, sink ScoreSink, logger *zap.Logger, opts ...EngineOption) *QuizEngine {
	e := &QuizEngine{
		bank:        bank,
		sink:        sink,
		logger:      logger,
		identity:    func() (int64, bool) { return 0, false },
		sinkTimeout: defaultSinkTimeout,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}

	return e
}

// SetListener replaces the event listener. A nil listener stops event delivery.
func (e *QuizEngine) SetListener(l Listener) {
	e.listener = l
}

// StartQuiz replaces any previous session with a fresh one on the given level.
func (e *QuizEngine) StartQuiz(levelID string) (SessionState, error) {
	level, err := e.resolveLevel(levelID)
	if err != nil {
		return e.State(), err
	}
	if len(level.Questions) == 0 {
		return e.State(), fmt.Errorf("level %s has no questions: %w", level.ID, ErrInvalidState)
	}

	e.session = &quizSession{
		levelID:   level.ID,
		questions: level.Questions,
	}
	e.result = nil

	e.logger.Debug("quiz started",
		zap.String("level_id", level.ID),
		zap.String("requested_level_id", levelID),
		zap.Int("total", len(level.Questions)),
	)

	e.emitQuestion()

	return e.State(), nil
}

// SubmitAnswer evaluates the selected option of the current question.
// A question can be answered exactly once.
func (e *QuizEngine) SubmitAnswer(selectedIndex int) (AnswerOutcome, error) {
	s := e.session
	if s == nil {
		return AnswerOutcome{}, fmt.Errorf("no active quiz: %w", ErrInvalidState)
	}
	if s.completed() {
		return AnswerOutcome{}, fmt.Errorf("quiz already completed: %w", ErrInvalidState)
	}
	if s.answered {
		return AnswerOutcome{}, fmt.Errorf("question %d already answered: %w", s.currentIndex+1, ErrInvalidState)
	}

	q := s.questions[s.currentIndex]
	if !q.HasOption(selectedIndex) {
		return AnswerOutcome{}, fmt.Errorf("option %d of %d: %w", selectedIndex, len(q.Options), ErrInvalidOption)
	}

	s.answered = true
	correct := q.IsCorrect(selectedIndex)
	if correct {
		s.score++
	}

	outcome := AnswerOutcome{
		Correct:       correct,
		SelectedIndex: selectedIndex,
		CorrectIndex:  q.CorrectIndex,
		Score:         s.score,
	}

	if e.listener != nil {
		e.listener.AnswerEvaluated(AnswerView{
			LevelID:       s.levelID,
			Index:         s.currentIndex,
			Total:         len(s.questions),
			Score:         s.score,
			SelectedIndex: selectedIndex,
			CorrectIndex:  q.CorrectIndex,
			Correct:       correct,
			Prompt:        q.Prompt,
			Options:       q.Options,
		})
	}

	return outcome, nil
}

// Advance moves past the answered question. It reports whether the session completed.
func (e *QuizEngine) Advance() (bool, error) {
	s := e.session
	if s == nil {
		return false, fmt.Errorf("no active quiz: %w", ErrInvalidState)
	}
	if s.completed() {
		return false, fmt.Errorf("quiz already completed: %w", ErrInvalidState)
	}
	if !s.answered {
		return false, fmt.Errorf("question %d not answered: %w", s.currentIndex+1, ErrInvalidState)
	}

	s.currentIndex++
	s.answered = false

	if !s.completed() {
		e.emitQuestion()
		return false, nil
	}

	result := entities.NewQuizResult(s.levelID, s.score, len(s.questions), e.now())
	e.result = &result

	e.logger.Info("quiz completed",
		zap.String("level_id", result.LevelID),
		zap.Int("score", result.Score),
		zap.Int("total", result.Total),
		zap.Int("percentage", result.Percentage),
	)

	if e.listener != nil {
		e.listener.QuizCompleted(result)
	}

	e.recordScore(result)

	return true, nil
}

// Result returns the result of the completed session.
func (e *QuizEngine) Result() (entities.QuizResult, error) {
	if e.result == nil {
		return entities.QuizResult{}, fmt.Errorf("quiz not completed: %w", ErrInvalidState)
	}
	return *e.result, nil
}

// State returns a snapshot of the current session.
func (e *QuizEngine) State() SessionState {
	s := e.session
	if s == nil {
		return SessionState{Status: StatusNotStarted}
	}

	status := StatusInProgress
	if s.completed() {
		status = StatusCompleted
	}

	return SessionState{
		Status:   status,
		LevelID:  s.levelID,
		Index:    s.currentIndex,
		Total:    len(s.questions),
		Score:    s.score,
		Answered: s.answered,
	}
}

// Current returns the question the session is positioned on.
func (e *QuizEngine) Current() (QuestionView, error) {
	s := e.session
	if s == nil || s.completed() {
		return QuestionView{}, ErrInvalidState
	}
	return s.view(), nil
}

// Wait blocks until all detached sink calls have returned.
func (e *QuizEngine) Wait() {
	e.sinkCalls.Wait()
}

func (e *QuizEngine) resolveLevel(levelID string) (*entities.QuizLevel, error) {
	level, err := e.bank.GetLevel(levelID)
	if err == nil {
		return level, nil
	}
	if !errors.Is(err, ErrLevelNotFound) {
		return nil, fmt.Errorf("get level %s: %w", levelID, err)
	}
	if e.fallbackLevel == "" || e.fallbackLevel == levelID {
		return nil, fmt.Errorf("level %s: %w", levelID, err)
	}

	e.logger.Warn("unknown quiz level, using fallback",
		zap.String("level_id", levelID),
		zap.String("fallback_level_id", e.fallbackLevel),
	)

	level, err = e.bank.GetLevel(e.fallbackLevel)
	if err != nil {
		return nil, fmt.Errorf("fallback level %s: %w", e.fallbackLevel, err)
	}

	return level, nil
}

func (e *QuizEngine) emitQuestion() {
	if e.listener == nil {
		return
	}
	e.listener.QuestionShown(e.session.view())
}

func (s *quizSession) view() QuestionView {
	q := s.questions[s.currentIndex]
	return QuestionView{
		LevelID: s.levelID,
		Index:   s.currentIndex,
		Total:   len(s.questions),
		Score:   s.score,
		Prompt:  q.Prompt,
		Options: q.Options,
	}
}

// recordScore hands the result to the sink without blocking the caller.
func (e *QuizEngine) recordScore(result entities.QuizResult) {
	if e.sink == nil {
		return
	}

	userID, ok := e.identity()
	if !ok {
		e.logger.Debug("no authenticated user, score not recorded",
			zap.String("level_id", result.LevelID),
		)
		return
	}

	sink := e.sink
	logger := e.logger
	timeout := e.sinkTimeout

	e.sinkCalls.Go(func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("score sink panicked",
					zap.Int64("user_id", userID),
					zap.String("level_id", result.LevelID),
					zap.Any("panic", r),
				)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := sink.RecordScore(ctx, userID, result.LevelID, result.Percentage); err != nil {
			logger.Error("failed to record quiz score",
				zap.Int64("user_id", userID),
				zap.String("level_id", result.LevelID),
				zap.Int("percentage", result.Percentage),
				zap.Error(fmt.Errorf("%w: %w", ErrSinkFailure, err)),
			)
		}
	})
}
