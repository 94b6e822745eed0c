package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/insaafai/ipc-quiz-bot/internal/domain/entities"
)

// LevelLister lists all levels of the question bank.
type LevelLister interface {
	QuestionBank
	Levels() []*entities.QuizLevel
}

// Identity reports whether a user is authenticated.
type Identity interface {
	IsRegistered(userID int64) bool
}

// QuizConfig holds engine settings shared by every user.
type QuizConfig struct {
	FallbackLevel string
	SinkTimeout   time.Duration
}

// QuizService routes user actions to the user's own quiz engine.
type QuizService struct {
	bank        LevelLister
	sink        ScoreSink
	store       EngineStore
	identity    Identity
	newListener ListenerFactory
	cfg         QuizConfig
	logger      *zap.Logger
}

func NewQuizService(
	bank LevelLister,
	sink ScoreSink,
	store EngineStore,
	identity Identity,
	newListener ListenerFactory,
	cfg QuizConfig,
	logger *zap.Logger,
) *QuizService {
	return &QuizService{
		bank:        bank,
		sink:        sink,
		store:       store,
		identity:    identity,
		newListener: newListener,
		cfg:         cfg,
		logger:      logger,
	}
}

// Levels returns the quiz levels in presentation order.
func (s *QuizService) Levels() []*entities.QuizLevel {
	return s.bank.Levels()
}

// Start begins a new quiz for the user, discarding the previous one.
// Events of the quiz go to the chat it was started from.
func (s *QuizService) Start(userID, chatID int64, levelID string) (SessionState, error) {
	e := s.engine(userID)
	if s.newListener != nil {
		e.SetListener(s.newListener(chatID))
	}
	return e.StartQuiz(levelID)
}

// Answer submits the selected option of the user's current question.
func (s *QuizService) Answer(userID int64, selectedIndex int) (AnswerOutcome, error) {
	e, ok := s.store.Get(userID)
	if !ok {
		return AnswerOutcome{}, ErrInvalidState
	}
	return e.SubmitAnswer(selectedIndex)
}

// Next advances the user's quiz and reports whether it completed.
func (s *QuizService) Next(userID int64) (bool, error) {
	e, ok := s.store.Get(userID)
	if !ok {
		return false, ErrInvalidState
	}
	return e.Advance()
}

// Result returns the result of the user's last completed quiz.
func (s *QuizService) Result(userID int64) (entities.QuizResult, error) {
	e, ok := s.store.Get(userID)
	if !ok {
		return entities.QuizResult{}, ErrInvalidState
	}
	return e.Result()
}

// State returns the user's session snapshot.
func (s *QuizService) State(userID int64) SessionState {
	e, ok := s.store.Get(userID)
	if !ok {
		return SessionState{Status: StatusNotStarted}
	}
	return e.State()
}

// Discard drops the user's engine once its pending score recording has finished.
func (s *QuizService) Discard(userID int64) {
	e, ok := s.store.Get(userID)
	if !ok {
		return
	}
	e.Wait()
	s.store.Delete(userID)
}

// Wait blocks until pending score recordings of all users have finished.
func (s *QuizService) Wait() {
	for _, e := range s.store.All() {
		e.Wait()
	}
}

func (s *QuizService) engine(userID int64) *QuizEngine {
	if e, ok := s.store.Get(userID); ok {
		return e
	}

	opts := []EngineOption{
		WithFallbackLevel(s.cfg.FallbackLevel),
		WithSinkTimeout(s.cfg.SinkTimeout),
		WithIdentity(func() (int64, bool) {
			return userID, s.identity.IsRegistered(userID)
		}),
	}

	e := NewQuizEngine(s.bank, s.sink, s.logger.With(zap.Int64("user_id", userID)), opts...)
	s.store.Store(userID, e)

	return e
}
