package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/insaafai/ipc-quiz-bot/internal/domain/entities"
)

type staticLevels []*entities.QuizLevel

func (l staticLevels) Levels() []*entities.QuizLevel {
	return l
}

type fakeStats struct {
	stats     *entities.UserStats
	records   []*entities.ScoreRecord
	err       error
	lastLimit int
}

func (s *fakeStats) GetStats(_ context.Context, userID int64) (*entities.UserStats, error) {
	if s.err != nil {
		return nil, s.err
	}
	stats := *s.stats
	stats.UserID = userID
	return &stats, nil
}

func (s *fakeStats) History(_ context.Context, _ int64, limit int) ([]*entities.ScoreRecord, error) {
	s.lastLimit = limit
	return s.records, s.err
}

func newTestRouter(stats *fakeStats) http.Handler {
	levels := staticLevels{
		{
			ID:          "level1",
			Title:       "Level 1: Basics",
			Description: "Introduction",
			Questions: []entities.Question{
				{Prompt: "Q", Options: []string{"a", "b"}, CorrectIndex: 0},
			},
		},
	}
	return NewRouter(NewHandler(levels, stats, zap.NewNop()), false)
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	rec := get(t, newTestRouter(&fakeStats{}), "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestListLevels(t *testing.T) {
	rec := get(t, newTestRouter(&fakeStats{}), "/api/levels")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.JSONEq(t, `[{"id":"level1","title":"Level 1: Basics","description":"Introduction","question_count":1}]`, rec.Body.String())
}

func TestGetUserStats(t *testing.T) {
	stats := &fakeStats{stats: &entities.UserStats{QuizzesTaken: 2, AverageScore: 75, BestScore: 100}}
	router := newTestRouter(stats)

	rec := get(t, router, "/api/users/42/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var got entities.UserStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, int64(42), got.UserID)
	assert.Equal(t, 2, got.QuizzesTaken)
	assert.Equal(t, 75, got.AverageScore)
	assert.Nil(t, got.LastPlayedAt)

	rec = get(t, router, "/api/users/abc/stats")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(t, router, "/api/users/-1/stats")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	stats.err = errors.New("db down")
	rec = get(t, router, "/api/users/42/stats")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestListUserScores(t *testing.T) {
	recordedAt := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	stats := &fakeStats{records: []*entities.ScoreRecord{
		{ID: 3, UserID: 42, LevelID: "level1", Percentage: 90, RecordedAt: recordedAt},
	}}
	router := newTestRouter(stats)

	rec := get(t, router, "/api/users/42/scores")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, stats.lastLimit)
	assert.JSONEq(t,
		`[{"id":3,"user_id":42,"level_id":"level1","percentage":90,"recorded_at":"2026-02-01T12:00:00Z"}]`,
		rec.Body.String(),
	)

	rec = get(t, router, "/api/users/42/scores?limit=5")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, stats.lastLimit)

	for _, limit := range []string{"0", "101", "x"} {
		rec = get(t, router, "/api/users/42/scores?limit="+limit)
		assert.Equal(t, http.StatusBadRequest, rec.Code, limit)
	}
}

func TestListUserScores_Empty(t *testing.T) {
	rec := get(t, newTestRouter(&fakeStats{}), "/api/users/7/scores")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
