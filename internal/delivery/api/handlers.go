package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/insaafai/ipc-quiz-bot/internal/domain/entities"
)

const maxScoresLimit = 100

type levelResponse struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	QuestionCount int    `json:"question_count"`
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListLevels returns the quiz levels without their questions.
func (h *Handler) ListLevels(c *gin.Context) {
	levels := h.levels.Levels()

	resp := make([]levelResponse, 0, len(levels))
	for _, l := range levels {
		resp = append(resp, levelResponse{
			ID:            l.ID,
			Title:         l.Title,
			Description:   l.Description,
			QuestionCount: l.Total(),
		})
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetUserStats(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	stats, err := h.stats.GetStats(c.Request.Context(), userID)
	if err != nil {
		h.internalError(c, "failed to get user stats", err, userID)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ListUserScores returns the latest scores of a user. Accepts an optional limit.
func (h *Handler) ListUserScores(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxScoresLimit {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid limit",
				Details: "limit must be between 1 and " + strconv.Itoa(maxScoresLimit),
			})
			return
		}
		limit = n
	}

	records, err := h.stats.History(c.Request.Context(), userID, limit)
	if err != nil {
		h.internalError(c, "failed to list user scores", err, userID)
		return
	}
	if records == nil {
		records = []*entities.ScoreRecord{}
	}

	c.JSON(http.StatusOK, records)
}

func (h *Handler) internalError(c *gin.Context, msg string, err error, userID int64) {
	h.logger.Error(msg,
		zap.Int64("user_id", userID),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Message: "Internal server error",
	})
}

func parseUserID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid id",
			Details: "id must be a positive integer",
		})
		return 0, false
	}
	return id, true
}
