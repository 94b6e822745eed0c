package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/insaafai/ipc-quiz-bot/internal/domain/entities"
)

const shutdownTimeout = 5 * time.Second

type LevelLister interface {
	Levels() []*entities.QuizLevel
}

type StatsService interface {
	GetStats(ctx context.Context, userID int64) (*entities.UserStats, error)
	History(ctx context.Context, userID int64, limit int) ([]*entities.ScoreRecord, error)
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type Handler struct {
	levels LevelLister
	stats  StatsService
	logger *zap.Logger
}

func NewHandler(levels LevelLister, stats StatsService, logger *zap.Logger) *Handler {
	return &Handler{
		levels: levels,
		stats:  stats,
		logger: logger,
	}
}

// NewRouter sets up all API routes.
func NewRouter(h *Handler, debug bool) *gin.Engine {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger())

	router.GET("/healthz", HealthCheck)

	api := router.Group("/api")
	{
		api.GET("/levels", h.ListLevels)

		users := api.Group("/users/:id")
		{
			users.GET("/stats", h.GetUserStats)
			users.GET("/scores", h.ListUserScores)
		}
	}

	return router
}

// Serve runs the HTTP server until ctx is cancelled.
func Serve(ctx context.Context, addr string, router http.Handler, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server started", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("http server stopped")

	return nil
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		h.logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("remote_addr", c.ClientIP()),
		)
	}
}
