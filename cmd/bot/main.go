package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/insaafai/ipc-quiz-bot/internal/config"
	"github.com/insaafai/ipc-quiz-bot/internal/delivery/api"
	"github.com/insaafai/ipc-quiz-bot/internal/delivery/telegram"
	"github.com/insaafai/ipc-quiz-bot/internal/events"
	"github.com/insaafai/ipc-quiz-bot/internal/infra/postgres"
	pgrepo "github.com/insaafai/ipc-quiz-bot/internal/infra/postgres/repository"
	rediscache "github.com/insaafai/ipc-quiz-bot/internal/infra/redis"
	"github.com/insaafai/ipc-quiz-bot/internal/logger"
	"github.com/insaafai/ipc-quiz-bot/internal/repository"
	"github.com/insaafai/ipc-quiz-bot/internal/service"
	"github.com/insaafai/ipc-quiz-bot/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	if err := run(cfg, lg); err != nil {
		lg.Fatal("bot stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bank, err := repository.NewQuestionBank(cfg.QuestionBankPath)
	if err != nil {
		return err
	}
	lg.Info("question bank loaded",
		zap.String("path", cfg.QuestionBankPath),
		zap.Int("levels", len(bank.Levels())),
	)

	dsn, err := cfg.DB.DSN()
	if err != nil {
		return err
	}
	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:        cfg.DB.MaxConnections,
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		return err
	}
	defer pool.Close()

	redisClient, err := rediscache.NewClient(ctx, cfg.Redis.URL)
	if err != nil {
		return err
	}
	defer func() { _ = redisClient.Close() }()

	userRepo := pgrepo.NewUserRepository(pool)
	scoreRepo := pgrepo.NewScoreRepository(pool)
	transactor := postgres.NewTransactor(pool)
	scoreWriter := pgrepo.NewScoreWriter(transactor)
	statsCache := rediscache.NewStatsCache(redisClient, cfg.Redis.StatsTTL)

	// Score events are delivered in-process.
	pubSub := events.NewPubSub(lg)
	defer func() { _ = pubSub.Close() }()

	consumer := events.NewScoreConsumer(scoreWriter, statsCache, lg)
	eventRouter, err := events.NewRouter(pubSub, consumer, lg)
	if err != nil {
		return err
	}
	scoreSink := events.NewScorePublisher(pubSub, lg)

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		return err
	}
	bot.Debug = cfg.TelegramDebug
	lg.Info("authorized on telegram", zap.String("account", bot.Self.UserName))

	if _, err := bot.Request(tgbotapi.NewSetMyCommands(telegram.Commands()...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	userService := service.NewUserService(userRepo)
	presenter := telegram.NewPresenter(bot, storage.NewMessageStorage(), bank.Levels(), lg)

	quizService := service.NewQuizService(
		bank,
		scoreSink,
		storage.NewQuizStorage(),
		userService,
		presenter.ForChat,
		service.QuizConfig{
			FallbackLevel: cfg.Quiz.FallbackLevel,
			SinkTimeout:   cfg.Quiz.SinkTimeout,
		},
		lg,
	)
	statsService := service.NewStatsService(scoreRepo, statsCache, lg)
	exporter := service.NewHistoryExporter(statsService, bank.Levels())
	resetService := service.NewResetService(pgrepo.NewResetRepository(transactor), statsCache, quizService, lg)

	handler := telegram.NewHandler(bot, lg, userService, quizService, statsService, exporter, resetService)

	// The router outlives the bot: it is closed only after pending scores are stored.
	routerDone := make(chan error, 1)
	go func() {
		routerDone <- eventRouter.Run(context.Background())
	}()

	select {
	case <-eventRouter.Running():
	case err := <-routerDone:
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := handler.Run(gctx)
		bot.StopReceivingUpdates()
		return err
	})

	if cfg.HTTP.Addr != "" {
		router := api.NewRouter(api.NewHandler(bank, statsService, lg), cfg.Env != "production")
		g.Go(func() error {
			return api.Serve(gctx, cfg.HTTP.Addr, router, lg)
		})
	}

	err = g.Wait()

	// Let in-flight score recordings reach the database.
	quizService.Wait()

	if cerr := eventRouter.Close(); cerr != nil {
		lg.Error("failed to close event router", zap.Error(cerr))
	}
	if rerr := <-routerDone; rerr != nil {
		lg.Error("event router stopped with error", zap.Error(rerr))
	}
	lg.Info("shutdown complete")

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
