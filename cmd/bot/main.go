// Package main contains the entrypoint for the likes delivery bot.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"

	"github.com/likehub/likesbot/internal/bot"
	"github.com/likehub/likesbot/internal/bot/handlers"
	"github.com/likehub/likesbot/internal/bot/tasks"
	"github.com/likehub/likesbot/internal/config"
	"github.com/likehub/likesbot/internal/database"
	"github.com/likehub/likesbot/internal/likes"
	"github.com/likehub/likesbot/internal/logger"
	"github.com/likehub/likesbot/internal/sentry"
	"github.com/likehub/likesbot/internal/telegram"

	_ "modernc.org/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes all application components (config, logger, database,
// likes service, telegram client, scheduler), handles graceful shutdown, and
// returns an exit code.
func run(ctx context.Context) int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	log.Info("Logger initialized", "level", cfg.Log.Level, "format", cfg.Log.Format)

	sentry.Init(cfg.Sentry, log)
	defer sentry.Flush()

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to open database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	keys := likes.NewKeystore(cfg.API.KeyFile)
	client := likes.NewClient(cfg.API, log)
	likesSvc := likes.NewService(store, client, keys, cfg.API.MinLikes, log)

	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log)),
	}
	tg, err := telegram.New(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	me, err := tg.GetMe(ctx)
	if err != nil {
		log.Error("Failed to get bot info", "error", err)
		return 1
	}
	log.Info("Retrieved bot info", "bot_id", me.ID, "bot_username", me.Username)

	tDeps := tasks.TaskDeps{
		Logger: log,
		Store:  store,
		Likes:  likesSvc,
		Config: cfg,
		TG:     tg,
	}
	taskMap := tasks.RegisterAllTasks(tDeps)

	hDeps := handlers.HandlerDeps{
		Logger:        log,
		Config:        cfg,
		Store:         store,
		Likes:         likesSvc,
		DailyDelivery: taskMap[config.TaskDailyLikes],
	}
	if err := telegram.RegisterHandlers(tg, log, handlers.RegisterAllCommands(hDeps)); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}

	sched, err := bot.NewScheduler(log, &cfg.Scheduler, taskMap)
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	app := bot.NewBot(log, cfg, db, store, likesSvc, tg, sched)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)
	log.Info("Bot run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		sentry.CaptureError(runErr, map[string]string{"component": "main"})
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	time.Sleep(time.Second)
	return 0
}
