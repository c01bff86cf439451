// Package tasks implements the bot's scheduled tasks: the automatic
// midnight like delivery and periodic database maintenance.
package tasks

import (
	"log/slog"

	tgbot "github.com/go-telegram/bot"

	"github.com/likehub/likesbot/internal/config"
	"github.com/likehub/likesbot/internal/database"
	"github.com/likehub/likesbot/internal/likes"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
	Likes  *likes.Service
	Config *config.Config
	TG     *tgbot.Bot
}
