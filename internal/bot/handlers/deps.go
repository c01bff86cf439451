// Package handlers contains Telegram bot command and callback handlers,
// along with their registration logic and middleware.
package handlers

import (
	"context"
	"log/slog"

	"github.com/likehub/likesbot/internal/config"
	"github.com/likehub/likesbot/internal/database"
	"github.com/likehub/likesbot/internal/likes"
)

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger *slog.Logger
	Config *config.Config
	Store  database.Store
	Likes  *likes.Service

	// DailyDelivery runs the full automatic delivery; wired to the
	// scheduled task so /forcesend reuses it.
	DailyDelivery func(ctx context.Context) error
}
