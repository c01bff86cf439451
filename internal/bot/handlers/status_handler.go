package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/likehub/likesbot/internal/likes"
)

// NewStatusHandler returns a handler for /status, which summarizes the
// user's registrations and recent delivery activity.
func NewStatusHandler(deps HandlerDeps) bot.HandlerFunc {
	return statusHandler{deps}.Handle
}

type statusHandler struct {
	deps HandlerDeps
}

func (h statusHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "status")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Status handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	sendStatus(ctx, b, h.deps, update.Message.Chat.ID, update.Message.From.ID, log)
}

// sendStatus sends the per-user status summary; shared with the menu callback.
func sendStatus(ctx context.Context, b *bot.Bot, deps HandlerDeps, chatID, userID int64, log logErrorer) {
	ids, err := deps.Store.GetUserGameIDs(ctx, userID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to get user game ids", "error", err, "user_id", userID)
		_, _ = b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: deps.Config.Messages.GeneralError})
		return
	}

	var sb strings.Builder
	sb.WriteString("📊 Your status\n\n")
	sb.WriteString(fmt.Sprintf("🎮 Registered IDs: %d\n", len(ids)))

	var total int64
	var last time.Time
	for _, id := range ids {
		total += id.TotalLikes
		if id.LastSentAt.Valid && id.LastSentAt.Time.After(last) {
			last = id.LastSentAt.Time
		}
	}
	sb.WriteString(fmt.Sprintf("💖 Total likes received: %s\n", likes.FormatNumber(total)))
	if !last.IsZero() {
		sb.WriteString(fmt.Sprintf("📅 Last delivery: %s\n", last.Format("02/01/2006 15:04")))
	} else {
		sb.WriteString("📅 No deliveries yet\n")
	}
	sb.WriteString("\n🌙 Automatic deliveries run daily at midnight.")

	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: sb.String()}); err != nil {
		log.ErrorContext(ctx, "Failed to send status", "error", err, "chat_id", chatID)
	}
}
