package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/likehub/likesbot/internal/likes"
)

// NewListUsersHandler returns the admin handler for /listusers.
func NewListUsersHandler(deps HandlerDeps) bot.HandlerFunc {
	return listUsersHandler{deps}.Handle
}

type listUsersHandler struct {
	deps HandlerDeps
}

func (h listUsersHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "listusers")

	if update.Message == nil {
		log.WarnContext(ctx, "ListUsers handler received update with nil message", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID

	users, err := h.deps.Store.GetAllUsers(ctx)
	if err != nil {
		log.ErrorContext(ctx, "Failed to list users", "error", err)
		_, _ = b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: h.deps.Config.Messages.GeneralError})
		return
	}

	if len(users) == 0 {
		_, _ = b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "👥 No registered users yet."})
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("👥 Registered users (%d)\n", len(users)))
	for i, u := range users {
		name := "N/A"
		if u.Username.Valid && u.Username.String != "" {
			name = "@" + u.Username.String
		}
		sb.WriteString(fmt.Sprintf("\n#%d %s — ID %d (since %s)",
			i+1, name, u.TelegramID, u.RegisteredAt.Format("02/01/2006")))
	}

	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: sb.String()}); err != nil {
		log.ErrorContext(ctx, "Failed to send user list", "error", err, "chat_id", chatID)
	}
}

// NewStatsHandler returns the admin handler for /stats.
func NewStatsHandler(deps HandlerDeps) bot.HandlerFunc {
	return statsHandler{deps}.Handle
}

type statsHandler struct {
	deps HandlerDeps
}

func (h statsHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "stats")

	if update.Message == nil {
		log.WarnContext(ctx, "Stats handler received update with nil message", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID

	stats, err := h.deps.Store.GetStats(ctx)
	if err != nil {
		log.ErrorContext(ctx, "Failed to get stats", "error", err)
		_, _ = b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: h.deps.Config.Messages.GeneralError})
		return
	}

	text := fmt.Sprintf(
		"📊 Global statistics\n\n"+
			"👥 Users: %s\n🎮 Active game IDs: %s\n"+
			"💖 Likes delivered: %s\n📤 Sends today: %s\n✅ Success rate: %.1f%%",
		likes.FormatNumber(stats.TotalUsers),
		likes.FormatNumber(stats.TotalGameIDs),
		likes.FormatNumber(stats.TotalLikes),
		likes.FormatNumber(stats.SendsToday),
		stats.SuccessRate)

	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		log.ErrorContext(ctx, "Failed to send stats", "error", err, "chat_id", chatID)
	}
}

// NewBroadcastHandler returns the admin handler for /broadcast <message>,
// which forwards the text to every registered user.
func NewBroadcastHandler(deps HandlerDeps) bot.HandlerFunc {
	return broadcastHandler{deps}.Handle
}

type broadcastHandler struct {
	deps HandlerDeps
}

func (h broadcastHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "broadcast")

	if update.Message == nil {
		log.WarnContext(ctx, "Broadcast handler received update with nil message", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID

	args := commandArgs(update.Message.Text)
	if len(args) == 0 {
		_, _ = b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: h.deps.Config.Messages.BroadcastUsage})
		return
	}
	text := "📢 Announcement\n\n" + strings.Join(args, " ")

	users, err := h.deps.Store.GetAllUsers(ctx)
	if err != nil {
		log.ErrorContext(ctx, "Failed to list users for broadcast", "error", err)
		_, _ = b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: h.deps.Config.Messages.GeneralError})
		return
	}

	sent, failed := 0, 0
	for _, u := range users {
		if u.TelegramID == h.deps.Config.Telegram.AdminID {
			continue
		}
		_, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: u.TelegramID, Text: text})
		if err != nil {
			failed++
			log.WarnContext(ctx, "Broadcast delivery failed", "error", err, "telegram_id", u.TelegramID)
			continue
		}
		sent++
	}

	log.InfoContext(ctx, "Broadcast finished", "sent", sent, "failed", failed)
	_, err = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   fmt.Sprintf("📢 Broadcast done: %d delivered, %d failed.", sent, failed),
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to confirm broadcast", "error", err, "chat_id", chatID)
	}
}

// NewForceSendHandler returns the admin handler for /forcesend, which runs
// the automatic delivery immediately instead of waiting for midnight.
func NewForceSendHandler(deps HandlerDeps) bot.HandlerFunc {
	return forceSendHandler{deps}.Handle
}

type forceSendHandler struct {
	deps HandlerDeps
}

func (h forceSendHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "forcesend")

	if update.Message == nil {
		log.WarnContext(ctx, "ForceSend handler received update with nil message", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID

	if h.deps.DailyDelivery == nil {
		log.ErrorContext(ctx, "Force send requested but no delivery task is wired")
		_, _ = b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: h.deps.Config.Messages.GeneralError})
		return
	}

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "🚀 Starting the full delivery run now...",
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to acknowledge force send", "error", err, "chat_id", chatID)
	}

	if err := h.deps.DailyDelivery(ctx); err != nil {
		log.ErrorContext(ctx, "Forced delivery run failed", "error", err)
		_, _ = b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ Delivery run finished with errors: " + err.Error(),
		})
		return
	}

	_, err = b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "✅ Delivery run finished."})
	if err != nil {
		log.ErrorContext(ctx, "Failed to confirm force send", "error", err, "chat_id", chatID)
	}
}
