package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/likehub/likesbot/internal/likes"
)

// NewLikeHandler returns a handler for /like [ID]. Without an argument every
// registered ID gets a delivery; with one, just that ID.
func NewLikeHandler(deps HandlerDeps) bot.HandlerFunc {
	return likeHandler{deps}.Handle
}

type likeHandler struct {
	deps HandlerDeps
}

func (h likeHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "like")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Like handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID

	var targets []string
	if args := commandArgs(update.Message.Text); len(args) > 0 {
		if !isDigits(args[0]) {
			_, _ = b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: h.deps.Config.Messages.InvalidGameID})
			return
		}
		targets = []string{args[0]}
	} else {
		ids, err := h.deps.Store.GetUserGameIDs(ctx, userID)
		if err != nil {
			log.ErrorContext(ctx, "Failed to get user game ids", "error", err, "user_id", userID)
			_, _ = b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: h.deps.Config.Messages.GeneralError})
			return
		}
		if len(ids) == 0 {
			_, _ = b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: h.deps.Config.Messages.LikeUsage})
			return
		}
		for _, id := range ids {
			targets = append(targets, id.GameID)
		}
	}

	runLikeDelivery(ctx, b, h.deps, chatID, userID, targets, log)
}

// runLikeDelivery sends a waiting message, delivers likes to each target,
// and edits the waiting message with the result. Shared with the menu
// callback.
func runLikeDelivery(ctx context.Context, b *bot.Bot, deps HandlerDeps, chatID, userID int64, targets []string, log logErrorer) {
	waiting, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   fmt.Sprintf("⏳ Sending likes to %d ID(s), please wait...", len(targets)),
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send waiting message", "error", err, "chat_id", chatID)
		return
	}

	deliveries := make([]*likes.Delivery, 0, len(targets))
	for _, gameID := range targets {
		d, err := deps.Likes.Deliver(ctx, userID, gameID, false)
		if err != nil {
			if errors.Is(err, likes.ErrNoKey) {
				editOrSend(ctx, b, log, chatID, waiting.ID, deps.Config.Messages.KeyNotSet)
				return
			}
			log.ErrorContext(ctx, "Delivery failed to record", "error", err, "user_id", userID, "game_id", gameID)
			editOrSend(ctx, b, log, chatID, waiting.ID, deps.Config.Messages.GeneralError)
			return
		}
		deliveries = append(deliveries, d)
	}

	text := likes.FormatDelivery(deliveries[0])
	if len(deliveries) > 1 {
		text = likes.FormatSummary(deliveries)
	}
	editOrSend(ctx, b, log, chatID, waiting.ID, text)
}

// editOrSend edits messageID in place, falling back to a fresh message when
// the edit fails (e.g. identical text).
func editOrSend(ctx context.Context, b *bot.Bot, log logErrorer, chatID int64, messageID int, text string) {
	_, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
	})
	if err == nil {
		return
	}
	log.ErrorContext(ctx, "Failed to edit message, sending new one", "error", err, "chat_id", chatID)
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		log.ErrorContext(ctx, "Failed to send fallback message", "error", err, "chat_id", chatID)
	}
}
