package handlers

import (
	"context"
	"errors"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/likehub/likesbot/internal/likes"
)

// NewSetKeyHandler returns the admin handler for /setkey <key>. The command
// message is deleted afterwards so the key does not linger in chat history.
func NewSetKeyHandler(deps HandlerDeps) bot.HandlerFunc {
	return setKeyHandler{deps}.Handle
}

type setKeyHandler struct {
	deps HandlerDeps
}

func (h setKeyHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "setkey")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "SetKey handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID

	args := commandArgs(update.Message.Text)
	if len(args) == 0 {
		_, _ = b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "Usage: /setkey <API key>",
		})
		return
	}

	if err := h.deps.Likes.Keys().Save(args[0]); err != nil {
		log.ErrorContext(ctx, "Failed to save API key", "error", err)
		_, _ = b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: h.deps.Config.Messages.GeneralError})
		return
	}

	// Remove the message containing the plaintext key.
	_, err := b.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    chatID,
		MessageID: update.Message.ID,
	})
	if err != nil {
		log.WarnContext(ctx, "Failed to delete key message", "error", err, "chat_id", chatID)
	}

	log.InfoContext(ctx, "API key updated")
	_, err = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "🔑 API key saved. The original message was deleted for safety.",
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to confirm key update", "error", err, "chat_id", chatID)
	}
}

// NewCheckKeyHandler returns the admin handler for /checkkey, showing a
// masked version of the stored key.
func NewCheckKeyHandler(deps HandlerDeps) bot.HandlerFunc {
	return checkKeyHandler{deps}.Handle
}

type checkKeyHandler struct {
	deps HandlerDeps
}

func (h checkKeyHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "checkkey")

	if update.Message == nil {
		log.WarnContext(ctx, "CheckKey handler received update with nil message", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID

	key, err := h.deps.Likes.Keys().Load()
	if err != nil {
		if errors.Is(err, likes.ErrNoKey) {
			_, _ = b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: h.deps.Config.Messages.KeyNotSet})
			return
		}
		log.ErrorContext(ctx, "Failed to load API key", "error", err)
		_, _ = b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: h.deps.Config.Messages.GeneralError})
		return
	}

	_, err = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "🔑 Current API key: " + likes.MaskKey(key),
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send key status", "error", err, "chat_id", chatID)
	}
}
