package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/likehub/likesbot/internal/database"
)

// NewAddIDHandler returns a handler for /addid <ID>. The sender is
// registered as a user if needed; the administrator is notified when a
// brand-new user registers their first ID.
func NewAddIDHandler(deps HandlerDeps) bot.HandlerFunc {
	return addIDHandler{deps}.Handle
}

type addIDHandler struct {
	deps HandlerDeps
}

func (h addIDHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "addid")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "AddID handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	user := update.Message.From

	args := commandArgs(update.Message.Text)
	if len(args) == 0 {
		h.reply(ctx, b, log, chatID, h.deps.Config.Messages.AddIDUsage)
		return
	}

	gameID := args[0]
	if !isDigits(gameID) {
		h.reply(ctx, b, log, chatID, h.deps.Config.Messages.InvalidGameID)
		return
	}

	created, err := h.deps.Store.SaveUser(ctx, user.ID, user.Username)
	if err != nil {
		log.ErrorContext(ctx, "Failed to register user", "error", err, "user_id", user.ID)
		h.reply(ctx, b, log, chatID, h.deps.Config.Messages.GeneralError)
		return
	}

	if err := h.deps.Store.AddGameID(ctx, user.ID, gameID); err != nil {
		if errors.Is(err, database.ErrGameIDExists) {
			h.reply(ctx, b, log, chatID, "❌ This ID is already on your list.")
			return
		}
		log.ErrorContext(ctx, "Failed to add game id", "error", err, "user_id", user.ID, "game_id", gameID)
		h.reply(ctx, b, log, chatID, h.deps.Config.Messages.GeneralError)
		return
	}

	h.reply(ctx, b, log, chatID, "✅ ID added! Likes will be delivered automatically at midnight.")

	if created {
		username := user.Username
		if username == "" {
			username = "N/A"
		}
		notice := fmt.Sprintf("🆕 New user registered\n\n👤 Username: @%s\n🆔 Telegram ID: %d\n🎮 Game ID: %s",
			username, user.ID, gameID)
		_, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: h.deps.Config.Telegram.AdminID,
			Text:   notice,
		})
		if err != nil {
			log.ErrorContext(ctx, "Failed to notify admin about new user", "error", err, "user_id", user.ID)
		}
	}
}

func (h addIDHandler) reply(ctx context.Context, b *bot.Bot, log logErrorer, chatID int64, text string) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		log.ErrorContext(ctx, "Failed to send reply", "error", err, "chat_id", chatID)
	}
}

// NewMyIDsHandler returns a handler for /myids.
func NewMyIDsHandler(deps HandlerDeps) bot.HandlerFunc {
	return myIDsHandler{deps}.Handle
}

type myIDsHandler struct {
	deps HandlerDeps
}

func (h myIDsHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "myids")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "MyIDs handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	sendIDList(ctx, b, h.deps, update.Message.Chat.ID, update.Message.From.ID, log)
}

// sendIDList sends the user's registered IDs to chatID; shared with the menu callback.
func sendIDList(ctx context.Context, b *bot.Bot, deps HandlerDeps, chatID, userID int64, log logErrorer) {
	ids, err := deps.Store.GetUserGameIDs(ctx, userID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to get user game ids", "error", err, "user_id", userID)
		_, _ = b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: deps.Config.Messages.GeneralError})
		return
	}

	text := deps.Config.Messages.NoIDs
	if len(ids) > 0 {
		text = formatGameIDList(ids)
	}
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		log.ErrorContext(ctx, "Failed to send id list", "error", err, "chat_id", chatID)
	}
}

// NewRemoveIDsHandler returns a handler for /removeids, which presents an
// inline keyboard with one button per registered ID.
func NewRemoveIDsHandler(deps HandlerDeps) bot.HandlerFunc {
	return removeIDsHandler{deps}.Handle
}

type removeIDsHandler struct {
	deps HandlerDeps
}

func (h removeIDsHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "removeids")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "RemoveIDs handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	sendRemoveMenu(ctx, b, h.deps, update.Message.Chat.ID, update.Message.From.ID, log)
}

// sendRemoveMenu sends the removal keyboard to chatID; shared with the menu callback.
func sendRemoveMenu(ctx context.Context, b *bot.Bot, deps HandlerDeps, chatID, userID int64, log logErrorer) {
	ids, err := deps.Store.GetUserGameIDs(ctx, userID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to get user game ids", "error", err, "user_id", userID)
		_, _ = b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: deps.Config.Messages.GeneralError})
		return
	}

	if len(ids) == 0 {
		_, _ = b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: deps.Config.Messages.NoIDs})
		return
	}

	_, err = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        "🗑 Select the ID to remove:",
		ReplyMarkup: removeKeyboard(ids),
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send remove menu", "error", err, "chat_id", chatID)
	}
}

// NewRemoveCallbackHandler returns the callback handler for remove_* buttons.
func NewRemoveCallbackHandler(deps HandlerDeps) bot.HandlerFunc {
	return removeCallbackHandler{deps}.Handle
}

type removeCallbackHandler struct {
	deps HandlerDeps
}

func (h removeCallbackHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "remove_callback")

	q := update.CallbackQuery
	if q == nil {
		log.WarnContext(ctx, "Remove callback received update without callback query", "update_id", update.ID)
		return
	}

	_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: q.ID})
	if err != nil {
		log.WarnContext(ctx, "Failed to answer callback query", "error", err)
	}

	chatID := callbackChatID(q)
	messageID := q.Message.Message.ID

	edit := func(text string) {
		_, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:    chatID,
			MessageID: messageID,
			Text:      text,
		})
		if err != nil {
			log.ErrorContext(ctx, "Failed to edit removal message", "error", err, "chat_id", chatID)
		}
	}

	if q.Data == removeCancelData {
		edit("❌ Cancelled. No ID was removed.")
		return
	}

	gameID := strings.TrimPrefix(q.Data, removeCallbackPrefix)
	if !isDigits(gameID) {
		log.WarnContext(ctx, "Remove callback with unexpected payload", "data", q.Data)
		edit(h.deps.Config.Messages.GeneralError)
		return
	}

	if err := h.deps.Store.DeactivateGameID(ctx, q.From.ID, gameID); err != nil {
		log.ErrorContext(ctx, "Failed to deactivate game id", "error", err, "user_id", q.From.ID, "game_id", gameID)
		edit(h.deps.Config.Messages.GeneralError)
		return
	}

	edit(fmt.Sprintf("✅ ID %s removed. It will no longer receive automatic likes.", gameID))
}

// logErrorer is the slice of slog.Logger the shared send helpers need.
type logErrorer interface {
	ErrorContext(ctx context.Context, msg string, args ...any)
}
