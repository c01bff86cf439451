package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewMenuCallbackHandler returns the callback handler for the main menu
// buttons (menu_*). Each button maps to the matching command's behavior.
func NewMenuCallbackHandler(deps HandlerDeps) bot.HandlerFunc {
	return menuCallbackHandler{deps}.Handle
}

type menuCallbackHandler struct {
	deps HandlerDeps
}

func (h menuCallbackHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "menu_callback")

	q := update.CallbackQuery
	if q == nil {
		log.WarnContext(ctx, "Menu callback received update without callback query", "update_id", update.ID)
		return
	}

	_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: q.ID})
	if err != nil {
		log.WarnContext(ctx, "Failed to answer callback query", "error", err)
	}

	chatID := callbackChatID(q)
	userID := q.From.ID
	action := strings.TrimPrefix(q.Data, menuCallbackPrefix)
	log.InfoContext(ctx, "Handling menu action", "action", action, "user_id", userID)

	switch action {
	case "addid":
		_, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: h.deps.Config.Messages.AddIDUsage})
		if err != nil {
			log.ErrorContext(ctx, "Failed to send addid prompt", "error", err, "chat_id", chatID)
		}

	case "myids":
		sendIDList(ctx, b, h.deps, chatID, userID, log)

	case "like":
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
		targets := make([]string, 0, len(ids))
		for _, id := range ids {
			targets = append(targets, id.GameID)
		}
		runLikeDelivery(ctx, b, h.deps, chatID, userID, targets, log)

	case "remove":
		sendRemoveMenu(ctx, b, h.deps, chatID, userID, log)

	case "status":
		sendStatus(ctx, b, h.deps, chatID, userID, log)

	case "help":
		sendHelp(ctx, b, h.deps, chatID, userID, h.deps.Logger.With("handler", "help"))

	default:
		log.WarnContext(ctx, "Unknown menu action", "data", q.Data)
	}
}
