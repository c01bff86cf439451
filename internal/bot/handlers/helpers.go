package handlers

import (
	"fmt"
	"strings"

	"github.com/go-telegram/bot/models"

	"github.com/likehub/likesbot/internal/database"
	"github.com/likehub/likesbot/internal/likes"
)

const (
	menuCallbackPrefix   = "menu_"
	removeCallbackPrefix = "remove_"
	removeCancelData     = removeCallbackPrefix + "cancel"
)

// commandArgs returns the arguments following a /command in a message text.
func commandArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) <= 1 {
		return nil
	}
	return fields[1:]
}

// isDigits reports whether s is non-empty and contains only ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// mainMenuKeyboard builds the inline keyboard shown by /start and /menu.
func mainMenuKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "➕ Add ID", CallbackData: menuCallbackPrefix + "addid"},
				{Text: "📋 My IDs", CallbackData: menuCallbackPrefix + "myids"},
			},
			{
				{Text: "💖 Send likes", CallbackData: menuCallbackPrefix + "like"},
				{Text: "🗑 Remove ID", CallbackData: menuCallbackPrefix + "remove"},
			},
			{
				{Text: "📊 Status", CallbackData: menuCallbackPrefix + "status"},
				{Text: "❓ Help", CallbackData: menuCallbackPrefix + "help"},
			},
		},
	}
}

// removeKeyboard builds the inline keyboard for /removeids, one button per
// registered game ID plus a cancel row.
func removeKeyboard(ids []database.GameID) *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(ids)+1)
	for _, id := range ids {
		label := id.GameID
		if id.PlayerName.Valid && id.PlayerName.String != "" {
			label = id.PlayerName.String
		}
		if len(label) > 30 {
			label = label[:30]
		}
		rows = append(rows, []models.InlineKeyboardButton{
			{Text: "🗑 " + label, CallbackData: removeCallbackPrefix + id.GameID},
		})
	}
	rows = append(rows, []models.InlineKeyboardButton{
		{Text: "❌ Cancel", CallbackData: removeCancelData},
	})
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// formatGameIDList renders a user's registered game IDs for /myids.
func formatGameIDList(ids []database.GameID) string {
	var b strings.Builder
	b.WriteString("📋 Your registered IDs\n")

	for i, id := range ids {
		b.WriteString(fmt.Sprintf("\n#%d — %s\n", i+1, id.GameID))
		if id.PlayerName.Valid && id.PlayerName.String != "" {
			b.WriteString(fmt.Sprintf("👤 Player: %s\n", id.PlayerName.String))
		}
		if id.TotalLikes > 0 {
			b.WriteString(fmt.Sprintf("💖 Total likes received: %s\n", likes.FormatNumber(id.TotalLikes)))
		}
		if id.LastSentAt.Valid {
			b.WriteString(fmt.Sprintf("📅 Last delivery: %s\n", id.LastSentAt.Time.Format("02/01/2006 15:04")))
		} else {
			b.WriteString("📅 No deliveries yet\n")
		}
	}

	b.WriteString(fmt.Sprintf("\n📊 Total: %d ID(s). Next automatic delivery: today at 00:00.", len(ids)))
	return b.String()
}

// callbackChatID extracts the chat ID from a callback query, handling
// inaccessible messages.
func callbackChatID(q *models.CallbackQuery) int64 {
	if q.Message.Message.Date != 0 {
		return q.Message.Message.Chat.ID
	}
	return q.Message.InaccessibleMessage.Chat.ID
}
