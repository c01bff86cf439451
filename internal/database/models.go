package database

import (
	"database/sql"
	"time"
)

// User represents a Telegram user who interacted with the bot.
type User struct {
	TelegramID   int64          `db:"telegram_id"`
	Username     sql.NullString `db:"username"`
	RegisteredAt time.Time      `db:"registered_at"`
	Active       bool           `db:"active"`
}

// GameID represents a game account registered by a user for automatic
// like delivery. Removal is a soft delete via the active flag so that
// delivery history stays attributable.
type GameID struct {
	ID         uint           `db:"id"`
	TelegramID int64          `db:"telegram_id"`
	GameID     string         `db:"game_id"`
	PlayerName sql.NullString `db:"player_name"`
	AddedAt    time.Time      `db:"added_at"`
	LastSentAt sql.NullTime   `db:"last_sent_at"`
	TotalLikes int64          `db:"total_likes"`
	Active     bool           `db:"active"`
}

// SendRecord is one row of delivery history: a single attempt to send
// likes to a game ID, manual or automatic, successful or not.
type SendRecord struct {
	ID           uint           `db:"id"`
	TelegramID   int64          `db:"telegram_id"`
	GameID       string         `db:"game_id"`
	LikesSent    int            `db:"likes_sent"`
	Success      bool           `db:"success"`
	ErrorMessage sql.NullString `db:"error_message"`
	PlayerName   sql.NullString `db:"player_name"`
	SentAt       time.Time      `db:"sent_at"`
	Automatic    bool           `db:"automatic"`
}

// Stats aggregates global bot statistics for the admin /stats command.
type Stats struct {
	TotalUsers   int64
	TotalGameIDs int64
	TotalLikes   int64
	SendsToday   int64
	SuccessRate  float64
}
