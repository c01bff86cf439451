package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrGameIDExists is returned by AddGameID when the user already has an
// active registration for the same game ID.
var ErrGameIDExists = errors.New("game id already registered")

// Store defines the data access interface. All methods accept a
// context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// SaveUser registers a user if not already present. Returns true when
	// the user was newly created.
	SaveUser(ctx context.Context, telegramID int64, username string) (bool, error)

	// AddGameID registers a game ID for a user. Returns ErrGameIDExists if
	// the user already has this ID active.
	AddGameID(ctx context.Context, telegramID int64, gameID string) error

	// GetUserGameIDs returns a user's active game IDs, most recent first.
	GetUserGameIDs(ctx context.Context, telegramID int64) ([]GameID, error)

	// GetAllActiveGameIDs returns every active game ID grouped by owner.
	GetAllActiveGameIDs(ctx context.Context) (map[int64][]string, error)

	// DeactivateGameID soft-deletes a user's game ID.
	DeactivateGameID(ctx context.Context, telegramID int64, gameID string) error

	// RecordDelivery appends a history row and, for successful deliveries,
	// updates the game ID's player name, last-sent time, and like total.
	// Both writes happen in one transaction.
	RecordDelivery(ctx context.Context, rec *SendRecord) error

	// GetAllUsers returns all active users.
	GetAllUsers(ctx context.Context) ([]User, error)

	// GetStats aggregates global statistics for the admin /stats command.
	GetStats(ctx context.Context) (*Stats, error)

	// RunSQLMaintenance performs database maintenance (VACUUM).
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore implements Store using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a Store backed by the given sqlx.DB.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) SaveUser(ctx context.Context, telegramID int64, username string) (bool, error) {
	if telegramID == 0 {
		return false, fmt.Errorf("telegram_id cannot be zero")
	}

	query := `
        INSERT INTO users (telegram_id, username, registered_at, active)
        VALUES (?, ?, ?, 1)
        ON CONFLICT (telegram_id) DO NOTHING;
    `
	result, err := s.db.ExecContext(ctx, query, telegramID, nullString(username), time.Now().UTC())
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving user", "telegram_id", telegramID, "error", err)
		return false, fmt.Errorf("failed to save user %d: %w", telegramID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		s.logger.WarnContext(ctx, "Could not get affected row count for user insert",
			"telegram_id", telegramID, "error", err)
		return false, nil
	}

	created := affected == 1
	if created {
		s.logger.InfoContext(ctx, "Registered new user", "telegram_id", telegramID)
	}
	return created, nil
}

func (s *sqlxStore) AddGameID(ctx context.Context, telegramID int64, gameID string) error {
	if telegramID == 0 || gameID == "" {
		return fmt.Errorf("telegram_id and game_id are required")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
			}
		}
	}()

	var exists bool
	err = tx.GetContext(ctx, &exists,
		`SELECT 1 FROM game_ids WHERE telegram_id = ? AND game_id = ? AND active = 1 LIMIT 1`,
		telegramID, gameID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		s.logger.ErrorContext(ctx, "Error checking for existing game id",
			"telegram_id", telegramID, "game_id", gameID, "error", err)
		return fmt.Errorf("failed to check existing game id: %w", err)
	}
	if exists {
		return ErrGameIDExists
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO game_ids (telegram_id, game_id, added_at, total_likes, active)
         VALUES (?, ?, ?, 0, 1)`,
		telegramID, gameID, time.Now().UTC())
	if err != nil {
		s.logger.ErrorContext(ctx, "Error adding game id",
			"telegram_id", telegramID, "game_id", gameID, "error", err)
		return fmt.Errorf("failed to add game id %q for user %d: %w", gameID, telegramID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	s.logger.DebugContext(ctx, "Game id added", "telegram_id", telegramID, "game_id", gameID)
	return nil
}

func (s *sqlxStore) GetUserGameIDs(ctx context.Context, telegramID int64) ([]GameID, error) {
	if telegramID == 0 {
		return nil, fmt.Errorf("telegram_id cannot be zero")
	}

	var ids []GameID
	query := `
        SELECT id, telegram_id, game_id, player_name, added_at, last_sent_at, total_likes, active
        FROM game_ids
        WHERE telegram_id = ? AND active = 1
        ORDER BY added_at DESC;
    `
	if err := s.db.SelectContext(ctx, &ids, query, telegramID); err != nil {
		s.logger.ErrorContext(ctx, "Error getting user game ids", "telegram_id", telegramID, "error", err)
		return nil, fmt.Errorf("failed to get game ids for user %d: %w", telegramID, err)
	}
	return ids, nil
}

func (s *sqlxStore) GetAllActiveGameIDs(ctx context.Context) (map[int64][]string, error) {
	rows := []struct {
		TelegramID int64  `db:"telegram_id"`
		GameID     string `db:"game_id"`
	}{}

	query := `
        SELECT telegram_id, game_id
        FROM game_ids
        WHERE active = 1
        ORDER BY telegram_id, added_at;
    `
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		s.logger.ErrorContext(ctx, "Error getting all active game ids", "error", err)
		return nil, fmt.Errorf("failed to get all active game ids: %w", err)
	}

	grouped := make(map[int64][]string)
	for _, r := range rows {
		grouped[r.TelegramID] = append(grouped[r.TelegramID], r.GameID)
	}
	return grouped, nil
}

func (s *sqlxStore) DeactivateGameID(ctx context.Context, telegramID int64, gameID string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE game_ids SET active = 0 WHERE telegram_id = ? AND game_id = ? AND active = 1`,
		telegramID, gameID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deactivating game id",
			"telegram_id", telegramID, "game_id", gameID, "error", err)
		return fmt.Errorf("failed to deactivate game id %q for user %d: %w", gameID, telegramID, err)
	}

	affected, _ := result.RowsAffected()
	s.logger.DebugContext(ctx, "Game id deactivated",
		"telegram_id", telegramID, "game_id", gameID, "affected", affected)
	return nil
}

func (s *sqlxStore) RecordDelivery(ctx context.Context, rec *SendRecord) error {
	if rec == nil {
		return fmt.Errorf("cannot record nil delivery")
	}
	if rec.SentAt.IsZero() {
		rec.SentAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
			}
		}
	}()

	query := `
        INSERT INTO send_history
            (telegram_id, game_id, likes_sent, success, error_message, player_name, sent_at, automatic)
        VALUES
            (:telegram_id, :game_id, :likes_sent, :success, :error_message, :player_name, :sent_at, :automatic);
    `
	result, err := tx.NamedExecContext(ctx, query, rec)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error recording delivery",
			"telegram_id", rec.TelegramID, "game_id", rec.GameID, "error", err)
		return fmt.Errorf("failed to record delivery for game id %q: %w", rec.GameID, err)
	}
	if id, err := result.LastInsertId(); err == nil {
		rec.ID = uint(id) //nolint:gosec // row ids stay well within uint range
	}

	if rec.Success {
		_, err = tx.ExecContext(ctx,
			`UPDATE game_ids
             SET player_name = ?, last_sent_at = ?, total_likes = total_likes + ?
             WHERE telegram_id = ? AND game_id = ? AND active = 1`,
			rec.PlayerName, rec.SentAt, rec.LikesSent, rec.TelegramID, rec.GameID)
		if err != nil {
			s.logger.ErrorContext(ctx, "Error updating game id after delivery",
				"telegram_id", rec.TelegramID, "game_id", rec.GameID, "error", err)
			return fmt.Errorf("failed to update game id %q after delivery: %w", rec.GameID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	s.logger.DebugContext(ctx, "Delivery recorded",
		"telegram_id", rec.TelegramID, "game_id", rec.GameID,
		"success", rec.Success, "likes_sent", rec.LikesSent, "automatic", rec.Automatic)
	return nil
}

func (s *sqlxStore) GetAllUsers(ctx context.Context) ([]User, error) {
	var users []User
	query := `
        SELECT telegram_id, username, registered_at, active
        FROM users
        WHERE active = 1
        ORDER BY registered_at;
    `
	if err := s.db.SelectContext(ctx, &users, query); err != nil {
		s.logger.ErrorContext(ctx, "Error getting all users", "error", err)
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}
	return users, nil
}

func (s *sqlxStore) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	if err := s.db.GetContext(ctx, &stats.TotalUsers,
		`SELECT COUNT(*) FROM users WHERE active = 1`); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if err := s.db.GetContext(ctx, &stats.TotalGameIDs,
		`SELECT COUNT(*) FROM game_ids WHERE active = 1`); err != nil {
		return nil, fmt.Errorf("failed to count game ids: %w", err)
	}
	if err := s.db.GetContext(ctx, &stats.TotalLikes,
		`SELECT COALESCE(SUM(likes_sent), 0) FROM send_history WHERE success = 1`); err != nil {
		return nil, fmt.Errorf("failed to sum delivered likes: %w", err)
	}

	startOfDay := time.Now().UTC().Truncate(24 * time.Hour)
	if err := s.db.GetContext(ctx, &stats.SendsToday,
		`SELECT COUNT(*) FROM send_history WHERE sent_at >= ?`, startOfDay); err != nil {
		return nil, fmt.Errorf("failed to count today's sends: %w", err)
	}

	var successes, total int64
	if err := s.db.GetContext(ctx, &successes,
		`SELECT COUNT(*) FROM send_history WHERE success = 1`); err != nil {
		return nil, fmt.Errorf("failed to count successful sends: %w", err)
	}
	if err := s.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM send_history`); err != nil {
		return nil, fmt.Errorf("failed to count sends: %w", err)
	}
	if total > 0 {
		stats.SuccessRate = float64(successes) / float64(total) * 100
	}

	return stats, nil
}

// RunSQLMaintenance executes VACUUM. SQLite requires it to run outside a
// transaction.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)")
	if _, err := s.db.ExecContext(ctx, "VACUUM;"); err != nil {
		s.logger.ErrorContext(ctx, "Database maintenance failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}
	s.logger.InfoContext(ctx, "Database maintenance completed")
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
