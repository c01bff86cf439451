package likes

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/likehub/likesbot/internal/database"
	"github.com/likehub/likesbot/internal/sentry"
)

// Outcome classifies a single delivery attempt.
type Outcome int

const (
	// OutcomeDelivered means the API succeeded with at least the minimum
	// number of likes, so the delivery counts.
	OutcomeDelivered Outcome = iota
	// OutcomeInsufficient means likes were sent but stayed below the
	// minimum; the API does not count such deliveries against the quota.
	OutcomeInsufficient
	// OutcomeFailed covers every other failure (API errors, timeouts,
	// transport problems).
	OutcomeFailed
)

// Delivery is the classified result of one delivery attempt.
type Delivery struct {
	GameID  string
	Outcome Outcome
	Result  *Result // nil when the request itself failed
	Reason  string  // human-readable failure reason, empty on success
}

// Service performs like deliveries: it resolves the API key, calls the
// client, classifies the outcome, and records history through the store.
// Both the /like command and the midnight task go through Deliver.
type Service struct {
	store    database.Store
	client   Client
	keys     *Keystore
	minLikes int
	log      *slog.Logger
}

// NewService creates a delivery service.
func NewService(store database.Store, client Client, keys *Keystore, minLikes int, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		store:    store,
		client:   client,
		keys:     keys,
		minLikes: minLikes,
		log:      log.With("component", "likes_service"),
	}
}

// MinLikes returns the configured minimum likes for a counted delivery.
func (s *Service) MinLikes() int { return s.minLikes }

// Keys exposes the keystore for the admin key-management commands.
func (s *Service) Keys() *Keystore { return s.keys }

// Deliver sends likes to gameID on behalf of telegramID, classifies the
// result, and records it in the delivery history. It returns ErrNoKey when
// no API key is configured; any other error means the delivery could not be
// recorded.
func (s *Service) Deliver(ctx context.Context, telegramID int64, gameID string, automatic bool) (*Delivery, error) {
	key, err := s.keys.Load()
	if err != nil {
		return nil, err
	}

	result, reqErr := s.client.SendLikes(ctx, gameID, key)
	delivery := classify(result, reqErr, s.minLikes)
	delivery.GameID = gameID

	rec := &database.SendRecord{
		TelegramID: telegramID,
		GameID:     gameID,
		Success:    delivery.Outcome == OutcomeDelivered,
		SentAt:     time.Now().UTC(),
		Automatic:  automatic,
	}
	if result != nil {
		rec.LikesSent = result.LikesAdded
		rec.PlayerName = sql.NullString{String: result.Player, Valid: result.Player != ""}
	}
	if delivery.Reason != "" {
		rec.ErrorMessage = sql.NullString{String: delivery.Reason, Valid: true}
	}

	if err := s.store.RecordDelivery(ctx, rec); err != nil {
		sentry.CaptureError(err, map[string]string{"component": "likes_service", "phase": "record"})
		return nil, fmt.Errorf("delivery for game id %q could not be recorded: %w", gameID, err)
	}

	s.log.InfoContext(ctx, "Delivery processed",
		"telegram_id", telegramID, "game_id", gameID,
		"outcome", delivery.Outcome.String(), "likes_added", rec.LikesSent, "automatic", automatic)
	return delivery, nil
}

// classify maps an API result (or request error) to a delivery outcome.
func classify(result *Result, reqErr error, minLikes int) *Delivery {
	switch {
	case reqErr != nil:
		return &Delivery{Outcome: OutcomeFailed, Reason: reqErr.Error()}

	case result.Success && result.LikesAdded >= minLikes:
		return &Delivery{Outcome: OutcomeDelivered, Result: result}

	case !result.Success && result.Error == errInsufficientLikes:
		return &Delivery{
			Outcome: OutcomeInsufficient,
			Result:  result,
			Reason:  fmt.Sprintf("fewer than %d likes delivered", minLikes),
		}

	default:
		reason := result.Message
		if reason == "" {
			reason = "unknown API error"
		}
		return &Delivery{Outcome: OutcomeFailed, Result: result, Reason: reason}
	}
}

// String implements fmt.Stringer for logging.
func (o Outcome) String() string {
	switch o {
	case OutcomeDelivered:
		return "delivered"
	case OutcomeInsufficient:
		return "insufficient"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}
