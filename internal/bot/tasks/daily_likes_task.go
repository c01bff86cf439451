package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	tgbot "github.com/go-telegram/bot"

	"github.com/likehub/likesbot/internal/likes"
	"github.com/likehub/likesbot/internal/sentry"
)

// newDailyLikesTask creates the scheduled task that delivers likes to every
// active game ID, notifies each owner with a per-user summary, and sends a
// final report to the administrator.
func newDailyLikesTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "daily_likes")

	return func(ctx context.Context) error {
		log.InfoContext(ctx, "Starting automatic like delivery run...")
		startTime := time.Now()

		grouped, err := deps.Store.GetAllActiveGameIDs(ctx)
		if err != nil {
			sentry.CaptureError(err, map[string]string{"task": "daily_likes", "phase": "list"})
			return fmt.Errorf("failed to list active game ids: %w", err)
		}
		if len(grouped) == 0 {
			log.InfoContext(ctx, "No active game ids registered, nothing to deliver")
			return nil
		}

		// Stable ordering so runs are reproducible and reports are readable.
		owners := make([]int64, 0, len(grouped))
		for telegramID := range grouped {
			owners = append(owners, telegramID)
		}
		sort.Slice(owners, func(i, j int) bool { return owners[i] < owners[j] })

		var delivered, insufficient, failed int
		totalIDs := 0

		for _, telegramID := range owners {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			ids := grouped[telegramID]
			totalIDs += len(ids)
			deliveries := make([]*likes.Delivery, 0, len(ids))

			for _, gameID := range ids {
				d, err := deps.Likes.Deliver(ctx, telegramID, gameID, true)
				if err != nil {
					if errors.Is(err, likes.ErrNoKey) {
						log.ErrorContext(ctx, "No API key configured, aborting delivery run")
						notifyAdmin(ctx, deps, log,
							"⚠️ Automatic delivery aborted: no API key configured. Use /setkey to fix it.")
						return err
					}
					log.ErrorContext(ctx, "Delivery could not be recorded",
						"error", err, "telegram_id", telegramID, "game_id", gameID)
					failed++
					continue
				}

				switch d.Outcome {
				case likes.OutcomeDelivered:
					delivered++
				case likes.OutcomeInsufficient:
					insufficient++
				default:
					failed++
				}
				deliveries = append(deliveries, d)
			}

			if len(deliveries) == 0 {
				continue
			}

			_, err := deps.TG.SendMessage(ctx, &tgbot.SendMessageParams{
				ChatID: telegramID,
				Text:   likes.FormatSummary(deliveries),
			})
			if err != nil {
				// Blocked bots and deleted accounts land here; the run goes on.
				log.WarnContext(ctx, "Failed to send delivery summary", "error", err, "telegram_id", telegramID)
			}
		}

		duration := time.Since(startTime)
		report := fmt.Sprintf(
			"🌙 Automatic delivery report\n\n"+
				"👥 Users: %d\n🎮 IDs processed: %d\n"+
				"✅ Delivered: %d\n⚠️ Insufficient: %d\n❌ Failed: %d\n\n"+
				"⏱ Duration: %s",
			len(owners), totalIDs, delivered, insufficient, failed, duration.Round(time.Second))
		notifyAdmin(ctx, deps, log, report)

		log.InfoContext(ctx, "Automatic like delivery run finished",
			"users", len(owners), "ids", totalIDs,
			"delivered", delivered, "insufficient", insufficient, "failed", failed,
			"duration", duration)
		return nil
	}
}

func notifyAdmin(ctx context.Context, deps TaskDeps, log *slog.Logger, text string) {
	_, err := deps.TG.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: deps.Config.Telegram.AdminID,
		Text:   text,
	})
	if err != nil {
		log.WarnContext(ctx, "Failed to notify admin", "error", err)
	}
}
