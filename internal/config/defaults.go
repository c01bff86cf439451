package config

import (
	"time"

	"github.com/spf13/viper"
)

// Task names used as keys in the scheduler configuration and task registry.
const (
	TaskDailyLikes     = "daily_likes"
	TaskSQLMaintenance = "sql_maintenance"
)

const (
	defaultAPIBaseURL = "https://7xhublikes.space"
	defaultAPITimeout = 60 * time.Second
	defaultMinLikes   = 100
)

// setDefaults registers default values for all optional configuration parameters.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("api.base_url", defaultAPIBaseURL)
	v.SetDefault("api.endpoint", "/api/sendlikes")
	v.SetDefault("api.timeout", defaultAPITimeout)
	v.SetDefault("api.min_likes", defaultMinLikes)
	v.SetDefault("api.key_file", "data/api_key.txt")

	v.SetDefault("database.path", "data/likesbot.db")

	v.SetDefault("scheduler.timezone", "America/Sao_Paulo")
	v.SetDefault("scheduler.tasks."+TaskDailyLikes+".enabled", true)
	v.SetDefault("scheduler.tasks."+TaskDailyLikes+".schedule", "0 0 * * *")
	v.SetDefault("scheduler.tasks."+TaskSQLMaintenance+".enabled", true)
	v.SetDefault("scheduler.tasks."+TaskSQLMaintenance+".schedule", "0 4 * * 0")

	v.SetDefault("sentry.environment", "production")

	v.SetDefault("messages.welcome", "🎮 Welcome! I deliver likes to your registered game IDs automatically at midnight every day.\n\nUse /addid <ID> to register an ID, /like <ID> to send likes right now, and /help for the full command list.")
	v.SetDefault("messages.help", "📖 Commands:\n\n/addid <ID> — register a game ID\n/myids — list your registered IDs\n/removeids — remove an ID\n/like <ID> — send likes now\n/status — system status\n/menu — show the button menu\n\nEvery registered ID receives likes automatically at 00:00. Deliveries below the minimum are not counted against the API quota.")
	v.SetDefault("messages.admin_help", "👑 Admin commands:\n\n/setkey <KEY> — configure the likes API key\n/checkkey — show key status\n/listusers — list registered users\n/stats — global statistics\n/broadcast <msg> — message every user\n/forcesend — run the daily delivery now")
	v.SetDefault("messages.not_authorized", "🚫 This command is only available to the administrator.")
	v.SetDefault("messages.general_error", "❌ An error occurred. Please try again later.")
	v.SetDefault("messages.key_not_set", "❌ The likes API key is not configured. Ask the administrator to run /setkey.")
	v.SetDefault("messages.no_ids", "📋 You have no registered IDs yet. Use /addid <ID> to add one.")
	v.SetDefault("messages.addid_usage", "Usage: /addid <ID>\nExample: /addid 1033857091")
	v.SetDefault("messages.like_usage", "Usage: /like <ID>\nExample: /like 1033857091")
	v.SetDefault("messages.broadcast_usage", "Usage: /broadcast <message>")
	v.SetDefault("messages.invalid_game_id", "❌ Invalid ID: game IDs contain digits only.")
}
