package config_test

import (
	"errors"
	"os"
	"testing"

	"github.com/likehub/likesbot/internal/config"
)

func TestLoadFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BOT_TOKEN", "123456:AAF-test-token")
	t.Setenv("ADMIN_ID", "987654321")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() = %v, want success", err)
	}

	if cfg.Telegram.Token != "123456:AAF-test-token" {
		t.Errorf("Token = %q", cfg.Telegram.Token)
	}
	if cfg.Telegram.AdminID != 987654321 {
		t.Errorf("AdminID = %d", cfg.Telegram.AdminID)
	}
	if cfg.API.BaseURL == "" || cfg.API.Endpoint == "" {
		t.Error("API defaults should be populated")
	}
	if cfg.API.MinLikes <= 0 {
		t.Errorf("MinLikes = %d, want a positive default", cfg.API.MinLikes)
	}
	if cfg.Scheduler.Timezone == "" {
		t.Error("scheduler timezone default should be populated")
	}
	if _, ok := cfg.Scheduler.Tasks[config.TaskDailyLikes]; !ok {
		t.Errorf("default tasks should include %q", config.TaskDailyLikes)
	}
	if cfg.Messages.Welcome == "" || cfg.Messages.KeyNotSet == "" {
		t.Error("default messages should be populated")
	}
}

func TestLoadRejectsPlaceholderToken(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BOT_TOKEN", "your_bot_token_here")
	t.Setenv("ADMIN_ID", "987654321")

	_, err := config.Load()
	if err == nil {
		t.Fatal("Load() should reject the placeholder token")
	}
	if !errors.Is(err, config.ErrConfiguration) {
		t.Errorf("error should wrap ErrConfiguration, got %v", err)
	}
}

func TestLoadRequiresCredentials(t *testing.T) {
	t.Chdir(t.TempDir())
	unsetCredentials(t)

	if _, err := config.Load(); err == nil {
		t.Fatal("Load() should fail without credentials")
	}
}

func TestLoadReadsDotEnvFile(t *testing.T) {
	t.Chdir(t.TempDir())
	unsetCredentials(t)

	writeFile(t, ".env", "BOT_TOKEN=123456:AAF-from-file\nADMIN_ID=42\n")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() = %v, want success from .env", err)
	}
	if cfg.Telegram.Token != "123456:AAF-from-file" {
		t.Errorf("Token = %q, want value from .env", cfg.Telegram.Token)
	}
	if cfg.Telegram.AdminID != 42 {
		t.Errorf("AdminID = %d, want 42", cfg.Telegram.AdminID)
	}
}

// unsetCredentials removes the credential variables for the duration of the
// test; t.Setenv registers the restore, os.Unsetenv removes the value so
// .env loading is exercised.
func unsetCredentials(t *testing.T) {
	t.Helper()
	for _, key := range []string{"BOT_TOKEN", "ADMIN_ID"} {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("unsetting %s: %v", key, err)
		}
	}
}

func writeFile(t *testing.T, name, content string) {
	t.Helper()
	if err := os.WriteFile(name, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}
