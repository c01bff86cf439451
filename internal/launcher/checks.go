package launcher

import (
	"context"
	"fmt"
	"go/version"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// defaultEnvFile is written on first run. The placeholders double as the
// "not yet configured" sentinels the credential check looks for.
const defaultEnvFile = `# Bot credentials. Fill in both values before running the launcher again.
#
# BOT_TOKEN: create a bot with @BotFather on Telegram and paste the token here.
` + tokenKey + `=` + tokenPlaceholder + `
#
# ADMIN_ID: your numeric Telegram user id (send /start to @userinfobot to find it).
` + adminKey + `=` + adminPlaceholder + `
`

// checkToolchain verifies that a Go toolchain of at least minGoVersion is on
// the PATH. Missing or outdated toolchains are fatal and not retried.
func (l *Launcher) checkToolchain(ctx context.Context) error {
	goBin, err := l.lookPath("go")
	if err != nil {
		fmt.Fprintf(l.stdout, "❌ Go toolchain not found. Install Go %s or newer and re-run.\n",
			strings.TrimPrefix(minGoVersion, "go"))
		return fmt.Errorf("go toolchain not found in PATH: %w", err)
	}

	out, err := l.runCmd(ctx, goBin, "version")
	if err != nil {
		return fmt.Errorf("failed to run go version: %w", err)
	}

	// "go version go1.24.2 linux/amd64"
	fields := strings.Fields(string(out))
	if len(fields) < 3 {
		return fmt.Errorf("unexpected go version output: %q", strings.TrimSpace(string(out)))
	}
	got := fields[2]

	if version.Compare(version.Lang(got), minGoVersion) < 0 {
		fmt.Fprintf(l.stdout, "❌ Go %s or newer is required, found %s. Upgrade and re-run.\n",
			strings.TrimPrefix(minGoVersion, "go"), got)
		return fmt.Errorf("go toolchain too old: need %s, found %s", minGoVersion, got)
	}

	l.log.Debug("Toolchain check passed", "version", got)
	return nil
}

// checkConfig creates a placeholder .env on first run and halts so the
// operator can fill in the credentials. An existing file is never touched.
func (l *Launcher) checkConfig(context.Context) error {
	if _, err := os.Stat(envFile); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check for %s: %w", envFile, err)
	}

	if err := os.WriteFile(envFile, []byte(defaultEnvFile), 0o600); err != nil {
		return fmt.Errorf("failed to create %s: %w", envFile, err)
	}

	fmt.Fprintf(l.stdout,
		"📝 Created %s with placeholder values.\n\n"+
			"   1. Talk to @BotFather on Telegram to create a bot and copy its token into %s.\n"+
			"   2. Send /start to @userinfobot to find your numeric id and put it in %s.\n"+
			"   3. Edit %s with any text editor, then run the launcher again.\n",
		envFile, tokenKey, adminKey, envFile)
	return fmt.Errorf("configuration created, credentials required")
}

// checkCredentials validates the .env contents without modifying the file.
func (l *Launcher) checkCredentials(context.Context) error {
	data, err := os.ReadFile(envFile)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", envFile, err)
	}

	if err := ValidateCredentials(data); err != nil {
		fmt.Fprintf(l.stdout, "❌ %v\n   Edit %s and run the launcher again.\n", err, envFile)
		return err
	}
	return nil
}

// ValidateCredentials parses key=value credential data and checks that both
// credentials are present and no longer hold their placeholder sentinels.
// It is a pure function of its input.
func ValidateCredentials(data []byte) error {
	env, err := godotenv.UnmarshalBytes(data)
	if err != nil {
		return fmt.Errorf("credentials file is not valid key=value text: %w", err)
	}

	token := strings.TrimSpace(env[tokenKey])
	switch token {
	case "":
		return fmt.Errorf("%s is missing", tokenKey)
	case tokenPlaceholder:
		return fmt.Errorf("%s still holds the placeholder value", tokenKey)
	}

	admin := strings.TrimSpace(env[adminKey])
	switch {
	case admin == "":
		return fmt.Errorf("%s is missing", adminKey)
	case admin == adminPlaceholder:
		return fmt.Errorf("%s still holds the placeholder value", adminKey)
	case !allDigits(admin):
		return fmt.Errorf("%s must be a numeric Telegram id, got %q", adminKey, admin)
	}

	return nil
}

// checkDependencies makes sure the bot binary exists, building it when
// missing. The build is best-effort: a failure here surfaces as a broken
// hand-off rather than halting the sequence.
func (l *Launcher) checkDependencies(ctx context.Context) error {
	if _, err := os.Stat(botBinary); err == nil {
		l.log.Debug("Bot binary already present", "binary", botBinary)
		return nil
	}

	fmt.Fprintln(l.stdout, "📦 Bot binary missing, building it...")
	out, err := l.runCmd(ctx, "go", "build", "-o", botBinary, botPackage)
	if err != nil {
		l.log.Warn("Bot build failed, hand-off will likely fail",
			"error", err, "output", strings.TrimSpace(string(out)))
	}
	return nil
}

// checkDataDir provisions the bot's data directory idempotently.
func (l *Launcher) checkDataDir(context.Context) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory %s: %w", dataDir, err)
	}
	return nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
