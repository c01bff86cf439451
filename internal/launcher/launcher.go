// Package launcher implements the preflight sequence that prepares the
// environment and starts the bot process: toolchain check, first-run
// configuration generation, credential validation, binary build, data
// directory provisioning, and finally the exec hand-off.
package launcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"

	"golang.org/x/sys/unix"
)

const (
	envFile = ".env"
	dataDir = "data"

	tokenKey         = "BOT_TOKEN"
	adminKey         = "ADMIN_ID"
	tokenPlaceholder = "your_bot_token_here"
	adminPlaceholder = "your_admin_id_here"

	minGoVersion = "go1.24"
	botPackage   = "./cmd/bot"
	botBinary    = "./likesbot"
)

// Check is one preflight gate. A non-nil error halts the whole sequence;
// there are no retries.
type Check struct {
	Name string
	Run  func(ctx context.Context) error
}

// Launcher runs the preflight checks and hands control to the bot process.
// The process-level primitives are injectable so the sequence can be tested
// without building or replacing a real process.
type Launcher struct {
	log    *slog.Logger
	stdout io.Writer

	lookPath func(file string) (string, error)
	runCmd   func(ctx context.Context, name string, args ...string) ([]byte, error)
	execve   func(argv0 string, argv []string, envv []string) error
}

// New creates a Launcher bound to the real toolchain and syscalls.
func New(log *slog.Logger) *Launcher {
	if log == nil {
		log = slog.Default()
	}
	return &Launcher{
		log:    log.With("component", "launcher"),
		stdout: os.Stdout,
		lookPath: exec.LookPath,
		runCmd: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).CombinedOutput()
		},
		execve: unix.Exec,
	}
}

// Checks returns the preflight gates in their required order.
func (l *Launcher) Checks() []Check {
	return []Check{
		{Name: "toolchain", Run: l.checkToolchain},
		{Name: "config", Run: l.checkConfig},
		{Name: "credentials", Run: l.checkCredentials},
		{Name: "dependencies", Run: l.checkDependencies},
		{Name: "data_dir", Run: l.checkDataDir},
	}
}

// Run folds over the checks, stopping at the first failure, and then execs
// the bot binary. On success it never returns: the launcher's process image
// is replaced by the bot's.
func (l *Launcher) Run(ctx context.Context) error {
	for _, c := range l.Checks() {
		l.log.Debug("Running preflight check", "check", c.Name)
		if err := c.Run(ctx); err != nil {
			return fmt.Errorf("%s: %w", c.Name, err)
		}
	}
	return l.start()
}

// start replaces the current process with the bot binary, inheriting the
// environment. The bot's exit code and behavior are its own from here on.
func (l *Launcher) start() error {
	fmt.Fprintln(l.stdout, "🚀 Starting the bot...")
	l.log.Info("Handing off to bot process", "binary", botBinary)

	if err := l.execve(botBinary, []string{botBinary}, os.Environ()); err != nil {
		return fmt.Errorf("failed to start bot process %s: %w", botBinary, err)
	}
	return nil
}
