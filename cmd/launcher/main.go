// Package main contains the launcher entrypoint: it validates the local
// environment, materializes configuration on first run, and execs the bot.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/likehub/likesbot/internal/launcher"
	"github.com/likehub/likesbot/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run executes the preflight sequence. On success the process image is
// replaced by the bot and this function never returns; every failure path
// returns 1 after the launcher has printed operator guidance.
func run(ctx context.Context) int {
	log := logger.New("info", "text")

	l := launcher.New(log)
	if err := l.Run(ctx); err != nil {
		log.Error("Launch aborted", "error", err)
		return 1
	}
	return 0
}
