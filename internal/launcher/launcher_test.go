package launcher

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
)

// testLauncher returns a Launcher with every process primitive stubbed for
// the happy path: toolchain present, builds succeed, exec is recorded
// instead of replacing the test process.
func testLauncher(t *testing.T) (*Launcher, *bytes.Buffer, *bool) {
	t.Helper()

	var out bytes.Buffer
	execCalled := false

	l := New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	l.stdout = &out
	l.lookPath = func(string) (string, error) { return "/usr/local/bin/go", nil }
	l.runCmd = func(_ context.Context, name string, args ...string) ([]byte, error) {
		if len(args) > 0 && args[0] == "version" {
			return []byte("go version go1.24.2 linux/amd64"), nil
		}
		return nil, nil
	}
	l.execve = func(argv0 string, argv []string, envv []string) error {
		execCalled = true
		return nil
	}
	return l, &out, &execCalled
}

func writeEnv(t *testing.T, content string) {
	t.Helper()
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", envFile, err)
	}
}

func TestRunMissingToolchain(t *testing.T) {
	t.Chdir(t.TempDir())

	l, out, execCalled := testLauncher(t)
	l.lookPath = func(string) (string, error) { return "", errors.New("not found") }

	err := l.Run(context.Background())
	if err == nil {
		t.Fatal("expected error when toolchain is missing")
	}
	if *execCalled {
		t.Error("bot must not be started without a toolchain")
	}
	if _, statErr := os.Stat(envFile); !os.IsNotExist(statErr) {
		t.Errorf("no file should be created when the toolchain check fails, stat err = %v", statErr)
	}
	if !strings.Contains(out.String(), "1.24") {
		t.Errorf("message should name the minimum version, got %q", out.String())
	}
}

func TestRunOutdatedToolchain(t *testing.T) {
	t.Chdir(t.TempDir())

	l, out, execCalled := testLauncher(t)
	l.runCmd = func(context.Context, string, ...string) ([]byte, error) {
		return []byte("go version go1.21.0 linux/amd64"), nil
	}

	if err := l.Run(context.Background()); err == nil {
		t.Fatal("expected error for an outdated toolchain")
	}
	if *execCalled {
		t.Error("bot must not be started with an outdated toolchain")
	}
	if !strings.Contains(out.String(), "go1.21.0") {
		t.Errorf("message should name the found version, got %q", out.String())
	}
}

func TestRunFirstRunCreatesConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	l, out, execCalled := testLauncher(t)

	err := l.Run(context.Background())
	if err == nil {
		t.Fatal("expected guided-setup error on first run")
	}
	if *execCalled {
		t.Error("bot must not be started on first run")
	}

	data, readErr := os.ReadFile(envFile)
	if readErr != nil {
		t.Fatalf("expected %s to be created: %v", envFile, readErr)
	}
	for _, sentinel := range []string{tokenPlaceholder, adminPlaceholder} {
		if !strings.Contains(string(data), sentinel) {
			t.Errorf("generated file should contain placeholder %q", sentinel)
		}
	}
	if !strings.Contains(out.String(), "@BotFather") {
		t.Errorf("operator instructions should explain where to get the token, got %q", out.String())
	}
}

func TestRunPlaceholderConfigHalts(t *testing.T) {
	t.Chdir(t.TempDir())

	l, _, execCalled := testLauncher(t)
	original := "BOT_TOKEN=" + tokenPlaceholder + "\nADMIN_ID=123456\n"
	writeEnv(t, original)

	if err := l.Run(context.Background()); err == nil {
		t.Fatal("expected error while a placeholder remains")
	}
	if *execCalled {
		t.Error("bot must not be started with placeholder credentials")
	}

	data, err := os.ReadFile(envFile)
	if err != nil {
		t.Fatalf("reading %s: %v", envFile, err)
	}
	if string(data) != original {
		t.Error("existing configuration file must never be modified")
	}
}

func TestRunValidConfigStartsBot(t *testing.T) {
	t.Chdir(t.TempDir())

	l, _, execCalled := testLauncher(t)
	writeEnv(t, "BOT_TOKEN=123456:AAF-real-looking-token\nADMIN_ID=987654321\n")
	if err := os.WriteFile(botBinary, []byte("#!/bin/true\n"), 0o755); err != nil {
		t.Fatalf("creating fake binary: %v", err)
	}

	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run() = %v, want hand-off", err)
	}
	if !*execCalled {
		t.Fatal("bot process should have been started")
	}

	info, err := os.Stat(dataDir)
	if err != nil || !info.IsDir() {
		t.Errorf("data directory should exist after a successful run, err = %v", err)
	}
}

func TestRunIsIdempotentWithValidConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	l, _, execCalled := testLauncher(t)
	writeEnv(t, "BOT_TOKEN=123456:AAF-real-looking-token\nADMIN_ID=987654321\n")
	if err := os.WriteFile(botBinary, []byte("#!/bin/true\n"), 0o755); err != nil {
		t.Fatalf("creating fake binary: %v", err)
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		t.Fatalf("pre-creating data dir: %v", err)
	}

	for i := 0; i < 2; i++ {
		*execCalled = false
		if err := l.Run(context.Background()); err != nil {
			t.Fatalf("run %d: Run() = %v, want hand-off", i+1, err)
		}
		if !*execCalled {
			t.Fatalf("run %d: bot process should have been started", i+1)
		}
	}
}

func TestRunBuildsMissingBinary(t *testing.T) {
	t.Chdir(t.TempDir())

	l, _, _ := testLauncher(t)
	writeEnv(t, "BOT_TOKEN=123456:AAF-real-looking-token\nADMIN_ID=987654321\n")

	var buildArgs []string
	l.runCmd = func(_ context.Context, name string, args ...string) ([]byte, error) {
		if len(args) > 0 && args[0] == "version" {
			return []byte("go version go1.24.2 linux/amd64"), nil
		}
		buildArgs = args
		return nil, nil
	}

	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run() = %v, want hand-off", err)
	}
	if len(buildArgs) == 0 || buildArgs[0] != "build" {
		t.Errorf("expected a go build invocation, got %v", buildArgs)
	}
}

func TestRunToleratesBuildFailure(t *testing.T) {
	t.Chdir(t.TempDir())

	l, _, execCalled := testLauncher(t)
	writeEnv(t, "BOT_TOKEN=123456:AAF-real-looking-token\nADMIN_ID=987654321\n")
	l.runCmd = func(_ context.Context, name string, args ...string) ([]byte, error) {
		if len(args) > 0 && args[0] == "version" {
			return []byte("go version go1.24.2 linux/amd64"), nil
		}
		return []byte("build failed"), errors.New("exit status 1")
	}

	// The build is best-effort: the failure surfaces at hand-off, not here.
	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run() = %v, want hand-off attempt despite build failure", err)
	}
	if !*execCalled {
		t.Error("hand-off should still be attempted after a failed build")
	}
}

func TestValidateCredentials(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{
			name: "valid credentials",
			data: "BOT_TOKEN=123456:AAF-token\nADMIN_ID=987654321\n",
		},
		{
			name: "comments and unrecognized keys are ignored",
			data: "# a comment\nBOT_TOKEN=123456:AAF-token\nEXTRA=whatever\nADMIN_ID=42\n",
		},
		{
			name:    "token placeholder",
			data:    "BOT_TOKEN=" + tokenPlaceholder + "\nADMIN_ID=42\n",
			wantErr: true,
		},
		{
			name:    "admin placeholder",
			data:    "BOT_TOKEN=123456:AAF-token\nADMIN_ID=" + adminPlaceholder + "\n",
			wantErr: true,
		},
		{
			name:    "missing token",
			data:    "ADMIN_ID=42\n",
			wantErr: true,
		},
		{
			name:    "missing admin id",
			data:    "BOT_TOKEN=123456:AAF-token\n",
			wantErr: true,
		},
		{
			name:    "non-numeric admin id",
			data:    "BOT_TOKEN=123456:AAF-token\nADMIN_ID=alice\n",
			wantErr: true,
		},
		{
			name:    "empty file",
			data:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateCredentials([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCredentials() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
