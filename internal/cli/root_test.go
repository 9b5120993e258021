package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/s22625/tkoview/internal/rpc"
)

func TestLoadConfigDefaults(t *testing.T) {
	isolateConfig(t)
	resetGlobalOpts(t)

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Server != "http://localhost:8000" {
		t.Errorf("Server = %q, want default", cfg.Server)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	isolateConfig(t)
	resetGlobalOpts(t)

	globalOpts.Server = "http://flag:9000"
	globalOpts.Timeout = 3 * time.Second
	globalOpts.LogLevel = "debug"
	globalOpts.DebugLog = "/tmp/tkoview-debug.log"

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Server != "http://flag:9000" {
		t.Errorf("Server = %q, want flag value", cfg.Server)
	}
	if cfg.Timeout != 3*time.Second {
		t.Errorf("Timeout = %v, want flag value", cfg.Timeout)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want flag value", cfg.LogLevel)
	}
	if cfg.DebugLog != "/tmp/tkoview-debug.log" {
		t.Errorf("DebugLog = %q, want flag value", cfg.DebugLog)
	}
}

func TestLoadConfigFlagBeatsEnv(t *testing.T) {
	isolateConfig(t)
	resetGlobalOpts(t)

	t.Setenv("TKOVIEW_SERVER", "http://env:8000")
	globalOpts.Server = "http://flag:9000"

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Server != "http://flag:9000" {
		t.Errorf("Server = %q, flag should beat env", cfg.Server)
	}
}

func TestFetchExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", rpc.ErrTestNotFound, ExitTestNotFound},
		{"wrapped not found", fmt.Errorf("fetch: %w", rpc.ErrTestNotFound), ExitTestNotFound},
		{"server error", &rpc.CallError{Name: "FetchError", Message: "boom"}, ExitTransport},
		{"transport error", errors.New("connection refused"), ExitTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fetchExitCode(tt.err); got != tt.want {
				t.Errorf("fetchExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestFetchErrorText(t *testing.T) {
	if got := fetchErrorText(rpc.ErrTestNotFound); got != "No such job found" {
		t.Errorf("fetchErrorText(not found) = %q", got)
	}
	if got := fetchErrorText(errors.New("connection refused")); got != "connection refused" {
		t.Errorf("fetchErrorText(transport) = %q", got)
	}
}

func TestNewFileLoggerDisabled(t *testing.T) {
	isolateConfig(t)
	resetGlobalOpts(t)

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	logger, closeLog, err := newFileLogger(cfg)
	if err != nil {
		t.Fatalf("newFileLogger: %v", err)
	}
	defer closeLog()

	// Must not panic or write anywhere.
	logger.Info().Msg("discarded")
}

func TestNewFileLoggerWritesFile(t *testing.T) {
	isolateConfig(t)
	resetGlobalOpts(t)

	path := filepath.Join(t.TempDir(), "debug.log")
	globalOpts.DebugLog = path
	globalOpts.LogLevel = "debug"

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	logger, closeLog, err := newFileLogger(cfg)
	if err != nil {
		t.Fatalf("newFileLogger: %v", err)
	}

	logger.Debug().Str("test", "value").Msg("hello from test")
	closeLog()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read debug log: %v", err)
	}
	if !strings.Contains(string(data), "hello from test") {
		t.Errorf("debug log missing message: %q", string(data))
	}
}
