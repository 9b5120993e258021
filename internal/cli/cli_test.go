package cli

import (
	"io"
	"os"
	"testing"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}

	os.Stdout = w
	defer func() {
		os.Stdout = orig
	}()

	fn()

	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read stdout: %v", err)
	}
	return string(out)
}

func resetGlobalOpts(t *testing.T) {
	t.Helper()
	orig := *globalOpts
	t.Cleanup(func() {
		*globalOpts = orig
	})
}

// isolateConfig points config loading at empty temp directories so tests
// never see the developer's real config files or environment.
func isolateConfig(t *testing.T) {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{
		"TKOVIEW_SERVER", "TKOVIEW_RPC_PATH", "TKOVIEW_LOG_FETCH_PATH",
		"TKOVIEW_RESULTS_PATH", "TKOVIEW_RETRIEVE_LOGS_PATH",
		"TKOVIEW_TIMEOUT", "TKOVIEW_LOG_LEVEL", "TKOVIEW_DEBUG_LOG",
	} {
		t.Setenv(key, "")
	}

	work := t.TempDir()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(work); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(cwd)
	})
}
