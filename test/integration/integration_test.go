package integration

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/s22625/tkoview/internal/config"
	"github.com/s22625/tkoview/internal/results"
	"github.com/s22625/tkoview/internal/stub"
)

var (
	tkoviewBinary string
	scratchDir    string
	serverURL     string
)

const testsFixture = `tests:
  - test_idx: 1234
    test_name: dbench
    job_tag: 210-autotest
    job_name: dbench-nightly
    status: GOOD
    reason: completed successfully
    test_started_time: "2009-09-20 10:00:00"
    test_finished_time: "2009-09-20 10:30:00"
    hostname: host1
    platform: netbook_MARIO
    kernel: 2.6.32
    labels: [nightly, regression]
    attributes:
      arch: x86_64
      iterations: 5
  - test_idx: 7777
    test_name: sleeptest
    job_tag: 300-autotest
    job_name: sleeptest-a
    status: FAIL
  - test_idx: 7777
    test_name: sleeptest
    job_tag: 301-autotest
    job_name: sleeptest-b
    status: GOOD
`

func TestMain(m *testing.M) {
	// Build the tkoview binary
	tmpDir, err := os.MkdirTemp("", "tkoview-integration-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmpDir)
	scratchDir = tmpDir

	tkoviewBinary = filepath.Join(tmpDir, "tkoview")
	cmd := exec.Command("go", "build", "-o", tkoviewBinary, "../../cmd/tkoview")
	if out, err := cmd.CombinedOutput(); err != nil {
		panic("failed to build tkoview: " + err.Error() + "\n" + string(out))
	}

	// Create the results fixture tree
	resultsDir := filepath.Join(tmpDir, "results")
	writeFixtures(resultsDir)

	// Serve it in process; the binary is pointed here with --server
	store, err := results.Open(resultsDir)
	if err != nil {
		panic(err)
	}
	srv := httptest.NewServer(stub.New(store, config.Default(), zerolog.Nop()).Handler())
	defer srv.Close()
	serverURL = srv.URL

	os.Exit(m.Run())
}

func writeFixtures(root string) {
	debugDir := filepath.Join(root, "210-autotest", "dbench", "debug")
	if err := os.MkdirAll(debugDir, 0755); err != nil {
		panic(err)
	}

	mustWrite(filepath.Join(root, "tests.yaml"), testsFixture)
	mustWrite(filepath.Join(root, "210-autotest", "status.log"), "GOOD\tdbench\tcompleted\n")
	mustWrite(filepath.Join(debugDir, "stdout"), "throughput 42 MB/sec\n")
	mustWrite(filepath.Join(debugDir, "stderr"), "")
}

func mustWrite(path, content string) {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		panic(err)
	}
}

func runTkoview(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	fullArgs := append([]string{"--server", serverURL}, args...)
	cmd := exec.Command(tkoviewBinary, fullArgs...)
	cmd.Dir = scratchDir
	cmd.Env = append(os.Environ(), "HOME="+scratchDir)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("command did not run: %v", err)
	}
	return exitErr.ExitCode()
}

func TestShowJSON(t *testing.T) {
	stdout, stderr, err := runTkoview(t, "show", "1234", "--json")
	if err != nil {
		t.Fatalf("show failed: %v\nstderr: %s", err, stderr)
	}

	var result struct {
		TestIdx    int            `json:"test_idx"`
		TestName   string         `json:"test_name"`
		JobTag     string         `json:"job_tag"`
		Status     string         `json:"status"`
		Labels     []string       `json:"labels"`
		Attributes map[string]any `json:"attributes"`
	}
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nOutput: %s", err, stdout)
	}

	if result.TestIdx != 1234 || result.TestName != "dbench" {
		t.Errorf("unexpected record: %+v", result)
	}
	if result.Status != "GOOD" {
		t.Errorf("expected status=GOOD, got %s", result.Status)
	}
	if result.JobTag != "210-autotest" {
		t.Errorf("expected job_tag=210-autotest, got %s", result.JobTag)
	}
	if len(result.Labels) != 2 {
		t.Errorf("expected 2 labels, got %v", result.Labels)
	}
	if result.Attributes["arch"] != "x86_64" {
		t.Errorf("expected arch attribute, got %v", result.Attributes)
	}
}

func TestShowHuman(t *testing.T) {
	stdout, stderr, err := runTkoview(t, "show", "1234")
	if err != nil {
		t.Fatalf("show failed: %v\nstderr: %s", err, stderr)
	}

	for _, want := range []string{
		"Test dbench (job 210-autotest)",
		"Status:   GOOD",
		"Labels:   nightly, regression",
		"arch = x86_64",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}
}

func TestShowNotFound(t *testing.T) {
	_, stderr, err := runTkoview(t, "show", "9999")
	if code := exitCode(t, err); code != 6 {
		t.Errorf("exit code = %d, want 6", code)
	}
	if !strings.Contains(stderr, "No such job found") {
		t.Errorf("stderr missing not-found message: %q", stderr)
	}
}

func TestShowAmbiguousIdx(t *testing.T) {
	// Two fixture rows share test_idx 7777; the detail page refuses both.
	_, stderr, err := runTkoview(t, "show", "7777")
	if code := exitCode(t, err); code != 6 {
		t.Errorf("exit code = %d, want 6", code)
	}
	if !strings.Contains(stderr, "No such job found") {
		t.Errorf("stderr missing not-found message: %q", stderr)
	}
}

func TestShowInvalidID(t *testing.T) {
	_, stderr, err := runTkoview(t, "show", "abc")
	if code := exitCode(t, err); code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
	if !strings.Contains(stderr, "invalid test ID") {
		t.Errorf("stderr missing parse error: %q", stderr)
	}
}

func TestLogsList(t *testing.T) {
	stdout, stderr, err := runTkoview(t, "logs", "1234")
	if err != nil {
		t.Fatalf("logs failed: %v\nstderr: %s", err, stderr)
	}

	lines := strings.Split(strings.TrimSuffix(stdout, "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 log entries, got %d:\n%s", len(lines), stdout)
	}
	if !strings.Contains(stdout, "dbench/debug/stdout") {
		t.Errorf("listing missing stdout path:\n%s", stdout)
	}
	if !strings.Contains(stdout, "debug/autoserv.stderr") {
		t.Errorf("listing missing autoserv path:\n%s", stdout)
	}
}

func TestLogsContent(t *testing.T) {
	stdout, stderr, err := runTkoview(t, "logs", "1234", "stdout")
	if err != nil {
		t.Fatalf("logs failed: %v\nstderr: %s", err, stderr)
	}
	if stdout != "throughput 42 MB/sec\n" {
		t.Errorf("log content = %q, want file contents verbatim", stdout)
	}
}

func TestLogsStatusLog(t *testing.T) {
	stdout, stderr, err := runTkoview(t, "logs", "1234", "status")
	if err != nil {
		t.Fatalf("logs failed: %v\nstderr: %s", err, stderr)
	}
	if stdout != "GOOD\tdbench\tcompleted\n" {
		t.Errorf("log content = %q, want status log verbatim", stdout)
	}
}

func TestLogsEmptyFile(t *testing.T) {
	stdout, stderr, err := runTkoview(t, "logs", "1234", "stderr")
	if err != nil {
		t.Fatalf("logs failed: %v\nstderr: %s", err, stderr)
	}
	if stdout != "" {
		t.Errorf("stdout = %q, want empty", stdout)
	}
	if !strings.Contains(stderr, "Log file is empty") {
		t.Errorf("stderr missing empty-file notice: %q", stderr)
	}
}

func TestLogsMissingFile(t *testing.T) {
	// autoserv logs are not part of the fixture tree
	_, stderr, err := runTkoview(t, "logs", "1234", "autoserv-stdout")
	if code := exitCode(t, err); code != 7 {
		t.Errorf("exit code = %d, want 7", code)
	}
	if !strings.Contains(stderr, "log file not found") {
		t.Errorf("stderr missing fetch error: %q", stderr)
	}
}

func TestLogsUnknownName(t *testing.T) {
	_, stderr, err := runTkoview(t, "logs", "1234", "bogus")
	if code := exitCode(t, err); code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
	if !strings.Contains(stderr, "unknown log") {
		t.Errorf("stderr missing unknown-log error: %q", stderr)
	}
}

func TestResultsTreeServed(t *testing.T) {
	resp, err := http.Get(serverURL + "/results/210-autotest/status.log")
	if err != nil {
		t.Fatalf("GET status.log: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(body) != "GOOD\tdbench\tcompleted\n" {
		t.Errorf("body = %q, want status log contents", string(body))
	}
}
