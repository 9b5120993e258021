package cli

import (
	"strings"
	"testing"

	"github.com/s22625/tkoview/internal/detail"
)

func TestLogAliasesMatchViewers(t *testing.T) {
	viewers := detail.BuildLogViewers("dbench")
	if len(logAliases) != len(viewers) {
		t.Fatalf("logAliases has %d entries, viewers %d", len(logAliases), len(viewers))
	}
}

func TestListLogs(t *testing.T) {
	out := captureStdout(t, func() {
		if err := listLogs(detail.BuildLogViewers("dbench")); err != nil {
			t.Errorf("listLogs: %v", err)
		}
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("listLogs printed %d lines, want 5:\n%s", len(lines), out)
	}

	for _, want := range []string{
		"stdout",
		"dbench/debug/stdout",
		"status.log",
		"autoserv-stderr",
		"debug/autoserv.stderr",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
