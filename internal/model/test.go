package model

import (
	"fmt"
	"strconv"
	"strings"
)

// TestRecord is one row of the detailed test view: a single test run
// together with the job metadata and attributes the results server keeps
// for it. Timestamps stay in the server's display format.
type TestRecord struct {
	TestIdx      int    `json:"test_idx"`
	TestName     string `json:"test_name"`
	JobTag       string `json:"job_tag"`
	JobName      string `json:"job_name"`
	Status       Status `json:"status"`
	Reason       string `json:"reason"`
	StartedTime  string `json:"test_started_time"`
	FinishedTime string `json:"test_finished_time"`
	Hostname     string `json:"hostname"`
	Platform     string `json:"platform"`
	Kernel       string `json:"kernel"`

	Labels     []string       `json:"labels"`
	Attributes map[string]any `json:"attributes"`
}

// Title returns the page title for this test
func (t *TestRecord) Title() string {
	return fmt.Sprintf("Test %s (job %s)", t.TestName, t.JobTag)
}

// LabelText joins the test labels for display, "none" when there are none.
func (t *TestRecord) LabelText() string {
	if len(t.Labels) == 0 {
		return "none"
	}
	return strings.Join(t.Labels, ", ")
}

// ParseTestIdx parses a user-entered test index. Indexes are non-negative
// integers.
func ParseTestIdx(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid test ID %q", s)
	}
	return n, nil
}

// FormatValue renders an attribute value for display: strings verbatim,
// numbers in plain decimal, booleans and null in their JSON spelling.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
