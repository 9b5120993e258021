package model

// Status represents the completion status of a test run as recorded by the
// results server. Unknown values pass through unchanged.
type Status string

const (
	StatusGood     Status = "GOOD"
	StatusWarn     Status = "WARN"
	StatusFail     Status = "FAIL"
	StatusError    Status = "ERROR"
	StatusAbort    Status = "ABORT"
	StatusAlert    Status = "ALERT"
	StatusTestNA   Status = "TEST_NA"
	StatusRunning  Status = "RUNNING"
	StatusNoStatus Status = "NOSTATUS"
)
