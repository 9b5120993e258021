package detail

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/s22625/tkoview/internal/rpc"
)

type logState int

const (
	statePending logState = iota
	stateLoading
	stateLoaded
	stateFailed
)

const logViewportHeight = 12

// LogViewer is one collapsible log panel. Content is fetched once, on the
// first expand; loaded and failed states are terminal, so later toggles only
// show or hide what the first fetch produced.
type LogViewer struct {
	Name string
	Path string

	state   logState
	open    bool
	content string
	message string
	vp      viewport.Model
}

func newLogViewer(name, path string) *LogViewer {
	vp := viewport.New(0, logViewportHeight)
	return &LogViewer{Name: name, Path: path, vp: vp}
}

// BuildLogViewers returns the fixed panel set for one test, in display
// order. The first two paths are relative to the test directory, the rest to
// the job directory.
func BuildLogViewers(testName string) []*LogViewer {
	return []*LogViewer{
		newLogViewer("Test stdout", testName+"/debug/stdout"),
		newLogViewer("Test stderr", testName+"/debug/stderr"),
		newLogViewer("Job status log", "status.log"),
		newLogViewer("Job autoserv stdout", "debug/autoserv.stdout"),
		newLogViewer("Job autoserv stderr", "debug/autoserv.stderr"),
	}
}

// Toggle flips the panel open or closed and reports whether a fetch should
// start. Only the first expand of a pending panel starts one.
func (l *LogViewer) Toggle() bool {
	l.open = !l.open
	if l.open && l.state == statePending {
		l.state = stateLoading
		return true
	}
	return false
}

// finish records the outcome of the panel's fetch. Results arriving in any
// state other than loading are dropped.
func (l *LogViewer) finish(content string, err error) {
	if l.state != stateLoading {
		return
	}
	if err != nil {
		l.state = stateFailed
		l.message = failureText(err, l.Path)
		return
	}
	l.state = stateLoaded
	l.content = content
	l.vp.SetContent(content)
	height := l.vp.TotalLineCount()
	if height > logViewportHeight {
		height = logViewportHeight
	}
	if height < 1 {
		height = 1
	}
	l.vp.Height = height
	l.vp.GotoTop()
}

// failureText prefers the server's own error text when the fetch failed
// server-side.
func failureText(err error, path string) string {
	var callErr *rpc.CallError
	if errors.As(err, &callErr) && callErr.Message != "" {
		return callErr.Message
	}
	return "Failed to load log " + path
}

func (l *LogViewer) loading() bool {
	return l.state == stateLoading
}

func (l *LogViewer) setWidth(width int) {
	if width < 1 {
		width = 1
	}
	l.vp.Width = width
}

func (l *LogViewer) scroll(delta int) {
	if !l.open || l.state != stateLoaded {
		return
	}
	if delta < 0 {
		l.vp.LineUp(-delta)
	} else {
		l.vp.LineDown(delta)
	}
}

func (l *LogViewer) lines(width int, selected bool, styles Styles) []string {
	marker := "▸"
	if l.open {
		marker = "▾"
	}
	header := fmt.Sprintf("%s %s", marker, l.Name)
	headerStyle := styles.Header
	if selected {
		headerStyle = styles.Selected
	}
	lines := []string{headerStyle.Render(truncate(header, width))}
	if !l.open {
		return lines
	}
	switch l.state {
	case stateLoading:
		lines = append(lines, styles.Faint.Render("  Loading..."))
	case stateFailed:
		lines = append(lines, styles.Error.Render("  "+truncate(l.message, width-2)))
	case stateLoaded:
		if l.content == "" {
			lines = append(lines, styles.Faint.Render("  Log file is empty"))
			break
		}
		for _, line := range strings.Split(l.vp.View(), "\n") {
			lines = append(lines, styles.Text.Render(truncateToWidth(line, width)))
		}
		if l.vp.TotalLineCount() > l.vp.Height {
			pct := fmt.Sprintf("  %3.0f%%", l.vp.ScrollPercent()*100)
			lines = append(lines, styles.Faint.Render(pct))
		}
	}
	return lines
}
