package detail

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/s22625/tkoview/internal/model"
	"github.com/s22625/tkoview/internal/rpc"
)

// NoObject is the ObjectID value when no test is selected.
const NoObject = "no object"

const noTestIdx = -1

// Fetcher is the server surface the detail view consumes.
type Fetcher interface {
	DetailedTestView(ctx context.Context, testIdx int) (*model.TestRecord, error)
	FetchLog(ctx context.Context, jobTag, logPath string) (string, error)
	RetrieveLogsURL(jobTag string) string
}

type viewMode int

const (
	modePage viewMode = iota
	modeInput
	modeHelp
)

// detailMsg carries the outcome of a test record fetch. gen identifies the
// fetch that produced it; stale generations are dropped.
type detailMsg struct {
	gen    int
	record *model.TestRecord
	err    error
}

// logMsg carries the outcome of one log fetch. gen identifies the viewer set
// the fetch was started for.
type logMsg struct {
	gen     int
	path    string
	content string
	err     error
}

type openURLMsg struct {
	err error
}

// View is the test detail page. It owns the selected test id, the fetched
// record, the attribute rows and the log panels, and mutates them only in
// Update.
type View struct {
	fetcher   Fetcher
	notify    *NotifyBar
	condition *ConditionPanel

	keymap KeyMap
	styles Styles

	mode    viewMode
	testIdx int
	record  *model.TestRecord
	attrs   []AttrRow
	logs    []*LogViewer
	logsURL string

	input     string
	cursor    int
	loading   bool
	fetchGen  int
	logGen    int
	lastFetch time.Time

	width  int
	height int
}

func New(fetcher Fetcher, notify *NotifyBar, condition *ConditionPanel) *View {
	return &View{
		fetcher:   fetcher,
		notify:    notify,
		condition: condition,
		keymap:    DefaultKeyMap(),
		styles:    DefaultStyles(),
		testIdx:   noTestIdx,
		width:     80,
		height:    24,
	}
}

// Run starts the bubbletea program.
func (v *View) Run() error {
	program := tea.NewProgram(v, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// SetObjectID selects the test to show. A malformed id is rejected and the
// previous selection kept.
func (v *View) SetObjectID(id string) error {
	n, err := model.ParseTestIdx(id)
	if err != nil {
		return err
	}
	v.testIdx = n
	return nil
}

// ObjectID reports the current selection as a decimal string, or NoObject
// when nothing is selected.
func (v *View) ObjectID() string {
	if v.testIdx == noTestIdx {
		return NoObject
	}
	return strconv.Itoa(v.testIdx)
}

// Display takes over the page. The sibling condition panel is always forced
// hidden, whether or not a test is selected.
func (v *View) Display() {
	v.condition.SetVisible(false)
}

// Fetch starts loading the selected test. Responses from earlier fetches are
// dropped by generation.
func (v *View) Fetch() tea.Cmd {
	if v.testIdx == noTestIdx {
		return nil
	}
	v.fetchGen++
	v.loading = true
	v.notify.Clear()
	return fetchCmd(v.fetcher, v.testIdx, v.fetchGen)
}

func fetchCmd(fetcher Fetcher, testIdx, gen int) tea.Cmd {
	return func() tea.Msg {
		record, err := fetcher.DetailedTestView(context.Background(), testIdx)
		return detailMsg{gen: gen, record: record, err: err}
	}
}

func logCmd(fetcher Fetcher, jobTag, path string, gen int) tea.Cmd {
	return func() tea.Msg {
		content, err := fetcher.FetchLog(context.Background(), jobTag, path)
		return logMsg{gen: gen, path: path, content: content, err: err}
	}
}

func (v *View) Init() tea.Cmd {
	v.Display()
	return v.Fetch()
}

func (v *View) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = safeWidth(msg.Width)
		v.height = safeHeight(msg.Height)
		v.resizeLogs()
		return v, nil

	case detailMsg:
		if msg.gen != v.fetchGen {
			return v, nil
		}
		v.loading = false
		if msg.err != nil {
			v.resetPage()
			v.notify.Error(fetchFailureText(msg.err))
			return v, nil
		}
		v.showTest(msg.record)
		return v, tea.SetWindowTitle(msg.record.Title())

	case logMsg:
		if msg.gen != v.logGen {
			return v, nil
		}
		for _, l := range v.logs {
			if l.Path == msg.path && l.loading() {
				l.finish(msg.content, msg.err)
				break
			}
		}
		return v, nil

	case openURLMsg:
		if msg.err != nil {
			v.notify.Error("Failed to open browser: " + msg.err.Error())
		}
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

// showTest installs a freshly fetched record. The previous log panels are
// discarded; their in-flight fetches keep running but land on a dead
// generation.
func (v *View) showTest(record *model.TestRecord) {
	v.record = record
	v.attrs = AttributeRows(record.Attributes)
	v.logs = BuildLogViewers(record.TestName)
	v.logsURL = v.fetcher.RetrieveLogsURL(record.JobTag)
	v.logGen++
	v.cursor = 0
	v.lastFetch = time.Now()
	v.resizeLogs()
}

// resetPage clears the record area so stale fields never show next to an
// error banner.
func (v *View) resetPage() {
	v.record = nil
	v.attrs = nil
	v.logs = nil
	v.logsURL = ""
	v.logGen++
	v.cursor = 0
}

func fetchFailureText(err error) string {
	if errors.Is(err, rpc.ErrTestNotFound) {
		return "No such job found"
	}
	return "Failed to fetch test: " + err.Error()
}

func (v *View) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch v.mode {
	case modeInput:
		return v.handleInputKey(msg)
	case modeHelp:
		switch msg.String() {
		case "q", "esc", v.keymap.Help:
			v.mode = modePage
		}
		return v, nil
	}

	switch msg.String() {
	case v.keymap.Quit, "ctrl+c":
		return v, tea.Quit
	case v.keymap.Help:
		v.mode = modeHelp
	case v.keymap.Input, "/":
		v.mode = modeInput
		v.input = ""
	case v.keymap.Refresh:
		return v, v.Fetch()
	case v.keymap.OpenLogs:
		if v.logsURL != "" {
			v.notify.Info("Opening " + v.logsURL)
			return v, openURLCmd(v.logsURL)
		}
	case "up", "k":
		v.moveCursor(-1)
	case "down", "j":
		v.moveCursor(1)
	case v.keymap.Toggle, " ":
		if l := v.focusedLog(); l != nil {
			if l.Toggle() {
				return v, logCmd(v.fetcher, v.record.JobTag, l.Path, v.logGen)
			}
		}
	case "pgup", "ctrl+u":
		if l := v.focusedLog(); l != nil {
			l.scroll(-logViewportHeight)
		}
	case "pgdown", "ctrl+d":
		if l := v.focusedLog(); l != nil {
			l.scroll(logViewportHeight)
		}
	}
	return v, nil
}

func (v *View) moveCursor(delta int) {
	if len(v.logs) == 0 {
		return
	}
	v.cursor += delta
	if v.cursor < 0 {
		v.cursor = 0
	}
	if v.cursor >= len(v.logs) {
		v.cursor = len(v.logs) - 1
	}
}

func (v *View) focusedLog() *LogViewer {
	if v.cursor < 0 || v.cursor >= len(v.logs) {
		return nil
	}
	return v.logs[v.cursor]
}

func (v *View) resizeLogs() {
	for _, l := range v.logs {
		l.setWidth(v.contentWidth())
	}
}

func (v *View) contentWidth() int {
	// Box border plus padding on both sides.
	w := v.width - 4
	if w < 16 {
		w = 16
	}
	return w
}

func (v *View) View() string {
	var lines []string
	if v.mode == modeHelp {
		lines = v.viewHelp()
	} else {
		lines = v.viewPage()
	}
	return v.styles.Box.Render(strings.Join(lines, "\n"))
}

func (v *View) viewPage() []string {
	width := v.contentWidth()
	var lines []string

	lines = append(lines, v.styles.Title.Render(truncate(v.titleText(), width)))
	if v.mode == modeInput {
		lines = append(lines, v.viewInputLine(width))
	}
	lines = append(lines, v.notify.lines(width, v.styles)...)
	if v.loading {
		lines = append(lines, v.styles.Faint.Render(fmt.Sprintf("Fetching test %d...", v.testIdx)))
	}

	if v.record == nil {
		if !v.loading && v.notify.Message() == "" {
			lines = append(lines, v.styles.Faint.Render("No test selected"))
			lines = append(lines, v.styles.Faint.Render(fmt.Sprintf("Press [%s] to enter a test ID", v.keymap.Input)))
		}
		lines = append(lines, "", v.styles.Faint.Render(truncate(v.keymap.HelpLine(), width)))
		return lines
	}

	lines = append(lines, v.viewFields(width)...)
	lines = append(lines, "", v.styles.Header.Render("ATTRIBUTES"))
	lines = append(lines, v.viewAttributes(width)...)
	lines = append(lines, "", v.viewLogsHeader())
	for i, l := range v.logs {
		selected := i == v.cursor && v.mode == modePage
		lines = append(lines, l.lines(width, selected, v.styles)...)
	}

	meta := fmt.Sprintf("fetched %s", formatRelativeTime(v.lastFetch, time.Now()))
	lines = append(lines, "", v.styles.Faint.Render(meta))
	lines = append(lines, v.styles.Faint.Render(truncate(v.keymap.HelpLine(), width)))
	return lines
}

func (v *View) titleText() string {
	if v.record != nil {
		return v.record.Title()
	}
	if v.testIdx != noTestIdx {
		return fmt.Sprintf("Test %d", v.testIdx)
	}
	return "Test detail"
}

func (v *View) viewFields(width int) []string {
	r := v.record
	statusLine := fmt.Sprintf("%-10s", "Status:") + v.styles.StyleStatus(r.Status)
	lines := []string{v.styles.Text.Render(statusLine)}

	fields := []struct {
		label string
		value string
	}{
		{"Job:", fmt.Sprintf("%s (%s)", r.JobTag, r.JobName)},
		{"Reason:", r.Reason},
		{"Started:", r.StartedTime},
		{"Finished:", r.FinishedTime},
		{"Host:", r.Hostname},
		{"Platform:", r.Platform},
		{"Kernel:", r.Kernel},
		{"Labels:", r.LabelText()},
	}
	for _, f := range fields {
		label := fmt.Sprintf("%-10s", f.label)
		for _, line := range wrapLabelValue(label, f.value, width) {
			lines = append(lines, v.styles.Text.Render(line))
		}
	}
	return lines
}

func (v *View) viewAttributes(width int) []string {
	var lines []string
	for _, row := range v.attrs {
		if row.Key == "" {
			lines = append(lines, v.styles.Faint.Render("  "+row.Value))
			continue
		}
		for _, line := range wrapLabelValue("  "+row.Key+" = ", row.Value, width) {
			lines = append(lines, v.styles.Text.Render(line))
		}
	}
	return lines
}

func (v *View) viewLogsHeader() string {
	header := v.styles.Header.Render("LOGS")
	link := v.styles.Link.Render(fmt.Sprintf("[%s] view all logs", v.keymap.OpenLogs))
	return header + "  " + link
}

func (v *View) viewHelp() []string {
	rows := []struct {
		key  string
		desc string
	}{
		{v.keymap.Input + ", /", "enter a test ID"},
		{v.keymap.Refresh, "refetch the current test"},
		{"j/k, down/up", "move between log panels"},
		{v.keymap.Toggle + ", space", "expand or collapse the focused log"},
		{"pgup/pgdown", "scroll the focused log"},
		{v.keymap.OpenLogs, "open the full results tree in a browser"},
		{v.keymap.Quit, "quit"},
	}
	lines := []string{v.styles.Title.Render("Help"), ""}
	for _, row := range rows {
		lines = append(lines, v.styles.Text.Render(fmt.Sprintf("  %-14s %s", row.key, row.desc)))
	}
	lines = append(lines, "", v.styles.Faint.Render("press ? or esc to close"))
	return lines
}

func safeWidth(w int) int {
	if w < 20 {
		return 20
	}
	return w
}

func safeHeight(h int) int {
	if h < 5 {
		return 5
	}
	return h
}
