package detail

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/s22625/tkoview/internal/model"
)

// Color palette
var (
	colorGreen   = lipgloss.Color("42")
	colorYellow  = lipgloss.Color("214")
	colorRed     = lipgloss.Color("196")
	colorBlue    = lipgloss.Color("39")
	colorCyan    = lipgloss.Color("45")
	colorGray    = lipgloss.Color("245")
	colorMagenta = lipgloss.Color("165")
	colorWhite   = lipgloss.Color("255")
	colorBorder  = lipgloss.Color("240")
)

// Styles defines the visual styles for the detail page
type Styles struct {
	Box      lipgloss.Style
	Title    lipgloss.Style
	Header   lipgloss.Style
	Text     lipgloss.Style
	Faint    lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style
	Link     lipgloss.Style

	// Status colors keyed by the server's status values
	Status map[model.Status]lipgloss.Style
}

// DefaultStyles returns the default style configuration
func DefaultStyles() Styles {
	return Styles{
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite),

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorGray),

		Text: lipgloss.NewStyle().
			Foreground(colorWhite),

		Faint: lipgloss.NewStyle().
			Foreground(colorGray),

		Selected: lipgloss.NewStyle().
			Bold(true).
			Background(lipgloss.Color("236")).
			Foreground(colorWhite),

		Error: lipgloss.NewStyle().
			Foreground(colorRed),

		Link: lipgloss.NewStyle().
			Foreground(colorCyan).
			Underline(true),

		Status: map[model.Status]lipgloss.Style{
			model.StatusGood:    lipgloss.NewStyle().Foreground(colorGreen),
			model.StatusWarn:    lipgloss.NewStyle().Foreground(colorYellow),
			model.StatusFail:    lipgloss.NewStyle().Foreground(colorRed),
			model.StatusError:   lipgloss.NewStyle().Foreground(colorRed),
			model.StatusAbort:   lipgloss.NewStyle().Foreground(colorYellow),
			model.StatusAlert:   lipgloss.NewStyle().Foreground(colorMagenta),
			model.StatusTestNA:  lipgloss.NewStyle().Foreground(colorGray),
			model.StatusRunning: lipgloss.NewStyle().Foreground(colorBlue),
		},
	}
}

// StyleStatus returns styled status text, unknown values render unstyled
func (s Styles) StyleStatus(status model.Status) string {
	if style, ok := s.Status[status]; ok {
		return style.Render(string(status))
	}
	return s.Text.Render(string(status))
}
