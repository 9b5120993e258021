package detail

import (
	tea "github.com/charmbracelet/bubbletea"
)

// handleInputKey edits the test id entry line. Enter applies the entry;
// a malformed one surfaces the parse error and keeps the previous id.
func (v *View) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.mode = modePage
		v.input = ""
		return v, nil
	case tea.KeyEnter:
		v.mode = modePage
		entry := v.input
		v.input = ""
		if err := v.SetObjectID(entry); err != nil {
			v.notify.Error(err.Error())
			return v, nil
		}
		return v, v.Fetch()
	case tea.KeyBackspace:
		v.input = trimLastRune(v.input)
		return v, nil
	case tea.KeyRunes, tea.KeySpace:
		v.input += string(msg.Runes)
		return v, nil
	case tea.KeyCtrlC:
		return v, tea.Quit
	}
	return v, nil
}

func (v *View) viewInputLine(width int) string {
	line := "Test ID: " + v.input + "█"
	return v.styles.Selected.Render(truncate(line, width))
}
