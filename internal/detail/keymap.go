package detail

import "fmt"

// KeyMap defines the keyboard shortcuts displayed in the footer.
type KeyMap struct {
	Input    string
	Refresh  string
	Toggle   string
	OpenLogs string
	Quit     string
	Help     string
}

// DefaultKeyMap returns the default shortcut mapping.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Input:    "i",
		Refresh:  "r",
		Toggle:   "enter",
		OpenLogs: "o",
		Quit:     "q",
		Help:     "?",
	}
}

// HelpLine renders the footer help text.
func (k KeyMap) HelpLine() string {
	return fmt.Sprintf("[%s] test ID  [%s] refresh  [%s] expand log  [%s] open logs  [%s] quit  [%s] help",
		k.Input, k.Refresh, k.Toggle, k.OpenLogs, k.Quit, k.Help)
}
