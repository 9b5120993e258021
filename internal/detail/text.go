package detail

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	if width <= 3 {
		return truncateToWidth(s, width)
	}
	return truncateToWidth(s, width-3) + "..."
}

func truncateToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	var b strings.Builder
	current := 0
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if current+rw > width {
			break
		}
		b.WriteRune(r)
		current += rw
	}
	return b.String()
}

func wrapText(s string, width int) []string {
	if width <= 0 {
		return []string{s}
	}
	var lines []string
	for _, raw := range strings.Split(s, "\n") {
		if raw == "" {
			lines = append(lines, "")
			continue
		}
		runes := []rune(raw)
		start := 0
		for start < len(runes) {
			if runewidth.StringWidth(string(runes[start:])) <= width {
				lines = append(lines, string(runes[start:]))
				break
			}
			curWidth := 0
			lastSpace := -1
			end := start
			for ; end < len(runes); end++ {
				rw := runewidth.RuneWidth(runes[end])
				if curWidth+rw > width {
					break
				}
				curWidth += rw
				if unicode.IsSpace(runes[end]) {
					lastSpace = end
				}
			}
			split := end
			if lastSpace >= start {
				split = lastSpace
			}
			if split == start {
				split = end
				if split == start {
					split = start + 1
				}
			}
			line := strings.TrimRightFunc(string(runes[start:split]), unicode.IsSpace)
			lines = append(lines, line)
			start = split
			for start < len(runes) && unicode.IsSpace(runes[start]) {
				start++
			}
		}
	}
	return lines
}

func wrapLabelValue(label, value string, width int) []string {
	if width <= 0 {
		return []string{label + value}
	}
	labelWidth := runewidth.StringWidth(label)
	if labelWidth >= width {
		return wrapText(label+value, width)
	}
	valueLines := wrapText(value, width-labelWidth)
	if len(valueLines) == 0 {
		return []string{label}
	}
	lines := make([]string, 0, len(valueLines))
	lines = append(lines, label+valueLines[0])
	indent := strings.Repeat(" ", labelWidth)
	for _, line := range valueLines[1:] {
		lines = append(lines, indent+line)
	}
	return lines
}

func trimLastRune(value string) string {
	if value == "" {
		return value
	}
	runes := []rune(value)
	return string(runes[:len(runes)-1])
}

func formatRelativeTime(when time.Time, now time.Time) string {
	if when.After(now) {
		return "just now"
	}

	elapsed := now.Sub(when)
	switch {
	case elapsed < 10*time.Second:
		return "just now"
	case elapsed < time.Minute:
		return fmt.Sprintf("%ds ago", int(elapsed.Seconds()))
	case elapsed < time.Hour:
		return fmt.Sprintf("%dm ago", int(elapsed.Minutes()))
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(elapsed.Hours()))
	case elapsed < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(elapsed.Hours()/24))
	default:
		return fmt.Sprintf("%dw ago", int(elapsed.Hours()/(24*7)))
	}
}
