package components

import (
	"strings"

	"catadder/internal/selector"
	"catadder/internal/tui/styles"
)

// EntryList renders a directory listing with a cursor
type EntryList struct {
	styles   styles.Styles
	entries  []string
	cursor   int
	selected string
	height   int
}

// NewEntryList creates a list showing at most height rows
func NewEntryList(st styles.Styles, height int) *EntryList {
	if height < 1 {
		height = 10
	}
	return &EntryList{styles: st, height: height}
}

// SetEntries replaces the listing, cursor row and selected name
func (l *EntryList) SetEntries(entries []string, cursor int, selected string) {
	l.entries = entries
	l.cursor = cursor
	l.selected = selected
}

// View renders the visible window around the cursor
func (l *EntryList) View() string {
	if len(l.entries) == 0 {
		return l.styles.Help.Render("No catalogs here") + "\n"
	}

	start := 0
	if l.cursor >= l.height {
		start = l.cursor - l.height + 1
	}
	end := start + l.height
	if end > len(l.entries) {
		end = len(l.entries)
	}

	var s strings.Builder
	for i := start; i < end; i++ {
		name := l.entries[i]

		style := l.styles.File
		if strings.HasSuffix(name, selector.Separator) {
			style = l.styles.Directory
		}
		if name == l.selected {
			style = l.styles.Selected
		}

		cursor := "  "
		if i == l.cursor {
			cursor = l.styles.Cursor.Render("> ")
		}
		s.WriteString(cursor + style.Render(name) + "\n")
	}
	if end < len(l.entries) {
		s.WriteString(l.styles.Help.Render("  ...") + "\n")
	}
	return s.String()
}
