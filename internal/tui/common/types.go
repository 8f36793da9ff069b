package common

import "catadder/internal/tui/styles"

// Focus is the widget receiving key presses
type Focus int

const (
	FocusList Focus = iota
	FocusPath
	FocusURL
)

// ModelReader defines the interface that views use to read model state
type ModelReader interface {
	Styles() styles.Styles
	Tabs() []string
	ActiveTab() int
	Focus() Focus
	PathInput() string
	PathValid() bool
	Entries() []string
	Cursor() int
	Selected() string
	URLInput() string
	Enabled() bool
	ListHeight() int
	StatusView() string
	ShowHelp() bool
}
