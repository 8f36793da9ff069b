package components

import (
	"catadder/internal/tui/styles"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// StatusBar shows a message, with a spinner while work is in flight
type StatusBar struct {
	text    string
	styles  styles.Styles
	spinner spinner.Model
	loading bool
	isError bool
}

func NewStatusBar(st styles.Styles) *StatusBar {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = st.Busy

	return &StatusBar{
		styles:  st,
		spinner: s,
	}
}

// SetLoading starts or stops the spinner. The returned command drives the
// animation and is nil when stopping.
func (s *StatusBar) SetLoading(loading bool) tea.Cmd {
	s.loading = loading
	if loading {
		return s.spinner.Tick
	}
	return nil
}

func (s *StatusBar) Loading() bool {
	return s.loading
}

func (s *StatusBar) SetText(text string) {
	s.text = text
	s.isError = false
}

func (s *StatusBar) SetError(text string) {
	s.text = text
	s.isError = true
}

func (s *StatusBar) Text() string {
	return s.text
}

func (s *StatusBar) IsError() bool {
	return s.isError
}

func (s *StatusBar) Update(msg tea.Msg) tea.Cmd {
	if s.loading {
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return cmd
	}
	return nil
}

func (s *StatusBar) View() string {
	if s.text == "" && !s.loading {
		return ""
	}

	if s.loading {
		return s.styles.Busy.Render(s.spinner.View() + " " + s.text)
	}
	if s.isError {
		return s.styles.Error.Render(s.text)
	}
	return s.styles.Help.Render(s.text)
}
