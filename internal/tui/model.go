package tui

import (
	"context"
	"fmt"

	"catadder/internal/adder"
	"catadder/internal/catalog"
	"catadder/internal/errors"
	"catadder/internal/tui/common"
	"catadder/internal/tui/components"
	"catadder/internal/tui/messages"
	"catadder/internal/tui/styles"
	"catadder/internal/tui/views"
	"catadder/internal/watch"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Open     key.Binding
	Parent   key.Binding
	Home     key.Binding
	EditPath key.Binding
	Submit   key.Binding
	Tab      key.Binding
	Back     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("k", "up")),
	Down:     key.NewBinding(key.WithKeys("j", "down")),
	Open:     key.NewBinding(key.WithKeys("enter", "l", "right")),
	Parent:   key.NewBinding(key.WithKeys("h", "left", "backspace")),
	Home:     key.NewBinding(key.WithKeys("~")),
	EditPath: key.NewBinding(key.WithKeys("/")),
	Submit:   key.NewBinding(key.WithKeys("a")),
	Tab:      key.NewBinding(key.WithKeys("tab", "shift+tab")),
	Back:     key.NewBinding(key.WithKeys("esc")),
	Help:     key.NewBinding(key.WithKeys("?")),
	Quit:     key.NewBinding(key.WithKeys("q")),
}

// Model is the terminal catalog picker
type Model struct {
	panel  *adder.Panel
	styles styles.Styles
	ctx    context.Context

	pathInput textinput.Model
	urlInput  textinput.Model
	status    *components.StatusBar

	focus      common.Focus
	cursor     int
	showHelp   bool
	listHeight int
	quitOnAdd  bool
	added      *catalog.Catalog
	refresh    chan struct{}
}

// Option configures a Model
type Option func(*Model)

// WithQuitOnAdd exits the program once a catalog has been added
func WithQuitOnAdd(quit bool) Option {
	return func(m *Model) { m.quitOnAdd = quit }
}

// WithContext bounds catalog opening
func WithContext(ctx context.Context) Option {
	return func(m *Model) { m.ctx = ctx }
}

// WithWatcher refreshes the listing when the browsed directory changes.
// The watcher must already be started.
func WithWatcher(w *watch.Watcher) Option {
	return func(m *Model) {
		m.refresh = make(chan struct{}, 1)
		w.Follow(m.panel.Files, func() {
			select {
			case m.refresh <- struct{}{}:
			default:
			}
		})
	}
}

// New creates the model over panel
func New(panel *adder.Panel, st styles.Styles, opts ...Option) *Model {
	pi := textinput.New()
	pi.Prompt = "Path: "
	pi.SetValue(panel.Files.Path())

	ui := textinput.New()
	ui.Prompt = ""
	ui.Placeholder = "Full URL with protocol"
	ui.SetValue(panel.URLs.URL())

	m := &Model{
		panel:      panel,
		styles:     st,
		ctx:        context.Background(),
		pathInput:  pi,
		urlInput:   ui,
		status:     components.NewStatusBar(st),
		listHeight: 10,
	}
	for _, opt := range opts {
		opt(m)
	}

	if panel.Active() == adder.RemoteTab {
		m.focus = common.FocusURL
		m.urlInput.Focus()
	}
	return m
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForRefresh())
}

// View implements tea.Model
func (m *Model) View() string {
	return views.RenderPanel(m)
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.listHeight = max(3, msg.Height-14)
		return m, nil

	case messages.SubmitDoneMsg:
		return m, m.handleSubmitDone(msg)

	case messages.DirectoryChangeMsg:
		m.clampCursor()
		return m, m.waitForRefresh()

	case spinner.TickMsg:
		return m, m.status.Update(msg)

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, m.updateInputs(msg)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if key.Matches(msg, keys.Tab) {
		m.switchTab()
		return m, nil
	}

	switch m.focus {
	case common.FocusURL:
		return m.handleURLKeys(msg)
	case common.FocusPath:
		return m.handlePathKeys(msg)
	default:
		return m.handleListKeys(msg)
	}
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	entries := m.panel.Files.Entries()

	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(entries)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Open):
		if m.cursor < len(entries) {
			before := m.panel.Files.Path()
			m.panel.Files.Select(entries[m.cursor])
			if m.panel.Files.Path() != before {
				m.afterNavigate()
			}
		}
	case key.Matches(msg, keys.Parent):
		m.panel.Files.Up()
		m.afterNavigate()
	case key.Matches(msg, keys.Home):
		m.panel.Files.Home()
		m.afterNavigate()
	case key.Matches(msg, keys.EditPath):
		m.focus = common.FocusPath
		m.pathInput.CursorEnd()
		return m, m.pathInput.Focus()
	case key.Matches(msg, keys.Submit):
		return m, m.submit()
	case key.Matches(msg, keys.Help):
		m.showHelp = !m.showHelp
	case key.Matches(msg, keys.Quit), key.Matches(msg, keys.Back):
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handlePathKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter || key.Matches(msg, keys.Back) {
		m.focus = common.FocusList
		m.pathInput.Blur()
		return m, nil
	}

	before := m.pathInput.Value()
	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	if v := m.pathInput.Value(); v != before {
		m.panel.Files.SetPath(v)
		m.cursor = 0
	}
	return m, cmd
}

func (m *Model) handleURLKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEnter:
		return m, m.submit()
	case key.Matches(msg, keys.Back):
		return m, tea.Quit
	}

	before := m.urlInput.Value()
	var cmd tea.Cmd
	m.urlInput, cmd = m.urlInput.Update(msg)
	if v := m.urlInput.Value(); v != before {
		m.panel.URLs.SetText(v)
	}
	return m, cmd
}

func (m *Model) updateInputs(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	cmds = append(cmds, cmd)
	m.urlInput, cmd = m.urlInput.Update(msg)
	cmds = append(cmds, cmd)
	return tea.Batch(cmds...)
}

func (m *Model) switchTab() {
	next := (m.panel.Active() + 1) % len(m.panel.Tabs())
	if err := m.panel.SetActive(next); err != nil {
		m.status.SetError(err.Error())
		return
	}
	if next == adder.RemoteTab {
		m.focus = common.FocusURL
		m.pathInput.Blur()
		m.urlInput.Focus()
	} else {
		m.focus = common.FocusList
		m.urlInput.Blur()
	}
}

func (m *Model) afterNavigate() {
	m.pathInput.SetValue(m.panel.Files.Path())
	m.pathInput.CursorEnd()
	m.cursor = 0
}

func (m *Model) clampCursor() {
	if n := len(m.panel.Files.Entries()); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
}

func (m *Model) submit() tea.Cmd {
	if !m.panel.Enabled() || m.panel.Busy() {
		return nil
	}
	p, ctx := m.panel, m.ctx
	m.status.SetText("Opening " + p.CatURL())
	open := func() tea.Msg {
		cat, err := p.Submit(ctx)
		return messages.SubmitDoneMsg{Catalog: cat, Outcome: p.State().Outcome, Err: err}
	}
	return tea.Batch(m.status.SetLoading(true), open)
}

func (m *Model) handleSubmitDone(msg messages.SubmitDoneMsg) tea.Cmd {
	m.status.SetLoading(false)

	switch {
	case errors.IsBusy(msg.Err):
		return nil
	case msg.Err != nil:
		m.status.SetError(msg.Err.Error())
	case msg.Outcome == adder.OutcomeAdded && msg.Catalog != nil:
		m.added = msg.Catalog
		m.status.SetText(fmt.Sprintf("Added catalog %s (%d sources)", msg.Catalog.Name, len(msg.Catalog.Sources)))
		if m.quitOnAdd {
			return tea.Quit
		}
	default:
		// unnamed catalogs are dropped without feedback
		m.status.SetText("")
	}
	return nil
}

func (m *Model) waitForRefresh() tea.Cmd {
	if m.refresh == nil {
		return nil
	}
	ch := m.refresh
	return func() tea.Msg {
		<-ch
		return messages.DirectoryChangeMsg{}
	}
}

// Added returns the last catalog added, or nil
func (m *Model) Added() *catalog.Catalog {
	return m.added
}

// Getters used by the views

func (m *Model) Styles() styles.Styles { return m.styles }

func (m *Model) Tabs() []string {
	tabs := m.panel.Tabs()
	names := make([]string, len(tabs))
	for i, t := range tabs {
		names[i] = t.Name
	}
	return names
}

func (m *Model) ActiveTab() int { return m.panel.Active() }

func (m *Model) Focus() common.Focus { return m.focus }

func (m *Model) PathInput() string { return m.pathInput.View() }

func (m *Model) PathValid() bool { return m.panel.Files.IsValid() }

func (m *Model) Entries() []string { return m.panel.Files.Entries() }

func (m *Model) Cursor() int { return m.cursor }

func (m *Model) Selected() string { return m.panel.Files.Selected() }

func (m *Model) URLInput() string { return m.urlInput.View() }

func (m *Model) Enabled() bool { return m.panel.Enabled() }

func (m *Model) ListHeight() int { return m.listHeight }

func (m *Model) StatusView() string { return m.status.View() }

func (m *Model) ShowHelp() bool { return m.showHelp }
