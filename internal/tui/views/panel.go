package views

import (
	"strings"

	"catadder/internal/tui/common"
	"catadder/internal/tui/components"

	"github.com/charmbracelet/lipgloss"
)

// RenderPanel renders the whole catalog picker
func RenderPanel(m common.ModelReader) string {
	st := m.Styles()
	var sb strings.Builder

	sb.WriteString(st.Title.Render("Add Catalog"))
	sb.WriteString("\n")
	sb.WriteString(renderTabs(m))
	sb.WriteString("\n")

	if m.ActiveTab() == 0 {
		sb.WriteString(st.Frame.Render(renderLocal(m)))
	} else {
		sb.WriteString(st.Frame.Render(renderRemote(m)))
	}
	sb.WriteString("\n")

	sb.WriteString(renderButton(m))
	if status := m.StatusView(); status != "" {
		sb.WriteString("  " + status)
	}
	sb.WriteString("\n")

	if m.ShowHelp() {
		sb.WriteString("\n" + RenderHelp(m))
	}
	sb.WriteString("\n" + RenderKeyCommands(m))

	return st.App.Render(sb.String())
}

func renderTabs(m common.ModelReader) string {
	st := m.Styles()
	tabs := make([]string, 0, len(m.Tabs()))
	for i, name := range m.Tabs() {
		if i == m.ActiveTab() {
			tabs = append(tabs, st.ActiveTab.Render(name))
		} else {
			tabs = append(tabs, st.InactiveTab.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func renderLocal(m common.ModelReader) string {
	st := m.Styles()
	var sb strings.Builder

	indicator := st.Error.Render("✗")
	if m.PathValid() {
		indicator = st.OK.Render("✓")
	}
	sb.WriteString(m.PathInput() + " " + indicator + "\n\n")

	list := components.NewEntryList(st, m.ListHeight())
	list.SetEntries(m.Entries(), m.Cursor(), m.Selected())
	sb.WriteString(list.View())

	return strings.TrimRight(sb.String(), "\n")
}

func renderRemote(m common.ModelReader) string {
	return "URL: " + m.URLInput()
}

func renderButton(m common.ModelReader) string {
	st := m.Styles()
	if m.Enabled() {
		return st.Button.Render("Add Catalog")
	}
	return st.Disabled.Render("Add Catalog")
}

func RenderKeyCommands(m common.ModelReader) string {
	if m.ActiveTab() != 0 {
		return m.Styles().Help.Render("[Tab] Local  [Enter] Add  [Esc] Quit  [?] Help")
	}
	if m.Focus() == common.FocusPath {
		return m.Styles().Help.Render("[Enter/Esc] Back to list  [Tab] Remote")
	}
	return m.Styles().Help.Render("[↑/k] Up  [↓/j] Down  [Enter/l] Open  [h] Parent  [~] Home  [/] Path  [a] Add  [Tab] Remote  [q] Quit")
}

func RenderHelp(m common.ModelReader) string {
	return m.Styles().Help.Render(`Local: browse to a catalog file and select it with Enter.
Directories end in a separator; Enter descends into them.
Remote: type the full URL of a catalog, including the protocol.
The catalog is opened when you press Add; errors are shown here.`)
}
