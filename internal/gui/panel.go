//go:build !nogui

package gui

import (
	"context"
	"strings"
	"sync"

	"catadder/internal/adder"
	"catadder/internal/errors"
	"catadder/internal/log"
	"catadder/internal/selector"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Panel is the desktop rendition of an adder.Panel
type Panel struct {
	model *adder.Panel
	ctx   context.Context

	pathEntry *widget.Entry
	pathIcon  *widget.Icon
	list      *widget.List
	urlEntry  *widget.Entry
	tabs      *container.AppTabs
	addButton *widget.Button
	errLabel  *widget.Label
	progress  *widget.ProgressBarInfinite

	// entries is replaced by the watcher goroutine and read by the list
	entriesMu sync.RWMutex
	entries   []string
	// set while the path entry is updated from the selector
	syncing bool

	content fyne.CanvasObject
}

// NewPanel builds the widgets for model. ctx bounds catalog opening.
func NewPanel(ctx context.Context, model *adder.Panel) *Panel {
	if ctx == nil {
		ctx = context.Background()
	}
	p := &Panel{model: model, ctx: ctx}

	p.pathEntry = widget.NewEntry()
	p.pathEntry.SetPlaceHolder("Directory")
	p.pathEntry.SetText(model.Files.Path())
	p.pathEntry.OnChanged = func(text string) {
		if p.syncing {
			return
		}
		model.Files.SetPath(text)
		p.list.UnselectAll()
		p.refreshList()
	}
	p.pathIcon = widget.NewIcon(theme.ConfirmIcon())

	p.list = widget.NewList(
		p.entryCount,
		func() fyne.CanvasObject {
			return container.NewHBox(widget.NewIcon(theme.DocumentIcon()), widget.NewLabel("template"))
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			name, ok := p.entry(id)
			if !ok {
				return
			}
			row := obj.(*fyne.Container)
			icon := row.Objects[0].(*widget.Icon)
			if isDirEntry(name) {
				icon.SetResource(theme.FolderIcon())
			} else {
				icon.SetResource(theme.DocumentIcon())
			}
			row.Objects[1].(*widget.Label).SetText(name)
		},
	)
	p.list.OnSelected = p.onEntrySelected

	homeButton := widget.NewButtonWithIcon("", theme.HomeIcon(), func() {
		model.Files.Home()
		p.afterNavigate()
	})
	upButton := widget.NewButtonWithIcon("", theme.NavigateBackIcon(), func() {
		model.Files.Up()
		p.afterNavigate()
	})

	local := container.NewBorder(
		container.NewBorder(nil, nil, container.NewHBox(homeButton, upButton), p.pathIcon, p.pathEntry),
		nil, nil, nil,
		p.list,
	)

	p.urlEntry = widget.NewEntry()
	p.urlEntry.SetPlaceHolder("Full URL with protocol")
	p.urlEntry.SetText(model.URLs.URL())
	p.urlEntry.OnChanged = model.URLs.SetText
	p.urlEntry.OnSubmitted = func(string) { p.Submit() }

	remote := container.NewVBox(
		container.NewBorder(nil, nil, widget.NewLabel("URL:"), nil, p.urlEntry),
	)

	p.tabs = container.NewAppTabs(
		container.NewTabItem("Local", local),
		container.NewTabItem("Remote", remote),
	)
	p.tabs.SetTabLocation(container.TabLocationTop)
	if model.Active() == adder.RemoteTab {
		p.tabs.SelectIndex(adder.RemoteTab)
	}
	p.tabs.OnSelected = func(*container.TabItem) {
		if err := model.SetActive(p.tabs.SelectedIndex()); err != nil {
			log.LogWithError(err).Warn("Tab switch rejected")
		}
	}

	p.addButton = widget.NewButtonWithIcon("Add Catalog", theme.ContentAddIcon(), p.Submit)
	p.addButton.Importance = widget.HighImportance

	p.errLabel = widget.NewLabel("")
	p.errLabel.Wrapping = fyne.TextWrapWord
	p.errLabel.Importance = widget.DangerImportance
	p.errLabel.Hide()

	p.progress = widget.NewProgressBarInfinite()
	p.progress.Hide()

	p.content = container.NewBorder(
		nil,
		container.NewVBox(
			p.errLabel,
			p.progress,
			container.NewHBox(layout.NewSpacer(), p.addButton),
		),
		nil, nil,
		p.tabs,
	)

	model.OnChange(p.applyState)
	p.applyState(model.State())
	p.refreshList()

	return p
}

// Content returns the root canvas object
func (p *Panel) Content() fyne.CanvasObject {
	return p.content
}

// Submit opens the active location in the background
func (p *Panel) Submit() {
	if !p.model.Enabled() || p.model.Busy() {
		return
	}
	go p.submit()
}

func (p *Panel) submit() {
	if _, err := p.model.Submit(p.ctx); err != nil && !errors.IsBusy(err) {
		log.LogWithError(err).Debug("Catalog submission failed")
	}
}

// Refresh redraws the listing after the directory changed underneath
func (p *Panel) Refresh() {
	p.refreshList()
}

func (p *Panel) onEntrySelected(id widget.ListItemID) {
	name, ok := p.entry(id)
	if !ok {
		return
	}
	before := p.model.Files.Path()
	p.model.Files.Select(name)
	if p.model.Files.Path() != before {
		p.afterNavigate()
	}
}

func (p *Panel) afterNavigate() {
	p.syncing = true
	p.pathEntry.SetText(p.model.Files.Path())
	p.syncing = false
	p.list.UnselectAll()
	p.refreshList()
}

func (p *Panel) entryCount() int {
	p.entriesMu.RLock()
	defer p.entriesMu.RUnlock()
	return len(p.entries)
}

func (p *Panel) entry(id widget.ListItemID) (string, bool) {
	p.entriesMu.RLock()
	defer p.entriesMu.RUnlock()
	if id < 0 || id >= len(p.entries) {
		return "", false
	}
	return p.entries[id], true
}

// listing returns a copy of the entries shown in the list
func (p *Panel) listing() []string {
	p.entriesMu.RLock()
	defer p.entriesMu.RUnlock()
	return append([]string(nil), p.entries...)
}

func (p *Panel) refreshList() {
	entries := p.model.Files.Entries()
	p.entriesMu.Lock()
	p.entries = entries
	p.entriesMu.Unlock()
	if p.model.Files.IsValid() {
		p.pathIcon.SetResource(theme.ConfirmIcon())
	} else {
		p.pathIcon.SetResource(theme.ErrorIcon())
	}
	p.list.Refresh()
}

func (p *Panel) applyState(st adder.State) {
	if st.Enabled && !st.Busy {
		p.addButton.Enable()
	} else {
		p.addButton.Disable()
	}

	if st.Busy {
		p.progress.Show()
	} else {
		p.progress.Hide()
	}

	if st.Err != nil {
		p.errLabel.SetText(st.Err.Error())
		p.errLabel.Show()
	} else {
		p.errLabel.SetText("")
		p.errLabel.Hide()
	}
}

func isDirEntry(name string) bool {
	return strings.HasSuffix(name, selector.Separator)
}
