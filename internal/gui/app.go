//go:build !nogui

package gui

import (
	"context"
	"fmt"

	"catadder/internal/adder"
	"catadder/internal/catalog"
	"catadder/internal/config"
	"catadder/internal/log"
	"catadder/internal/watch"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// App is the GUI application
type App struct {
	fyneApp    fyne.App
	mainWindow fyne.Window
	cfg        *config.Config
	panel      *Panel
	model      *adder.Panel
	watcher    *watch.Watcher
	cancel     context.CancelFunc

	onAdded func(*catalog.Catalog)
}

// AppOption configures an App
type AppOption func(*App)

// WithWatcher keeps the local listing in step with the browsed directory.
// The watcher is started by Run and stopped when the window closes.
func WithWatcher(w *watch.Watcher) AppOption {
	return func(a *App) { a.watcher = w }
}

// WithAddedHandler receives every catalog added from the window
func WithAddedHandler(fn func(*catalog.Catalog)) AppOption {
	return func(a *App) { a.onAdded = fn }
}

// NewApp creates the catalog window on fyneApp
func NewApp(fyneApp fyne.App, cfg *config.Config, open catalog.OpenFunc, adderOpts []adder.Option, opts ...AppOption) (*App, error) {
	if cfg == nil {
		cfg = config.New()
	}
	a := &App{fyneApp: fyneApp, cfg: cfg}
	for _, opt := range opts {
		opt(a)
	}

	model, err := adder.NewPanel(cfg, open, a.catalogAdded, adderOpts...)
	if err != nil {
		return nil, err
	}
	a.model = model

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.panel = NewPanel(ctx, model)

	a.mainWindow = fyneApp.NewWindow("Catalog Adder")
	a.setupMainWindow()
	return a, nil
}

// GetMainWindow returns the main window instance
func (a *App) GetMainWindow() fyne.Window {
	return a.mainWindow
}

// Panel returns the catalog panel shown in the window
func (a *App) Panel() *Panel {
	return a.panel
}

// Run shows the window and blocks until the application quits
func (a *App) Run() {
	a.startWatching()
	a.mainWindow.Show()
	a.fyneApp.Run()
	a.shutdown()
}

func (a *App) setupMainWindow() {
	a.mainWindow.Resize(fyne.NewSize(640, 480))

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.ViewRefreshIcon(), func() {
			a.model.Files.Refresh()
			a.panel.Refresh()
		}),
		widget.NewToolbarSpacer(),
		widget.NewToolbarAction(theme.HelpIcon(), func() {
			dialog.ShowInformation("About Catalog Adder",
				"Browse to a catalog file on the Local tab, or type the\n"+
					"full URL of a remote catalog on the Remote tab, then\n"+
					"press Add Catalog.",
				a.mainWindow)
		}),
	)

	a.mainWindow.SetContent(container.NewBorder(
		container.NewVBox(
			widget.NewLabelWithStyle("Add Catalog", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			toolbar,
		),
		nil, nil, nil,
		a.panel.Content(),
	))
	a.mainWindow.SetOnClosed(a.shutdown)
}

func (a *App) startWatching() {
	if a.watcher == nil || a.watcher.IsRunning() {
		return
	}
	if err := a.watcher.Start(); err != nil {
		log.LogWithError(err).Warn("Directory watching unavailable")
		return
	}
	a.watcher.Follow(a.model.Files, a.panel.Refresh)
}

func (a *App) shutdown() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.watcher != nil && a.watcher.IsRunning() {
		a.watcher.Stop()
	}
}

func (a *App) catalogAdded(cat *catalog.Catalog) {
	log.LogWithFields(log.F("catalog", cat.Name), log.F("location", cat.Location)).Info("Catalog added")
	a.ShowInfo(describeCatalog(cat))
	if a.onAdded != nil {
		a.onAdded(cat)
	}
}

// ShowError displays an error dialog
func (a *App) ShowError(title string, err error) {
	if err == nil {
		return
	}
	log.LogWithError(err).Error(title)
	dialog.ShowError(err, a.mainWindow)
}

// ShowInfo displays an information dialog
func (a *App) ShowInfo(message string) {
	dialog.ShowInformation("Catalog Added", message, a.mainWindow)
}

func describeCatalog(cat *catalog.Catalog) string {
	msg := fmt.Sprintf("%s (%d sources)", cat.Name, len(cat.Sources))
	for _, s := range cat.Sources {
		msg += fmt.Sprintf("\n  %s [%s]", s.Name, s.Driver)
	}
	return msg
}
