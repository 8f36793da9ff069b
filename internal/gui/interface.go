//go:build !nogui

package gui

import (
	"catadder/internal/adder"
	"catadder/internal/catalog"
	"catadder/internal/config"

	"fyne.io/fyne/v2/app"
)

// Interface defines the contract for GUI operations
type Interface interface {
	Run()
	ShowError(title string, err error)
	ShowInfo(message string)
}

// Factory creates GUI instances
type Factory struct {
	config    *config.Config
	open      catalog.OpenFunc
	adderOpts []adder.Option
	appOpts   []AppOption
}

// NewFactory creates a new GUI factory
func NewFactory(cfg *config.Config, open catalog.OpenFunc, adderOpts []adder.Option, appOpts ...AppOption) *Factory {
	return &Factory{
		config:    cfg,
		open:      open,
		adderOpts: adderOpts,
		appOpts:   appOpts,
	}
}

// Create returns a new GUI instance
func (f *Factory) Create() (Interface, error) {
	a, err := NewApp(app.NewWithID("io.github.catadder"), f.config, f.open, f.adderOpts, f.appOpts...)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// StartGUI opens the catalog window and blocks until it is closed
func StartGUI(f *Factory) error {
	ui, err := f.Create()
	if err != nil {
		return err
	}
	ui.Run()
	return nil
}

// IsGUIAvailable returns whether the GUI is available in this build
func IsGUIAvailable() bool {
	return true
}
