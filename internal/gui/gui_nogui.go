//go:build nogui

package gui

import (
	"catadder/internal/adder"
	"catadder/internal/catalog"
	"catadder/internal/config"
	"catadder/internal/errors"
	"catadder/internal/watch"
)

// AppOption is accepted and ignored in builds without a GUI
type AppOption func()

// WithWatcher is a no-op in builds without a GUI
func WithWatcher(*watch.Watcher) AppOption { return func() {} }

// WithAddedHandler is a no-op in builds without a GUI
func WithAddedHandler(func(*catalog.Catalog)) AppOption { return func() {} }

// Factory is a stub for builds with the GUI disabled
type Factory struct{}

// NewFactory returns a stub factory
func NewFactory(*config.Config, catalog.OpenFunc, []adder.Option, ...AppOption) *Factory {
	return &Factory{}
}

// StartGUI is a stub implementation for builds with GUI disabled
func StartGUI(*Factory) error {
	return errors.New("GUI not available in this build, use the tui command")
}

// IsGUIAvailable returns whether the GUI is available in this build
func IsGUIAvailable() bool {
	return false
}
