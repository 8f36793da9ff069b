// Package adder hosts the catalog location selectors behind tabs and turns
// the active selector's location into an opened catalog.
package adder

import (
	"context"
	"fmt"
	"sync"

	"catadder/internal/catalog"
	"catadder/internal/errors"
	"catadder/internal/log"
	"catadder/internal/selector"
)

// DoneFunc receives each successfully added catalog
type DoneFunc func(cat *catalog.Catalog)

// Recorder remembers added catalog locations
type Recorder interface {
	Record(location, name string) error
}

// Outcome is the result of the last submission
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeAdded
	// OutcomeEmptyName means the catalog opened but carried no name; the
	// done callback is not called and no error is reported.
	OutcomeEmptyName
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAdded:
		return "added"
	case OutcomeEmptyName:
		return "empty name"
	case OutcomeFailed:
		return "failed"
	default:
		return "none"
	}
}

// State is a snapshot of the panel's submit control
type State struct {
	Active  int
	Enabled bool
	Busy    bool
	Outcome Outcome
	Err     error
}

// Tab pairs a selector with its label
type Tab struct {
	Name     string
	Selector selector.Selector
}

// Adder enables submission from the active selector's readiness and opens
// the chosen location.
type Adder struct {
	open     catalog.OpenFunc
	done     DoneFunc
	recheck  bool
	recorder Recorder

	mu        sync.Mutex
	tabs      []Tab
	active    int
	enabled   bool
	busy      bool
	outcome   Outcome
	err       error
	listeners []func(State)
}

// Option configures an Adder
type Option func(*Adder)

// WithRecheckOnTabSwitch re-evaluates readiness when the active tab changes.
// Without it the control keeps its previous state across tab switches.
func WithRecheckOnTabSwitch(recheck bool) Option {
	return func(a *Adder) { a.recheck = recheck }
}

// WithRecorder records every added catalog
func WithRecorder(r Recorder) Option {
	return func(a *Adder) { a.recorder = r }
}

// New creates an Adder over tabs, opening locations with open and handing
// catalogs to done. The first tab starts active.
func New(open catalog.OpenFunc, done DoneFunc, tabs []Tab, opts ...Option) *Adder {
	a := &Adder{
		open: open,
		done: done,
		tabs: append([]Tab(nil), tabs...),
	}
	for _, opt := range opts {
		opt(a)
	}
	for i, t := range a.tabs {
		idx := i
		t.Selector.Subscribe(func(ready bool) { a.onReady(idx, ready) })
	}
	return a
}

// Tabs returns the hosted tabs
func (a *Adder) Tabs() []Tab {
	return append([]Tab(nil), a.tabs...)
}

// OnChange registers fn to receive every state change
func (a *Adder) OnChange(fn func(State)) {
	if fn == nil {
		return
	}
	a.mu.Lock()
	a.listeners = append(a.listeners, fn)
	a.mu.Unlock()
}

// State returns the current state
func (a *Adder) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stateLocked()
}

// Active returns the index of the active tab
func (a *Adder) Active() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active
}

// Enabled reports whether the submit control is active
func (a *Adder) Enabled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.enabled
}

// Busy reports whether a submission is in flight
func (a *Adder) Busy() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.busy
}

// Err returns the error of the last failed submission
func (a *Adder) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}

// CatURL returns the active selector's location
func (a *Adder) CatURL() string {
	a.mu.Lock()
	if len(a.tabs) == 0 {
		a.mu.Unlock()
		return ""
	}
	sel := a.tabs[a.active].Selector
	a.mu.Unlock()
	return sel.URL()
}

// SetActive switches to tab i
func (a *Adder) SetActive(i int) error {
	a.mu.Lock()
	if i < 0 || i >= len(a.tabs) {
		a.mu.Unlock()
		return fmt.Errorf("tab %d out of range", i)
	}
	a.active = i
	if a.recheck && !a.busy {
		a.enabled = a.tabs[i].Selector.IsReady()
	}
	a.mu.Unlock()

	log.LogWithFields(log.F("tab", a.tabs[i].Name)).Debug("active tab changed")
	a.notify()
	return nil
}

func (a *Adder) onReady(i int, ready bool) {
	a.mu.Lock()
	if i != a.active || a.busy || a.enabled == ready {
		a.mu.Unlock()
		return
	}
	a.enabled = ready
	a.mu.Unlock()
	a.notify()
}

// Submit opens the active selector's location. It fails with a no-selection
// error while the control is disabled and with a busy error while another
// submission runs. A catalog without a name is returned without calling the
// done callback.
func (a *Adder) Submit(ctx context.Context) (*catalog.Catalog, error) {
	a.mu.Lock()
	if a.busy {
		a.mu.Unlock()
		return nil, errors.ErrBusy
	}
	if !a.enabled {
		a.mu.Unlock()
		return nil, errors.ErrNoSelection
	}
	a.busy = true
	a.enabled = false
	a.err = nil
	a.outcome = OutcomeNone
	location := a.tabs[a.active].Selector.URL()
	a.mu.Unlock()
	a.notify()

	log.LogWithFields(log.F("location", location)).Info("opening catalog")
	cat, err := a.open(ctx, location)

	a.mu.Lock()
	a.busy = false
	a.enabled = a.tabs[a.active].Selector.IsReady()
	switch {
	case err != nil:
		if !errors.IsCatalogOpenFailed(err) && !errors.IsInvalidCatalog(err) {
			err = errors.NewCatalogError("failed to open catalog", location, errors.CatalogOpenFailed, err)
		}
		a.outcome = OutcomeFailed
		a.err = err
	case cat == nil || cat.Name == "":
		a.outcome = OutcomeEmptyName
	default:
		a.outcome = OutcomeAdded
	}
	outcome := a.outcome
	a.mu.Unlock()

	switch outcome {
	case OutcomeFailed:
		log.LogWithError(err).Warn("catalog not added")
		a.notify()
		return nil, err
	case OutcomeEmptyName:
		log.LogWithFields(log.F("location", location)).Debug("catalog has no name")
		a.notify()
		return cat, nil
	}

	if a.recorder != nil {
		if rerr := a.recorder.Record(location, cat.Name); rerr != nil {
			log.LogWithError(rerr).Warn("could not record catalog in history")
		}
	}
	log.LogWithFields(log.F("location", location), log.F("name", cat.Name)).Info("catalog added")
	a.notify()
	if a.done != nil {
		a.done(cat)
	}
	return cat, nil
}

func (a *Adder) stateLocked() State {
	return State{
		Active:  a.active,
		Enabled: a.enabled,
		Busy:    a.busy,
		Outcome: a.outcome,
		Err:     a.err,
	}
}

func (a *Adder) notify() {
	a.mu.Lock()
	st := a.stateLocked()
	fns := append([]func(State){}, a.listeners...)
	a.mu.Unlock()
	for _, fn := range fns {
		fn(st)
	}
}
