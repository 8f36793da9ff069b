// Package selector holds the toolkit-independent state of the catalog
// location pickers. A FileSelector browses the local file system and a
// URLSelector captures a remote location; both publish readiness to their
// subscribers whenever the user's input changes.
package selector

import "sync"

// ReadyFunc receives readiness changes from a selector
type ReadyFunc func(ready bool)

// Selector produces a candidate catalog location
type Selector interface {
	// URL returns the current location, or "" when nothing is chosen
	URL() string
	// IsReady reports the readiness last published by the selector
	IsReady() bool
	// Subscribe registers fn for every readiness signal
	Subscribe(fn ReadyFunc)
}

// notifier fans readiness signals out to subscribers. Callbacks run without
// the lock held so they may call back into the selector.
type notifier struct {
	mu    sync.Mutex
	subs  []ReadyFunc
	ready bool
}

func (n *notifier) Subscribe(fn ReadyFunc) {
	if fn == nil {
		return
	}
	n.mu.Lock()
	n.subs = append(n.subs, fn)
	n.mu.Unlock()
}

func (n *notifier) IsReady() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.ready
}

func (n *notifier) publish(ready bool) {
	n.mu.Lock()
	n.ready = ready
	subs := make([]ReadyFunc, len(n.subs))
	copy(subs, n.subs)
	n.mu.Unlock()

	for _, fn := range subs {
		fn(ready)
	}
}
