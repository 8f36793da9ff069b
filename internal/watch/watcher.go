package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"catadder/internal/log"
	"catadder/internal/selector"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for a burst of events to
// settle before reporting a change.
const DefaultDebounce = 200 * time.Millisecond

// Change reports that the listing of a directory may have changed
type Change struct {
	Dir       string
	Paths     []string
	Timestamp time.Time
}

// Watcher follows the directory being browsed and reports entries that
// appear, disappear or are renamed there.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	debounce  time.Duration

	changes  chan Change
	stopChan chan struct{}
	doneChan chan struct{}

	mutex   sync.RWMutex
	dir     string
	running bool
}

// Option configures a Watcher
type Option func(*Watcher)

// WithDebounce sets the settle time for bursts of events
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// New creates a directory watcher using fsnotify
func New(opts ...Option) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		debounce:  DefaultDebounce,
		changes:   make(chan Change, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// SetDirectory moves the watch to dir. The previous directory is always
// released; an invalid dir leaves nothing watched and returns an error.
func (w *Watcher) SetDirectory(dir string) error {
	if dir != "" {
		dir = filepath.Clean(dir)
	}

	w.mutex.Lock()
	defer w.mutex.Unlock()

	if dir == w.dir {
		return nil
	}
	if w.dir != "" {
		if err := w.fsWatcher.Remove(w.dir); err != nil {
			log.LogWithFields(log.F("directory", w.dir), log.F("error", err)).Debug("Error removing watch")
		}
		w.dir = ""
	}

	if dir == "" {
		return fmt.Errorf("no directory")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("error accessing directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("failed to add directory %s to watcher: %w", dir, err)
	}
	w.dir = dir
	log.LogWithFields(log.F("directory", dir)).Debug("Watching directory")
	return nil
}

// Directory returns the directory currently watched, or ""
func (w *Watcher) Directory() string {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.dir
}

// Changes returns the channel that delivers debounced directory changes.
// It is closed when the watcher stops.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Start begins the event loop
func (w *Watcher) Start() error {
	w.mutex.Lock()
	if w.running {
		w.mutex.Unlock()
		return fmt.Errorf("watcher already running")
	}
	if w.stopChan != nil {
		w.mutex.Unlock()
		return fmt.Errorf("watcher cannot be restarted")
	}
	w.running = true
	w.stopChan = make(chan struct{})
	w.doneChan = make(chan struct{})
	w.mutex.Unlock()

	go w.loop()
	log.Debug("Watcher started.")
	return nil
}

func (w *Watcher) loop() {
	defer close(w.doneChan)
	defer close(w.changes)

	var (
		pending []string
		timer   *time.Timer
		fire    <-chan time.Time
	)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			if filepath.Dir(event.Name) != w.Directory() {
				continue
			}
			pending = append(pending, event.Name)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			change := Change{Dir: w.Directory(), Paths: pending, Timestamp: time.Now()}
			pending = nil
			// A change already queued covers this one
			select {
			case w.changes <- change:
			default:
				log.LogWithFields(log.F("directory", change.Dir)).Debug("Refresh already pending, dropped change")
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.LogWithFields(log.F("error", err)).Error("fsnotify watcher error")

		case <-w.stopChan:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// Stop halts the watcher and closes the Changes channel
func (w *Watcher) Stop() {
	w.mutex.Lock()
	if !w.running {
		neverStarted := w.stopChan == nil
		w.mutex.Unlock()
		if neverStarted {
			w.fsWatcher.Close()
		}
		return
	}
	w.running = false
	close(w.stopChan)
	w.mutex.Unlock()

	<-w.doneChan
	if err := w.fsWatcher.Close(); err != nil {
		log.LogWithFields(log.F("error", err)).Error("Error closing fsnotify watcher")
	}
	log.Debug("Watcher stopped.")
}

// IsRunning returns whether the watcher is currently active
func (w *Watcher) IsRunning() bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.running
}

// Follow keeps sel's listing current: the watch moves with sel's directory
// and each change refreshes it. after, if set, runs after every refresh.
// The watcher must be started; Follow returns immediately.
func (w *Watcher) Follow(sel *selector.FileSelector, after func()) {
	if err := w.SetDirectory(sel.Path()); err != nil {
		log.LogWithFields(log.F("directory", sel.Path()), log.F("error", err)).Debug("Not watching directory")
	}
	sel.OnNavigate(func(dir string) {
		if err := w.SetDirectory(dir); err != nil {
			log.LogWithFields(log.F("directory", dir), log.F("error", err)).Debug("Not watching directory")
		}
	})

	go func() {
		for change := range w.Changes() {
			log.LogWithFields(log.F("directory", change.Dir), log.F("entries", len(change.Paths))).Debug("Directory changed")
			sel.Refresh()
			if after != nil {
				after()
			}
		}
	}()
}
