package selector

import (
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"

	"catadder/internal/log"

	"github.com/mitchellh/go-homedir"
)

// Separator terminates directory paths and marks directory entries
const Separator = string(filepath.Separator)

// Status is the directory indicator shown next to the path
type Status int

const (
	StatusError Status = iota
	StatusOK
)

func (s Status) String() string {
	if s == StatusOK {
		return "ok"
	}
	return "error"
}

// FileSelector browses a directory for catalog files
type FileSelector struct {
	notifier

	fs        FileSystem
	filter    *Filter
	gitignore bool
	home      string

	mu         sync.Mutex
	path       string
	valid      bool
	entries    []string
	selected   string
	onNavigate []func(dir string)
}

// Option configures a FileSelector
type Option func(*FileSelector)

// WithFileSystem replaces the host file system
func WithFileSystem(fsys FileSystem) Option {
	return func(s *FileSelector) { s.fs = fsys }
}

// WithFilter sets the entry filter
func WithFilter(f *Filter) Option {
	return func(s *FileSelector) { s.filter = f }
}

// WithGitignore hides entries matched by the directory's .gitignore
func WithGitignore(enabled bool) Option {
	return func(s *FileSelector) { s.gitignore = enabled }
}

// NewFileSelector creates a selector browsing home
func NewFileSelector(home string, opts ...Option) *FileSelector {
	s := &FileSelector{fs: OSFileSystem{}}
	for _, opt := range opts {
		opt(s)
	}
	if s.filter == nil {
		s.filter, _ = NewFilter(DefaultFilters, nil)
	}
	s.home = normalizeDir(home)
	s.load(s.home)
	return s
}

// Path returns the current directory, separator-terminated
func (s *FileSelector) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// HomeDir returns the directory Home navigates to
func (s *FileSelector) HomeDir() string {
	return s.home
}

// URL joins the current directory with the selected entry. It is empty when
// no file is selected.
func (s *FileSelector) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == "" {
		return ""
	}
	return s.path + s.selected
}

// Entries returns the current listing
func (s *FileSelector) Entries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.entries...)
}

// Selected returns the selected entry, or ""
func (s *FileSelector) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// IsValid reports whether the current path is an existing directory
func (s *FileSelector) IsValid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.valid
}

// Status returns the indicator for the current path
func (s *FileSelector) Status() Status {
	if s.IsValid() {
		return StatusOK
	}
	return StatusError
}

// OnNavigate registers fn to run whenever the current directory changes
func (s *FileSelector) OnNavigate(fn func(dir string)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.onNavigate = append(s.onNavigate, fn)
	s.mu.Unlock()
}

// SetPath handles an edit of the path. Any edit drops the selection, so it
// always publishes not-ready.
func (s *FileSelector) SetPath(text string) {
	s.navigate(normalizeDir(text))
}

// Up moves to the parent directory. The root stays at the root.
func (s *FileSelector) Up() {
	s.navigate(parentDir(s.Path()))
}

// Home moves to the configured home directory
func (s *FileSelector) Home() {
	s.navigate(s.home)
}

// Select handles a choice from the listing. Directory entries descend into
// the directory; existing files become the selection and publish ready.
// Names that are not in the current listing clear the selection.
func (s *FileSelector) Select(entry string) {
	if entry == "" {
		return
	}

	s.mu.Lock()
	listed := s.valid && slices.Contains(s.entries, entry)
	s.mu.Unlock()

	if listed && strings.HasSuffix(entry, Separator) {
		s.navigate(s.Path() + entry)
		return
	}

	s.mu.Lock()
	full := s.path + entry
	ok := listed && s.fs.IsFile(full)
	if ok {
		s.selected = entry
	} else {
		s.selected = ""
	}
	s.mu.Unlock()

	switch {
	case ok:
		log.LogWithFields(log.F("path", full)).Debug("catalog file selected")
	case !listed:
		log.LogWithFields(log.F("path", full)).Debug("entry is not in the listing")
	default:
		log.LogWithFields(log.F("path", full)).Debug("selected entry is not a file")
	}
	s.publish(ok)
}

// ClearSelection drops the selected entry
func (s *FileSelector) ClearSelection() {
	s.mu.Lock()
	s.selected = ""
	s.mu.Unlock()
	s.publish(false)
}

// Refresh re-reads the current directory. The selection survives when its
// file still exists; readiness is published only when it changes.
func (s *FileSelector) Refresh() {
	s.mu.Lock()
	wasReady := s.selected != ""
	s.valid = s.fs.IsDir(s.path)
	s.entries = s.list(s.path)
	if s.selected != "" && !(s.valid && s.fs.IsFile(s.path+s.selected)) {
		s.selected = ""
	}
	ready := s.selected != ""
	s.mu.Unlock()

	if ready != wasReady {
		s.publish(ready)
	}
}

func (s *FileSelector) navigate(dir string) {
	s.load(dir)
	log.LogWithFields(log.F("path", dir), log.F("valid", s.IsValid())).Debug("browsing directory")

	s.mu.Lock()
	fns := append([]func(string){}, s.onNavigate...)
	s.mu.Unlock()
	for _, fn := range fns {
		fn(dir)
	}

	s.publish(false)
}

func (s *FileSelector) load(dir string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.path = dir
	s.selected = ""
	s.valid = dir != "" && s.fs.IsDir(dir)
	s.entries = s.list(dir)
}

// list returns the filtered, sorted listing of dir with directories marked
// by a trailing separator. Invalid directories list nothing.
func (s *FileSelector) list(dir string) []string {
	if dir == "" || !s.fs.IsDir(dir) {
		return nil
	}
	raw, err := s.fs.ReadDir(dir)
	if err != nil {
		log.LogWithFields(log.F("path", dir), log.F("error", err)).Warn("cannot list directory")
		return nil
	}

	var gi interface{ MatchesPath(string) bool }
	if s.gitignore {
		if g := loadGitIgnore(s.fs, dir); g != nil {
			gi = g
		}
	}

	dirs := make(map[string]bool)
	names := make([]string, 0, len(raw))
	for _, e := range raw {
		if !s.filter.Keep(e) {
			continue
		}
		if gi != nil {
			rel := e.Name
			if e.Dir {
				rel += "/"
			}
			if gi.MatchesPath(rel) {
				continue
			}
		}
		names = append(names, e.Name)
		dirs[e.Name] = e.Dir
	}

	sort.Strings(names)
	for i, n := range names {
		if dirs[n] {
			names[i] = n + Separator
		}
	}
	return names
}

// normalizeDir expands ~ and returns a cleaned, separator-terminated path.
// Blank input is the root.
func normalizeDir(p string) string {
	if strings.TrimSpace(p) == "" {
		return Separator
	}
	if expanded, err := homedir.Expand(p); err == nil {
		p = expanded
	}
	p = filepath.Clean(p)
	if !strings.HasSuffix(p, Separator) {
		p += Separator
	}
	return p
}

// parentDir returns the separator-terminated parent of dir
func parentDir(dir string) string {
	if dir == "" {
		return ""
	}
	trimmed := strings.TrimRight(dir, Separator)
	if trimmed == "" {
		return Separator
	}
	parent := filepath.Dir(trimmed)
	if !strings.HasSuffix(parent, Separator) {
		parent += Separator
	}
	return parent
}
