// Package history remembers recently added catalog locations on disk.
package history

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"sort"
	"time"

	"catadder/internal/errors"
	"catadder/internal/log"

	"github.com/peterbourgon/diskv/v3"
)

// Entry is one remembered catalog
type Entry struct {
	Location string    `json:"location"`
	Name     string    `json:"name"`
	Added    time.Time `json:"added"`
}

// Store is a diskv-backed history. Adding a location again moves it to the
// front instead of duplicating it.
type Store struct {
	d    *diskv.Diskv
	base string
	now  func() time.Time
}

// Option configures a Store
type Option func(*Store)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open opens the history rooted at dir
func Open(dir string, opts ...Option) *Store {
	s := &Store{
		d: diskv.New(diskv.Options{
			BasePath:     dir,
			Transform:    func(string) []string { return []string{} },
			CacheSizeMax: 256 * 1024,
		}),
		base: dir,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the store's directory
func (s *Store) Dir() string {
	return s.base
}

// Record remembers location under name
func (s *Store) Record(location, name string) error {
	data, err := json.Marshal(Entry{Location: location, Name: name, Added: s.now().UTC()})
	if err != nil {
		return err
	}
	if err := s.d.Write(keyFor(location), data); err != nil {
		return errors.NewFileError("failed to write history", s.base, errors.StorageOperationFailed, err)
	}
	return nil
}

// Recent returns up to limit entries, newest first. A limit of zero or less
// returns everything.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	// cancelling stops the key walker when we return early
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var all []Entry
	for key := range s.d.Keys(ctx.Done()) {
		val, err := s.d.Read(key)
		if err != nil {
			return nil, errors.NewFileError("failed to read history", s.base, errors.StorageOperationFailed, err)
		}
		var e Entry
		if err := json.Unmarshal(val, &e); err != nil {
			log.LogWithFields(log.F("key", key), log.F("error", err)).Warn("skipping corrupt history entry")
			continue
		}
		all = append(all, e)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].Added.Equal(all[j].Added) {
			return all[i].Location < all[j].Location
		}
		return all[i].Added.After(all[j].Added)
	})
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// Clear forgets every entry
func (s *Store) Clear() error {
	if err := s.d.EraseAll(); err != nil {
		return errors.NewFileError("failed to clear history", s.base, errors.StorageOperationFailed, err)
	}
	return nil
}

func keyFor(location string) string {
	sum := md5.Sum([]byte(location))
	return hex.EncodeToString(sum[:])
}
