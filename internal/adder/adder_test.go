package adder_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"catadder/internal/adder"
	"catadder/internal/catalog"
	"catadder/internal/errors"
	"catadder/internal/selector"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOpener records every location it is asked to open
type fakeOpener struct {
	mu    sync.Mutex
	calls []string
	cat   *catalog.Catalog
	err   error
	block chan struct{}
}

func (f *fakeOpener) open(ctx context.Context, location string) (*catalog.Catalog, error) {
	f.mu.Lock()
	f.calls = append(f.calls, location)
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	return f.cat, f.err
}

func (f *fakeOpener) locations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type doneSpy struct {
	got []*catalog.Catalog
}

func (d *doneSpy) done(cat *catalog.Catalog) { d.got = append(d.got, cat) }

type memRecorder struct {
	records []string
	err     error
}

func (m *memRecorder) Record(location, name string) error {
	m.records = append(m.records, name+"="+location)
	return m.err
}

// dataDir builds the catalog.yaml, notes.txt, sub/ fixture
func dataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "catalog.yaml"), []byte("sources: {}\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("notes"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))
	return dir
}

func newPanel(t *testing.T, op *fakeOpener, spy *doneSpy, opts ...adder.Option) (*adder.Adder, *selector.FileSelector, *selector.URLSelector, string) {
	t.Helper()
	dir := dataDir(t)
	files := selector.NewFileSelector(dir)
	urls := selector.NewURLSelector()
	a := adder.New(op.open, spy.done, []adder.Tab{
		{Name: "Local", Selector: files},
		{Name: "Remote", Selector: urls},
	}, opts...)
	return a, files, urls, dir
}

func TestLocalSubmission(t *testing.T) {
	op := &fakeOpener{cat: &catalog.Catalog{Name: "catalog"}}
	spy := &doneSpy{}
	a, files, _, dir := newPanel(t, op, spy)

	assert.False(t, a.Enabled())
	assert.Equal(t, []string{"catalog.yaml", "sub/"}, files.Entries())

	files.Select("sub/")
	assert.False(t, a.Enabled(), "directory selection must not enable submit")
	files.Up()

	files.Select("catalog.yaml")
	require.True(t, a.Enabled())
	assert.Equal(t, filepath.Join(dir, "catalog.yaml"), a.CatURL())

	cat, err := a.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "catalog", cat.Name)
	assert.Equal(t, []string{filepath.Join(dir, "catalog.yaml")}, op.locations())
	require.Len(t, spy.got, 1)
	assert.Same(t, cat, spy.got[0])

	st := a.State()
	assert.Equal(t, adder.OutcomeAdded, st.Outcome)
	assert.False(t, st.Busy)
	assert.True(t, st.Enabled, "selection is still ready after submitting")
	assert.NoError(t, st.Err)
}

func TestRemoteSubmission(t *testing.T) {
	op := &fakeOpener{cat: &catalog.Catalog{Name: "root"}}
	spy := &doneSpy{}
	a, _, urls, _ := newPanel(t, op, spy)

	require.NoError(t, a.SetActive(1))
	urls.SetText("https://example.com/cat.yaml")
	require.True(t, a.Enabled())

	_, err := a.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/cat.yaml"}, op.locations())
	require.Len(t, spy.got, 1)
	assert.Equal(t, "root", spy.got[0].Name)
}

func TestBlankURLIsSubmittable(t *testing.T) {
	op := &fakeOpener{err: fmt.Errorf("empty location")}
	spy := &doneSpy{}
	a, _, urls, _ := newPanel(t, op, spy)

	require.NoError(t, a.SetActive(1))
	urls.SetText("   ")
	assert.True(t, a.Enabled())

	_, err := a.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, []string{"   "}, op.locations())
}

func TestSubmitWhenDisabled(t *testing.T) {
	op := &fakeOpener{cat: &catalog.Catalog{Name: "x"}}
	a, _, _, _ := newPanel(t, op, &doneSpy{})

	_, err := a.Submit(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsNoSelection(err))
	assert.Empty(t, op.locations())
}

func TestSubmitFailure(t *testing.T) {
	op := &fakeOpener{err: fmt.Errorf("connection refused")}
	spy := &doneSpy{}
	a, files, _, _ := newPanel(t, op, spy)

	var states []adder.State
	a.OnChange(func(s adder.State) { states = append(states, s) })

	files.Select("catalog.yaml")
	_, err := a.Submit(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCatalogOpenFailed(err))
	assert.Contains(t, err.Error(), "connection refused")
	assert.Empty(t, spy.got)

	st := a.State()
	assert.Equal(t, adder.OutcomeFailed, st.Outcome)
	assert.Equal(t, err, st.Err)
	assert.Equal(t, err, a.Err())
	assert.True(t, st.Enabled, "user can retry")

	require.Len(t, states, 3)
	assert.True(t, states[0].Enabled)
	assert.True(t, states[1].Busy)
	assert.False(t, states[1].Enabled)
	assert.False(t, states[2].Busy)
	assert.Equal(t, adder.OutcomeFailed, states[2].Outcome)

	t.Run("error is cleared by the next submission", func(t *testing.T) {
		op.mu.Lock()
		op.err = nil
		op.cat = &catalog.Catalog{Name: "catalog"}
		op.mu.Unlock()

		_, err := a.Submit(context.Background())
		require.NoError(t, err)
		assert.NoError(t, a.Err())
		assert.Len(t, spy.got, 1)
	})
}

func TestCatalogErrorsPassThrough(t *testing.T) {
	invalid := errors.NewCatalogError("invalid catalog", "/x.yaml", errors.InvalidCatalog, nil)
	op := &fakeOpener{err: invalid}
	a, files, _, _ := newPanel(t, op, &doneSpy{})

	files.Select("catalog.yaml")
	_, err := a.Submit(context.Background())
	assert.Same(t, invalid, err)
	assert.True(t, errors.IsInvalidCatalog(err))
}

func TestEmptyNameIsSilent(t *testing.T) {
	op := &fakeOpener{cat: &catalog.Catalog{Name: ""}}
	spy := &doneSpy{}
	a, files, _, _ := newPanel(t, op, spy)

	files.Select("catalog.yaml")
	cat, err := a.Submit(context.Background())
	require.NoError(t, err)
	require.NotNil(t, cat)
	assert.Empty(t, spy.got)
	assert.Equal(t, adder.OutcomeEmptyName, a.State().Outcome)
	assert.NoError(t, a.Err())

	op.cat = nil
	_, err = a.Submit(context.Background())
	require.NoError(t, err)
	assert.Empty(t, spy.got)
	assert.Equal(t, adder.OutcomeEmptyName, a.State().Outcome)
}

func TestTabSwitchKeepsStaleState(t *testing.T) {
	op := &fakeOpener{cat: &catalog.Catalog{Name: "x"}}
	a, files, urls, _ := newPanel(t, op, &doneSpy{})

	files.Select("catalog.yaml")
	require.True(t, a.Enabled())

	// the remote selector never reported ready, yet the control stays enabled
	require.NoError(t, a.SetActive(1))
	assert.False(t, urls.IsReady())
	assert.True(t, a.Enabled())
	assert.Equal(t, "", a.CatURL())

	// signals from the now inactive tab are ignored
	files.ClearSelection()
	assert.True(t, a.Enabled())
	assert.False(t, files.IsReady())

	urls.SetText("https://example.com/cat.yaml")
	assert.True(t, a.Enabled())

	require.NoError(t, a.SetActive(0))
	assert.True(t, a.Enabled(), "stale readiness carried back to the local tab")

	assert.Error(t, a.SetActive(2))
	assert.Error(t, a.SetActive(-1))
}

func TestTabSwitchRecheck(t *testing.T) {
	op := &fakeOpener{cat: &catalog.Catalog{Name: "x"}}
	a, files, urls, _ := newPanel(t, op, &doneSpy{}, adder.WithRecheckOnTabSwitch(true))

	files.Select("catalog.yaml")
	require.True(t, a.Enabled())

	require.NoError(t, a.SetActive(1))
	assert.False(t, a.Enabled())

	urls.SetText("https://example.com/cat.yaml")
	assert.True(t, a.Enabled())

	files.ClearSelection()
	require.NoError(t, a.SetActive(0))
	assert.False(t, a.Enabled())
}

func TestConcurrentSubmitIsRejected(t *testing.T) {
	op := &fakeOpener{cat: &catalog.Catalog{Name: "x"}, block: make(chan struct{})}
	spy := &doneSpy{}
	a, files, _, _ := newPanel(t, op, spy)
	files.Select("catalog.yaml")

	errc := make(chan error, 1)
	go func() {
		_, err := a.Submit(context.Background())
		errc <- err
	}()

	require.Eventually(t, a.Busy, time.Second, 5*time.Millisecond)
	assert.False(t, a.Enabled())

	_, err := a.Submit(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsBusy(err))

	// readiness signals during the submission do not re-enable the control
	files.Select("catalog.yaml")
	assert.False(t, a.Enabled())

	close(op.block)
	require.NoError(t, <-errc)
	assert.False(t, a.Busy())
	assert.True(t, a.Enabled())
	assert.Len(t, op.locations(), 1)
	assert.Len(t, spy.got, 1)
}

func TestRecorder(t *testing.T) {
	t.Run("records added catalogs", func(t *testing.T) {
		rec := &memRecorder{}
		op := &fakeOpener{cat: &catalog.Catalog{Name: "root"}}
		a, _, urls, _ := newPanel(t, op, &doneSpy{}, adder.WithRecorder(rec))

		require.NoError(t, a.SetActive(1))
		urls.SetText("https://example.com/cat.yaml")
		_, err := a.Submit(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"root=https://example.com/cat.yaml"}, rec.records)
	})

	t.Run("unnamed catalogs are not recorded", func(t *testing.T) {
		rec := &memRecorder{}
		op := &fakeOpener{cat: &catalog.Catalog{}}
		a, files, _, _ := newPanel(t, op, &doneSpy{}, adder.WithRecorder(rec))

		files.Select("catalog.yaml")
		_, err := a.Submit(context.Background())
		require.NoError(t, err)
		assert.Empty(t, rec.records)
	})

	t.Run("recorder errors do not fail the submission", func(t *testing.T) {
		rec := &memRecorder{err: fmt.Errorf("disk full")}
		op := &fakeOpener{cat: &catalog.Catalog{Name: "catalog"}}
		spy := &doneSpy{}
		a, files, _, _ := newPanel(t, op, spy, adder.WithRecorder(rec))

		files.Select("catalog.yaml")
		_, err := a.Submit(context.Background())
		require.NoError(t, err)
		assert.Len(t, spy.got, 1)
	})
}

func TestWithCatalogOpener(t *testing.T) {
	op := catalog.NewOpener()
	spy := &doneSpy{}
	dir := dataDir(t)
	files := selector.NewFileSelector(dir)
	a := adder.New(op.Open, spy.done, []adder.Tab{{Name: "Local", Selector: files}})

	files.Select("catalog.yaml")
	cat, err := a.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "catalog", cat.Name)
	assert.Len(t, spy.got, 1)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "none", adder.OutcomeNone.String())
	assert.Equal(t, "added", adder.OutcomeAdded.String())
	assert.Equal(t, "empty name", adder.OutcomeEmptyName.String())
	assert.Equal(t, "failed", adder.OutcomeFailed.String())
}
