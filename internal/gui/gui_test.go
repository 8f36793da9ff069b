//go:build !nogui

package gui

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"catadder/internal/adder"
	"catadder/internal/catalog"
	"catadder/internal/config"
	"catadder/pkg/testutils"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type openSpy struct {
	mu        sync.Mutex
	locations []string
	cat       *catalog.Catalog
	err       error
}

func (o *openSpy) open(_ context.Context, location string) (*catalog.Catalog, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.locations = append(o.locations, location)
	return o.cat, o.err
}

func (o *openSpy) opened() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.locations...)
}

func newTestPanel(t *testing.T, cfg *config.Config, op *openSpy, done adder.DoneFunc) *Panel {
	t.Helper()
	test.NewTempApp(t)
	model, err := adder.NewPanel(cfg, op.open, done)
	require.NoError(t, err)
	p := NewPanel(context.Background(), model)
	test.NewTempWindow(t, p.Content())
	return p
}

func testConfig(t *testing.T) (*config.Config, string) {
	t.Helper()
	dir := testutils.CatalogTree(t)
	cfg := config.New()
	cfg.Browser.Home = dir
	return cfg, dir
}

func TestPanelLocalFlow(t *testing.T) {
	cfg, dir := testConfig(t)
	op := &openSpy{cat: &catalog.Catalog{Name: "inner"}}

	var mu sync.Mutex
	var added []*catalog.Catalog
	p := newTestPanel(t, cfg, op, func(c *catalog.Catalog) {
		mu.Lock()
		added = append(added, c)
		mu.Unlock()
	})

	assert.Equal(t, []string{"catalog.yaml", "sub/"}, p.listing())
	assert.True(t, p.addButton.Disabled())
	assert.Equal(t, 0, p.tabs.SelectedIndex())

	// descend into sub/
	p.list.Select(1)
	assert.Equal(t, []string{"inner.yml"}, p.listing())
	assert.Equal(t, filepath.Join(dir, "sub")+string(filepath.Separator), p.pathEntry.Text)
	assert.True(t, p.addButton.Disabled(), "entering a directory never enables submit")

	p.list.Select(0)
	require.False(t, p.addButton.Disabled())

	test.Tap(p.addButton)
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(added) == 1
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, []string{filepath.Join(dir, "sub", "inner.yml")}, op.opened())
	assert.Equal(t, "inner", added[0].Name)
	assert.Equal(t, adder.OutcomeAdded, p.model.State().Outcome)
	assert.False(t, p.errLabel.Visible())
}

func TestPanelPathEntry(t *testing.T) {
	cfg, dir := testConfig(t)
	p := newTestPanel(t, cfg, &openSpy{}, nil)

	p.pathEntry.SetText(filepath.Join(dir, "nope"))
	assert.Empty(t, p.listing())
	assert.Equal(t, theme.ErrorIcon().Name(), p.pathIcon.Resource.Name())

	p.pathEntry.SetText(filepath.Join(dir, "sub"))
	assert.Equal(t, []string{"inner.yml"}, p.listing())
	assert.Equal(t, theme.ConfirmIcon().Name(), p.pathIcon.Resource.Name())

	// editing the path drops a previous selection
	p.list.Select(0)
	require.False(t, p.addButton.Disabled())
	p.pathEntry.SetText(dir)
	assert.True(t, p.addButton.Disabled())
	assert.Equal(t, []string{"catalog.yaml", "sub/"}, p.listing())
}

func TestPanelRefreshWhileSelecting(t *testing.T) {
	cfg, _ := testConfig(t)
	p := newTestPanel(t, cfg, &openSpy{}, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			p.Refresh()
		}
	}()

	for i := 0; i < 200; i++ {
		p.onEntrySelected(0)
		if n := p.entryCount(); n > 0 {
			_, ok := p.entry(n - 1)
			assert.True(t, ok)
		}
	}
	<-done

	assert.True(t, p.model.Files.IsReady())

	assert.Equal(t, []string{"catalog.yaml", "sub/"}, p.listing())
}

func TestPanelRemoteFlow(t *testing.T) {
	cfg, _ := testConfig(t)
	op := &openSpy{cat: &catalog.Catalog{Name: "remote"}}
	p := newTestPanel(t, cfg, op, nil)

	p.tabs.SelectIndex(adder.RemoteTab)
	require.Equal(t, adder.RemoteTab, p.model.Active())

	p.urlEntry.SetText("https://example.com/cat.yaml")
	require.False(t, p.addButton.Disabled())

	test.Tap(p.addButton)
	require.Eventually(t, func() bool { return len(op.opened()) == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "https://example.com/cat.yaml", op.opened()[0])
}

func TestPanelShowsErrors(t *testing.T) {
	cfg, _ := testConfig(t)
	op := &openSpy{err: fmt.Errorf("host not found")}
	p := newTestPanel(t, cfg, op, nil)

	p.tabs.SelectIndex(adder.RemoteTab)
	p.urlEntry.SetText("https://nowhere.invalid/cat.yaml")
	p.Submit()

	require.Eventually(t, func() bool { return p.model.State().Outcome == adder.OutcomeFailed }, 2*time.Second, 10*time.Millisecond)
	assert.True(t, p.errLabel.Visible())
	assert.Contains(t, p.errLabel.Text, "host not found")
	assert.False(t, p.progress.Visible())
	assert.False(t, p.addButton.Disabled(), "the button comes back after a failure")
}

func TestPanelEmptyNameIsSilent(t *testing.T) {
	cfg, _ := testConfig(t)
	op := &openSpy{cat: &catalog.Catalog{}}
	var called atomic.Bool
	p := newTestPanel(t, cfg, op, func(*catalog.Catalog) { called.Store(true) })

	p.list.Select(0)
	p.Submit()

	require.Eventually(t, func() bool { return p.model.State().Outcome == adder.OutcomeEmptyName }, 2*time.Second, 10*time.Millisecond)
	assert.False(t, called.Load())
	assert.False(t, p.errLabel.Visible())
}

func TestPanelDefaultRemoteTab(t *testing.T) {
	cfg, _ := testConfig(t)
	cfg.Panel.DefaultTab = config.TabRemote
	p := newTestPanel(t, cfg, &openSpy{}, nil)

	assert.Equal(t, adder.RemoteTab, p.tabs.SelectedIndex())
	assert.Equal(t, adder.RemoteTab, p.model.Active())
}

func TestAppReportsAddedCatalog(t *testing.T) {
	cfg, dir := testConfig(t)
	op := &openSpy{cat: &catalog.Catalog{
		Name:    "catalog",
		Sources: []catalog.Source{{Name: "trips", Driver: "csv"}},
	}}

	got := make(chan *catalog.Catalog, 1)
	a, err := NewApp(test.NewTempApp(t), cfg, op.open, nil, WithAddedHandler(func(c *catalog.Catalog) { got <- c }))
	require.NoError(t, err)
	t.Cleanup(a.shutdown)

	assert.Equal(t, "Catalog Adder", a.GetMainWindow().Title())

	a.Panel().list.Select(0)
	a.Panel().Submit()

	select {
	case c := <-got:
		assert.Equal(t, "catalog", c.Name)
	case <-time.After(2 * time.Second):
		t.Fatal("catalog was not reported")
	}
	assert.Equal(t, []string{filepath.Join(dir, "catalog.yaml")}, op.opened())
}

func TestDescribeCatalog(t *testing.T) {
	msg := describeCatalog(&catalog.Catalog{
		Name:    "demo",
		Sources: []catalog.Source{{Name: "a", Driver: "csv"}, {Name: "b", Driver: "parquet"}},
	})
	assert.Contains(t, msg, "demo (2 sources)")
	assert.Contains(t, msg, "a [csv]")
	assert.Contains(t, msg, "b [parquet]")
}

func TestNewAppRejectsBadFilter(t *testing.T) {
	cfg := config.New()
	cfg.Browser.Exclude = []string{"[unclosed"}
	_, err := NewApp(test.NewTempApp(t), cfg, (&openSpy{}).open, nil)
	require.Error(t, err)
}
