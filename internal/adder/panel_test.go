package adder_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"catadder/internal/adder"
	"catadder/internal/catalog"
	"catadder/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPanelFromConfig(t *testing.T) {
	dir := dataDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.json"), []byte("{}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("sub/\n"), 0644))

	cfg := config.New()
	cfg.Browser.Home = dir
	cfg.Browser.Filters = []string{"yaml", "json"}
	cfg.Browser.RespectGitignore = true
	cfg.Remote.Validate = true
	cfg.Panel.DefaultTab = config.TabRemote
	cfg.Panel.RecheckOnTabSwitch = true

	op := &fakeOpener{cat: &catalog.Catalog{Name: "root"}}
	p, err := adder.NewPanel(cfg, op.open, nil)
	require.NoError(t, err)

	assert.Equal(t, adder.RemoteTab, p.Active())
	assert.Equal(t, dir+string(filepath.Separator), p.Files.Path())
	assert.Equal(t, []string{"catalog.yaml", "data.json"}, p.Files.Entries())

	p.URLs.SetText("not a url")
	assert.False(t, p.Enabled())
	p.URLs.SetText("https://example.com/cat.yaml")
	assert.True(t, p.Enabled())

	require.NoError(t, p.SetActive(adder.LocalTab))
	assert.False(t, p.Enabled(), "recheck applies on tab switch")

	p.Files.Select("catalog.yaml")
	cat, err := p.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "root", cat.Name)
	assert.Equal(t, []string{filepath.Join(dir, "catalog.yaml")}, op.locations())
}

func TestNewPanelDefaults(t *testing.T) {
	op := &fakeOpener{}
	p, err := adder.NewPanel(nil, op.open, nil)
	require.NoError(t, err)
	assert.Equal(t, adder.LocalTab, p.Active())
	assert.Len(t, p.Tabs(), 2)
	assert.Equal(t, "Local", p.Tabs()[0].Name)
	assert.Equal(t, "Remote", p.Tabs()[1].Name)

	// blank URLs are ready without validation
	require.NoError(t, p.SetActive(adder.RemoteTab))
	p.URLs.SetText("")
	assert.True(t, p.Enabled())
}

func TestNewPanelRejectsBadFilters(t *testing.T) {
	cfg := config.New()
	cfg.Browser.Exclude = []string{"[bad"}
	_, err := adder.NewPanel(cfg, (&fakeOpener{}).open, nil)
	assert.Error(t, err)
}
