package adder

import (
	"catadder/internal/catalog"
	"catadder/internal/config"
	"catadder/internal/errors"
	"catadder/internal/selector"
)

// Tab indexes of a Panel
const (
	LocalTab  = 0
	RemoteTab = 1
)

// Panel is the standard two-tab arrangement: local files and remote URLs
type Panel struct {
	*Adder
	Files *selector.FileSelector
	URLs  *selector.URLSelector
}

// NewPanel builds the selectors and the Adder described by cfg
func NewPanel(cfg *config.Config, open catalog.OpenFunc, done DoneFunc, opts ...Option) (*Panel, error) {
	if cfg == nil {
		cfg = config.New()
	}

	filter, err := selector.NewFilter(cfg.Browser.Filters, cfg.Browser.Exclude)
	if err != nil {
		return nil, errors.NewConfigError("invalid browser filter", "browser.filters", errors.InvalidConfig, err)
	}
	files := selector.NewFileSelector(cfg.HomeDir(),
		selector.WithFilter(filter),
		selector.WithGitignore(cfg.Browser.RespectGitignore),
	)

	var urlOpts []selector.URLOption
	if cfg.Remote.Validate {
		urlOpts = append(urlOpts, selector.WithURLValidation())
	}
	urls := selector.NewURLSelector(urlOpts...)

	opts = append([]Option{WithRecheckOnTabSwitch(cfg.Panel.RecheckOnTabSwitch)}, opts...)
	a := New(open, done, []Tab{
		{Name: "Local", Selector: files},
		{Name: "Remote", Selector: urls},
	}, opts...)

	if cfg.Panel.DefaultTab == config.TabRemote {
		if err := a.SetActive(RemoteTab); err != nil {
			return nil, err
		}
	}

	return &Panel{Adder: a, Files: files, URLs: urls}, nil
}
