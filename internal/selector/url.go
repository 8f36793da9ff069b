package selector

import (
	"net/url"
	"strings"
	"sync"
)

// URLSelector captures a remote catalog location typed by the user
type URLSelector struct {
	notifier

	validate bool

	mu   sync.Mutex
	text string
}

// URLOption configures a URLSelector
type URLOption func(*URLSelector)

// WithURLValidation only reports ready for absolute URLs with a host
func WithURLValidation() URLOption {
	return func(u *URLSelector) { u.validate = true }
}

// NewURLSelector creates an empty URL selector
func NewURLSelector(opts ...URLOption) *URLSelector {
	u := &URLSelector{}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// URL returns the text verbatim
func (u *URLSelector) URL() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.text
}

// SetText stores the edited text and publishes readiness. Without
// validation every edit is ready, blank text included.
func (u *URLSelector) SetText(text string) {
	u.mu.Lock()
	u.text = text
	u.mu.Unlock()

	ready := true
	if u.validate {
		ready = IsAbsoluteURL(text)
	}
	u.publish(ready)
}

// IsAbsoluteURL reports whether s parses as a URL with a scheme and a host,
// or as a file:// URL with a path.
func IsAbsoluteURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	parsed, err := url.Parse(s)
	if err != nil || len(parsed.Scheme) < 2 {
		return false
	}
	if parsed.Scheme == "file" {
		return parsed.Path != ""
	}
	return parsed.Host != ""
}
