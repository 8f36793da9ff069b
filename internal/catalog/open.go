package catalog

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"catadder/internal/errors"
	"catadder/internal/log"

	"github.com/mitchellh/go-homedir"
)

const maxCatalogSize = 10 * 1024 * 1024

// Opener loads catalogs from the local file system and over HTTP
type Opener struct {
	client    *http.Client
	userAgent string
}

// Option configures an Opener
type Option func(*Opener)

// WithTimeout bounds each remote request
func WithTimeout(d time.Duration) Option {
	return func(o *Opener) { o.client.Timeout = d }
}

// WithUserAgent sets the User-Agent header for remote requests
func WithUserAgent(ua string) Option {
	return func(o *Opener) { o.userAgent = ua }
}

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(o *Opener) { o.client = c }
}

// NewOpener creates an Opener
func NewOpener(opts ...Option) *Opener {
	o := &Opener{
		client:    &http.Client{Timeout: 10 * time.Second},
		userAgent: "catadder/1.0",
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Open reads and parses the catalog at location. Locations may be local
// paths (with ~ expansion), file:// URLs, or http(s) URLs.
func (o *Opener) Open(ctx context.Context, location string) (*Catalog, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, errors.NewCatalogError("failed to open catalog", "", errors.CatalogOpenFailed,
			errors.New("empty location"))
	}

	var (
		data []byte
		err  error
	)
	u, perr := url.Parse(location)
	switch {
	case perr == nil && (u.Scheme == "http" || u.Scheme == "https"):
		data, err = o.fetch(ctx, location)
	case perr == nil && u.Scheme == "file":
		data, err = readLocal(u.Path)
	case perr == nil && isURLScheme(u.Scheme):
		err = fmt.Errorf("unsupported scheme %q", u.Scheme)
	default:
		data, err = readLocal(location)
	}
	if err != nil {
		log.LogWithFields(log.F("location", location), log.F("error", err)).Debug("catalog open failed")
		return nil, errors.NewCatalogError("failed to open catalog", location, errors.CatalogOpenFailed, err)
	}

	cat, err := Parse(data, location)
	if err != nil {
		return nil, err
	}
	log.LogWithFields(log.F("location", location), log.F("name", cat.Name), log.F("sources", len(cat.Sources))).
		Debug("catalog opened")
	return cat, nil
}

// Open opens location with a default Opener
func Open(ctx context.Context, location string) (*Catalog, error) {
	return NewOpener().Open(ctx, location)
}

func readLocal(p string) ([]byte, error) {
	expanded, err := homedir.Expand(p)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewFileError("file not found", expanded, errors.FileNotFound, nil)
		}
		if os.IsPermission(err) {
			return nil, errors.NewFileError("file access denied", expanded, errors.FileAccessDenied, err)
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, errors.NewFileError("is a directory", expanded, errors.InvalidPath, nil)
	}
	if info.Size() > maxCatalogSize {
		return nil, fmt.Errorf("catalog larger than %d bytes", maxCatalogSize)
	}
	return os.ReadFile(expanded)
}

func (o *Opener) fetch(ctx context.Context, raw string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, raw, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", o.userAgent)
	req.Header.Set("Accept", "application/yaml, text/yaml, text/plain, */*")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxCatalogSize {
		return nil, fmt.Errorf("catalog larger than %d bytes", maxCatalogSize)
	}
	return data, nil
}

// classify prefixes transport failures with a short readable reason.
// The cause stays in the chain.
func classify(err error) error {
	switch {
	case isTimeout(err):
		return fmt.Errorf("request timeout: %w", err)
	case isDNSError(err):
		return fmt.Errorf("host not found: %w", err)
	case isRefused(err):
		return fmt.Errorf("connection refused: %w", err)
	}
	return err
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return false
}

func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "no such host") || strings.Contains(msg, "server misbehaving")
}

func isRefused(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

