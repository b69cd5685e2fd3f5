// Package loader retrieves the pricing CSV as text, either over HTTP from a
// base URL or from a local directory.
package loader

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"golang.org/x/sync/singleflight"

	"github.com/rshade/pricelens/internal/logging"
)

// acceptEncoding is sent on every fetch; the body is decoded by decodeBody.
const acceptEncoding = "br, gzip"

// defaultTimeout bounds a single HTTP fetch when the caller's context has no deadline.
const defaultTimeout = 30 * time.Second

// FetchError reports a retrieval that did not succeed.
type FetchError struct {
	Path       string
	Status     int
	StatusText string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to load CSV file %s: %d %s", e.Path, e.Status, e.StatusText)
}

// Loader fetches text resources. The zero value reads from the current
// directory.
type Loader struct {
	baseURL string
	root    string
	client  *http.Client
	group   singleflight.Group
}

// Option configures a Loader.
type Option func(*Loader)

// WithBaseURL makes the loader fetch paths over HTTP from baseURL.
func WithBaseURL(baseURL string) Option {
	return func(l *Loader) { l.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithRoot sets the local directory paths are resolved against.
func WithRoot(root string) Option {
	return func(l *Loader) { l.root = root }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) { l.client = c }
}

// New creates a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{
		root:   ".",
		client: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.root == "" {
		l.root = "."
	}
	return l
}

// Remote reports whether the loader fetches over HTTP.
func (l *Loader) Remote() bool {
	return l.baseURL != ""
}

// Load returns the full text of the resource at path.
//
// A leading "/" is stripped and the remainder is resolved against the base
// URL or root directory. Non-2xx responses and missing files fail with a
// *FetchError. Concurrent calls for the same path share one request.
func (l *Loader) Load(ctx context.Context, path string) (string, error) {
	rel := strings.TrimPrefix(path, "/")
	log := logging.ComponentLogger(*logging.FromContext(ctx), "loader")

	v, err, shared := l.group.Do(rel, func() (interface{}, error) {
		if l.Remote() {
			return l.fetch(ctx, rel)
		}
		return l.readFile(rel)
	})
	if err != nil {
		log.Error().Ctx(ctx).
			Str("operation", "load").
			Str("path", path).
			Err(err).
			Msg("error reading CSV file")
		return "", err
	}

	text, _ := v.(string)
	log.Debug().Ctx(ctx).
		Str("operation", "load").
		Str("path", path).
		Int("bytes", len(text)).
		Bool("shared", shared).
		Msg("loaded CSV file")
	return text, nil
}

func (l *Loader) fetch(ctx context.Context, rel string) (string, error) {
	target, err := url.JoinPath(l.baseURL, rel)
	if err != nil {
		return "", fmt.Errorf("building URL for %s: %w", rel, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("creating request for %s: %w", target, err)
	}
	req.Header.Set("Accept-Encoding", acceptEncoding)

	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", &FetchError{
			Path:       "/" + rel,
			Status:     resp.StatusCode,
			StatusText: http.StatusText(resp.StatusCode),
		}
	}

	body, err := decodeBody(resp)
	if err != nil {
		return "", fmt.Errorf("reading response body from %s: %w", target, err)
	}
	return string(body), nil
}

// decodeBody reads resp.Body, undoing a br or gzip Content-Encoding.
func decodeBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body
	switch strings.ToLower(resp.Header.Get("Content-Encoding")) {
	case "br":
		reader = brotli.NewReader(resp.Body)
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("opening gzip body: %w", err)
		}
		defer gz.Close()
		reader = gz
	case "", "identity":
		// Plain body.
	default:
		return nil, fmt.Errorf("unsupported Content-Encoding %q", resp.Header.Get("Content-Encoding"))
	}
	return io.ReadAll(reader)
}

func (l *Loader) readFile(rel string) (string, error) {
	data, err := os.ReadFile(filepath.Join(l.root, filepath.FromSlash(rel)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &FetchError{
				Path:       "/" + rel,
				Status:     http.StatusNotFound,
				StatusText: http.StatusText(http.StatusNotFound),
			}
		}
		return "", fmt.Errorf("reading %s: %w", rel, err)
	}
	return string(data), nil
}
