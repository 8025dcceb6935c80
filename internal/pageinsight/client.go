package pageinsight

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/html/charset"
)

// Fetcher retrieves the raw HTML of a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

const (
	// DefaultFetchTimeout bounds a single page fetch when no option overrides it.
	DefaultFetchTimeout = 10 * time.Second

	// maxRedirects matches the net/http default so the hop limit is the
	// transport's own.
	maxRedirects    = 10
	maxResponseBody = 10 << 20 // 10 MB
	userAgent       = "SEOAnalyzerBot/1.0"
)

var (
	errInvalidURL       = errors.New("url must be an absolute http(s) URL")
	errTooManyRedirects = errors.New("too many redirects")
	errBlockedRedirect  = errors.New("redirect to non-http(s) scheme blocked")
)

// FetchError reports why a page could not be retrieved. Network failures,
// timeouts, TLS problems, malformed URLs and non-2xx statuses all share this
// one type; StatusCode is set only for the latter and is informational.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// HTTPClient implements Fetcher using a real HTTP client.
type HTTPClient struct {
	client *http.Client
}

type clientOptions struct {
	timeout      time.Duration
	allowPrivate bool
}

// Option configures an HTTPClient.
type Option func(*clientOptions)

// WithTimeout sets the overall deadline for each fetch, redirects included.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = d
	}
}

// WithPrivateNetworks controls whether private and reserved addresses may be
// dialed. They are blocked by default. The client never uses a proxy, since
// the dialer would then only see the proxy's address and the block would not
// apply to the target.
func WithPrivateNetworks(allow bool) Option {
	return func(o *clientOptions) {
		o.allowPrivate = allow
	}
}

// NewHTTPClient returns a Fetcher backed by an http.Client with a bounded
// timeout, a dedicated transport that blocks connections to private/reserved
// IP ranges, and redirect validation that prevents SSRF via redirect chains.
func NewHTTPClient(opts ...Option) *HTTPClient {
	o := clientOptions{timeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	return &HTTPClient{
		client: &http.Client{
			Timeout: o.timeout,
			Transport: &http.Transport{
				DialContext:         newDialer(o.allowPrivate).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
			CheckRedirect: safeRedirectPolicy,
		},
	}
}

// safeRedirectPolicy validates redirect targets and limits the redirect chain length.
func safeRedirectPolicy(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return fmt.Errorf("%w: stopped after %d", errTooManyRedirects, maxRedirects)
	}
	if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
		return fmt.Errorf("%w: %s", errBlockedRedirect, req.URL.Scheme)
	}
	return nil
}

// Fetch performs a single GET and returns the body decoded to UTF-8.
// Any failure, including a non-2xx status, is returned as a *FetchError.
func (c *HTTPClient) Fetch(ctx context.Context, targetURL string) (string, error) {
	if err := validateURL(targetURL); err != nil {
		return "", &FetchError{URL: targetURL, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return "", &FetchError{URL: targetURL, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: targetURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &FetchError{URL: targetURL, StatusCode: resp.StatusCode}
	}

	body, err := readBody(resp)
	if err != nil {
		return "", &FetchError{URL: targetURL, Err: err}
	}
	return body, nil
}

// readBody reads at most maxResponseBody bytes and converts them to UTF-8
// using the Content-Type charset or, failing that, the document's own
// declaration.
func readBody(resp *http.Response) (string, error) {
	limited := io.LimitReader(resp.Body, maxResponseBody)

	r, err := charset.NewReader(limited, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("decode body: %w", err)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(data), nil
}

func validateURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("%w: empty", errInvalidURL)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %w", errInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: unsupported scheme %q", errInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", errInvalidURL)
	}
	return nil
}
