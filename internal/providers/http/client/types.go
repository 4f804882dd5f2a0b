package client

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
)

// ErrTooManyRedirects is reported by callers that find a redirect response
// after the redirect limit was reached.
var ErrTooManyRedirects = errors.New("stopped after too many redirects")

// RedirectError wraps an error returned by a RedirectFunc. Requests that
// fail with it are not retried.
type RedirectError struct {
	Err error
}

func (e *RedirectError) Error() string { return "redirect refused: " + e.Err.Error() }

func (e *RedirectError) Unwrap() error { return e.Err }

// RedirectFunc is called before following each redirect. Returning an error
// stops the chain.
type RedirectFunc func(req *http.Request, via []*http.Request) error

// RetryConfig defines retry behavior
type RetryConfig struct {
	MaxRetries int
	MinWait    time.Duration
	MaxWait    time.Duration
}

// Options configures a Client.
type Options struct {
	Timeout       time.Duration
	Retry         RetryConfig
	UserAgent     string
	Jar           http.CookieJar
	MaxRedirects  int
	CheckRedirect RedirectFunc
	Logger        resty.Logger
}

// Client wraps resty with the renderer's jar and redirect policy.
type Client struct {
	Resty *resty.Client

	maxRedirects int
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		Timeout: 30 * time.Second,
		Retry: RetryConfig{
			MaxRetries: 3,
			MinWait:    500 * time.Millisecond,
			MaxWait:    5 * time.Second,
		},
		UserAgent:    "Mozilla/5.0 (ceiba-dl helper)",
		MaxRedirects: 20,
	}
}

// NewClient creates an HTTP client
func NewClient(opts Options) *Client {
	defaults := DefaultOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = defaults.Timeout
	}
	if opts.Retry.MinWait <= 0 {
		opts.Retry.MinWait = defaults.Retry.MinWait
	}
	if opts.Retry.MaxWait <= 0 {
		opts.Retry.MaxWait = defaults.Retry.MaxWait
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaults.UserAgent
	}

	// Create underlying retryable client
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = opts.Retry.MaxRetries
	retryClient.RetryWaitMin = opts.Retry.MinWait
	retryClient.RetryWaitMax = opts.Retry.MaxWait
	retryClient.Logger = nil // Disable logging

	restyClient := resty.New()
	restyClient.
		SetTimeout(opts.Timeout).
		SetRetryCount(opts.Retry.MaxRetries).
		SetRetryWaitTime(opts.Retry.MinWait).
		SetRetryMaxWaitTime(opts.Retry.MaxWait).
		SetHeader("User-Agent", opts.UserAgent)

	// Configure transport settings
	restyClient.SetTransport(retryClient.HTTPClient.Transport)

	if opts.Jar != nil {
		restyClient.SetCookieJar(opts.Jar)
	}
	if opts.Logger != nil {
		restyClient.SetLogger(opts.Logger)
	}

	c := &Client{Resty: restyClient, maxRedirects: opts.MaxRedirects}
	restyClient.SetRedirectPolicy(resty.RedirectPolicyFunc(func(req *http.Request, via []*http.Request) error {
		// Past the limit the redirect response itself is returned, so
		// resty does not retry the whole chain.
		if len(via) > c.maxRedirects {
			return http.ErrUseLastResponse
		}
		if opts.CheckRedirect != nil {
			if err := opts.CheckRedirect(req, via); err != nil {
				return &RedirectError{Err: err}
			}
		}
		return nil
	}))
	restyClient.AddRetryCondition(retryable)
	return c
}

// retryable retries transport failures but not refused redirects.
func retryable(_ *resty.Response, err error) bool {
	var redirectErr *RedirectError
	return err != nil && !errors.As(err, &redirectErr)
}

// Request creates a new request with context
func (c *Client) Request(ctx context.Context) *resty.Request {
	return c.Resty.R().SetContext(ctx)
}

// Get fetches url and returns the final response of the redirect chain.
func (c *Client) Get(ctx context.Context, url string) (*resty.Response, error) {
	return c.Request(ctx).Get(url)
}

// IsRedirect reports whether status is a redirect the client would have
// followed.
func IsRedirect(status int) bool {
	switch status {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	}
	return false
}
