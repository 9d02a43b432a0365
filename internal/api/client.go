package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/http/httpguts"
	"golang.org/x/time/rate"

	"github.com/mailtm/client-go/internal/apierrors"
)

// Default configuration values.
const (
	DefaultBaseURL   = "https://api.mail.tm"
	DefaultOrigin    = "https://mail.tm"
	DefaultUserAgent = "mailtm-go"
	DefaultTimeout   = 30 * time.Second
)

const contentTypeJSON = "application/json;charset=utf-8"

// Doer sends a single HTTP request. *http.Client satisfies it; tests
// substitute their own.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config holds the settings for NewClient. Zero values select defaults.
type Config struct {
	BaseURL    string
	UserAgent  string
	Origin     string
	HTTPClient Doer
	// Timeout applies to the default HTTP client only; a caller supplied
	// HTTPClient keeps its own timeout.
	Timeout time.Duration
	// Limiter throttles outgoing requests when set.
	Limiter *rate.Limiter
	Logger  zerolog.Logger
}

// Client is the HTTP API client. It holds only immutable configuration
// and is safe for concurrent use.
type Client struct {
	baseURL    string
	userAgent  string
	origin     string
	httpClient Doer
	limiter    *rate.Limiter
	log        zerolog.Logger
}

// NewClient creates a new API client from cfg.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", cfg.BaseURL)
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Origin == "" {
		cfg.Origin = DefaultOrigin
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		origin:     cfg.Origin,
		httpClient: cfg.HTTPClient,
		limiter:    cfg.Limiter,
		log:        cfg.Logger,
	}, nil
}

// BaseURL returns the API base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Session is a request-scoped client: the default header set plus, when
// a token was given, the bearer authorization. A fresh Session is built
// for every call so authorization never leaks between unrelated calls.
type Session struct {
	client        *Client
	header        http.Header
	authenticated bool
}

// NewSession builds the header set for one request. An empty token yields
// an unauthenticated session.
func (c *Client) NewSession(token string) (*Session, error) {
	h := make(http.Header, 5)
	h.Set("User-Agent", c.userAgent)
	h.Set("Origin", c.origin)
	// Go's HTTP/2 transport only accepts the lowercase spelling.
	h.Set("TE", "trailers")
	h.Set("Content-Type", contentTypeJSON)
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}

	for name, values := range h {
		for _, v := range values {
			if !httpguts.ValidHeaderFieldValue(v) {
				return nil, &apierrors.TransportError{
					Err: fmt.Errorf("invalid value for header %s", name),
				}
			}
		}
	}

	return &Session{client: c, header: h, authenticated: token != ""}, nil
}

// Header returns a copy of the session headers.
func (s *Session) Header() http.Header {
	return s.header.Clone()
}

// Do sends one request and returns the raw response. Failures to build or
// send the request are returned as *apierrors.TransportError.
func (s *Session) Do(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, error) {
	target := s.client.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, transportError(method, target, fmt.Errorf("marshal request body: %w", err))
		}
		bodyReader = bytes.NewReader(data)
	}

	if s.client.limiter != nil {
		if err := s.client.limiter.Wait(ctx); err != nil {
			return nil, transportError(method, target, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return nil, transportError(method, target, err)
	}
	req.Header = s.header.Clone()

	s.client.log.Debug().
		Str("method", method).
		Str("url", target).
		Bool("auth", s.authenticated).
		Msg("Sending request")

	resp, err := s.client.httpClient.Do(req)
	if err != nil {
		return nil, transportError(method, target, err)
	}
	return resp, nil
}

func transportError(method, target string, err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}
	return &apierrors.TransportError{Method: method, URL: target, Err: err}
}

// doJSON performs one request with a fresh session and decodes the
// response into T.
func doJSON[T any](ctx context.Context, c *Client, token, method, path string, query url.Values, body any) (*T, error) {
	s, err := c.NewSession(token)
	if err != nil {
		return nil, err
	}
	resp, err := s.Do(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}
	return decode[T](c.log, resp)
}

// doNoContent performs one request whose response body is ignored.
func (c *Client) doNoContent(ctx context.Context, token, method, path string) error {
	s, err := c.NewSession(token)
	if err != nil {
		return err
	}
	resp, err := s.Do(ctx, method, path, nil, nil)
	if err != nil {
		return err
	}
	_, err = readChecked(c.log, resp)
	return err
}
