package mailtm

import (
	"net/http"
	"regexp"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/mailtm/client-go/internal/api"
)

const (
	defaultBaseURL     = api.DefaultBaseURL
	defaultWaitTimeout = 60 * time.Second
)

// Polling parameters used by WaitForMessage.
const (
	PollingInitialInterval   = 2 * time.Second
	PollingMaxBackoff        = 30 * time.Second
	PollingBackoffMultiplier = 1.5
	PollingJitterFactor      = 0.3
)

// clientConfig holds configuration for the client.
type clientConfig struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
	origin     string
	logger     zerolog.Logger
	rateLimit  rate.Limit
	rateBurst  int
}

// waitConfig holds configuration for waiting on messages.
type waitConfig struct {
	subject      string
	subjectRegex *regexp.Regexp
	from         string
	fromRegex    *regexp.Regexp
	predicate    func(*Message) bool
	timeout      time.Duration
	pollInterval time.Duration
}

// Option configures the client.
type Option func(*clientConfig)

// WaitOption configures message waiting.
type WaitOption func(*waitConfig)

// WithBaseURL sets the API base URL. Tests use it to point the client at
// a fake server.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client. Its own Timeout is used and
// WithTimeout has no effect.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
// Default: 30 seconds
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithUserAgent sets the User-Agent header sent on every request.
func WithUserAgent(userAgent string) Option {
	return func(c *clientConfig) {
		c.userAgent = userAgent
	}
}

// WithOrigin sets the Origin header sent on every request.
// Default: https://mail.tm
func WithOrigin(origin string) Option {
	return func(c *clientConfig) {
		c.origin = origin
	}
}

// WithLogger sets the logger. Requests are logged at debug level and
// response bodies at trace level. Default: zerolog.Nop()
func WithLogger(logger zerolog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithRateLimit throttles outgoing requests to r per second with the given
// burst. Requests wait for a slot; they are never dropped or retried.
// mail.tm allows 8 requests per second per IP.
func WithRateLimit(r float64, burst int) Option {
	return func(c *clientConfig) {
		c.rateLimit = rate.Limit(r)
		c.rateBurst = burst
	}
}

// WithSubject filters messages by exact subject match.
func WithSubject(subject string) WaitOption {
	return func(c *waitConfig) {
		c.subject = subject
	}
}

// WithSubjectRegex filters messages by subject regex.
func WithSubjectRegex(pattern *regexp.Regexp) WaitOption {
	return func(c *waitConfig) {
		c.subjectRegex = pattern
	}
}

// WithFrom filters messages by exact sender address match.
func WithFrom(from string) WaitOption {
	return func(c *waitConfig) {
		c.from = from
	}
}

// WithFromRegex filters messages by sender address regex.
func WithFromRegex(pattern *regexp.Regexp) WaitOption {
	return func(c *waitConfig) {
		c.fromRegex = pattern
	}
}

// WithPredicate filters messages by custom predicate. The predicate sees
// the list view of a message, which carries the envelope and intro but
// not the body.
func WithPredicate(fn func(*Message) bool) WaitOption {
	return func(c *waitConfig) {
		c.predicate = fn
	}
}

// WithWaitTimeout sets the timeout for waiting.
// Default: 60 seconds
func WithWaitTimeout(timeout time.Duration) WaitOption {
	return func(c *waitConfig) {
		c.timeout = timeout
	}
}

// WithPollInterval sets the initial polling interval.
// Default: 2 seconds
func WithPollInterval(interval time.Duration) WaitOption {
	return func(c *waitConfig) {
		c.pollInterval = interval
	}
}

// Matches checks if a message matches the wait criteria.
func (w *waitConfig) Matches(m *Message) bool {
	if w.subject != "" && m.Subject != w.subject {
		return false
	}
	if w.subjectRegex != nil && !w.subjectRegex.MatchString(m.Subject) {
		return false
	}
	if w.from != "" && m.From.Address != w.from {
		return false
	}
	if w.fromRegex != nil && !w.fromRegex.MatchString(m.From.Address) {
		return false
	}
	if w.predicate != nil && !w.predicate(m) {
		return false
	}
	return true
}
