package mailtm

import (
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/mailtm/client-go/internal/api"
)

// Client is the mail.tm client. It holds no per-account state: every
// operation takes the User it acts for and sends exactly one request
// (helpers such as ListAllMessages and WaitForMessage send several).
// A Client is safe for concurrent use.
type Client struct {
	apiClient *api.Client
	log       zerolog.Logger
}

// buildAPIClient creates and configures an API client from the given config.
func buildAPIClient(cfg *clientConfig) (*api.Client, error) {
	apiCfg := api.Config{
		BaseURL:   cfg.baseURL,
		UserAgent: cfg.userAgent,
		Origin:    cfg.origin,
		Timeout:   cfg.timeout,
		Logger:    cfg.logger,
	}
	if cfg.httpClient != nil {
		apiCfg.HTTPClient = cfg.httpClient
	}
	if cfg.rateLimit > 0 {
		burst := cfg.rateBurst
		if burst < 1 {
			burst = 1
		}
		apiCfg.Limiter = rate.NewLimiter(cfg.rateLimit, burst)
	}
	return api.NewClient(apiCfg)
}

// New creates a new mail.tm client. No request is made.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		baseURL: defaultBaseURL,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	apiClient, err := buildAPIClient(cfg)
	if err != nil {
		return nil, err
	}

	return &Client{
		apiClient: apiClient,
		log:       cfg.logger,
	}, nil
}

// BaseURL returns the API base URL the client talks to.
func (c *Client) BaseURL() string {
	return c.apiClient.BaseURL()
}

// requireToken rejects users that have not logged in before any request
// is sent.
func requireToken(user User) error {
	if !user.HasToken() {
		return ErrMissingToken
	}
	return nil
}
