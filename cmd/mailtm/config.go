package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"

	mailtm "github.com/mailtm/client-go"
)

const (
	prefix      = "mailtm"
	tableFormat = `mailtm is configured via the environment, optionally seeded from a .env
file. Flags of the same name override these variables:

KEY	DEFAULT	DESCRIPTION
{{range .}}{{usage_key .}}	{{usage_default .}}	{{usage_description .}}
{{end}}`
)

// Config holds the CLI configuration. Every field is read from a MAILTM_
// environment variable and may be overridden by the flag of the same name.
type Config struct {
	BaseURL   string        `envconfig:"BASE_URL" default:"https://api.mail.tm" desc:"API base URL"`
	Address   string        `desc:"Mailbox address"`
	Password  string        `desc:"Mailbox password"`
	Token     string        `desc:"Bearer token, skips the token exchange"`
	LogLevel  string        `envconfig:"LOG_LEVEL" default:"warn" desc:"debug, info, warn or error"`
	Timeout   time.Duration `default:"30s" desc:"Per-request timeout"`
	RateLimit float64       `envconfig:"RATE_LIMIT" default:"8" desc:"Requests per second, 0 disables"`
	RateBurst int           `envconfig:"RATE_BURST" default:"1" desc:"Request burst"`
}

// LoadConfig seeds the environment from envFile when it exists and parses
// the MAILTM_ variables. Variables already set take precedence over the
// file.
func LoadConfig(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	c := &Config{}
	if err := envconfig.Process(prefix, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Usage prints the environment variables the CLI understands.
func Usage(w io.Writer) error {
	tabs := tabwriter.NewWriter(w, 1, 0, 4, ' ', 0)
	if err := envconfig.Usagef(prefix, &Config{}, tabs, tableFormat); err != nil {
		return err
	}
	return tabs.Flush()
}

// RegisterFlags binds the top-level flags, defaulting to the values
// already loaded from the environment.
func (c *Config) RegisterFlags(f *flag.FlagSet) {
	f.StringVar(&c.BaseURL, "base-url", c.BaseURL, "API base URL")
	f.StringVar(&c.Address, "address", c.Address, "mailbox address")
	f.StringVar(&c.Password, "password", c.Password, "mailbox password")
	f.StringVar(&c.Token, "token", c.Token, "bearer token")
	f.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level")
	f.DurationVar(&c.Timeout, "timeout", c.Timeout, "per-request timeout")
}

// Logger returns a console logger on w at the configured level.
func (c *Config) Logger(w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("log level: %w", err)
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger(), nil
}

// Client builds a mail.tm client from the configuration.
func (c *Config) Client(log zerolog.Logger) (*mailtm.Client, error) {
	opts := []mailtm.Option{
		mailtm.WithBaseURL(c.BaseURL),
		mailtm.WithTimeout(c.Timeout),
		mailtm.WithLogger(log),
	}
	if c.RateLimit > 0 {
		opts = append(opts, mailtm.WithRateLimit(c.RateLimit, c.RateBurst))
	}
	return mailtm.New(opts...)
}

// User returns the configured mailbox. The address is split at its last @.
func (c *Config) User() (mailtm.User, error) {
	if c.Address == "" {
		return mailtm.User{Token: c.Token}, nil
	}
	i := strings.LastIndex(c.Address, "@")
	if i <= 0 || i == len(c.Address)-1 {
		return mailtm.User{}, fmt.Errorf("invalid address %q", c.Address)
	}
	return mailtm.NewUser(c.Address[:i], c.Address[i+1:], c.Password).WithToken(c.Token), nil
}
