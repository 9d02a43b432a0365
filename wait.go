package mailtm

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// WaitForMessage polls the first page of the user's messages until one
// matches the given criteria and returns it in full.
//
// Polling starts at the poll interval and backs off by
// PollingBackoffMultiplier up to PollingMaxBackoff, with jitter. Errors
// from a poll are returned at once; nothing is retried. When the wait
// timeout expires a *TimeoutError is returned.
//
// Example:
//
//	msg, err := client.WaitForMessage(ctx, user,
//	    mailtm.WithSubjectRegex(regexp.MustCompile(`(?i)verify`)),
//	    mailtm.WithWaitTimeout(2*time.Minute),
//	)
func (c *Client) WaitForMessage(ctx context.Context, user User, opts ...WaitOption) (*Message, error) {
	msgs, err := c.waitFor(ctx, user, 1, opts)
	if err != nil {
		return nil, err
	}
	return msgs[0], nil
}

// WaitForMessageCount waits until at least count matching messages are
// found and returns the first count of them in full.
func (c *Client) WaitForMessageCount(ctx context.Context, user User, count int, opts ...WaitOption) ([]*Message, error) {
	if count < 0 {
		return nil, fmt.Errorf("count must be non-negative, got %d", count)
	}
	if count == 0 {
		return []*Message{}, nil
	}
	return c.waitFor(ctx, user, count, opts)
}

func (c *Client) waitFor(ctx context.Context, user User, count int, opts []WaitOption) ([]*Message, error) {
	if err := requireToken(user); err != nil {
		return nil, err
	}

	cfg := &waitConfig{
		timeout:      defaultWaitTimeout,
		pollInterval: PollingInitialInterval,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.timeout <= 0 {
		cfg.timeout = defaultWaitTimeout
	}
	if cfg.pollInterval <= 0 {
		cfg.pollInterval = PollingInitialInterval
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	// Track matched IDs across polls; pages shift as mail arrives.
	seen := make(map[string]struct{})
	var matched []string

	interval := cfg.pollInterval
	for {
		page, err := c.apiClient.ListMessages(ctx, user.Token, 1)
		if err != nil {
			return nil, c.waitError(ctx, cfg, err)
		}
		for i := range page.Members {
			m := &page.Members[i]
			if _, ok := seen[m.ID]; ok || !cfg.Matches(m) {
				continue
			}
			seen[m.ID] = struct{}{}
			matched = append(matched, m.ID)
		}

		if len(matched) >= count {
			c.log.Debug().Stringer("user", user).Int("matched", len(matched)).Msg("Wait satisfied")
			msgs, err := c.GetMessages(ctx, user, matched[:count], 0)
			if err != nil {
				return nil, c.waitError(ctx, cfg, err)
			}
			return msgs, nil
		}

		timer := time.NewTimer(jitter(interval))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, c.waitError(ctx, cfg, ctx.Err())
		case <-timer.C:
		}
		interval = nextInterval(interval)
	}
}

// waitError turns an expired wait deadline into a *TimeoutError and passes
// everything else through.
func (c *Client) waitError(ctx context.Context, cfg *waitConfig, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &TimeoutError{Operation: "wait for message", Timeout: cfg.timeout, Err: err}
	}
	return err
}

func nextInterval(d time.Duration) time.Duration {
	next := time.Duration(float64(d) * PollingBackoffMultiplier)
	if next > PollingMaxBackoff {
		next = PollingMaxBackoff
	}
	return next
}

func jitter(d time.Duration) time.Duration {
	return d + time.Duration(rand.Float64()*PollingJitterFactor*float64(d))
}
