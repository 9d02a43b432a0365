package mailtm

import (
	"context"

	"github.com/mailtm/client-go/internal/api"
)

// Source is the raw RFC 5322 source of a message. Envelope parses it.
type Source = api.Source

// GetSource retrieves the raw source of a message.
func (c *Client) GetSource(ctx context.Context, user User, id string) (*Source, error) {
	if err := requireToken(user); err != nil {
		return nil, err
	}
	return c.apiClient.GetSource(ctx, user.Token, id)
}
