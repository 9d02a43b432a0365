package mailtm

import (
	"context"

	"github.com/mailtm/client-go/internal/api"
)

// Token is a bearer token issued for an account.
type Token = api.Token

// RequestToken exchanges the user's credentials for a token. It needs no
// token itself.
//
// Unlike CreateAccount, the address is lower-cased before it is sent.
// This mirrors how the service has always been called and is kept until
// it is verified that the two can be unified.
func (c *Client) RequestToken(ctx context.Context, user User) (*Token, error) {
	c.log.Debug().Stringer("user", user).Msg("Requesting token")
	return c.apiClient.RequestToken(ctx, user.Address(), user.Password)
}

// Login requests a token and returns a copy of user carrying it. The
// given user is not modified.
func (c *Client) Login(ctx context.Context, user User) (User, error) {
	token, err := c.RequestToken(ctx, user)
	if err != nil {
		return User{}, err
	}
	return user.WithToken(token.Token), nil
}
