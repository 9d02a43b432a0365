package mailtm

import (
	"context"

	"github.com/mailtm/client-go/internal/api"
)

// Account is a mailbox account as returned by the API.
type Account = api.Account

// CreateAccount registers the user's address. It needs no token. The
// address is sent exactly as User.Address returns it.
func (c *Client) CreateAccount(ctx context.Context, user User) (*Account, error) {
	c.log.Debug().Stringer("user", user).Msg("Creating account")
	return c.apiClient.CreateAccount(ctx, user.Address(), user.Password)
}

// GetAccount retrieves an account by id.
func (c *Client) GetAccount(ctx context.Context, user User, id string) (*Account, error) {
	if err := requireToken(user); err != nil {
		return nil, err
	}
	return c.apiClient.GetAccount(ctx, user.Token, id)
}

// DeleteAccount deletes an account by id. Any later call for the account
// fails with a *StatusError matching ErrNotFound or ErrUnauthorized.
func (c *Client) DeleteAccount(ctx context.Context, user User, id string) error {
	if err := requireToken(user); err != nil {
		return err
	}
	c.log.Debug().Stringer("user", user).Str("id", id).Msg("Deleting account")
	return c.apiClient.DeleteAccount(ctx, user.Token, id)
}

// Me retrieves the account the user's token belongs to.
func (c *Client) Me(ctx context.Context, user User) (*Account, error) {
	if err := requireToken(user); err != nil {
		return nil, err
	}
	return c.apiClient.Me(ctx, user.Token)
}
