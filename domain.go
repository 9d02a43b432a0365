package mailtm

import (
	"context"

	"github.com/mailtm/client-go/internal/api"
)

// Domain is a domain mailboxes can be registered under.
type Domain = api.Domain

// DomainCollection is a page of domains. AddressList returns the domain
// names in server order; Pick selects one member with a caller supplied
// *rand.Rand so the choice is reproducible.
type DomainCollection = api.DomainCollection

// ListDomains lists the public domains. It needs no token.
func (c *Client) ListDomains(ctx context.Context) (*DomainCollection, error) {
	return c.apiClient.ListDomains(ctx, 0)
}

// GetDomain retrieves a domain by id. It needs no token.
func (c *Client) GetDomain(ctx context.Context, id string) (*Domain, error) {
	return c.apiClient.GetDomain(ctx, id)
}
