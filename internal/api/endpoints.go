package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// CreateAccount registers address with password. The address is sent as
// given, without case folding.
func (c *Client) CreateAccount(ctx context.Context, address, password string) (*Account, error) {
	req := CreateAccountRequest{Address: address, Password: password}
	return doJSON[Account](ctx, c, "", http.MethodPost, "/accounts", nil, req)
}

// GetAccount retrieves an account by id.
func (c *Client) GetAccount(ctx context.Context, token, id string) (*Account, error) {
	return doJSON[Account](ctx, c, token, http.MethodGet, "/accounts/"+url.PathEscape(id), nil, nil)
}

// DeleteAccount deletes an account by id.
func (c *Client) DeleteAccount(ctx context.Context, token, id string) error {
	return c.doNoContent(ctx, token, http.MethodDelete, "/accounts/"+url.PathEscape(id))
}

// Me retrieves the account the token belongs to.
func (c *Client) Me(ctx context.Context, token string) (*Account, error) {
	return doJSON[Account](ctx, c, token, http.MethodGet, "/me", nil, nil)
}

// ListDomains lists the domains accounts can be created under. A page
// below 1 leaves the page parameter out.
func (c *Client) ListDomains(ctx context.Context, page int) (*DomainCollection, error) {
	return doJSON[DomainCollection](ctx, c, "", http.MethodGet, "/domains", pageQuery(page), nil)
}

// GetDomain retrieves a domain by id.
func (c *Client) GetDomain(ctx context.Context, id string) (*Domain, error) {
	return doJSON[Domain](ctx, c, "", http.MethodGet, "/domains/"+url.PathEscape(id), nil, nil)
}

// RequestToken exchanges credentials for a bearer token.
//
// The address is lower-cased here but not in CreateAccount. The upstream
// service has always been called this way; unifying the two has not been
// verified against the live API.
func (c *Client) RequestToken(ctx context.Context, address, password string) (*Token, error) {
	req := TokenRequest{Address: strings.ToLower(address), Password: password}
	return doJSON[Token](ctx, c, "", http.MethodPost, "/token", nil, req)
}

// ListMessages lists one page of messages. Pages are 1-based; a page
// below 1 leaves the page parameter out and the server returns page 1.
func (c *Client) ListMessages(ctx context.Context, token string, page int) (*MessageCollection, error) {
	return doJSON[MessageCollection](ctx, c, token, http.MethodGet, "/messages", pageQuery(page), nil)
}

// GetMessage retrieves a full message by id.
func (c *Client) GetMessage(ctx context.Context, token, id string) (*Message, error) {
	return doJSON[Message](ctx, c, token, http.MethodGet, "/messages/"+url.PathEscape(id), nil, nil)
}

// DeleteMessage deletes a message by id.
func (c *Client) DeleteMessage(ctx context.Context, token, id string) error {
	return c.doNoContent(ctx, token, http.MethodDelete, "/messages/"+url.PathEscape(id))
}

// GetSource retrieves the raw source of a message.
func (c *Client) GetSource(ctx context.Context, token, id string) (*Source, error) {
	return doJSON[Source](ctx, c, token, http.MethodGet, "/sources/"+url.PathEscape(id), nil, nil)
}

func pageQuery(page int) url.Values {
	if page < 1 {
		return nil
	}
	return url.Values{"page": []string{strconv.Itoa(page)}}
}
