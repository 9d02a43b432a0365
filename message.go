package mailtm

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/mailtm/client-go/hydra"
	"github.com/mailtm/client-go/internal/api"
)

// Message is a message delivered to a mailbox. SanitizedHTML returns the
// HTML parts with unsafe markup removed.
type Message = api.Message

// MessageAddress is a sender or recipient of a message.
type MessageAddress = api.Address

// Attachment describes one attachment of a message.
type Attachment = api.Attachment

// MessageCollection is a page of messages.
type MessageCollection = hydra.Collection[Message]

// MessagePatch holds the flags UpdateMessage would change.
type MessagePatch struct {
	Seen    *bool
	Flagged *bool
}

// ListMessages lists one page of the user's messages. Pages are 1-based.
// A page below 1 sends no page parameter and the server returns its
// default, the first page.
func (c *Client) ListMessages(ctx context.Context, user User, page int) (*MessageCollection, error) {
	if err := requireToken(user); err != nil {
		return nil, err
	}
	return c.apiClient.ListMessages(ctx, user.Token, page)
}

// ListAllMessages walks every page, following hydra:next, and returns the
// members in server order.
func (c *Client) ListAllMessages(ctx context.Context, user User) ([]Message, error) {
	var all []Message
	page := 1
	for {
		coll, err := c.ListMessages(ctx, user, page)
		if err != nil {
			return nil, err
		}
		all = append(all, coll.Members...)

		next, ok := coll.NextPage()
		if !ok || coll.Len() == 0 || next <= page {
			return all, nil
		}
		page = next
	}
}

// GetMessage retrieves a full message, including text, HTML parts and
// attachments.
func (c *Client) GetMessage(ctx context.Context, user User, id string) (*Message, error) {
	if err := requireToken(user); err != nil {
		return nil, err
	}
	return c.apiClient.GetMessage(ctx, user.Token, id)
}

// GetMessages retrieves several messages with at most concurrency requests
// in flight (unbounded if concurrency < 1). The result is in ids order.
// The first failure cancels the remaining requests and is returned.
func (c *Client) GetMessages(ctx context.Context, user User, ids []string, concurrency int) ([]*Message, error) {
	if err := requireToken(user); err != nil {
		return nil, err
	}

	g, ctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	out := make([]*Message, len(ids))
	for i, id := range ids {
		g.Go(func() error {
			m, err := c.apiClient.GetMessage(ctx, user.Token, id)
			if err != nil {
				return err
			}
			out[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteMessage deletes a message by id.
func (c *Client) DeleteMessage(ctx context.Context, user User, id string) error {
	if err := requireToken(user); err != nil {
		return err
	}
	return c.apiClient.DeleteMessage(ctx, user.Token, id)
}

// UpdateMessage is not supported and always returns ErrNotImplemented
// without contacting the server.
func (c *Client) UpdateMessage(ctx context.Context, user User, id string, patch MessagePatch) error {
	return ErrNotImplemented
}
