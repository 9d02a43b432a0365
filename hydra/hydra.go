// Package hydra models the Hydra hypermedia collection envelope the mail.tm
// API wraps every list response in.
//
// A page of results looks like:
//
//	{
//	  "hydra:member": [ ... ],
//	  "hydra:totalItems": 42,
//	  "hydra:view": {"@id": "/messages?page=2", "hydra:next": "/messages?page=3", ...},
//	  "hydra:search": {"hydra:template": "/messages{?page}", ...}
//	}
//
// [Collection] maps those keys onto Members, TotalItems, View and Search.
// Member order is the order the server returned and is never re-sorted.
package hydra

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

// ErrMissingMembers is returned by Validate when the hydra:member key is absent.
var ErrMissingMembers = errors.New("hydra: missing hydra:member")

// Metadata holds the JSON-LD keys carried by every hypermedia document.
// They are opaque to the client and never drive control flow.
type Metadata struct {
	Context string `json:"@context,omitempty"`
	ID      string `json:"@id,omitempty"`
	Type    string `json:"@type,omitempty"`
}

// Collection is one page of a paginated API result.
type Collection[T any] struct {
	Metadata
	Members    []T     `json:"hydra:member"`
	TotalItems int     `json:"hydra:totalItems"`
	View       *View   `json:"hydra:view,omitempty"`
	Search     *Search `json:"hydra:search,omitempty"`
}

// View describes where the page sits in the full result set.
type View struct {
	ID       string `json:"@id,omitempty"`
	Type     string `json:"@type,omitempty"`
	First    string `json:"hydra:first,omitempty"`
	Last     string `json:"hydra:last,omitempty"`
	Previous string `json:"hydra:previous,omitempty"`
	Next     string `json:"hydra:next,omitempty"`
}

// Search describes the URI template the server accepts for filtering.
type Search struct {
	Type                   string    `json:"@type,omitempty"`
	Template               string    `json:"hydra:template,omitempty"`
	VariableRepresentation string    `json:"hydra:variableRepresentation,omitempty"`
	Mapping                []Mapping `json:"hydra:mapping,omitempty"`
}

// Mapping binds one template variable to a resource property.
type Mapping struct {
	Type     string `json:"@type,omitempty"`
	Variable string `json:"variable"`
	Property string `json:"property,omitempty"`
	Required bool   `json:"required"`
}

// Validator is implemented by decoded values that can check their own shape.
type Validator interface {
	Validate() error
}

// Len returns the number of members on this page.
func (c *Collection[T]) Len() int {
	return len(c.Members)
}

// First returns the first member of the page.
func (c *Collection[T]) First() (T, bool) {
	var zero T
	if len(c.Members) == 0 {
		return zero, false
	}
	return c.Members[0], true
}

// Validate checks the envelope invariants: members are present, the page
// is not larger than the total, and every member that can validate itself
// does so successfully.
func (c *Collection[T]) Validate() error {
	if c.Members == nil {
		return ErrMissingMembers
	}
	if len(c.Members) > c.TotalItems {
		return fmt.Errorf("hydra: %d members exceed hydra:totalItems %d", len(c.Members), c.TotalItems)
	}
	for i := range c.Members {
		if v, ok := any(&c.Members[i]).(Validator); ok {
			if err := v.Validate(); err != nil {
				return fmt.Errorf("hydra: member %d: %w", i, err)
			}
		}
	}
	return nil
}

// NextPage returns the page number of the hydra:next link.
func (c *Collection[T]) NextPage() (int, bool) {
	if c.View == nil {
		return 0, false
	}
	return PageOf(c.View.Next)
}

// LastPage returns the page number of the hydra:last link.
func (c *Collection[T]) LastPage() (int, bool) {
	if c.View == nil {
		return 0, false
	}
	return PageOf(c.View.Last)
}

// PageOf extracts the page query parameter from a view link such as
// "/messages?page=3".
func PageOf(link string) (int, bool) {
	if link == "" {
		return 0, false
	}
	u, err := url.Parse(link)
	if err != nil {
		return 0, false
	}
	page, err := strconv.Atoi(u.Query().Get("page"))
	if err != nil || page < 1 {
		return 0, false
	}
	return page, true
}
