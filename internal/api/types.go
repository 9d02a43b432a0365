package api

import (
	"encoding/json"
	"errors"
	"math/rand"

	"github.com/mailtm/client-go/hydra"
)

// Account represents a mailbox account.
// Password is only ever sent when creating an account; the server never
// returns it.
type Account struct {
	hydra.Metadata
	ID         string `json:"id,omitempty"`
	Address    string `json:"address"`
	Password   string `json:"password,omitempty"`
	Quota      int64  `json:"quota"`
	Used       int64  `json:"used"`
	IsDisabled bool   `json:"isDisabled"`
	IsDeleted  bool   `json:"isDeleted"`
	CreatedAt  string `json:"createdAt,omitempty"`
	UpdatedAt  string `json:"updatedAt,omitempty"`
}

// Validate implements hydra.Validator.
func (a *Account) Validate() error {
	if a.Address == "" {
		return errors.New("account: missing address")
	}
	return nil
}

// CreateAccountRequest represents the POST /accounts request.
type CreateAccountRequest struct {
	Address  string `json:"address"`
	Password string `json:"password"`
}

// Domain represents a domain mailboxes can be registered under.
type Domain struct {
	hydra.Metadata
	ID        string `json:"id"`
	Domain    string `json:"domain"`
	IsActive  bool   `json:"isActive"`
	IsPrivate bool   `json:"isPrivate"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// Validate implements hydra.Validator.
func (d *Domain) Validate() error {
	if d.Domain == "" {
		return errors.New("domain: missing domain")
	}
	return nil
}

// DomainCollection is a page of domains.
type DomainCollection struct {
	hydra.Collection[Domain]
}

// AddressList returns the domain names in member order.
func (c *DomainCollection) AddressList() []string {
	names := make([]string, 0, len(c.Members))
	for _, d := range c.Members {
		names = append(names, d.Domain)
	}
	return names
}

// Pick returns a member chosen by r. The same seed always yields the same
// domain for the same page.
func (c *DomainCollection) Pick(r *rand.Rand) (Domain, bool) {
	if len(c.Members) == 0 {
		return Domain{}, false
	}
	return c.Members[r.Intn(len(c.Members))], true
}

// Address is a mailbox and optional display name.
type Address struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

// Attachment describes one attachment of a message.
type Attachment struct {
	ID               string `json:"id"`
	Filename         string `json:"filename"`
	ContentType      string `json:"contentType"`
	Disposition      string `json:"disposition"`
	TransferEncoding string `json:"transferEncoding"`
	Related          bool   `json:"related"`
	Size             int64  `json:"size"`
	DownloadURL      string `json:"downloadUrl"`
}

// Message represents a message delivered to a mailbox. List responses
// carry only the envelope and intro; Text, HTML and Attachments are filled
// in by GET /messages/{id}.
type Message struct {
	hydra.Metadata
	ID             string            `json:"id"`
	AccountID      string            `json:"accountId,omitempty"`
	MsgID          string            `json:"msgid,omitempty"`
	From           Address           `json:"from"`
	To             []Address         `json:"to"`
	CC             []json.RawMessage `json:"cc,omitempty"`
	BCC            []json.RawMessage `json:"bcc,omitempty"`
	Subject        string            `json:"subject"`
	Intro          string            `json:"intro,omitempty"`
	Seen           bool              `json:"seen"`
	Flagged        bool              `json:"flagged"`
	IsDeleted      bool              `json:"isDeleted"`
	Verifications  json.RawMessage   `json:"verifications,omitempty"`
	Retention      bool              `json:"retention"`
	RetentionDate  string            `json:"retentionDate,omitempty"`
	Text           string            `json:"text,omitempty"`
	HTML           []string          `json:"html,omitempty"`
	HasAttachments bool              `json:"hasAttachments"`
	Attachments    []Attachment      `json:"attachments,omitempty"`
	Size           int64             `json:"size"`
	DownloadURL    string            `json:"downloadUrl"`
	CreatedAt      string            `json:"createdAt,omitempty"`
	UpdatedAt      string            `json:"updatedAt,omitempty"`
}

// Validate implements hydra.Validator.
func (m *Message) Validate() error {
	if m.ID == "" {
		return errors.New("message: missing id")
	}
	return nil
}

// MessageCollection is a page of messages.
type MessageCollection = hydra.Collection[Message]

// Token is a bearer token issued by POST /token.
type Token struct {
	ID    string `json:"id"`
	Token string `json:"token"`
}

// Validate implements hydra.Validator.
func (t *Token) Validate() error {
	if t.Token == "" {
		return errors.New("token: missing token")
	}
	return nil
}

// TokenRequest represents the POST /token request.
type TokenRequest struct {
	Address  string `json:"address"`
	Password string `json:"password"`
}

// Source is the raw RFC 5322 source of a message.
type Source struct {
	hydra.Metadata
	ID          string `json:"id"`
	DownloadURL string `json:"downloadUrl"`
	Data        string `json:"data"`
}

// Validate implements hydra.Validator.
func (s *Source) Validate() error {
	if s.ID == "" {
		return errors.New("source: missing id")
	}
	return nil
}
