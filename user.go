package mailtm

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// User carries the credentials of one mailbox. It is a value: the With
// methods return modified copies and never touch the receiver, so a User
// can be shared between goroutines.
type User struct {
	// LocalID is the part of the address before the @.
	LocalID string
	// Domain is the part after the @. It must be one of ListDomains.
	Domain   string
	Password string
	// Token is the bearer token, empty until a token exchange succeeds.
	Token string
}

// NewUser returns a user without a token.
func NewUser(localID, domain, password string) User {
	return User{LocalID: localID, Domain: domain, Password: password}
}

// RandomUser returns a user under domain with a random local part and
// password.
func RandomUser(domain string) (User, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return User{}, fmt.Errorf("generate local id: %w", err)
	}
	secret := make([]byte, 16)
	if _, err := rand.Read(secret); err != nil {
		return User{}, fmt.Errorf("generate password: %w", err)
	}
	return User{
		LocalID:  strings.ReplaceAll(id.String(), "-", ""),
		Domain:   domain,
		Password: hex.EncodeToString(secret),
	}, nil
}

// Address returns the mailbox address, localID@domain, with case preserved.
func (u User) Address() string {
	return u.LocalID + "@" + u.Domain
}

// HasToken reports whether the user has been issued a token.
func (u User) HasToken() bool {
	return u.Token != ""
}

// WithDomain returns a copy of u under domain.
func (u User) WithDomain(domain string) User {
	u.Domain = domain
	return u
}

// WithToken returns a copy of u carrying token.
func (u User) WithToken(token string) User {
	u.Token = token
	return u
}

// String returns the address so credentials never end up in logs.
func (u User) String() string {
	return u.Address()
}
