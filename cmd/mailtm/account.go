package main

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	mailtm "github.com/mailtm/client-go"
)

type registerCmd struct {
	local    string
	domain   string
	password string
}

func (*registerCmd) Name() string {
	return "register"
}

func (*registerCmd) Synopsis() string {
	return "create a mailbox and log in"
}

func (*registerCmd) Usage() string {
	return `register [-local <name>] [-domain <domain>] [-password <password>]:
	create a mailbox, random unless -local is given, under -domain or the
	first public domain, and print its address, password and token
`
}

func (r *registerCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&r.local, "local", "", "local part of the address (default random)")
	f.StringVar(&r.domain, "domain", "", "domain to register under (default first listed)")
	f.StringVar(&r.password, "password", "", "password (default random)")
}

// registered is printed by register.
type registered struct {
	ID       string `json:"id"`
	Address  string `json:"address"`
	Password string `json:"password"`
	Token    string `json:"token"`
}

func (r *registerCmd) Execute(
	ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	e := envOf(args)

	domain := r.domain
	if domain == "" {
		domains, err := e.client.ListDomains(ctx)
		if err != nil {
			return fatal(e.stderr, "Couldn't list domains", err)
		}
		first, ok := domains.First()
		if !ok {
			return usage(e.stderr, "no public domains available, pass -domain")
		}
		domain = first.Domain
	}

	user, err := mailtm.RandomUser(domain)
	if err != nil {
		return fatal(e.stderr, "Couldn't generate user", err)
	}
	if r.local != "" {
		user.LocalID = r.local
	}
	if r.password != "" {
		user.Password = r.password
	}

	account, err := e.client.CreateAccount(ctx, user)
	if err != nil {
		return fatal(e.stderr, "Couldn't create account", err)
	}
	user, err = e.client.Login(ctx, user)
	if err != nil {
		return fatal(e.stderr, "Couldn't log in", err)
	}

	return e.print(registered{
		ID:       account.ID,
		Address:  user.Address(),
		Password: user.Password,
		Token:    user.Token,
	})
}

type tokenCmd struct{}

func (*tokenCmd) Name() string {
	return "token"
}

func (*tokenCmd) Synopsis() string {
	return "exchange address and password for a token"
}

func (*tokenCmd) Usage() string {
	return `token:
	request a bearer token for MAILTM_ADDRESS and MAILTM_PASSWORD
`
}

func (*tokenCmd) SetFlags(f *flag.FlagSet) {}

func (*tokenCmd) Execute(
	ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	e := envOf(args)

	user, err := e.cfg.User()
	if err != nil {
		return usage(e.stderr, err.Error())
	}
	if e.cfg.Address == "" || user.Password == "" {
		return usage(e.stderr, "address and password required")
	}

	token, err := e.client.RequestToken(ctx, user)
	if err != nil {
		return fatal(e.stderr, "Couldn't request token", err)
	}
	return e.print(token)
}

type meCmd struct{}

func (*meCmd) Name() string {
	return "me"
}

func (*meCmd) Synopsis() string {
	return "show the logged in account"
}

func (*meCmd) Usage() string {
	return `me:
	print the account the token belongs to
`
}

func (*meCmd) SetFlags(f *flag.FlagSet) {}

func (*meCmd) Execute(
	ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	e := envOf(args)

	user, err := e.user(ctx)
	if err != nil {
		return fatal(e.stderr, "Couldn't log in", err)
	}
	account, err := e.client.Me(ctx, user)
	if err != nil {
		return fatal(e.stderr, "REST call failed", err)
	}
	return e.print(account)
}

type deleteAccountCmd struct{}

func (*deleteAccountCmd) Name() string {
	return "delete-account"
}

func (*deleteAccountCmd) Synopsis() string {
	return "delete the logged in account"
}

func (*deleteAccountCmd) Usage() string {
	return `delete-account:
	delete the account the token belongs to, with all its messages
`
}

func (*deleteAccountCmd) SetFlags(f *flag.FlagSet) {}

func (*deleteAccountCmd) Execute(
	ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	e := envOf(args)

	user, err := e.user(ctx)
	if err != nil {
		return fatal(e.stderr, "Couldn't log in", err)
	}
	account, err := e.client.Me(ctx, user)
	if err != nil {
		return fatal(e.stderr, "REST call failed", err)
	}
	if err := e.client.DeleteAccount(ctx, user, account.ID); err != nil {
		return fatal(e.stderr, "REST call failed", err)
	}
	return e.print(deleted{ID: account.ID})
}

// deleted is printed by the delete commands.
type deleted struct {
	ID string `json:"deleted"`
}
