package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type domainsCmd struct {
	names bool
}

func (*domainsCmd) Name() string {
	return "domains"
}

func (*domainsCmd) Synopsis() string {
	return "list public domains"
}

func (*domainsCmd) Usage() string {
	return `domains [-names]:
	list the domains mailboxes can be registered under
`
}

func (d *domainsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&d.names, "names", false, "print domain names only, one per line")
}

func (d *domainsCmd) Execute(
	ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	e := envOf(args)

	domains, err := e.client.ListDomains(ctx)
	if err != nil {
		return fatal(e.stderr, "REST call failed", err)
	}
	if d.names {
		for _, name := range domains.AddressList() {
			fmt.Fprintln(e.stdout, name)
		}
		return subcommands.ExitSuccess
	}
	return e.print(domains)
}

type envCmd struct{}

func (*envCmd) Name() string {
	return "env"
}

func (*envCmd) Synopsis() string {
	return "describe the environment variables"
}

func (*envCmd) Usage() string {
	return `env:
	print the MAILTM_ environment variables and their defaults
`
}

func (*envCmd) SetFlags(f *flag.FlagSet) {}

func (*envCmd) Execute(
	ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	e := envOf(args)
	if err := Usage(e.stdout); err != nil {
		return fatal(e.stderr, "Couldn't print usage", err)
	}
	return subcommands.ExitSuccess
}
