// Package main implements a command line client for the mail.tm REST API
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"regexp"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"

	mailtm "github.com/mailtm/client-go"
)

// Allow subcommands to accept regular expressions as flags
type regexFlag struct {
	*regexp.Regexp
}

func (r *regexFlag) Defined() bool {
	return r.Regexp != nil
}

func (r *regexFlag) Set(pattern string) error {
	if pattern == "" {
		r.Regexp = nil
		return nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	r.Regexp = re
	return nil
}

func (r *regexFlag) String() string {
	if r.Regexp == nil {
		return ""
	}
	return r.Regexp.String()
}

// regexFlag must implement flag.Value
var _ flag.Value = &regexFlag{}

// env is handed to every subcommand.
type env struct {
	cfg    *Config
	client *mailtm.Client
	log    zerolog.Logger
	stdout io.Writer
	stderr io.Writer
}

// run parses the top-level flags and executes one subcommand.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) subcommands.ExitStatus {
	cfg, err := LoadConfig(".env")
	if err != nil {
		fmt.Fprintf(stderr, "Couldn't load configuration: %v\n", err)
		return subcommands.ExitFailure
	}

	top := flag.NewFlagSet("mailtm", flag.ContinueOnError)
	top.SetOutput(stderr)
	cfg.RegisterFlags(top)

	cdr := subcommands.NewCommander(top, "mailtm")
	cdr.Output = stdout
	cdr.Error = stderr

	// Important top-level flags
	cdr.ImportantFlag("address")
	cdr.ImportantFlag("token")

	// Setup standard helpers
	cdr.Register(cdr.HelpCommand(), "")
	cdr.Register(cdr.FlagsCommand(), "")
	cdr.Register(cdr.CommandsCommand(), "")
	cdr.Register(&envCmd{}, "")

	// Setup my commands
	cdr.Register(&domainsCmd{}, "domains")
	cdr.Register(&registerCmd{}, "account")
	cdr.Register(&tokenCmd{}, "account")
	cdr.Register(&meCmd{}, "account")
	cdr.Register(&deleteAccountCmd{}, "account")
	cdr.Register(&listCmd{}, "messages")
	cdr.Register(&readCmd{}, "messages")
	cdr.Register(&sourceCmd{}, "messages")
	cdr.Register(&deleteCmd{}, "messages")
	cdr.Register(&waitCmd{}, "messages")

	if err := top.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return subcommands.ExitSuccess
		}
		return subcommands.ExitUsageError
	}

	log, err := cfg.Logger(stderr)
	if err != nil {
		return usage(stderr, err.Error())
	}
	client, err := cfg.Client(log)
	if err != nil {
		return fatal(stderr, "Couldn't build client", err)
	}

	return cdr.Execute(ctx, &env{
		cfg:    cfg,
		client: client,
		log:    log,
		stdout: stdout,
		stderr: stderr,
	})
}

// user returns the configured mailbox, logging in first when no token was
// configured.
func (e *env) user(ctx context.Context) (mailtm.User, error) {
	user, err := e.cfg.User()
	if err != nil {
		return mailtm.User{}, err
	}
	if user.HasToken() {
		return user, nil
	}
	if e.cfg.Address == "" || user.Password == "" {
		return mailtm.User{}, errors.New("set MAILTM_TOKEN, or MAILTM_ADDRESS and MAILTM_PASSWORD")
	}
	e.log.Debug().Stringer("user", user).Msg("Logging in")
	return e.client.Login(ctx, user)
}

// print writes v to stdout as indented JSON.
func (e *env) print(v any) subcommands.ExitStatus {
	enc := json.NewEncoder(e.stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fatal(e.stderr, "Couldn't encode output", err)
	}
	return subcommands.ExitSuccess
}

func envOf(args []interface{}) *env {
	return args[0].(*env)
}

func fatal(w io.Writer, msg string, err error) subcommands.ExitStatus {
	fmt.Fprintf(w, "%s: %v\n", msg, err)
	var statusErr *mailtm.StatusError
	if errors.As(err, &statusErr) && statusErr.Body != "" {
		fmt.Fprintf(w, "%s\n", statusErr.Body)
	}
	return subcommands.ExitFailure
}

func usage(w io.Writer, msg string) subcommands.ExitStatus {
	fmt.Fprintln(w, msg)
	return subcommands.ExitUsageError
}
