package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/google/subcommands"

	mailtm "github.com/mailtm/client-go"
)

type listCmd struct {
	page int
	all  bool
}

func (*listCmd) Name() string {
	return "list"
}

func (*listCmd) Synopsis() string {
	return "list messages in the mailbox"
}

func (*listCmd) Usage() string {
	return `list [-page <n>] [-all]:
	list one page of messages, or every page with -all
`
}

func (l *listCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&l.page, "page", 0, "page to list, 1-based (default server default)")
	f.BoolVar(&l.all, "all", false, "list every page")
}

func (l *listCmd) Execute(
	ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	e := envOf(args)

	user, err := e.user(ctx)
	if err != nil {
		return fatal(e.stderr, "Couldn't log in", err)
	}
	if l.all {
		msgs, err := e.client.ListAllMessages(ctx, user)
		if err != nil {
			return fatal(e.stderr, "REST call failed", err)
		}
		if msgs == nil {
			msgs = []mailtm.Message{}
		}
		return e.print(msgs)
	}

	page, err := e.client.ListMessages(ctx, user, l.page)
	if err != nil {
		return fatal(e.stderr, "REST call failed", err)
	}
	return e.print(page)
}

type readCmd struct {
	html bool
}

func (*readCmd) Name() string {
	return "read"
}

func (*readCmd) Synopsis() string {
	return "print a message"
}

func (*readCmd) Usage() string {
	return `read [-html] <id>:
	print a message; -html prints only its sanitized HTML body
`
}

func (r *readCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&r.html, "html", false, "print the sanitized HTML body")
}

func (r *readCmd) Execute(
	ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	e := envOf(args)
	id := f.Arg(0)
	if id == "" {
		return usage(e.stderr, "message id required")
	}

	user, err := e.user(ctx)
	if err != nil {
		return fatal(e.stderr, "Couldn't log in", err)
	}
	msg, err := e.client.GetMessage(ctx, user, id)
	if err != nil {
		return fatal(e.stderr, "REST call failed", err)
	}
	if r.html {
		fmt.Fprintln(e.stdout, msg.SanitizedHTML())
		return subcommands.ExitSuccess
	}
	return e.print(msg)
}

type sourceCmd struct {
	raw bool
}

func (*sourceCmd) Name() string {
	return "source"
}

func (*sourceCmd) Synopsis() string {
	return "print the MIME source of a message"
}

func (*sourceCmd) Usage() string {
	return `source [-raw] <id>:
	print the parsed headers, bodies and attachments of a message, or the
	raw RFC 5322 source with -raw
`
}

func (s *sourceCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&s.raw, "raw", false, "print the raw source")
}

// parsedSource is printed by source.
type parsedSource struct {
	ID          string            `json:"id"`
	Headers     map[string]string `json:"headers"`
	Text        string            `json:"text"`
	HTML        string            `json:"html,omitempty"`
	Attachments []string          `json:"attachments,omitempty"`
}

var sourceHeaders = []string{"From", "To", "Cc", "Subject", "Date", "Message-Id"}

func (s *sourceCmd) Execute(
	ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	e := envOf(args)
	id := f.Arg(0)
	if id == "" {
		return usage(e.stderr, "message id required")
	}

	user, err := e.user(ctx)
	if err != nil {
		return fatal(e.stderr, "Couldn't log in", err)
	}
	src, err := e.client.GetSource(ctx, user, id)
	if err != nil {
		return fatal(e.stderr, "REST call failed", err)
	}
	if s.raw {
		fmt.Fprint(e.stdout, src.Data)
		return subcommands.ExitSuccess
	}

	parsed, err := src.Envelope()
	if err != nil {
		return fatal(e.stderr, "Couldn't parse source", err)
	}
	out := parsedSource{
		ID:      src.ID,
		Headers: make(map[string]string),
		Text:    parsed.Text,
		HTML:    parsed.HTML,
	}
	for _, h := range sourceHeaders {
		if v := parsed.GetHeader(h); v != "" {
			out.Headers[h] = v
		}
	}
	for _, a := range parsed.Attachments {
		out.Attachments = append(out.Attachments, a.FileName)
	}
	return e.print(out)
}

type deleteCmd struct{}

func (*deleteCmd) Name() string {
	return "delete"
}

func (*deleteCmd) Synopsis() string {
	return "delete a message"
}

func (*deleteCmd) Usage() string {
	return `delete <id>:
	delete a message from the mailbox
`
}

func (*deleteCmd) SetFlags(f *flag.FlagSet) {}

func (*deleteCmd) Execute(
	ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	e := envOf(args)
	id := f.Arg(0)
	if id == "" {
		return usage(e.stderr, "message id required")
	}

	user, err := e.user(ctx)
	if err != nil {
		return fatal(e.stderr, "Couldn't log in", err)
	}
	if err := e.client.DeleteMessage(ctx, user, id); err != nil {
		return fatal(e.stderr, "REST call failed", err)
	}
	return e.print(deleted{ID: id})
}

type waitCmd struct {
	subject regexFlag
	from    regexFlag
	timeout time.Duration
	poll    time.Duration
}

func (*waitCmd) Name() string {
	return "wait"
}

func (*waitCmd) Synopsis() string {
	return "wait for a matching message"
}

func (*waitCmd) Usage() string {
	return `wait [-subject <regex>] [-from <regex>] [-timeout <duration>]:
	poll the mailbox until a matching message arrives and print it
`
}

func (w *waitCmd) SetFlags(f *flag.FlagSet) {
	f.Var(&w.subject, "subject", "matches subject with regex")
	f.Var(&w.from, "from", "matches sender address with regex")
	f.DurationVar(&w.timeout, "timeout", 60*time.Second, "how long to wait")
	f.DurationVar(&w.poll, "poll", mailtm.PollingInitialInterval, "initial poll interval")
}

func (w *waitCmd) Execute(
	ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	e := envOf(args)

	user, err := e.user(ctx)
	if err != nil {
		return fatal(e.stderr, "Couldn't log in", err)
	}

	opts := []mailtm.WaitOption{
		mailtm.WithWaitTimeout(w.timeout),
		mailtm.WithPollInterval(w.poll),
	}
	if w.subject.Defined() {
		opts = append(opts, mailtm.WithSubjectRegex(w.subject.Regexp))
	}
	if w.from.Defined() {
		opts = append(opts, mailtm.WithFromRegex(w.from.Regexp))
	}

	msg, err := e.client.WaitForMessage(ctx, user, opts...)
	if err != nil {
		return fatal(e.stderr, "Wait failed", err)
	}
	return e.print(msg)
}
