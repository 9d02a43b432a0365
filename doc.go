// Package mailtm provides a Go client for mail.tm, a disposable e-mail
// service with a REST API.
//
// The client creates mailbox accounts, exchanges their credentials for a
// bearer token, and lists, reads and deletes the messages delivered to
// them.
//
// Basic usage:
//
//	client, err := mailtm.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Pick a domain and register a random mailbox under it
//	domains, err := client.ListDomains(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	domain, _ := domains.First()
//	user, err := mailtm.RandomUser(domain.Domain)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if _, err := client.CreateAccount(ctx, user); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Log in and wait for a message
//	user, err = client.Login(ctx, user)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	msg, err := client.WaitForMessage(ctx, user)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Subject:", msg.Subject)
//
// # Errors
//
// Every network operation returns either its value or one of
// *StatusError (non-2xx response, with the raw body), *TransportError
// (the request could not be sent) or *DecodeError (the body did not have
// the expected shape). Use errors.As to inspect them, KindOf to classify,
// or errors.Is with the sentinels:
//
//	if errors.Is(err, mailtm.ErrNotFound) {
//	    // account or message is gone
//	}
//
// Nothing is retried or cached.
package mailtm
