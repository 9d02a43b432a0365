// Package api provides HTTP client functionality for communicating with the
// mail.tm API. It builds request-scoped sessions, sends exactly one request
// per call and translates every response into a value or one of the
// errors in internal/apierrors.
//
// # Sessions
//
// Every call builds a fresh [Session] from the client's immutable
// configuration. A session carries the default headers (User-Agent,
// Origin, TE and a JSON Content-Type) and, for authenticated calls, an
// Authorization bearer header. The underlying *http.Client and its
// connection pool are shared; headers and authorization are not.
//
// # Decoding
//
// Response bodies are always read in full before the status is checked:
//
//   - non-2xx: [apierrors.StatusError] with the verbatim body
//   - 2xx that does not parse or validate: [apierrors.DecodeError]
//   - request could not be sent: [apierrors.TransportError]
//
// Nothing is retried.
//
// # Thread Safety
//
// The [Client] type is safe for concurrent use. Multiple goroutines may call
// methods on a single Client simultaneously.
package api
