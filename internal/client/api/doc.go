// Package api is the client's transport to the EcoSync REST backend.
//
// # Overview
//
// Client is the transport-agnostic contract used by the services layer.
// HTTPClient implements it over net/http against the versioned API root
// (for example http://localhost:8000/api/v1); every request carries an
// X-Request-ID so client and server logs can be correlated.
//
// # Error Handling
//
// Failures are reduced to a few conditions callers match with errors.Is:
//
//   - ErrUnavailable: the request never produced a usable response
//     (connection refused, DNS, undecodable body).
//   - ErrConflict: HTTP 400, a recoverable domain conflict such as a
//     duplicate registration.
//   - ErrNotFound: HTTP 404.
//
// Every non-2xx response is a *StatusError carrying the code and the
// server's "detail" text; use errors.As to read it.
package api
