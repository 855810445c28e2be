// Package client talks to the CBT companion backend.
//
// # Overview
//
//  1. Client is the transport-agnostic backend contract: auth
//     (login, signup, password reset), chat history, the conversation list
//     and message send.
//  2. HTTPClient implements it over the REST API. It attaches the bearer
//     token from a CredentialSource on authenticated calls and clears the
//     source when the server answers 401.
//  3. InitDatabase and RunMigrations bootstrap the local SQLite database
//     with embedded goose migrations.
//
// # Error Handling
//
// Failures are reported as sentinel errors matched with errors.Is:
// ErrUnavailable (network), ErrProtocol (malformed body), ErrUnauthenticated
// (missing or refused token), ErrInvalidCredentials, ErrInvalidCode and the
// generic ErrRejected. Non-2xx responses are *APIError values that unwrap
// to one of these and carry the server's detail text.
//
// All operations accept context.Context and honour cancellation.
package client
