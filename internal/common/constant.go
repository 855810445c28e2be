// Package common holds constants and helpers shared by the client and the
// reference backend.
package common

const (
	// AuthorizationHeaderName carries the bearer token on authenticated calls.
	AuthorizationHeaderName = "Authorization"

	// BearerScheme is the auth-scheme prefix of AuthorizationHeaderName.
	BearerScheme = "Bearer"

	// ContentTypeJSON is sent on every request with a body.
	ContentTypeJSON = "application/json"
)
