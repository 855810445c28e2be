package common

import "errors"

var (
	// Token errors reported by the backend's token parser.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
