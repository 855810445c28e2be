package devserver

import "errors"

var (
	ErrEmailTaken  = errors.New("email already registered")
	ErrNotFound    = errors.New("not found")
	ErrInvalidCode = errors.New("invalid or expired verification code")
)
