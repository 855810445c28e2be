package conversation

import "errors"

var (
	// ErrAlreadyBound is returned when binding a different id to a bound
	// session. The existing id is kept.
	ErrAlreadyBound = errors.New("conversation already bound to another id")
	// ErrEmptyID is returned when binding or opening the zero id.
	ErrEmptyID = errors.New("conversation id is empty")
)
