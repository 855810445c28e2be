package chat

import "errors"

// ErrSendInProgress is returned by Send while another Send is outstanding.
var ErrSendInProgress = errors.New("a message is already being sent")

const (
	// FallbackText is shown in place of a reply that could not be obtained.
	FallbackText = "Sorry, I'm having trouble connecting to the server. Please try again."
	// CrisisText answers messages that look like a crisis in demo mode.
	CrisisText = "I'm concerned about what you're saying. Please reach out to a crisis hotline immediately. Tap here for resources."
	// PlaceholderText is the ordinary demo mode reply.
	PlaceholderText = "Backend is disabled. This is a placeholder response. Enable backend in config/featureFlags.js to see AI responses."
)
