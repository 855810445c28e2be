// Package cli provides the interactive command-line client of the CBT
// companion.
//
// It wires configuration, the local credential database, the backend API
// client and the chat services into a REPL. Typical flow: restore a stored
// session or log in, then chat. A background watcher pings the backend and
// shows whether it is reachable.
//
// Key features:
//   - Login / Signup / Logout and the password reset flow
//   - Sending messages, starting a new conversation
//   - Listing and reopening past conversations
//   - Demo mode with local replies when the backend is disabled
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
