package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Signup(ctx context.Context) error
	ForgotPassword(ctx context.Context) error
	Send(ctx context.Context, text string) error
	NewConversation(ctx context.Context) error
	History(ctx context.Context) error
	Open(ctx context.Context, id string) error
	Log(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Logout(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: login, signup, forgot, exit"
	helpLoggedIn  = "Available commands: say <text>, new, history, open <id>, log, whoami, logout, exit (plain text is sent as a message)"
)

// runREPL starts a simple read-eval-print loop for the companion CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. The loop exits on EOF or when the user
// types "exit" or "quit".
//
//	Not logged in:
//	  - help            show available commands
//	  - login           authenticate
//	  - signup          create an account
//	  - forgot          reset a forgotten password
//	  - exit | quit     leave the program
//
//	Logged in:
//	  - say <text>      send a message (any other text is sent as well)
//	  - new             start a new conversation
//	  - history         list past conversations
//	  - open <id>       continue a past conversation
//	  - log             print the current conversation
//	  - whoami          show the account
//	  - logout          log out
//	  - exit | quit     leave the program
//
// Errors returned by command handlers are ignored here; handlers report
// their own errors.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("cbt %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		line = strings.TrimSpace(line)
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		rest := strings.TrimSpace(strings.TrimPrefix(line, cmd))

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		if !a.isLoggedIn() {
			switch cmd {
			case "login":
				_ = a.Login(ctx)
			case "signup":
				_ = a.Signup(ctx)
			case "forgot":
				_ = a.ForgotPassword(ctx)
			default:
				printlnFn("Unknown command:", cmd)
			}
			continue
		}

		switch cmd {
		case "say":
			if rest == "" {
				printlnFn("Usage: say <text>")
				continue
			}
			_ = a.Send(ctx, rest)
		case "new":
			_ = a.NewConversation(ctx)
		case "history":
			_ = a.History(ctx)
		case "open":
			if rest == "" {
				printlnFn("Usage: open <id>")
				continue
			}
			_ = a.Open(ctx, rest)
		case "log":
			_ = a.Log(ctx)
		case "whoami":
			_ = a.WhoAmI(ctx)
		case "logout":
			_ = a.Logout(ctx)
		default:
			_ = a.Send(ctx, line)
		}
	}
}
