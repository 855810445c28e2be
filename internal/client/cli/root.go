package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cbtcompanion/internal/client/credentials"
)

func (a *App) getStatus() string {
	a.mu.RLock()
	user, mode := a.userID, a.mode
	a.mu.RUnlock()

	s := ""
	if user != "" {
		s = "user " + user + " "
	}
	if mode != "" {
		s = s + string(mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// restoreSession picks up a credential saved by an earlier run and loads
// the recent history.
func (a *App) restoreSession(ctx context.Context) {
	cred, err := a.authService.CurrentUser(ctx)
	if err != nil {
		if !errors.Is(err, credentials.ErrNoCredential) {
			a.log.Warn(ctx, "could not read stored session", "error", err)
		}
		return
	}
	a.setUser(cred.UserID)
	fmt.Fprintf(a.out, "Welcome back (user %s)\n", cred.UserID)

	if err := a.chat.LoadHistory(ctx); err != nil {
		a.report(err)
	}
}

func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "CBT companion (type 'help' for commands)")
	if a.Mode() == ModeDemo {
		fmt.Fprintln(a.out, "Backend is disabled: running in demo mode.")
	}

	a.restoreSession(ctx)
	runREPL(ctx, a, a.getStatus, a.reader)
}
