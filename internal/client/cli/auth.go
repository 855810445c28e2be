package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/cbtcompanion/internal/client/nav"
	"github.com/dmitrijs2005/cbtcompanion/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) readPassword(prompt string) (string, error) {
	pw, err := getPassword(a.out, prompt)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(pw)
	return string(pw), nil
}

func (a *App) afterLogin(ctx context.Context, userID string) {
	a.setUser(userID)
	a.chat.NewConversation()
	if err := a.chat.LoadHistory(ctx); err != nil {
		a.report(err)
	}
}

// Login prompts for email and password and authenticates. On success the
// credential is stored and the recent history is loaded.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := a.readPassword("Enter password")
	if err != nil {
		return err
	}

	cred, err := a.authService.Login(ctx, email, password)
	if err != nil {
		a.report(err)
		return err
	}

	fmt.Fprintln(a.out, "Login successful")
	a.afterLogin(ctx, cred.UserID)
	return nil
}

// Signup creates an account and logs in with it.
func (a *App) Signup(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := a.readPassword("Enter password")
	if err != nil {
		return err
	}
	confirm, err := a.readPassword("Confirm password")
	if err != nil {
		return err
	}

	cred, err := a.authService.Signup(ctx, email, password, confirm)
	if err != nil {
		a.report(err)
		return err
	}

	fmt.Fprintln(a.out, "Account created")
	a.afterLogin(ctx, cred.UserID)
	return nil
}

// ForgotPassword walks through the reset screens: request a code, verify
// it, then choose a new password. Each step follows the Navigation the
// previous one produced.
func (a *App) ForgotPassword(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter your email address", a.out)
	if err != nil {
		return err
	}
	if err := a.authService.RequestPasswordReset(ctx, email); err != nil {
		a.report(err)
		return err
	}
	fmt.Fprintln(a.out, "If the email exists, a reset code has been sent.")

	next := nav.VerifyCodeFor(email)
	code, err := getSimpleText(a.reader, "Enter the 4-digit code", a.out)
	if err != nil {
		return err
	}
	if err := a.authService.VerifyResetCode(ctx, next.Param(nav.ParamEmail), code); err != nil {
		a.report(err)
		return err
	}

	next = nav.NewPasswordFor(email, code)
	password, err := a.readPassword("Enter new password")
	if err != nil {
		return err
	}
	confirm, err := a.readPassword("Confirm new password")
	if err != nil {
		return err
	}
	err = a.authService.SetNewPassword(ctx, next.Param(nav.ParamEmail), next.Param(nav.ParamCode), password, confirm)
	if err != nil {
		a.report(err)
		return err
	}

	fmt.Fprintln(a.out, "Password reset successfully. Please login with your new password.")
	return nil
}

// Logout removes the stored credential and the shown conversation.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		a.report(err)
		return err
	}
	a.chat.NewConversation()
	a.setUser("")
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	u, err := a.authService.Profile(ctx)
	if err != nil {
		a.report(err)
		return err
	}
	fmt.Fprintf(a.out, "%s (user %s)\n", u.Email, u.ID)
	if !u.CreatedAt.IsZero() {
		fmt.Fprintf(a.out, "Member since %s\n", u.CreatedAt.Format("2006-01-02"))
	}
	return nil
}
