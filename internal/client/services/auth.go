// Package services contains the client application services. This file
// implements the session client: login, signup, the three-step password
// reset and logout, on top of the backend Client and the credential Store.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/cbtcompanion/internal/client/client"
	"github.com/dmitrijs2005/cbtcompanion/internal/client/credentials"
	"github.com/dmitrijs2005/cbtcompanion/internal/client/models"
	"github.com/dmitrijs2005/cbtcompanion/internal/logging"
	"github.com/dmitrijs2005/cbtcompanion/internal/timex"
)

// DemoCredential is stored by demo-mode login and signup.
var DemoCredential = models.Credential{Token: "demo-token", UserID: "demo"}

// AuthService defines the session operations used by the presentation layer.
//
// Contract:
//   - Login / Signup: validate input, authenticate, persist the credential.
//   - RequestPasswordReset: ask the server to send a code; safe to repeat.
//   - VerifyResetCode, SetNewPassword: finish the reset; ErrInvalidCode for
//     a wrong or expired code.
//   - Logout: drop the stored credential.
//
// Validation failures wrap ErrValidation and never reach the network.
// Transport failures are the client package sentinels.
type AuthService interface {
	Login(ctx context.Context, email, password string) (models.Credential, error)
	Signup(ctx context.Context, email, password, confirm string) (models.Credential, error)
	RequestPasswordReset(ctx context.Context, email string) error
	VerifyResetCode(ctx context.Context, email, code string) error
	SetNewPassword(ctx context.Context, email, code, newPassword, confirm string) error
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (models.Credential, error)
	Profile(ctx context.Context) (models.User, error)
}

type authService struct {
	client   client.Client
	store    credentials.Store
	log      logging.Logger
	demo     bool
	demoWait time.Duration
}

// AuthOption tweaks an AuthService.
type AuthOption func(*authService)

// WithDemoMode makes every operation succeed locally after wait, without
// calling the backend.
func WithDemoMode(wait time.Duration) AuthOption {
	return func(a *authService) {
		a.demo = true
		a.demoWait = wait
	}
}

func WithAuthLogger(l logging.Logger) AuthOption {
	return func(a *authService) { a.log = l }
}

// NewAuthService constructs an AuthService bound to the given API client
// and credential store.
func NewAuthService(c client.Client, store credentials.Store, opts ...AuthOption) AuthService {
	a := &authService{client: c, store: store, log: logging.Nop()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(email)
}

func (a *authService) Login(ctx context.Context, email, password string) (models.Credential, error) {
	if err := validateLogin(email, password); err != nil {
		return models.Credential{}, err
	}
	email = normalizeEmail(email)

	if a.demo {
		return a.demoLogin(ctx)
	}

	cred, err := a.client.Login(ctx, email, password)
	if err != nil {
		a.log.Warn(ctx, "login failed", "email", email, "error", err)
		return models.Credential{}, fmt.Errorf("login error: %w", err)
	}
	if err := a.store.Save(ctx, cred); err != nil {
		return models.Credential{}, fmt.Errorf("credential saving error: %w", err)
	}
	a.log.Info(ctx, "logged in", "user_id", cred.UserID)
	return cred, nil
}

func (a *authService) Signup(ctx context.Context, email, password, confirm string) (models.Credential, error) {
	if strings.TrimSpace(email) == "" {
		return models.Credential{}, invalid("please fill in all fields")
	}
	if err := validateNewPassword(password, confirm); err != nil {
		return models.Credential{}, err
	}
	email = normalizeEmail(email)

	if a.demo {
		return a.demoLogin(ctx)
	}

	cred, err := a.client.Signup(ctx, email, password)
	if err != nil {
		a.log.Warn(ctx, "signup failed", "email", email, "error", err)
		return models.Credential{}, fmt.Errorf("signup error: %w", err)
	}
	if err := a.store.Save(ctx, cred); err != nil {
		return models.Credential{}, fmt.Errorf("credential saving error: %w", err)
	}
	a.log.Info(ctx, "signed up", "user_id", cred.UserID)
	return cred, nil
}

func (a *authService) demoLogin(ctx context.Context) (models.Credential, error) {
	if err := timex.Sleep(ctx, a.demoWait); err != nil {
		return models.Credential{}, err
	}
	if err := a.store.Save(ctx, DemoCredential); err != nil {
		return models.Credential{}, fmt.Errorf("credential saving error: %w", err)
	}
	return DemoCredential, nil
}

func (a *authService) RequestPasswordReset(ctx context.Context, email string) error {
	if err := validateEmail(email); err != nil {
		return err
	}
	if a.demo {
		return timex.Sleep(ctx, a.demoWait)
	}
	if err := a.client.ForgotPassword(ctx, normalizeEmail(email)); err != nil {
		return fmt.Errorf("password reset request error: %w", err)
	}
	return nil
}

func (a *authService) VerifyResetCode(ctx context.Context, email, code string) error {
	if err := validateEmail(email); err != nil {
		return err
	}
	if err := validateCode(code); err != nil {
		return err
	}
	if a.demo {
		return timex.Sleep(ctx, a.demoWait)
	}
	if err := a.client.VerifyResetCode(ctx, normalizeEmail(email), strings.TrimSpace(code)); err != nil {
		return fmt.Errorf("code verification error: %w", err)
	}
	return nil
}

func (a *authService) SetNewPassword(ctx context.Context, email, code, newPassword, confirm string) error {
	if err := validateEmail(email); err != nil {
		return err
	}
	if err := validateCode(code); err != nil {
		return err
	}
	if err := validateNewPassword(newPassword, confirm); err != nil {
		return err
	}
	if a.demo {
		return timex.Sleep(ctx, a.demoWait)
	}
	if err := a.client.ResetPassword(ctx, normalizeEmail(email), strings.TrimSpace(code), newPassword); err != nil {
		return fmt.Errorf("password reset error: %w", err)
	}
	return nil
}

func (a *authService) Logout(ctx context.Context) error {
	if err := a.store.Clear(ctx); err != nil {
		return fmt.Errorf("logout error: %w", err)
	}
	a.log.Info(ctx, "logged out")
	return nil
}

// CurrentUser returns the stored credential, or credentials.ErrNoCredential.
func (a *authService) CurrentUser(ctx context.Context) (models.Credential, error) {
	return a.store.Load(ctx)
}

// Profile fetches the account behind the stored token. In demo mode it is
// synthesised from the demo credential.
func (a *authService) Profile(ctx context.Context) (models.User, error) {
	if a.demo {
		cred, err := a.store.Load(ctx)
		if err != nil {
			return models.User{}, err
		}
		return models.User{ID: cred.UserID, Email: "demo@example.com"}, nil
	}
	u, err := a.client.Me(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("profile error: %w", err)
	}
	return u, nil
}
