package services

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation is returned for input rejected before any network call.
var ErrValidation = errors.New("validation error")

const (
	// MinPasswordLength is the shortest password accepted on signup and reset.
	MinPasswordLength = 6
	// ResetCodeLength is the number of digits of a password reset code.
	ResetCodeLength = 4
)

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

func validateLogin(email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return invalid("please enter email and password")
	}
	return nil
}

func validateNewPassword(password, confirm string) error {
	if password == "" || confirm == "" {
		return invalid("please fill in all fields")
	}
	if password != confirm {
		return invalid("passwords do not match")
	}
	if len(password) < MinPasswordLength {
		return invalid(fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	return nil
}

func validateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return invalid("please enter your email address")
	}
	return nil
}

func validateCode(code string) error {
	if len(strings.TrimSpace(code)) != ResetCodeLength {
		return invalid(fmt.Sprintf("please enter the %d-digit code", ResetCodeLength))
	}
	return nil
}
