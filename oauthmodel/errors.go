package oauthmodel

import (
	"errors"
	"fmt"
)

var (
	ErrMissingCode   = errors.New(`no "code" callback parameter`)
	ErrMissingState  = errors.New(`no "state" callback parameter`)
	ErrStateMismatch = errors.New("returned state doesn't match the stored one")
)

// AuthorizationDeniedError is returned when the consent page redirected back
// with an error instead of a code.
type AuthorizationDeniedError struct {
	Reason      string
	Description string
}

func (e *AuthorizationDeniedError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("authorization denied: %s - %s", e.Reason, e.Description)
	}
	return fmt.Sprintf("authorization denied: %s", e.Reason)
}
