package errors

import (
	"errors"
	"fmt"
)

// Errors surfaced by the GetResponse client
var (
	// Consent flow errors
	ErrInvalidCallback = errors.New("invalid oauth callback")

	// Token errors
	ErrMissingToken       = errors.New("no access token")
	ErrRenewalUnavailable = errors.New("access token expired and no refresh token or renewal callback is registered")

	// Request errors
	ErrMissingParameter = errors.New("missing or invalid parameter")
)

// VendorError is an error reported by the GetResponse API as a JSON body
// carrying both a code and a message.
type VendorError struct {
	HTTPStatus int
	Code       int
	Message    string
}

func (e *VendorError) Error() string {
	return fmt.Sprintf("getresponse error %d: %s", e.Code, e.Message)
}

// TransportError is a network, timeout or decoding failure. It is never retried.
type TransportError struct {
	Op         string
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s %s: HTTP %d: %v", e.Op, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
