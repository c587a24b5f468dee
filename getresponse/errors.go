package getresponse

import (
	errs "github.com/jrsteele09/go-getresponse/internal/errors"
	"github.com/jrsteele09/go-getresponse/internal/transport"
)

// Re-export the error taxonomy so callers compare against a single symbol.
var (
	// ErrInvalidCallback means the redirect carried no code, an error, or a
	// state that does not match. Restart the consent flow.
	ErrInvalidCallback = errs.ErrInvalidCallback
	// ErrMissingToken means no access token was set before calling the API.
	ErrMissingToken = errs.ErrMissingToken
	// ErrMissingParameter means a required argument was empty or invalid.
	ErrMissingParameter = errs.ErrMissingParameter
	// ErrRenewalUnavailable means the access token expired and no refresh
	// token or renewal callback is registered. Restart the consent flow.
	ErrRenewalUnavailable = errs.ErrRenewalUnavailable
)

type (
	// VendorError is an error reported by GetResponse.
	VendorError = errs.VendorError
	// TransportError is a network, timeout or decoding failure.
	TransportError = errs.TransportError
)

// IsTokenExpired reports whether err carries GetResponse's expired token code.
func IsTokenExpired(err error) bool { return transport.IsTokenExpired(err) }
