package oauthmodel

import (
	"net/url"
)

// CallbackParameters holds the query parameters GetResponse appends to the
// application's redirect URL once the user has answered the consent page.
type CallbackParameters struct {
	// Code is the authorization code to exchange at the token endpoint.
	// Flow: Authorization Code Flow
	// Required: Yes, unless Error is set
	// Lifespan: single use, short-lived
	Code string

	// State echoes the anti-forgery value sent on the consent URL.
	// Flow: Authorization Code Flow
	// Required: Yes
	// Security: Must exactly match the state the application generated
	State string

	// Error is set instead of Code when the user denied access or the request
	// was rejected.
	// Example: "access_denied"
	Error string

	// ErrorDescription is an optional human readable explanation for Error.
	ErrorDescription string
}

// ParseCallbackParameters extracts the callback parameters from a query string
// or a parsed form.
func ParseCallbackParameters(values url.Values) CallbackParameters {
	return CallbackParameters{
		Code:             values.Get("code"),
		State:            values.Get("state"),
		Error:            values.Get("error"),
		ErrorDescription: values.Get("error_description"),
	}
}

// Validate checks the parameters are usable for a code exchange. It does not
// compare the state; that belongs to whoever generated it.
func (p CallbackParameters) Validate() error {
	if p.Error != "" {
		if p.ErrorDescription != "" {
			return &AuthorizationDeniedError{Reason: p.Error, Description: p.ErrorDescription}
		}
		return &AuthorizationDeniedError{Reason: p.Error}
	}
	if p.Code == "" {
		return ErrMissingCode
	}
	if p.State == "" {
		return ErrMissingState
	}
	return nil
}
