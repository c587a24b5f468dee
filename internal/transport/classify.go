package transport

import (
	errs "github.com/jrsteele09/go-getresponse/internal/errors"
	"github.com/jrsteele09/go-getresponse/internal/utils"
	"github.com/jrsteele09/go-getresponse/oauth2"
)

// Classify returns a VendorError when body is a GetResponse error object,
// i.e. a JSON object carrying both "code" and "message". The HTTP status is
// recorded but does not decide anything; GetResponse reports errors in the body.
func Classify(status int, body any) *errs.VendorError {
	obj, ok := body.(map[string]any)
	if !ok {
		return nil
	}
	rawCode, hasCode := obj["code"]
	rawMessage, hasMessage := obj["message"]
	if !hasCode || !hasMessage {
		return nil
	}
	code, ok := utils.ToInt(rawCode)
	if !ok {
		code = -1
	}
	return &errs.VendorError{
		HTTPStatus: status,
		Code:       code,
		Message:    utils.ToString(rawMessage),
	}
}

// IsTokenExpired reports whether err is the vendor's "access token expired" error.
func IsTokenExpired(err error) bool {
	var vendorErr *errs.VendorError
	if !errs.As(err, &vendorErr) {
		return false
	}
	return vendorErr.Code == oauth2.ExpiredTokenCode
}
