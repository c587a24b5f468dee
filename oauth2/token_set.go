package oauth2

import (
	"time"

	"github.com/jrsteele09/go-getresponse/internal/utils"
	xoauth2 "golang.org/x/oauth2"
)

// TokenSet is the token payload returned by GetResponse's /token endpoint,
// either from the authorization code exchange or from a renewal.
// A renewal produces a new TokenSet; existing values are never updated.
type TokenSet struct {
	// AccessToken authorizes resource requests.
	// Usage: Authorization: Bearer <access_token>
	// Lifespan: 24 hours according to GetResponse
	AccessToken string `json:"access_token"`

	// RefreshToken obtains a new access token without the user's involvement.
	// Usage: POST /token with grant_type=refresh_token
	// Lifespan: long-lived, persist it next to the access token
	RefreshToken string `json:"refresh_token,omitempty"`

	// TokenType is normally "Bearer".
	TokenType string `json:"token_type,omitempty"`

	// ExpiresIn is the lifetime of the access token in seconds.
	ExpiresIn int `json:"expires_in,omitempty"`

	// Scope lists the granted permissions, space separated.
	Scope string `json:"scope,omitempty"`

	// Raw holds the full decoded payload, including fields not modelled above.
	Raw map[string]any `json:"-"`
}

// ParseTokenSet builds a TokenSet from a decoded token endpoint response.
func ParseTokenSet(payload map[string]any) TokenSet {
	ts := TokenSet{
		AccessToken:  utils.ToString(payload["access_token"]),
		RefreshToken: utils.ToString(payload["refresh_token"]),
		TokenType:    utils.ToString(payload["token_type"]),
		Scope:        utils.ToString(payload["scope"]),
		Raw:          make(map[string]any, len(payload)),
	}
	if expiresIn, ok := utils.ToInt(payload["expires_in"]); ok {
		ts.ExpiresIn = expiresIn
	}
	for k, v := range payload {
		ts.Raw[k] = v
	}
	return ts
}

// Payload returns the raw vendor payload, or a payload rebuilt from the typed
// fields when the TokenSet was not produced by ParseTokenSet.
func (ts TokenSet) Payload() map[string]any {
	if len(ts.Raw) > 0 {
		out := make(map[string]any, len(ts.Raw))
		for k, v := range ts.Raw {
			out[k] = v
		}
		return out
	}
	out := map[string]any{"access_token": ts.AccessToken}
	if ts.RefreshToken != "" {
		out["refresh_token"] = ts.RefreshToken
	}
	if ts.TokenType != "" {
		out["token_type"] = ts.TokenType
	}
	if ts.ExpiresIn > 0 {
		out["expires_in"] = ts.ExpiresIn
	}
	if ts.Scope != "" {
		out["scope"] = ts.Scope
	}
	return out
}

// WithRefreshToken returns a copy of the set carrying refreshToken, in both
// the typed field and the raw payload.
func (ts TokenSet) WithRefreshToken(refreshToken string) TokenSet {
	raw := ts.Payload()
	raw["refresh_token"] = refreshToken
	ts.Raw = raw
	ts.RefreshToken = refreshToken
	return ts
}

// Token converts the set into an x/oauth2 token. issuedAt anchors the expiry;
// a zero ExpiresIn leaves the expiry unset.
func (ts TokenSet) Token(issuedAt time.Time) *xoauth2.Token {
	tok := &xoauth2.Token{
		AccessToken:  ts.AccessToken,
		TokenType:    ts.TokenType,
		RefreshToken: ts.RefreshToken,
	}
	if tok.TokenType == "" {
		tok.TokenType = "Bearer"
	}
	if ts.ExpiresIn > 0 {
		tok.Expiry = issuedAt.Add(time.Duration(ts.ExpiresIn) * time.Second)
	}
	return tok.WithExtra(ts.Payload())
}
