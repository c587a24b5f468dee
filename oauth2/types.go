package oauth2

// ResponseType represents the OAuth 2.0 response type requested on the consent page.
type ResponseType string

const (
	// CodeResponseType indicates the authorization code flow, the only flow
	// GetResponse offers to third-party applications.
	// Example: /oauth2_authorize.html?response_type=code&client_id=...&state=...
	CodeResponseType ResponseType = "code"
)

// GrantType represents the OAuth 2.0 grant type used at the token endpoint.
// Determines what credentials are required to obtain tokens.
type GrantType string

const (
	// AuthorizationCodeGrant exchanges an authorization code for tokens.
	// Token request includes: grant_type, code (client authenticates with HTTP Basic)
	// Returns: access_token, refresh_token, expires_in, token_type, scope
	AuthorizationCodeGrant GrantType = "authorization_code"

	// RefreshTokenGrant exchanges a refresh token for a new access token.
	// Token request includes: grant_type, refresh_token (client authenticates with HTTP Basic)
	// Returns: a new access_token and possibly a rotated refresh_token
	RefreshTokenGrant GrantType = "refresh_token"
)

// ExpiredTokenCode is the vendor error code signalling that the access token
// used for a request is no longer valid.
const ExpiredTokenCode = 1014
