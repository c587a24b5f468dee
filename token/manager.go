package token

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	errs "github.com/jrsteele09/go-getresponse/internal/errors"
	"github.com/jrsteele09/go-getresponse/internal/transport"
	"github.com/jrsteele09/go-getresponse/oauth2"
	"github.com/jrsteele09/go-getresponse/oauthmodel"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	xoauth2 "golang.org/x/oauth2"
)

const (
	DefaultAPIBaseURL         = "https://api.getresponse.com/v3"
	DefaultTokenURL           = DefaultAPIBaseURL + "/token"
	DefaultConsentURLTemplate = "https://app.getresponse.com/oauth2_authorize.html?response_type=code&client_id={{clientId}}&state={{state}}"

	clientIDPlaceholder = "{{clientId}}"
	statePlaceholder    = "{{state}}"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Credentials identify the application to GetResponse. State is the
// anti-forgery value sent on the consent URL and expected back on the callback.
type Credentials struct {
	ClientID     string
	ClientSecret string
	State        string
}

// Manager owns the OAuth2 token lifecycle for one GetResponse user: building
// the consent URL, exchanging the authorization code and renewing the access
// token with the refresh token.
type Manager struct {
	creds           Credentials
	sender          transport.Sender
	tokenURL        string
	consentTemplate string
	logger          zerolog.Logger

	mu           sync.RWMutex
	accessToken  string
	tokenType    string
	refreshToken string
	expiry       time.Time
	callback     RenewalCallback
}

// ManagerOption configures a Manager during construction.
type ManagerOption func(*Manager)

// WithTokenURL overrides the token endpoint, e.g. for GetResponse MAX or a fake server.
func WithTokenURL(tokenURL string) ManagerOption {
	return func(m *Manager) {
		m.tokenURL = tokenURL
	}
}

// WithConsentURLTemplate overrides the consent page template. The template
// must contain the {{clientId}} and {{state}} placeholders.
func WithConsentURLTemplate(template string) ManagerOption {
	return func(m *Manager) {
		m.consentTemplate = template
	}
}

// WithLogger sets the logger used for token lifecycle events.
func WithLogger(logger zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a token manager that talks to the token endpoint through sender.
func NewManager(creds Credentials, sender transport.Sender, opts ...ManagerOption) *Manager {
	m := &Manager{
		creds:           creds,
		sender:          sender,
		tokenURL:        DefaultTokenURL,
		consentTemplate: DefaultConsentURLTemplate,
		logger:          log.Logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With().Str("component", "token-manager").Logger()
	return m
}

// ConsentURL returns the page the user must be sent to in order to grant the
// application access to their account.
func (m *Manager) ConsentURL() string {
	return strings.NewReplacer(
		clientIDPlaceholder, url.QueryEscape(m.creds.ClientID),
		statePlaceholder, url.QueryEscape(m.creds.State),
	).Replace(m.consentTemplate)
}

// Exchange trades the authorization code received on the redirect URL for a
// token set. returnedState must equal the state the manager was created with.
// The access token is not installed; persist the result and call SetAccessToken.
func (m *Manager) Exchange(ctx context.Context, code, returnedState string) (oauth2.TokenSet, error) {
	if code == "" {
		return oauth2.TokenSet{}, fmt.Errorf("%w: %w", errs.ErrInvalidCallback, oauthmodel.ErrMissingCode)
	}
	if returnedState == "" {
		return oauth2.TokenSet{}, fmt.Errorf("%w: %w", errs.ErrInvalidCallback, oauthmodel.ErrMissingState)
	}
	if subtle.ConstantTimeCompare([]byte(returnedState), []byte(m.creds.State)) != 1 {
		m.logger.Warn().Msg("callback state does not match")
		return oauth2.TokenSet{}, fmt.Errorf("%w: %w", errs.ErrInvalidCallback, oauthmodel.ErrStateMismatch)
	}

	ts, err := m.requestToken(ctx, "exchange authorization code", transport.Payload{
		"grant_type": string(oauth2.AuthorizationCodeGrant),
		"code":       code,
	})
	if err != nil {
		return oauth2.TokenSet{}, err
	}
	m.logger.Info().Int("expires_in", ts.ExpiresIn).Msg("authorization code exchanged")
	return ts, nil
}

// ExchangeCallback validates the query parameters of the redirect request and
// exchanges the code they carry.
func (m *Manager) ExchangeCallback(ctx context.Context, values url.Values) (oauth2.TokenSet, error) {
	params := oauthmodel.ParseCallbackParameters(values)
	if err := params.Validate(); err != nil {
		return oauth2.TokenSet{}, fmt.Errorf("%w: %w", errs.ErrInvalidCallback, err)
	}
	return m.Exchange(ctx, params.Code, params.State)
}

// SetAccessToken installs the access token used for resource requests,
// replacing any previous one.
func (m *Manager) SetAccessToken(accessToken string) error {
	if accessToken == "" {
		return errs.ErrMissingToken
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accessToken = accessToken
	m.tokenType = ""
	return nil
}

// AccessToken returns the current access token, or "" while none is set.
func (m *Manager) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.accessToken
}

// RegisterRenewalCallback stores the refresh token and the callback that is
// told about every token obtained through it.
func (m *Manager) RegisterRenewalCallback(refreshToken string, callback RenewalCallback) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshToken = refreshToken
	m.callback = callback
}

// CanRenew reports whether a refresh token and a callback are registered.
func (m *Manager) CanRenew() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refreshToken != "" && m.callback != nil
}

// Callback returns the registered renewal callback.
func (m *Manager) Callback() RenewalCallback {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.callback
}

// Authorization returns the Authorization header value for resource requests:
// the bearer token when one is set, the client credentials otherwise.
func (m *Manager) Authorization() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.accessToken != "" {
		return m.currentToken().Type() + " " + m.accessToken
	}
	return m.basicAuthorization()
}

// Renew obtains a new access token with the registered refresh token. The
// current access token is dropped before the request is made. Callers must
// check CanRenew first; Renew does not invoke the callback.
func (m *Manager) Renew(ctx context.Context) (oauth2.TokenSet, error) {
	m.mu.Lock()
	m.accessToken = ""
	m.expiry = time.Time{}
	refreshToken := m.refreshToken
	m.mu.Unlock()

	m.logger.Info().Msg("renewing expired access token")
	ts, err := m.requestToken(ctx, "renew access token", transport.Payload{
		"grant_type":    string(oauth2.RefreshTokenGrant),
		"refresh_token": refreshToken,
	})
	if err != nil {
		m.logger.Err(err).Msg("access token renewal failed")
		return oauth2.TokenSet{}, err
	}
	if err := m.SetAccessToken(ts.AccessToken); err != nil {
		return oauth2.TokenSet{}, err
	}

	// Without rotation the refresh token in use stays valid and must reach
	// the callback, or a persisted set could not be renewed after a restart.
	if ts.RefreshToken == "" {
		ts = ts.WithRefreshToken(refreshToken)
	}
	tok := ts.Token(NowTimeFunc())

	m.mu.Lock()
	m.refreshToken = tok.RefreshToken
	m.tokenType = tok.TokenType
	m.expiry = tok.Expiry
	m.mu.Unlock()

	m.logger.Info().Int("expires_in", ts.ExpiresIn).Msg("access token renewed")
	return ts, nil
}

// Token implements oauth2.TokenSource. The client authorizes every resource
// request from it; it never refreshes.
func (m *Manager) Token() (*xoauth2.Token, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.accessToken == "" {
		return nil, errs.ErrMissingToken
	}
	return m.currentToken(), nil
}

// currentToken must be called with m.mu held.
func (m *Manager) currentToken() *xoauth2.Token {
	return &xoauth2.Token{
		AccessToken:  m.accessToken,
		TokenType:    m.tokenType,
		RefreshToken: m.refreshToken,
		Expiry:       m.expiry,
	}
}

var _ xoauth2.TokenSource = (*Manager)(nil)

func (m *Manager) requestToken(ctx context.Context, op string, payload transport.Payload) (oauth2.TokenSet, error) {
	resp, err := m.sender.Send(ctx, transport.Request{
		Op:            op,
		Method:        http.MethodPost,
		URL:           m.tokenURL,
		Payload:       payload,
		Authorization: m.basicAuthorization(),
	})
	if err != nil {
		return oauth2.TokenSet{}, errs.Wrapf(err, "[token %s]", op)
	}
	obj, ok := resp.(map[string]any)
	if !ok {
		return oauth2.TokenSet{}, &errs.TransportError{Op: op, URL: m.tokenURL, Err: fmt.Errorf("unexpected token response of type %T", resp)}
	}
	ts := oauth2.ParseTokenSet(obj)
	if ts.AccessToken == "" {
		return oauth2.TokenSet{}, fmt.Errorf("[token %s] %w in token response", op, errs.ErrMissingToken)
	}
	return ts, nil
}

// basicAuthorization is safe to call with or without m.mu held; it only reads
// the immutable credentials.
func (m *Manager) basicAuthorization() string {
	raw := m.creds.ClientID + ":" + m.creds.ClientSecret
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(raw))
}
