package getresponse

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	errs "github.com/jrsteele09/go-getresponse/internal/errors"
	"github.com/jrsteele09/go-getresponse/internal/transport"
	"github.com/jrsteele09/go-getresponse/oauth2"
	"github.com/jrsteele09/go-getresponse/token"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultHTTPTimeout bounds every round trip unless WithHTTPTimeout is used.
const DefaultHTTPTimeout = 30 * time.Second

// Credentials identify the application to GetResponse.
type Credentials = token.Credentials

// Object is a decoded JSON object returned by the API.
type Object = map[string]any

// Client calls the GetResponse v3 API on behalf of one user and renews the
// access token when the API reports it expired.
type Client struct {
	baseURL         string
	tokenURL        string
	consentTemplate string
	http            *http.Client
	sender          transport.Sender
	tokens          *token.Manager
	logger          zerolog.Logger

	renewMu sync.Mutex
}

// New creates a Client for the given application credentials.
func New(creds Credentials, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:         token.DefaultAPIBaseURL,
		consentTemplate: token.DefaultConsentURLTemplate,
		http:            &http.Client{Timeout: DefaultHTTPTimeout},
		logger:          log.Logger,
	}
	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("[getresponse New] %w", err)
		}
	}
	c.logger = c.logger.With().Str("component", "getresponse").Logger()

	if c.sender == nil {
		c.sender = transport.NewHTTPSender(c.http, c.logger)
	}
	if c.tokenURL == "" {
		c.tokenURL = c.baseURL + "/token"
	}
	c.tokens = token.NewManager(creds, c.sender,
		token.WithTokenURL(c.tokenURL),
		token.WithConsentURLTemplate(c.consentTemplate),
		token.WithLogger(c.logger),
	)
	return c, nil
}

// TokenManager exposes the underlying token manager.
func (c *Client) TokenManager() *token.Manager {
	return c.tokens
}

// ConsentURL returns the page the user must visit to grant access.
func (c *Client) ConsentURL() string {
	return c.tokens.ConsentURL()
}

// Exchange trades the authorization code from the consent redirect for a
// token set. The returned tokens are not installed; persist them and call
// SetAccessToken and RegisterRenewalCallback.
func (c *Client) Exchange(ctx context.Context, code, returnedState string) (oauth2.TokenSet, error) {
	return c.tokens.Exchange(ctx, code, returnedState)
}

// ExchangeCallback is Exchange for the redirect's raw query parameters.
func (c *Client) ExchangeCallback(ctx context.Context, values url.Values) (oauth2.TokenSet, error) {
	return c.tokens.ExchangeCallback(ctx, values)
}

// SetAccessToken installs the bearer token used for API calls.
func (c *Client) SetAccessToken(accessToken string) error {
	return c.tokens.SetAccessToken(accessToken)
}

// RegisterRenewalCallback stores the refresh token and the callback invoked
// with every renewed token set. Both are required for automatic renewal.
func (c *Client) RegisterRenewalCallback(refreshToken string, callback token.RenewalCallback) {
	c.tokens.RegisterRenewalCallback(refreshToken, callback)
}

// call sends one API request. When the vendor reports an expired token it
// renews, notifies the callback and replays the request exactly once.
func (c *Client) call(ctx context.Context, op, path string, payload transport.Payload) (any, error) {
	tok, err := c.tokens.Token()
	if errs.Is(err, ErrMissingToken) {
		// A renewal in progress clears the token; wait for it to finish.
		c.renewMu.Lock()
		tok, err = c.tokens.Token()
		c.renewMu.Unlock()
	}
	if err != nil {
		return nil, fmt.Errorf("[getresponse %s] %w", op, err)
	}
	used := tok.AccessToken
	req := transport.Request{
		Op:            op,
		Method:        http.MethodGet,
		URL:           c.baseURL + path,
		Payload:       payload,
		Authorization: tok.Type() + " " + tok.AccessToken,
	}

	resp, err := c.send(ctx, req)
	if err == nil {
		return resp, nil
	}
	if !transport.IsTokenExpired(err) {
		return nil, errs.Wrapf(err, "[getresponse %s]", op)
	}
	if !c.tokens.CanRenew() {
		c.logger.Warn().Str("operation", op).Msg("access token expired and renewal is not configured")
		return nil, fmt.Errorf("[getresponse %s] %w: %w", op, ErrRenewalUnavailable, err)
	}
	if err := c.renew(ctx, used); err != nil {
		return nil, fmt.Errorf("[getresponse %s] %w", op, err)
	}

	req.Authorization = c.tokens.Authorization()
	resp, err = c.send(ctx, req)
	if err != nil {
		return nil, errs.Wrapf(err, "[getresponse %s] after renewal", op)
	}
	return resp, nil
}

// renew refreshes the access token unless another caller already replaced
// staleToken while this one waited for the lock.
func (c *Client) renew(ctx context.Context, staleToken string) error {
	c.renewMu.Lock()
	defer c.renewMu.Unlock()

	if current := c.tokens.AccessToken(); current != "" && current != staleToken {
		c.logger.Debug().Msg("access token already renewed by a concurrent request")
		return nil
	}

	tokens, err := c.tokens.Renew(ctx)
	if err != nil {
		renewalsTotal.WithLabelValues(outcomeFailed).Inc()
		return fmt.Errorf("renew access token: %w", err)
	}
	if err := c.tokens.Callback().OnTokenRenewed(ctx, tokens); err != nil {
		renewalsTotal.WithLabelValues(outcomeFailed).Inc()
		c.logger.Err(err).Msg("renewal callback failed")
		return fmt.Errorf("renewal callback: %w", err)
	}
	renewalsTotal.WithLabelValues(outcomeOK).Inc()
	return nil
}

func (c *Client) send(ctx context.Context, req transport.Request) (any, error) {
	resp, err := c.sender.Send(ctx, req)
	requestsTotal.WithLabelValues(req.Op, outcome(err)).Inc()
	return resp, err
}

func outcome(err error) string {
	var vendorErr *VendorError
	switch {
	case err == nil:
		return outcomeOK
	case transport.IsTokenExpired(err):
		return outcomeExpired
	case errs.As(err, &vendorErr):
		return outcomeVendorError
	default:
		return outcomeTransportError
	}
}
