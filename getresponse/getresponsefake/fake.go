// Package getresponsefake is an in-memory stand-in for the GetResponse v3 API.
//
// It implements the consent page, the token endpoint and the read-only
// resources the client uses. Access tokens are signed JWTs with a short
// expiry so the renewal path can be exercised end to end, either from tests
// through httptest.NewServer or from the demo CLI.
package getresponsefake

import (
	"net/http"
	"net/url"
	"sync"
	"time"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

const (
	RouteConsent = "/oauth2_authorize.html"
	RouteToken   = "/token"
)

// Server is a fake GetResponse API. The zero value is not usable; use New.
type Server struct {
	mux       *http.ServeMux
	signer    *tokenSigner
	accessTTL time.Duration

	mu            sync.Mutex
	apps          map[string]*App
	codes         map[string]authCode
	refreshTokens map[string]refreshGrant
	expired       map[string]bool // access token jti
	calls         map[string]int
	lastQuery     map[string]url.Values
	data          Dataset
}

// Option configures a Server.
type Option func(*Server)

// WithAccessTokenTTL sets the lifetime of issued access tokens. Default one hour.
func WithAccessTokenTTL(ttl time.Duration) Option {
	return func(s *Server) {
		s.accessTTL = ttl
	}
}

// WithSigningKey sets the HMAC key used to sign access tokens.
func WithSigningKey(key string) Option {
	return func(s *Server) {
		s.signer = newTokenSigner(key)
	}
}

// WithDataset replaces the default account, campaigns and newsletters.
func WithDataset(data Dataset) Option {
	return func(s *Server) {
		s.data = data
	}
}

// New creates a fake API with the default dataset and no registered apps.
func New(opts ...Option) *Server {
	s := &Server{
		mux:           http.NewServeMux(),
		signer:        newTokenSigner("getresponsefake-signing-key"),
		accessTTL:     time.Hour,
		apps:          make(map[string]*App),
		codes:         make(map[string]authCode),
		refreshTokens: make(map[string]refreshGrant),
		expired:       make(map[string]bool),
		calls:         make(map[string]int),
		lastQuery:     make(map[string]url.Values),
		data:          DefaultDataset(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.initRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.calls[r.URL.Path]++
	s.lastQuery[r.URL.Path] = r.URL.Query()
	s.mu.Unlock()
	s.mux.ServeHTTP(w, r)
}

func (s *Server) initRoutes() {
	s.mux.HandleFunc("GET "+RouteConsent, s.consentHandler())
	s.mux.HandleFunc("POST "+RouteToken, s.tokenHandler())

	s.mux.HandleFunc("GET /accounts", s.authenticated(s.accountHandler()))
	s.mux.HandleFunc("GET /campaigns", s.authenticated(s.campaignsHandler()))
	s.mux.HandleFunc("GET /campaigns/{campaignId}", s.authenticated(s.campaignHandler()))
	s.mux.HandleFunc("GET /campaigns/{campaignId}/{resource}", s.authenticated(s.campaignResourceHandler()))
	s.mux.HandleFunc("GET /campaigns/statistics/{metric}", s.authenticated(s.statisticsHandler()))
	s.mux.HandleFunc("GET /newsletters", s.authenticated(s.newslettersHandler()))
	s.mux.HandleFunc("GET /newsletters/{newsletterId}", s.authenticated(s.newsletterHandler()))
	s.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "Resource not found")
	})
}

// Calls returns how many requests reached path.
func (s *Server) Calls(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[path]
}

// LastQuery returns the query string of the latest request to path.
func (s *Server) LastQuery(path string) url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastQuery[path]
}

// ExpireAccessTokens makes every access token issued so far report as expired.
func (s *Server) ExpireAccessTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for jti := range s.signer.issued {
		s.expired[jti] = true
	}
}

// RevokeRefreshTokens invalidates every outstanding refresh token.
func (s *Server) RevokeRefreshTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshTokens = make(map[string]refreshGrant)
}
