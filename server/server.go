package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-getresponse/getresponse"
	"github.com/jrsteele09/go-getresponse/internal/config"
	"github.com/jrsteele09/go-getresponse/oauth2"
	"github.com/jrsteele09/go-getresponse/token/store"
	"github.com/rs/zerolog/log"
)

// Server is the demo host: it sends the user through GetResponse's consent
// page, keeps the resulting tokens in a store and shows the account.
type Server struct {
	env    string // Environment (e.g., "DEV", "PROD")
	mux    *http.ServeMux
	routes []string
	config config.Config
	client *getresponse.Client
	tokens store.Store
	index  *template.Template
}

func New(ctx context.Context, config config.Config, client *getresponse.Client, tokens store.Store) (*Server, error) {
	index, err := ParseTemplate("index.html")
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to parse index template: %w", err)
	}

	s := &Server{
		env:    config.GetEnv(),
		mux:    http.NewServeMux(),
		config: config,
		client: client,
		tokens: tokens,
		index:  index,
	}

	if err := s.restoreTokens(ctx); err != nil {
		return nil, fmt.Errorf("[Server New] failed to restore tokens: %w", err)
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

// restoreTokens installs previously stored tokens so a restart does not send
// the user back through consent.
func (s *Server) restoreTokens(ctx context.Context) error {
	tokens, err := s.tokens.Load(ctx)
	if errors.Is(err, store.ErrNotFound) {
		log.Info().Msg("no stored GetResponse tokens, consent required")
		return nil
	}
	if err != nil {
		return err
	}
	return s.installTokens(tokens)
}

func (s *Server) installTokens(tokens oauth2.TokenSet) error {
	if err := s.client.SetAccessToken(tokens.AccessToken); err != nil {
		return err
	}
	s.client.RegisterRenewalCallback(tokens.RefreshToken, store.NewPersister(s.tokens))
	return nil
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Info().Msgf("[%-19s] %s", displayMethod, path)
}
