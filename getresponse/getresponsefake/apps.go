package getresponsefake

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// App is an OAuth application registered with the fake API.
type App struct {
	ClientID    string
	RedirectURI string // where the consent page sends the user; empty returns JSON
	secretHash  []byte
}

// RegisterApp adds an application. The secret is stored hashed.
func (s *Server) RegisterApp(clientID, clientSecret, redirectURI string) error {
	if clientID == "" || clientSecret == "" {
		return fmt.Errorf("client id and secret are required")
	}
	// MinCost keeps the fake fast; it never guards real credentials.
	hash, err := bcrypt.GenerateFromPassword([]byte(clientSecret), bcrypt.MinCost)
	if err != nil {
		return fmt.Errorf("hash client secret: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apps[clientID] = &App{ClientID: clientID, RedirectURI: redirectURI, secretHash: hash}
	return nil
}

// authenticateApp checks HTTP Basic credentials against the registered apps.
func (s *Server) authenticateApp(clientID, clientSecret string) (*App, bool) {
	s.mu.Lock()
	app, ok := s.apps[clientID]
	s.mu.Unlock()
	if !ok {
		return nil, false
	}
	if err := bcrypt.CompareHashAndPassword(app.secretHash, []byte(clientSecret)); err != nil {
		return nil, false
	}
	return app, true
}

func (s *Server) app(clientID string) (*App, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.apps[clientID]
	return app, ok
}
