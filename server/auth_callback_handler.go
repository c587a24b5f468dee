package server

import (
	"errors"
	"net/http"

	"github.com/jrsteele09/go-getresponse/getresponse"
	"github.com/rs/zerolog/log"
)

// CallbackHandler receives the consent redirect, exchanges the code and
// persists the token set before sending the user back to the index.
func (s *Server) CallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokens, err := s.client.ExchangeCallback(r.Context(), r.URL.Query())
		if errors.Is(err, getresponse.ErrInvalidCallback) {
			logError(r.Method, r.URL.Path, err.Error())
			http.Error(w, "Authorization failed: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err != nil {
			logError(r.Method, r.URL.Path, err.Error())
			http.Error(w, "Token exchange failed", http.StatusBadGateway)
			return
		}

		if err := s.tokens.Save(r.Context(), tokens); err != nil {
			log.Err(err).Msg("failed to persist GetResponse tokens")
			http.Error(w, "Failed to store tokens", http.StatusInternalServerError)
			return
		}
		if err := s.installTokens(tokens); err != nil {
			log.Err(err).Msg("failed to install GetResponse tokens")
			http.Error(w, "Token exchange failed", http.StatusBadGateway)
			return
		}

		log.Info().Int("expires_in", tokens.ExpiresIn).Msg("connected to GetResponse")
		http.Redirect(w, r, RouteIndex, http.StatusFound)
	}
}
