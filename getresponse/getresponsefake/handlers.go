package getresponsefake

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-getresponse/oauth2"
	"github.com/rs/zerolog/log"
)

// Error codes returned in the body of failed requests.
const (
	CodeValidation   = 1000
	CodeNotFound     = 1013
	CodeExpiredToken = 1014
	CodeUnauthorized = 1015
)

var metrics = map[string]bool{
	"list-size":     true,
	"locations":     true,
	"origins":       true,
	"removals":      true,
	"subscriptions": true,
	"balance":       true,
	"summary":       true,
}

func (s *Server) consentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if oauth2.ResponseType(q.Get("response_type")) != oauth2.CodeResponseType {
			writeError(w, http.StatusBadRequest, CodeValidation, "response_type must be code")
			return
		}
		app, ok := s.app(q.Get("client_id"))
		if !ok {
			writeError(w, http.StatusBadRequest, CodeValidation, "unknown client_id")
			return
		}
		code, err := s.Authorize(app.ClientID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, CodeValidation, err.Error())
			return
		}

		if app.RedirectURI == "" {
			writeJSON(w, http.StatusOK, map[string]string{"code": code, "state": q.Get("state")})
			return
		}
		redirect, err := url.Parse(app.RedirectURI)
		if err != nil {
			writeError(w, http.StatusInternalServerError, CodeValidation, "invalid redirect uri")
			return
		}
		params := redirect.Query()
		params.Set("code", code)
		params.Set("state", q.Get("state"))
		redirect.RawQuery = params.Encode()
		http.Redirect(w, r, redirect.String(), http.StatusFound)
	}
}

func (s *Server) tokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, clientSecret, ok := r.BasicAuth()
		if !ok {
			writeError(w, http.StatusUnauthorized, CodeUnauthorized, "client credentials required")
			return
		}
		if _, ok := s.authenticateApp(clientID, clientSecret); !ok {
			writeError(w, http.StatusUnauthorized, CodeUnauthorized, "invalid client credentials")
			return
		}

		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, CodeValidation, "invalid JSON body")
			return
		}

		switch oauth2.GrantType(body["grant_type"]) {
		case oauth2.AuthorizationCodeGrant:
			if !s.redeemCode(clientID, body["code"]) {
				writeError(w, http.StatusBadRequest, CodeValidation, "invalid authorization code")
				return
			}
		case oauth2.RefreshTokenGrant:
			if !s.rotateRefreshToken(clientID, body["refresh_token"]) {
				writeError(w, http.StatusBadRequest, CodeValidation, "invalid refresh token")
				return
			}
		default:
			writeError(w, http.StatusBadRequest, CodeValidation, "unsupported grant_type")
			return
		}

		tokens, err := s.issueTokens(clientID)
		if err != nil {
			log.Err(err).Msg("getresponsefake: issue tokens")
			writeError(w, http.StatusInternalServerError, CodeValidation, "could not issue tokens")
			return
		}
		writeJSON(w, http.StatusOK, tokens)
	}
}

// authenticated rejects requests without a valid, unexpired bearer token.
func (s *Server) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			writeError(w, http.StatusUnauthorized, CodeUnauthorized, "access token required")
			return
		}
		claims, err := s.signer.parse(raw)
		switch {
		case errors.Is(err, jwtlib.ErrTokenExpired):
			writeError(w, http.StatusUnauthorized, CodeExpiredToken, "The access token provided is expired")
			return
		case err != nil:
			writeError(w, http.StatusUnauthorized, CodeUnauthorized, "invalid access token")
			return
		case s.accessTokenExpired(claims):
			writeError(w, http.StatusUnauthorized, CodeExpiredToken, "The access token provided is expired")
			return
		}
		next(w, r)
	}
}

func (s *Server) accountHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.data.Account)
	}
}

func (s *Server) campaignsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.data.Campaigns)
	}
}

func (s *Server) campaignHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		campaign, ok := s.data.campaign(r.PathValue("campaignId"))
		if !ok {
			writeError(w, http.StatusNotFound, CodeNotFound, "Campaign not found")
			return
		}
		writeJSON(w, http.StatusOK, campaign)
	}
}

func (s *Server) campaignResourceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		campaignID := r.PathValue("campaignId")
		if _, ok := s.data.campaign(campaignID); !ok {
			writeError(w, http.StatusNotFound, CodeNotFound, "Campaign not found")
			return
		}
		switch r.PathValue("resource") {
		case "contacts":
			contacts := s.data.Contacts[campaignID]
			if contacts == nil {
				contacts = []Object{}
			}
			writeJSON(w, http.StatusOK, contacts)
		case "blacklists":
			blacklist, ok := s.data.Blacklists[campaignID]
			if !ok {
				blacklist = Object{"masks": []string{}}
			}
			writeJSON(w, http.StatusOK, blacklist)
		default:
			writeError(w, http.StatusNotFound, CodeNotFound, "Resource not found")
		}
	}
}

func (s *Server) statisticsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metric := r.PathValue("metric")
		if !metrics[metric] {
			writeError(w, http.StatusNotFound, CodeNotFound, "Unknown statistics metric")
			return
		}
		campaignID := r.URL.Query().Get("query[campaignId]")
		if campaignID == "" {
			writeError(w, http.StatusBadRequest, CodeValidation, "query[campaignId] is required")
			return
		}
		if stats, ok := s.data.Statistics[metric]; ok {
			writeJSON(w, http.StatusOK, stats)
			return
		}
		writeJSON(w, http.StatusOK, Object{campaignID: Object{}})
	}
}

func (s *Server) newslettersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		campaignID := r.URL.Query().Get("query[campaignId]")
		newsletters := make([]Object, 0, len(s.data.Newsletters))
		for _, n := range s.data.Newsletters {
			if campaignID == "" || newsletterCampaignID(n) == campaignID {
				newsletters = append(newsletters, n)
			}
		}
		writeJSON(w, http.StatusOK, newsletters)
	}
}

func (s *Server) newsletterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("newsletterId")
		for _, n := range s.data.Newsletters {
			if n["newsletterId"] == id {
				writeJSON(w, http.StatusOK, n)
				return
			}
		}
		writeError(w, http.StatusNotFound, CodeNotFound, "Newsletter not found")
	}
}

// writeError writes the error body GetResponse uses for every failure.
func writeError(w http.ResponseWriter, status, code int, message string) {
	writeJSON(w, status, Object{
		"httpStatus":      status,
		"code":            code,
		"codeDescription": http.StatusText(status),
		"message":         message,
		"moreInfo":        "https://apidocs.getresponse.com/v3/errors/" + http.StatusText(status),
		"context":         []string{},
		"uuid":            uuid.New().String(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("getresponsefake: encode response")
	}
}
