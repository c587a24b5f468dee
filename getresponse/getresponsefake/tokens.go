package getresponsefake

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type authCode struct {
	clientID string
	issuedAt time.Time
}

type refreshGrant struct {
	clientID  string
	accessJTI string
	issuedAt  time.Time
}

const authCodeTTL = 10 * time.Minute

// tokenSigner signs access tokens with HMAC-SHA256 and remembers their ids.
type tokenSigner struct {
	secret []byte
	issued map[string]bool
}

func newTokenSigner(secret string) *tokenSigner {
	return &tokenSigner{secret: []byte(secret), issued: make(map[string]bool)}
}

func (ts *tokenSigner) sign(claims jwtlib.MapClaims) (string, error) {
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(ts.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token with HMAC: %w", err)
	}
	return signed, nil
}

func (ts *tokenSigner) parse(raw string) (jwtlib.MapClaims, error) {
	claims := jwtlib.MapClaims{}
	_, err := jwtlib.ParseWithClaims(raw, claims, func(t *jwtlib.Token) (any, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.secret, nil
	}, jwtlib.WithTimeFunc(NowTimeFunc), jwtlib.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// Authorize issues an authorization code as if the user had granted consent.
func (s *Server) Authorize(clientID string) (string, error) {
	if _, ok := s.app(clientID); !ok {
		return "", fmt.Errorf("unknown client %q", clientID)
	}
	code := uuid.New().String()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[code] = authCode{clientID: clientID, issuedAt: NowTimeFunc()}
	return code, nil
}

// redeemCode consumes a single-use authorization code.
func (s *Server) redeemCode(clientID, code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ac, ok := s.codes[code]
	if !ok {
		return false
	}
	delete(s.codes, code)
	return ac.clientID == clientID && NowTimeFunc().Sub(ac.issuedAt) <= authCodeTTL
}

// rotateRefreshToken consumes refreshToken and reports whether it was valid.
func (s *Server) rotateRefreshToken(clientID, refreshToken string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	grant, ok := s.refreshTokens[refreshToken]
	if !ok || grant.clientID != clientID {
		return false
	}
	delete(s.refreshTokens, refreshToken)
	s.expired[grant.accessJTI] = true
	return true
}

// issueTokens creates an access token and a refresh token for clientID.
func (s *Server) issueTokens(clientID string) (map[string]any, error) {
	now := NowTimeFunc()
	jti := uuid.New().String()
	accessToken, err := s.signer.sign(jwtlib.MapClaims{
		"client_id": clientID,
		"scope":     "all",
		"iat":       now.Unix(),
		"exp":       now.Add(s.accessTTL).Unix(),
		"jti":       jti,
	})
	if err != nil {
		return nil, err
	}

	tokenBytes := make([]byte, 20)
	if _, err := rand.Read(tokenBytes); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	refreshToken := hex.EncodeToString(tokenBytes)

	s.mu.Lock()
	s.signer.issued[jti] = true
	s.refreshTokens[refreshToken] = refreshGrant{clientID: clientID, accessJTI: jti, issuedAt: now}
	s.mu.Unlock()

	return map[string]any{
		"access_token":  accessToken,
		"expires_in":    int(s.accessTTL.Seconds()),
		"token_type":    "Bearer",
		"scope":         "all",
		"refresh_token": refreshToken,
	}, nil
}

// accessTokenExpired reports whether the token's id was marked expired.
func (s *Server) accessTokenExpired(claims jwtlib.MapClaims) bool {
	jti, _ := claims["jti"].(string)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expired[jti]
}
