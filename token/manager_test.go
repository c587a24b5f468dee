package token_test

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	errs "github.com/jrsteele09/go-getresponse/internal/errors"
	"github.com/jrsteele09/go-getresponse/internal/transport"
	"github.com/jrsteele09/go-getresponse/oauth2"
	"github.com/jrsteele09/go-getresponse/oauthmodel"
	"github.com/jrsteele09/go-getresponse/token"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const (
	testClientID     = "client-1"
	testClientSecret = "secret-1"
	testState        = "SDgh43r098udfsdF2"
)

type stubResponse struct {
	value any
	err   error
}

// stubSender records every request and replays canned responses in order.
type stubSender struct {
	requests  []transport.Request
	responses []stubResponse
}

func (s *stubSender) Send(_ context.Context, req transport.Request) (any, error) {
	s.requests = append(s.requests, req)
	if len(s.responses) == 0 {
		return map[string]any{}, nil
	}
	r := s.responses[0]
	s.responses = s.responses[1:]
	return r.value, r.err
}

func newManager(sender transport.Sender, opts ...token.ManagerOption) *token.Manager {
	opts = append([]token.ManagerOption{token.WithLogger(zerolog.Nop())}, opts...)
	return token.NewManager(token.Credentials{
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		State:        testState,
	}, sender, opts...)
}

func basicHeader() string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(testClientID+":"+testClientSecret))
}

func TestConsentURL(t *testing.T) {
	m := newManager(&stubSender{})

	consentURL := m.ConsentURL()
	require.Contains(t, consentURL, testClientID)
	require.Contains(t, consentURL, testState)
	require.NotContains(t, consentURL, "{{")
	require.NotContains(t, consentURL, "}}")
	require.True(t, strings.HasPrefix(consentURL, "https://app.getresponse.com/oauth2_authorize.html?"))

	u, err := url.Parse(consentURL)
	require.NoError(t, err)
	require.Equal(t, "code", u.Query().Get("response_type"))
	require.Equal(t, testClientID, u.Query().Get("client_id"))
	require.Equal(t, testState, u.Query().Get("state"))
}

func TestConsentURL_EscapesValues(t *testing.T) {
	m := token.NewManager(token.Credentials{ClientID: "id", State: "a#b&c"}, &stubSender{}, token.WithLogger(zerolog.Nop()))

	u, err := url.Parse(m.ConsentURL())
	require.NoError(t, err)
	require.Equal(t, "a#b&c", u.Query().Get("state"))
}

func TestConsentURL_CustomTemplate(t *testing.T) {
	m := newManager(&stubSender{}, token.WithConsentURLTemplate("https://app.getresponse360.pl/oauth2_authorize.html?client_id={{clientId}}&state={{state}}&response_type=code"))
	require.Equal(t, "https://app.getresponse360.pl/oauth2_authorize.html?client_id=client-1&state=SDgh43r098udfsdF2&response_type=code", m.ConsentURL())
}

func TestExchange(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		sender := &stubSender{responses: []stubResponse{{value: map[string]any{
			"access_token":  "access-1",
			"refresh_token": "refresh-1",
			"expires_in":    float64(86400),
		}}}}
		m := newManager(sender, token.WithTokenURL("https://api.example.test/v3/token"))

		ts, err := m.Exchange(context.Background(), "code-1", testState)
		require.NoError(t, err)
		require.Equal(t, "access-1", ts.AccessToken)
		require.Equal(t, "refresh-1", ts.RefreshToken)
		require.Empty(t, m.AccessToken(), "exchange does not install the token")

		require.Len(t, sender.requests, 1)
		req := sender.requests[0]
		require.Equal(t, http.MethodPost, req.Method)
		require.Equal(t, "https://api.example.test/v3/token", req.URL)
		require.Equal(t, basicHeader(), req.Authorization)
		require.Equal(t, transport.Payload{"grant_type": "authorization_code", "code": "code-1"}, req.Payload)
	})

	t.Run("uses basic auth even with an access token set", func(t *testing.T) {
		sender := &stubSender{responses: []stubResponse{{value: map[string]any{"access_token": "access-2"}}}}
		m := newManager(sender)
		require.NoError(t, m.SetAccessToken("old"))

		_, err := m.Exchange(context.Background(), "code-1", testState)
		require.NoError(t, err)
		require.Equal(t, basicHeader(), sender.requests[0].Authorization)
	})

	mismatched := []string{"", "sdgh43r098udfsdf2", testState + " ", "other", testState[:5]}
	for _, state := range mismatched {
		t.Run("state mismatch "+state, func(t *testing.T) {
			sender := &stubSender{}
			m := newManager(sender)

			_, err := m.Exchange(context.Background(), "code-1", state)
			require.ErrorIs(t, err, errs.ErrInvalidCallback)
			require.Empty(t, sender.requests)
		})
	}

	t.Run("missing code", func(t *testing.T) {
		sender := &stubSender{}
		m := newManager(sender)

		_, err := m.Exchange(context.Background(), "", testState)
		require.ErrorIs(t, err, errs.ErrInvalidCallback)
		require.ErrorIs(t, err, oauthmodel.ErrMissingCode)
		require.Empty(t, sender.requests)
	})

	t.Run("vendor error", func(t *testing.T) {
		sender := &stubSender{responses: []stubResponse{{err: &errs.VendorError{Code: 1000, Message: "invalid grant"}}}}
		m := newManager(sender)

		_, err := m.Exchange(context.Background(), "code-1", testState)
		var vendorErr *errs.VendorError
		require.ErrorAs(t, err, &vendorErr)
		require.Equal(t, 1000, vendorErr.Code)
	})

	t.Run("response without access token", func(t *testing.T) {
		sender := &stubSender{responses: []stubResponse{{value: map[string]any{"refresh_token": "r"}}}}
		m := newManager(sender)

		_, err := m.Exchange(context.Background(), "code-1", testState)
		require.ErrorIs(t, err, errs.ErrMissingToken)
	})
}

func TestExchangeCallback(t *testing.T) {
	sender := &stubSender{responses: []stubResponse{{value: map[string]any{"access_token": "access-1"}}}}
	m := newManager(sender)

	ts, err := m.ExchangeCallback(context.Background(), url.Values{"code": {"code-1"}, "state": {testState}})
	require.NoError(t, err)
	require.Equal(t, "access-1", ts.AccessToken)

	_, err = m.ExchangeCallback(context.Background(), url.Values{"error": {"access_denied"}, "state": {testState}})
	require.ErrorIs(t, err, errs.ErrInvalidCallback)
	require.Len(t, sender.requests, 1)
}

func TestSetAccessToken(t *testing.T) {
	m := newManager(&stubSender{})

	require.ErrorIs(t, m.SetAccessToken(""), errs.ErrMissingToken)
	require.Equal(t, basicHeader(), m.Authorization())

	require.NoError(t, m.SetAccessToken("access-1"))
	require.Equal(t, "Bearer access-1", m.Authorization())

	require.NoError(t, m.SetAccessToken("access-2"))
	require.Equal(t, "access-2", m.AccessToken())
}

func TestRegisterRenewalCallback(t *testing.T) {
	m := newManager(&stubSender{})
	require.False(t, m.CanRenew())

	m.RegisterRenewalCallback("refresh-1", nil)
	require.False(t, m.CanRenew(), "a callback is required")

	m.RegisterRenewalCallback("", token.RenewalFunc(func(context.Context, oauth2.TokenSet) error { return nil }))
	require.False(t, m.CanRenew(), "a refresh token is required")

	m.RegisterRenewalCallback("refresh-1", token.RenewalFunc(func(context.Context, oauth2.TokenSet) error { return nil }))
	require.True(t, m.CanRenew())
	require.NotNil(t, m.Callback())
}

// clearingSender checks the manager dropped its access token before the
// renewal request went out.
type clearingSender struct {
	t       *testing.T
	manager *token.Manager
	calls   int
}

func (s *clearingSender) Send(_ context.Context, req transport.Request) (any, error) {
	s.calls++
	require.Empty(s.t, s.manager.AccessToken())
	require.Equal(s.t, basicHeader(), req.Authorization)
	require.Equal(s.t, transport.Payload{"grant_type": "refresh_token", "refresh_token": "refresh-1"}, req.Payload)
	return map[string]any{"access_token": "access-2", "refresh_token": "refresh-2", "expires_in": float64(60)}, nil
}

func TestRenew(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	token.NowTimeFunc = func() time.Time { return fixed }
	t.Cleanup(func() { token.NowTimeFunc = time.Now })

	sender := &clearingSender{t: t}
	m := newManager(sender)
	sender.manager = m
	require.NoError(t, m.SetAccessToken("access-1"))
	m.RegisterRenewalCallback("refresh-1", token.RenewalFunc(func(context.Context, oauth2.TokenSet) error { return nil }))

	ts, err := m.Renew(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, sender.calls)
	require.Equal(t, "access-2", ts.AccessToken)
	require.Equal(t, "access-2", m.AccessToken())

	tok, err := m.Token()
	require.NoError(t, err)
	require.Equal(t, "refresh-2", tok.RefreshToken, "rotated refresh token is kept")
	require.Equal(t, fixed.Add(time.Minute), tok.Expiry)
}

func TestRenew_FailureLeavesNoToken(t *testing.T) {
	sender := &stubSender{responses: []stubResponse{{err: &errs.VendorError{Code: 1000, Message: "invalid refresh token"}}}}
	m := newManager(sender)
	require.NoError(t, m.SetAccessToken("access-1"))
	m.RegisterRenewalCallback("refresh-1", token.RenewalFunc(func(context.Context, oauth2.TokenSet) error { return nil }))

	_, err := m.Renew(context.Background())
	require.Error(t, err)
	require.Empty(t, m.AccessToken(), "the stale token is never reused")

	_, err = m.Token()
	require.ErrorIs(t, err, errs.ErrMissingToken)
}

func TestRenew_WithoutRotationKeepsRefreshToken(t *testing.T) {
	sender := &stubSender{responses: []stubResponse{{value: map[string]any{
		"access_token": "access-2",
		"token_type":   "bearer",
		"expires_in":   float64(86400),
	}}}}
	m := newManager(sender)
	require.NoError(t, m.SetAccessToken("access-1"))
	m.RegisterRenewalCallback("refresh-1", token.RenewalFunc(func(context.Context, oauth2.TokenSet) error { return nil }))

	ts, err := m.Renew(context.Background())
	require.NoError(t, err)
	require.Equal(t, "refresh-1", ts.RefreshToken)
	require.Equal(t, "refresh-1", ts.Raw["refresh_token"])
	require.Equal(t, "refresh-1", ts.Payload()["refresh_token"])
	require.True(t, m.CanRenew())
	require.Equal(t, "Bearer access-2", m.Authorization(), "token type is normalized")
}
