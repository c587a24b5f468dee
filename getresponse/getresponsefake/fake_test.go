package getresponsefake_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/jrsteele09/go-getresponse/getresponse/getresponsefake"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func tokenRequest(t *testing.T, fake http.Handler, clientID, secret, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, getresponsefake.RouteToken, strings.NewReader(body))
	req.SetBasicAuth(clientID, secret)
	rr := httptest.NewRecorder()
	fake.ServeHTTP(rr, req)
	return rr
}

func TestConsent_RedirectsWithCodeAndState(t *testing.T) {
	fake := getresponsefake.New()
	require.NoError(t, fake.RegisterApp("client-1", "secret-1", "http://localhost:8080/callback?source=fake"))

	req := httptest.NewRequest(http.MethodGet, getresponsefake.RouteConsent+"?response_type=code&client_id=client-1&state=abc", nil)
	rr := httptest.NewRecorder()
	fake.ServeHTTP(rr, req)

	require.Equal(t, http.StatusFound, rr.Code)
	location, err := url.Parse(rr.Header().Get("Location"))
	require.NoError(t, err)
	require.Equal(t, "/callback", location.Path)
	require.Equal(t, "abc", location.Query().Get("state"))
	require.Equal(t, "fake", location.Query().Get("source"))
	require.NotEmpty(t, location.Query().Get("code"))
}

func TestConsent_RejectsUnknownClient(t *testing.T) {
	fake := getresponsefake.New()

	req := httptest.NewRequest(http.MethodGet, getresponsefake.RouteConsent+"?response_type=code&client_id=nobody&state=abc", nil)
	rr := httptest.NewRecorder()
	fake.ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.EqualValues(t, getresponsefake.CodeValidation, decode(t, rr)["code"])
}

func TestConsent_RejectsImplicitFlow(t *testing.T) {
	fake := getresponsefake.New()
	require.NoError(t, fake.RegisterApp("client-1", "secret-1", ""))

	req := httptest.NewRequest(http.MethodGet, getresponsefake.RouteConsent+"?response_type=token&client_id=client-1&state=abc", nil)
	rr := httptest.NewRecorder()
	fake.ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.EqualValues(t, getresponsefake.CodeValidation, decode(t, rr)["code"])
}

func TestToken_AuthorizationCodeGrant(t *testing.T) {
	fake := getresponsefake.New()
	require.NoError(t, fake.RegisterApp("client-1", "secret-1", ""))
	code, err := fake.Authorize("client-1")
	require.NoError(t, err)

	rr := tokenRequest(t, fake, "client-1", "secret-1", `{"grant_type":"authorization_code","code":"`+code+`"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	body := decode(t, rr)
	require.NotEmpty(t, body["access_token"])
	require.NotEmpty(t, body["refresh_token"])
	require.Equal(t, "Bearer", body["token_type"])
	require.EqualValues(t, 3600, body["expires_in"])
}

func TestToken_Rejections(t *testing.T) {
	fake := getresponsefake.New()
	require.NoError(t, fake.RegisterApp("client-1", "secret-1", ""))

	tests := []struct {
		name   string
		secret string
		body   string
		status int
		code   int
	}{
		{"wrong secret", "nope", `{"grant_type":"authorization_code","code":"x"}`, http.StatusUnauthorized, getresponsefake.CodeUnauthorized},
		{"unknown code", "secret-1", `{"grant_type":"authorization_code","code":"x"}`, http.StatusBadRequest, getresponsefake.CodeValidation},
		{"unknown refresh token", "secret-1", `{"grant_type":"refresh_token","refresh_token":"x"}`, http.StatusBadRequest, getresponsefake.CodeValidation},
		{"unsupported grant", "secret-1", `{"grant_type":"password"}`, http.StatusBadRequest, getresponsefake.CodeValidation},
		{"not json", "secret-1", `grant_type=refresh_token`, http.StatusBadRequest, getresponsefake.CodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := tokenRequest(t, fake, "client-1", tt.secret, tt.body)
			require.Equal(t, tt.status, rr.Code)
			body := decode(t, rr)
			require.EqualValues(t, tt.code, body["code"])
			require.NotEmpty(t, body["message"])
		})
	}
}

func TestResources_RequireBearerToken(t *testing.T) {
	fake := getresponsefake.New()

	req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
	rr := httptest.NewRecorder()
	fake.ServeHTTP(rr, req)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.EqualValues(t, getresponsefake.CodeUnauthorized, decode(t, rr)["code"])

	req = httptest.NewRequest(http.MethodGet, "/accounts", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rr = httptest.NewRecorder()
	fake.ServeHTTP(rr, req)
	require.EqualValues(t, getresponsefake.CodeUnauthorized, decode(t, rr)["code"])
	require.Equal(t, 2, fake.Calls("/accounts"))
}

func TestResources_ExpiredAndRefreshed(t *testing.T) {
	fake := getresponsefake.New()
	require.NoError(t, fake.RegisterApp("client-1", "secret-1", ""))
	code, err := fake.Authorize("client-1")
	require.NoError(t, err)
	tokens := decode(t, tokenRequest(t, fake, "client-1", "secret-1", `{"grant_type":"authorization_code","code":"`+code+`"}`))

	get := func(accessToken string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/campaigns", nil)
		req.Header.Set("Authorization", "Bearer "+accessToken)
		rr := httptest.NewRecorder()
		fake.ServeHTTP(rr, req)
		return rr
	}

	require.Equal(t, http.StatusOK, get(tokens["access_token"].(string)).Code)

	fake.ExpireAccessTokens()
	rr := get(tokens["access_token"].(string))
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.EqualValues(t, getresponsefake.CodeExpiredToken, decode(t, rr)["code"])

	renewed := decode(t, tokenRequest(t, fake, "client-1", "secret-1", `{"grant_type":"refresh_token","refresh_token":"`+tokens["refresh_token"].(string)+`"}`))
	require.Equal(t, http.StatusOK, get(renewed["access_token"].(string)).Code)

	// Refresh tokens are single use.
	rr = tokenRequest(t, fake, "client-1", "secret-1", `{"grant_type":"refresh_token","refresh_token":"`+tokens["refresh_token"].(string)+`"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestStatistics_Validation(t *testing.T) {
	fake := getresponsefake.New()
	require.NoError(t, fake.RegisterApp("client-1", "secret-1", ""))
	code, err := fake.Authorize("client-1")
	require.NoError(t, err)
	tokens := decode(t, tokenRequest(t, fake, "client-1", "secret-1", `{"grant_type":"authorization_code","code":"`+code+`"}`))
	bearer := "Bearer " + tokens["access_token"].(string)

	tests := []struct {
		path   string
		status int
	}{
		{"/campaigns/statistics/list-size?query%5BcampaignId%5D=V", http.StatusOK},
		{"/campaigns/statistics/origins?query%5BcampaignId%5D=V", http.StatusOK},
		{"/campaigns/statistics/list-size", http.StatusBadRequest},
		{"/campaigns/statistics/opens?query%5BcampaignId%5D=V", http.StatusNotFound},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		req.Header.Set("Authorization", bearer)
		rr := httptest.NewRecorder()
		fake.ServeHTTP(rr, req)
		require.Equal(t, tt.status, rr.Code, tt.path)
	}
}
