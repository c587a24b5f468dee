package getresponse_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/jrsteele09/go-getresponse/getresponse"
	"github.com/jrsteele09/go-getresponse/getresponse/getresponsefake"
	"github.com/jrsteele09/go-getresponse/token/store"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const fakeState = "SDgh43r098udfsdF"

// connectToFake runs the consent flow against a fake API and returns a client
// holding a fresh token set persisted to tokens.
func connectToFake(t *testing.T, fakeOpts ...getresponsefake.Option) (*getresponsefake.Server, *getresponse.Client, *store.MemoryStore) {
	t.Helper()
	fake := getresponsefake.New(fakeOpts...)
	require.NoError(t, fake.RegisterApp("client-1", "secret-1", ""))
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	c, err := getresponse.New(getresponse.Credentials{ClientID: "client-1", ClientSecret: "secret-1", State: fakeState},
		getresponse.WithBaseURL(srv.URL),
		getresponse.WithConsentURLTemplate(srv.URL+getresponsefake.RouteConsent+"?response_type=code&client_id={{clientId}}&state={{state}}"),
		getresponse.WithLogger(zerolog.Nop()),
	)
	require.NoError(t, err)

	resp, err := http.Get(c.ConsentURL())
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var redirect map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&redirect))
	require.Equal(t, fakeState, redirect["state"])

	ctx := context.Background()
	tokens, err := c.ExchangeCallback(ctx, url.Values{"code": {redirect["code"]}, "state": {redirect["state"]}})
	require.NoError(t, err)
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)

	mem := store.NewMemoryStore()
	require.NoError(t, mem.Save(ctx, tokens))
	require.NoError(t, c.SetAccessToken(tokens.AccessToken))
	c.RegisterRenewalCallback(tokens.RefreshToken, store.NewPersister(mem))
	return fake, c, mem
}

func TestFake_ConsentExchangeAndResources(t *testing.T) {
	fake, c, _ := connectToFake(t)
	ctx := context.Background()

	account, err := c.GetAccountInfo(ctx)
	require.NoError(t, err)
	require.Equal(t, "Xy", account["accountId"])

	campaigns, err := c.GetCampaigns(ctx)
	require.NoError(t, err)
	require.Len(t, campaigns, 2)

	campaign, err := c.GetCampaign(ctx, "V")
	require.NoError(t, err)
	require.Equal(t, "newsletter_list", campaign["name"])

	contacts, err := c.GetCampaignContacts(ctx, "V")
	require.NoError(t, err)
	require.Len(t, contacts, 2)

	blacklists, err := c.GetCampaignBlacklists(ctx, "V")
	require.NoError(t, err)
	require.Contains(t, blacklists, "masks")

	newsletters, err := c.GetNewsletters(ctx, "pF")
	require.NoError(t, err)
	require.Len(t, newsletters, 1)
	require.Equal(t, "N2", newsletters[0]["newsletterId"])

	newsletter, err := c.GetNewsletter(ctx, "N1")
	require.NoError(t, err)
	require.Equal(t, "March digest", newsletter["name"])

	stats, err := c.GetCampaignStatistics(ctx, "V", getresponse.MetricListSize, getresponse.StatisticsOptions{
		From: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		To:   "2024-03-02",
	})
	require.NoError(t, err)
	require.Contains(t, stats, "V")

	q := fake.LastQuery("/campaigns/statistics/list-size")
	require.Equal(t, "V", q.Get("query[campaignId]"))
	require.Equal(t, "day", q.Get("query[groupBy]"))
	require.Equal(t, "2024-03-01", q.Get("query[createdOn][from]"))
	require.Equal(t, "2024-03-02", q.Get("query[createdOn][to]"))
	require.Equal(t, 1, fake.Calls("/token"))
}

func TestFake_ExpiredTokenIsRenewedAndPersisted(t *testing.T) {
	fake, c, mem := connectToFake(t)
	ctx := context.Background()
	before, err := mem.Load(ctx)
	require.NoError(t, err)

	fake.ExpireAccessTokens()

	campaigns, err := c.GetCampaigns(ctx)
	require.NoError(t, err)
	require.Len(t, campaigns, 2)
	require.Equal(t, 2, fake.Calls("/campaigns"))
	require.Equal(t, 2, fake.Calls("/token"))

	after, err := mem.Load(ctx)
	require.NoError(t, err)
	require.NotEqual(t, before.AccessToken, after.AccessToken)
	require.NotEqual(t, before.RefreshToken, after.RefreshToken)
	require.Equal(t, after.AccessToken, c.TokenManager().AccessToken())

	// The rotated refresh token is used for the next renewal.
	fake.ExpireAccessTokens()
	_, err = c.GetAccountInfo(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, fake.Calls("/token"))
}

func TestFake_JWTExpiryTriggersRenewal(t *testing.T) {
	_, c, _ := connectToFake(t, getresponsefake.WithAccessTokenTTL(time.Minute))
	defer func() { getresponsefake.NowTimeFunc = time.Now }()
	getresponsefake.NowTimeFunc = func() time.Time { return time.Now().Add(2 * time.Minute) }

	_, err := c.GetAccountInfo(context.Background())
	require.NoError(t, err)
}

func TestFake_RevokedRefreshTokenFailsRenewal(t *testing.T) {
	fake, c, _ := connectToFake(t)
	fake.RevokeRefreshTokens()
	fake.ExpireAccessTokens()

	_, err := c.GetAccountInfo(context.Background())
	var vendorErr *getresponse.VendorError
	require.ErrorAs(t, err, &vendorErr)
	require.Equal(t, getresponsefake.CodeValidation, vendorErr.Code)
	require.Equal(t, 1, fake.Calls("/accounts"))
}

func TestFake_UnknownCampaign(t *testing.T) {
	_, c, _ := connectToFake(t)

	_, err := c.GetCampaign(context.Background(), "missing")
	var vendorErr *getresponse.VendorError
	require.ErrorAs(t, err, &vendorErr)
	require.Equal(t, getresponsefake.CodeNotFound, vendorErr.Code)
	require.Equal(t, http.StatusNotFound, vendorErr.HTTPStatus)
}

func TestFake_ExchangeReplayedCodeFails(t *testing.T) {
	fake := getresponsefake.New()
	require.NoError(t, fake.RegisterApp("client-1", "secret-1", ""))
	srv := httptest.NewServer(fake)
	defer srv.Close()

	c, err := getresponse.New(getresponse.Credentials{ClientID: "client-1", ClientSecret: "secret-1", State: fakeState},
		getresponse.WithBaseURL(srv.URL), getresponse.WithLogger(zerolog.Nop()))
	require.NoError(t, err)

	code, err := fake.Authorize("client-1")
	require.NoError(t, err)
	_, err = c.Exchange(context.Background(), code, fakeState)
	require.NoError(t, err)

	_, err = c.Exchange(context.Background(), code, fakeState)
	var vendorErr *getresponse.VendorError
	require.ErrorAs(t, err, &vendorErr)
}

func TestFake_WrongClientSecret(t *testing.T) {
	fake := getresponsefake.New()
	require.NoError(t, fake.RegisterApp("client-1", "secret-1", ""))
	srv := httptest.NewServer(fake)
	defer srv.Close()

	c, err := getresponse.New(getresponse.Credentials{ClientID: "client-1", ClientSecret: "wrong", State: fakeState},
		getresponse.WithBaseURL(srv.URL), getresponse.WithLogger(zerolog.Nop()))
	require.NoError(t, err)

	code, err := fake.Authorize("client-1")
	require.NoError(t, err)
	_, err = c.Exchange(context.Background(), code, fakeState)
	var vendorErr *getresponse.VendorError
	require.ErrorAs(t, err, &vendorErr)
	require.Equal(t, getresponsefake.CodeUnauthorized, vendorErr.Code)
}

func TestFake_UnreachableHostIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	c, err := getresponse.New(getresponse.Credentials{ClientID: "id", ClientSecret: "secret", State: "state"},
		getresponse.WithBaseURL(baseURL), getresponse.WithHTTPTimeout(2*time.Second), getresponse.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	require.NoError(t, c.SetAccessToken("access"))

	_, err = c.GetAccountInfo(context.Background())
	var transportErr *getresponse.TransportError
	require.ErrorAs(t, err, &transportErr)
}
