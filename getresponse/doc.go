// Package getresponse is a client for the GetResponse v3 REST API using the
// OAuth2 authorization code flow.
//
// The client builds the consent URL, exchanges the authorization code for a
// token set and, when the API reports that the access token expired, renews
// it with the refresh token, hands the new token set to a registered
// callback so the application can persist it, and replays the failed request
// once.
//
// Usage:
//
//	client, err := getresponse.New(getresponse.Credentials{
//		ClientID:     "your client id",
//		ClientSecret: "your client secret",
//		State:        "SDgh43r098udfsdF",
//	})
//
//	// 1. Send the user to the consent page
//	http.Redirect(w, r, client.ConsentURL(), http.StatusFound)
//
//	// 2. On the redirect URL, exchange the code and persist the result
//	tokens, err := client.ExchangeCallback(ctx, r.URL.Query())
//
//	// 3. On every later run, install the tokens before calling the API
//	err = client.SetAccessToken(tokens.AccessToken)
//	client.RegisterRenewalCallback(tokens.RefreshToken, token.RenewalFunc(func(ctx context.Context, ts oauth2.TokenSet) error {
//		return save(ts)
//	}))
//	campaigns, err := client.GetCampaigns(ctx)
//
// A Client is safe for concurrent use; concurrent expiries trigger a single
// renewal.
package getresponse
