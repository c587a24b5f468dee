package getresponse

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
)

func TestDebugTransport_RedactsAuthorization(t *testing.T) {
	var buf bytes.Buffer
	previous := log.Logger
	log.Logger = zerolog.New(&buf).Level(zerolog.DebugLevel)
	t.Cleanup(func() { log.Logger = previous })

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer top-secret", r.Header.Get("Authorization"), "the real header still reaches the server")
		_, _ = w.Write([]byte(`{"accountId":"A1"}`))
	}))
	t.Cleanup(srv.Close)

	c := &http.Client{Transport: &debugTransport{}}
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/accounts", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer top-secret")

	resp, err := c.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	out := buf.String()
	require.Contains(t, out, "REDACTED")
	require.Contains(t, out, "accountId")
	require.NotContains(t, out, "top-secret")
}

func TestWithDebugLogging_WrapsOnce(t *testing.T) {
	c := &Client{http: &http.Client{}}
	require.NoError(t, WithDebugLogging(true)(c))
	require.NoError(t, WithDebugLogging(true)(c))

	dt, ok := c.http.Transport.(*debugTransport)
	require.True(t, ok)
	require.Nil(t, dt.base)

	plain := &Client{http: &http.Client{}}
	require.NoError(t, WithDebugLogging(false)(plain))
	require.Nil(t, plain.http.Transport)
}

func TestDebugLoggingRequested(t *testing.T) {
	t.Setenv("GETRESPONSE_DEBUG", "true")
	require.True(t, debugLoggingRequested())
	t.Setenv("GETRESPONSE_DEBUG", "1")
	require.False(t, debugLoggingRequested())
}
