package getresponse

import (
	"net/http"
	"net/http/httputil"
	"os"

	"github.com/rs/zerolog/log"
)

// debugTransport logs every request and response GetResponse sees.
//
// Enable it with WithDebugLogging(true) or by exporting GETRESPONSE_DEBUG=true.
// Authorization headers are replaced before dumping; payloads are logged as is.
type debugTransport struct{ base http.RoundTripper }

func (dt *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := dt.base
	if base == nil {
		base = http.DefaultTransport
	}

	redacted := req.Clone(req.Context())
	if redacted.Header.Get("Authorization") != "" {
		redacted.Header.Set("Authorization", "REDACTED")
	}
	if req.GetBody != nil {
		if body, err := req.GetBody(); err == nil {
			redacted.Body = body
		}
	}
	if reqDump, err := httputil.DumpRequestOut(redacted, redacted.Body != nil); err == nil {
		log.Debug().Str("method", req.Method).Str("url", req.URL.Redacted()).Str("request_dump", string(reqDump)).Msg("HTTP request")
	}

	resp, err := base.RoundTrip(req)
	if err != nil {
		log.Error().Err(err).Str("method", req.Method).Str("url", req.URL.Redacted()).Msg("HTTP request failed")
		return nil, err
	}

	if respDump, err := httputil.DumpResponse(resp, true); err == nil {
		log.Debug().Str("method", req.Method).Str("url", req.URL.Redacted()).Int("status_code", resp.StatusCode).Str("response_dump", string(respDump)).Msg("HTTP response")
	}
	return resp, nil
}

// debugLoggingRequested reports whether GETRESPONSE_DEBUG=true is set.
func debugLoggingRequested() bool {
	return os.Getenv("GETRESPONSE_DEBUG") == "true"
}
