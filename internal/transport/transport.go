// Package transport sends signed requests to the GetResponse API and turns
// the JSON responses into values or classified errors.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	errs "github.com/jrsteele09/go-getresponse/internal/errors"
	"github.com/rs/zerolog"
)

// Payload is a flat set of request parameters. GET requests send it as the
// query string, POST requests as a JSON object.
type Payload map[string]string

// Request describes a single API call.
type Request struct {
	Op            string // operation name used in errors and logs
	Method        string // http.MethodGet or http.MethodPost
	URL           string
	Payload       Payload
	Authorization string // full header value, e.g. "Bearer abc"
}

// Sender issues a request and returns the decoded JSON body.
// A vendor error body is returned as *errors.VendorError, any network or
// decoding failure as *errors.TransportError.
type Sender interface {
	Send(ctx context.Context, req Request) (any, error)
}

// HTTPClient interface for dependency injection
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPSender is the Sender backed by an HTTP client.
type HTTPSender struct {
	client HTTPClient
	logger zerolog.Logger
}

var _ Sender = (*HTTPSender)(nil)

// NewHTTPSender returns a Sender that uses client for the round trips.
func NewHTTPSender(client HTTPClient, logger zerolog.Logger) *HTTPSender {
	return &HTTPSender{
		client: client,
		logger: logger.With().Str("component", "transport").Logger(),
	}
}

func (s *HTTPSender) Send(ctx context.Context, req Request) (any, error) {
	httpReq, err := newHTTPRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().Str("op", req.Op).Str("method", req.Method).Str("url", httpReq.URL.Redacted()).Msg("sending request")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, &errs.TransportError{Op: req.Op, URL: req.URL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &errs.TransportError{Op: req.Op, URL: req.URL, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response body: %w", err)}
	}

	value, err := decodeJSON(body)
	if err != nil {
		return nil, &errs.TransportError{Op: req.Op, URL: req.URL, StatusCode: resp.StatusCode, Err: err}
	}

	if vendorErr := Classify(resp.StatusCode, value); vendorErr != nil {
		s.logger.Debug().Str("op", req.Op).Int("status", resp.StatusCode).Int("code", vendorErr.Code).Msg("vendor returned an error")
		return nil, vendorErr
	}
	return value, nil
}

func newHTTPRequest(ctx context.Context, req Request) (*http.Request, error) {
	var body io.Reader
	target := req.URL

	switch req.Method {
	case http.MethodGet:
		if len(req.Payload) > 0 {
			u, err := url.Parse(req.URL)
			if err != nil {
				return nil, &errs.TransportError{Op: req.Op, URL: req.URL, Err: err}
			}
			q := u.Query()
			for k, v := range req.Payload {
				q.Set(k, v)
			}
			u.RawQuery = q.Encode()
			target = u.String()
		}
	case http.MethodPost:
		if len(req.Payload) > 0 {
			b, err := json.Marshal(req.Payload)
			if err != nil {
				return nil, &errs.TransportError{Op: req.Op, URL: req.URL, Err: fmt.Errorf("encode request body: %w", err)}
			}
			body = bytes.NewReader(b)
		}
	default:
		return nil, &errs.TransportError{Op: req.Op, URL: req.URL, Err: fmt.Errorf("unsupported method %q", req.Method)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, &errs.TransportError{Op: req.Op, URL: req.URL, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if req.Authorization != "" {
		httpReq.Header.Set("Authorization", req.Authorization)
	}
	return httpReq, nil
}

func decodeJSON(body []byte) (any, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, fmt.Errorf("empty response body")
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode response body: %w", err)
	}
	return v, nil
}
