package getresponse

// This file defines functional options that configure the Client during
// construction.

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/go-getresponse/internal/transport"
	"github.com/rs/zerolog"
)

// Option configures a Client during construction in New.
type Option func(*Client) error

// WithBaseURL points the client at another API root, e.g. GetResponse MAX
// (https://api3.getresponse360.com/v3) or a test server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) error {
		if baseURL == "" {
			return fmt.Errorf("base url cannot be empty")
		}
		c.baseURL = strings.TrimRight(baseURL, "/")
		return nil
	}
}

// WithTokenURL overrides the token endpoint. By default it is <base url>/token.
func WithTokenURL(tokenURL string) Option {
	return func(c *Client) error {
		if tokenURL == "" {
			return fmt.Errorf("token url cannot be empty")
		}
		c.tokenURL = tokenURL
		return nil
	}
}

// WithConsentURLTemplate overrides the consent page. The template must contain
// the {{clientId}} and {{state}} placeholders.
func WithConsentURLTemplate(template string) Option {
	return func(c *Client) error {
		if !strings.Contains(template, "{{clientId}}") || !strings.Contains(template, "{{state}}") {
			return fmt.Errorf("consent url template must contain {{clientId}} and {{state}}")
		}
		c.consentTemplate = template
		return nil
	}
}

// WithHTTPClient replaces the underlying http.Client. Apply it before
// WithHTTPTimeout and WithDebugLogging, which modify the client in place.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) error {
		if httpClient == nil {
			return fmt.Errorf("http client cannot be nil")
		}
		c.http = httpClient
		return nil
	}
}

// WithHTTPTimeout sets the underlying http.Client Timeout. A request that
// exceeds it fails with a *TransportError. The value must be greater than zero.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.http.Timeout = d
		return nil
	}
}

// WithLogger sets the logger used by the client and its token manager.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) error {
		c.logger = logger
		return nil
	}
}

// WithDebugLogging wraps the client's transport so each request/response is
// logged at debug level when enabled is true. Authorization headers are
// redacted, bodies are not; do not enable it in production.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		if enabled {
			if _, already := c.http.Transport.(*debugTransport); !already {
				c.http.Transport = &debugTransport{base: c.http.Transport}
			}
		}
		return nil
	}
}

// WithSender replaces the HTTP transport entirely. Used by tests.
func WithSender(sender transport.Sender) Option {
	return func(c *Client) error {
		if sender == nil {
			return fmt.Errorf("sender cannot be nil")
		}
		c.sender = sender
		return nil
	}
}
