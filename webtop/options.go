// ABOUTME: Functional options for constructing a portal client
// ABOUTME: Covers base URL, timeout, login parameters, auto-login and logging

package webtop

import (
	"log/slog"
	"net/http"
	"time"
)

// Option configures a Client at construction time.
type Option func(*Client)

// WithBaseURL overrides the portal host.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithTimeout sets the per-request timeout. It has no effect when WithHTTPClient is used.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithData sets the opaque Data value sent with the login request.
func WithData(data string) Option {
	return func(c *Client) {
		c.data = data
	}
}

// WithRememberMe sets the RememberMe login flag.
func WithRememberMe(remember bool) Option {
	return func(c *Client) {
		c.rememberMe = remember
	}
}

// WithBiometricLogin sets the BiometricLogin placeholder sent with the login request.
func WithBiometricLogin(value string) Option {
	return func(c *Client) {
		c.biometricLogin = value
	}
}

// WithAutoLogin controls whether authenticated calls log in lazily. Enabled by default.
func WithAutoLogin(enabled bool) Option {
	return func(c *Client) {
		c.autoLogin = enabled
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient supplies the transport, timeout and optional cookie jar.
// The client is copied, so hc itself is never modified; when hc has no jar the copy
// gets a private one. WithTimeout has no effect once a client is supplied.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

type requestOptions struct {
	headers http.Header
}

// RequestOption adjusts a single authenticated request.
type RequestOption func(*requestOptions)

// WithHeader sets a header on top of the client defaults.
func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) {
		if o.headers == nil {
			o.headers = make(http.Header)
		}
		o.headers.Set(key, value)
	}
}
