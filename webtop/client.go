// ABOUTME: Authenticated HTTP client for the Webtop (SmartSchool) portal API
// ABOUTME: Handles credential login, the webToken cookie and lazy authentication

package webtop

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultBaseURL is the production portal host.
	DefaultBaseURL = "https://webtopserver.smartschool.co.il"

	// DefaultData is the fixed opaque value the login endpoint expects in its Data field.
	DefaultData = "+Aabe7FAdVluG6Lu+0ibrA=="

	// DefaultTimeout bounds every request made by the client.
	DefaultTimeout = 20 * time.Second

	// TokenCookie is the cookie the portal reads the session token from.
	TokenCookie = "webToken"

	loginPath = "/server/api/user/LoginByUserNameAndPassword"

	opLogin  = "login"
	opSwitch = "switch student"
)

// Client talks to the portal on behalf of a single account.
// At most one session is live per client; it is replaced wholesale by Login or SwitchStudent.
type Client struct {
	baseURL        string
	username       string
	password       string
	data           string
	rememberMe     bool
	biometricLogin string
	autoLogin      bool
	timeout        time.Duration
	logger         *slog.Logger
	httpClient     *http.Client

	mu      sync.RWMutex
	session *Session
}

// New creates a portal client. No network I/O happens until the first call.
func New(username, password string, opts ...Option) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		username:  username,
		password:  password,
		data:      DefaultData,
		autoLogin: true,
		timeout:   DefaultTimeout,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.baseURL = strings.TrimRight(c.baseURL, "/")

	// A supplied client is copied so the token cookie never lands in the caller's jar-less client.
	hc := http.Client{Timeout: c.timeout}
	if c.httpClient != nil {
		hc = *c.httpClient
	}
	if hc.Jar == nil {
		// cookiejar.New only fails on a bad PublicSuffixList, and none is passed
		jar, _ := cookiejar.New(nil)
		hc.Jar = jar
	}
	c.httpClient = &hc
	return c
}

// Close releases the idle connections held by the underlying transport.
// It is safe to call more than once.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// BaseURL returns the portal base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// IsLoggedIn reports whether a session is live.
func (c *Client) IsLoggedIn() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session != nil
}

// Session returns a copy of the live session.
func (c *Client) Session() (Session, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return Session{}, &LoginError{Message: "not logged in, call Login first", Err: ErrNotLoggedIn}
	}
	return *c.session, nil
}

type loginRequest struct {
	UserName       string `json:"UserName"`
	Password       string `json:"Password"`
	Data           string `json:"Data"`
	RememberMe     bool   `json:"RememberMe"`
	BiometricLogin string `json:"BiometricLogin"`
}

// Login performs the credential login and stores the returned token as the webToken cookie.
// A failed attempt is returned immediately as a *LoginError.
func (c *Client) Login(ctx context.Context) (Session, error) {
	body := loginRequest{
		UserName:       c.username,
		Password:       c.password,
		Data:           c.data,
		RememberMe:     c.rememberMe,
		BiometricLogin: c.biometricLogin,
	}

	resp, err := c.send(ctx, http.MethodPost, loginPath, body, nil)
	if err != nil {
		return Session{}, &LoginError{Message: "login request failed", Err: err}
	}

	session, err := c.establish(opLogin, resp)
	if err != nil {
		return Session{}, err
	}
	c.logger.Info("Logged in to portal", "user_id", session.UserID, "school", session.SchoolName)
	return session, nil
}

// establish validates an authentication response, installs the token cookie and replaces the session.
func (c *Client) establish(op string, resp *Response) (Session, error) {
	if resp.StatusCode >= 400 {
		return Session{}, &LoginError{
			Message:    fmt.Sprintf("%s failed (%d): %s", op, resp.StatusCode, resp.Body),
			StatusCode: resp.StatusCode,
		}
	}

	session, err := parseSession(op, resp)
	if err != nil {
		return Session{}, err
	}

	if err := c.setToken(session.Token); err != nil {
		return Session{}, &LoginError{Message: "cannot store session token", Err: err}
	}

	c.mu.Lock()
	c.session = &session
	c.mu.Unlock()

	return session, nil
}

// setToken attaches the token as a cookie for every path under the base URL.
func (c *Client) setToken(token string) error {
	u, err := url.Parse(c.baseURL + "/")
	if err != nil {
		return fmt.Errorf("parse base url: %w", err)
	}
	c.httpClient.Jar.SetCookies(u, []*http.Cookie{{Name: TokenCookie, Value: token, Path: "/"}})
	return nil
}

// EnsureLoggedIn logs in lazily. It is a no-op when a session is already live.
func (c *Client) EnsureLoggedIn(ctx context.Context) error {
	if c.IsLoggedIn() {
		return nil
	}
	if !c.autoLogin {
		return &LoginError{Message: "not logged in and auto-login is disabled, call Login first", Err: ErrNotLoggedIn}
	}
	_, err := c.Login(ctx)
	return err
}

// Request issues an authenticated call. The body, when not nil, is sent as JSON.
// Responses with status >= 400 are returned as a *RequestError.
func (c *Client) Request(ctx context.Context, method, path string, body any, opts ...RequestOption) (*Response, error) {
	if err := c.EnsureLoggedIn(ctx); err != nil {
		return nil, err
	}

	var ro requestOptions
	for _, opt := range opts {
		opt(&ro)
	}

	resp, err := c.send(ctx, method, path, body, ro.headers)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, &RequestError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       string(resp.Body),
		}
	}
	return resp, nil
}

// send performs one round trip and reads the whole body.
func (c *Client) send(ctx context.Context, method, path string, body any, headers http.Header) (*Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Accept", "application/json")
	for key, values := range headers {
		req.Header.Del(key)
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	requestID := uuid.NewString()
	start := time.Now()
	c.logger.Debug("Portal request started", "request_id", requestID, "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.handleRequestError(ctx, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s response: %w", method, path, err)
	}

	c.logger.Debug("Portal request completed",
		"request_id", requestID,
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"latency_ms", time.Since(start).Milliseconds(),
	)

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

// handleRequestError keeps context errors visible to errors.Is while naming the failed call.
func (c *Client) handleRequestError(ctx context.Context, method, path string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return fmt.Errorf("%s %s timed out: %w", method, path, ctxErr)
		}
		return fmt.Errorf("%s %s canceled: %w", method, path, ctxErr)
	}
	return fmt.Errorf("cannot reach portal at %s: %w", c.baseURL, err)
}
