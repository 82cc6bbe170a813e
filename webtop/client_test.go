// ABOUTME: Tests for login, session handling and the generic authenticated request
// ABOUTME: Runs the client against the webtoptest fake portal

package webtop

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolkit/webtop/webtop/webtoptest"
)

func newTestClient(t *testing.T, srv *webtoptest.Server, opts ...Option) *Client {
	t.Helper()
	c := New("jane", "secret", append([]Option{WithBaseURL(srv.URL)}, opts...)...)
	t.Cleanup(c.Close)
	return c
}

func TestNew_Defaults(t *testing.T) {
	c := New("jane", "secret")
	defer c.Close()

	assert.Equal(t, DefaultBaseURL, c.BaseURL())
	assert.Equal(t, DefaultData, c.data)
	assert.Equal(t, DefaultTimeout, c.httpClient.Timeout)
	assert.True(t, c.autoLogin)
	assert.NotNil(t, c.httpClient.Jar)
	assert.False(t, c.IsLoggedIn())
}

func TestNew_SuppliedHTTPClientIsNotModified(t *testing.T) {
	srv := webtoptest.NewServer(t)
	hc := &http.Client{Timeout: 5 * time.Second}
	c := newTestClient(t, srv, WithHTTPClient(hc), WithTimeout(time.Minute))

	_, err := c.Login(context.Background())
	require.NoError(t, err)

	assert.Nil(t, hc.Jar)
	assert.Equal(t, 5*time.Second, c.httpClient.Timeout)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/outside", nil)
	require.NoError(t, err)
	resp, err := hc.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	reqs := srv.RequestsTo("/outside")
	require.Len(t, reqs, 1)
	assert.Empty(t, reqs[0].Token)
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	c := New("jane", "secret", WithBaseURL("https://portal.example.com///"))
	assert.Equal(t, "https://portal.example.com", c.BaseURL())
}

func TestLogin_Success(t *testing.T) {
	srv := webtoptest.NewServer(t)
	c := newTestClient(t, srv, WithData("opaque"), WithRememberMe(true), WithBiometricLogin("bio"))

	session, err := c.Login(context.Background())
	require.NoError(t, err)

	assert.Equal(t, webtoptest.Token, session.Token)
	assert.Equal(t, "user-1", session.UserID)
	assert.Equal(t, "student-1", session.StudentID)
	assert.Equal(t, "school-1", session.SchoolID)
	assert.Equal(t, "Test School", session.SchoolName)
	assert.Equal(t, "Jane Doe", session.FullName())
	assert.Equal(t, "enc-student-1", session.EncryptedID)
	assert.Equal(t, "Test School", session.Raw.Get("schoolName").String())
	assert.True(t, c.IsLoggedIn())

	logins := srv.RequestsTo(webtoptest.LoginPath)
	require.Len(t, logins, 1)
	body := logins[0].Body
	assert.Equal(t, http.MethodPost, logins[0].Method)
	assert.Equal(t, "jane", body.Get("UserName").String())
	assert.Equal(t, "secret", body.Get("Password").String())
	assert.Equal(t, "opaque", body.Get("Data").String())
	assert.True(t, body.Get("RememberMe").Bool())
	assert.Equal(t, "bio", body.Get("BiometricLogin").String())
	assert.Contains(t, logins[0].Header.Get("Content-Type"), "application/json")
}

func TestLogin_SetsTokenCookieOnLaterRequests(t *testing.T) {
	srv := webtoptest.NewServer(t)
	srv.HandleJSON(webtoptest.LoginPath, http.StatusOK,
		`{"status":true,"data":{"token":"T1","userId":"U1","firstName":"Jane","lastName":"Doe"}}`)
	srv.HandleJSON(PathInitDashboard, http.StatusOK, `{"status":true,"data":{"childrens":[]}}`)
	c := newTestClient(t, srv)

	session, err := c.Login(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Jane", session.FirstName)

	_, err = c.GetStudents(context.Background())
	require.NoError(t, err)

	reqs := srv.RequestsTo(PathInitDashboard)
	require.Len(t, reqs, 1)
	assert.Equal(t, "T1", reqs[0].Token)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.JSONEq(t, `{}`, reqs[0].Body.Raw)
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		contains []string
	}{
		{"http error", http.StatusInternalServerError, `{"status":true,"data":{"token":"T"}}`, []string{"500", `"token":"T"`}},
		{"unauthorized", http.StatusUnauthorized, `nope`, []string{"401", "nope"}},
		{"not json", http.StatusOK, `<html>maintenance</html>`, []string{"not JSON", "maintenance"}},
		{"status false", http.StatusOK, `{"status":false,"errorDescription":"bad password","errorId":"7"}`, []string{"bad password"}},
		{"status string", http.StatusOK, `{"status":"true","data":{"token":"T"}}`, []string{"status=false"}},
		{"status missing", http.StatusOK, `{"data":{"token":"T"}}`, []string{"status=false"}},
		{"missing token", http.StatusOK, `{"status":true,"data":{"userId":"U1"}}`, []string{"token"}},
		{"empty token", http.StatusOK, `{"status":true,"data":{"token":""}}`, []string{"token"}},
		{"missing data", http.StatusOK, `{"status":true}`, []string{"token"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := webtoptest.NewServer(t)
			srv.HandleJSON(webtoptest.LoginPath, tt.status, tt.body)
			c := newTestClient(t, srv)

			_, err := c.Login(context.Background())
			require.Error(t, err)

			var loginErr *LoginError
			require.ErrorAs(t, err, &loginErr)
			for _, want := range tt.contains {
				assert.Contains(t, err.Error(), want)
			}
			assert.Contains(t, err.Error(), "login")
			assert.False(t, c.IsLoggedIn())
		})
	}
}

func TestLogin_StatusFalseCarriesServerDetails(t *testing.T) {
	srv := webtoptest.NewServer(t)
	srv.HandleJSON(webtoptest.LoginPath, http.StatusOK, `{"status":false,"errorDescription":"locked","errorId":42}`)
	c := newTestClient(t, srv)

	_, err := c.Login(context.Background())

	var loginErr *LoginError
	require.ErrorAs(t, err, &loginErr)
	assert.Equal(t, "locked", loginErr.Description)
	assert.Equal(t, "42", loginErr.ID)
	assert.Equal(t, http.StatusOK, loginErr.StatusCode)
}

func TestLogin_ConnectionErrorIsLoginError(t *testing.T) {
	c := New("jane", "secret", WithBaseURL("http://localhost:99999"))
	defer c.Close()

	_, err := c.Login(context.Background())

	var loginErr *LoginError
	require.ErrorAs(t, err, &loginErr)
	assert.NotNil(t, loginErr.Unwrap())
}

func TestLogin_ReplacesSession(t *testing.T) {
	srv := webtoptest.NewServer(t)
	c := newTestClient(t, srv)

	_, err := c.Login(context.Background())
	require.NoError(t, err)

	srv.HandleJSON(webtoptest.LoginPath, http.StatusOK, `{"status":true,"data":{"token":"T2","firstName":"Other"}}`)
	session, err := c.Login(context.Background())
	require.NoError(t, err)

	current, err := c.Session()
	require.NoError(t, err)
	assert.Equal(t, session, current)
	assert.Equal(t, "T2", current.Token)
	assert.Empty(t, current.SchoolName)
}

func TestSession_NotLoggedIn(t *testing.T) {
	c := New("jane", "secret")
	_, err := c.Session()

	var loginErr *LoginError
	require.ErrorAs(t, err, &loginErr)
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestEnsureLoggedIn_AutoLogin(t *testing.T) {
	srv := webtoptest.NewServer(t)
	c := newTestClient(t, srv)

	require.NoError(t, c.EnsureLoggedIn(context.Background()))
	require.NoError(t, c.EnsureLoggedIn(context.Background()))

	assert.Equal(t, 1, srv.LoginCount())
	assert.True(t, c.IsLoggedIn())
}

func TestEnsureLoggedIn_IdempotentAfterLogin(t *testing.T) {
	srv := webtoptest.NewServer(t)
	c := newTestClient(t, srv)

	_, err := c.Login(context.Background())
	require.NoError(t, err)
	before := len(srv.Requests())

	require.NoError(t, c.EnsureLoggedIn(context.Background()))

	assert.Len(t, srv.Requests(), before)
}

func TestEnsureLoggedIn_AutoLoginDisabled(t *testing.T) {
	srv := webtoptest.NewServer(t)
	c := newTestClient(t, srv, WithAutoLogin(false))

	err := c.EnsureLoggedIn(context.Background())

	var loginErr *LoginError
	require.ErrorAs(t, err, &loginErr)
	assert.ErrorIs(t, err, ErrNotLoggedIn)
	assert.Empty(t, srv.Requests())
}

func TestRequest_LazyLoginThenCall(t *testing.T) {
	srv := webtoptest.NewServer(t)
	srv.HandleJSON("/server/api/custom", http.StatusOK, `{"ok":true}`)
	c := newTestClient(t, srv)

	resp, err := c.Request(context.Background(), http.MethodPost, "/server/api/custom", map[string]int{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	reqs := srv.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, webtoptest.LoginPath, reqs[0].Path)
	assert.Equal(t, "/server/api/custom", reqs[1].Path)
	assert.Equal(t, webtoptest.Token, reqs[1].Token)
	assert.JSONEq(t, `{"a":1}`, reqs[1].Body.Raw)
}

func TestRequest_MergesHeaders(t *testing.T) {
	srv := webtoptest.NewServer(t)
	srv.HandleJSON("/server/api/custom", http.StatusOK, `{}`)
	c := newTestClient(t, srv)

	_, err := c.Request(context.Background(), http.MethodPost, "/server/api/custom", nil,
		WithHeader("X-Extra", "1"),
		WithHeader("Content-Type", "text/plain"))
	require.NoError(t, err)

	reqs := srv.RequestsTo("/server/api/custom")
	require.Len(t, reqs, 1)
	assert.Equal(t, "1", reqs[0].Header.Get("X-Extra"))
	assert.Equal(t, "text/plain", reqs[0].Header.Get("Content-Type"))
	assert.Equal(t, "application/json", reqs[0].Header.Get("Accept"))
}

func TestRequest_ErrorStatus(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusInternalServerError} {
		srv := webtoptest.NewServer(t)
		srv.HandleJSON(PathInitDashboard, status, `{"message":"boom"}`)
		c := newTestClient(t, srv)

		_, err := c.GetStudents(context.Background())

		var reqErr *RequestError
		require.ErrorAs(t, err, &reqErr)
		assert.Equal(t, http.MethodPost, reqErr.Method)
		assert.Equal(t, PathInitDashboard, reqErr.Path)
		assert.Equal(t, status, reqErr.StatusCode)
		assert.Equal(t, `{"message":"boom"}`, reqErr.Body)
		assert.Contains(t, err.Error(), PathInitDashboard)
	}
}

func TestRequest_NoReauthOnUnauthorized(t *testing.T) {
	srv := webtoptest.NewServer(t)
	srv.HandleJSON(PathInitDashboard, http.StatusUnauthorized, `expired`)
	c := newTestClient(t, srv)

	_, err := c.GetStudents(context.Background())
	require.Error(t, err)
	_, err = c.GetStudents(context.Background())
	require.Error(t, err)

	assert.Equal(t, 1, srv.LoginCount())
}

func TestRequest_LoginFailurePropagates(t *testing.T) {
	srv := webtoptest.NewServer(t)
	srv.HandleJSON(webtoptest.LoginPath, http.StatusOK, `{"status":false}`)
	c := newTestClient(t, srv)

	_, err := c.GetStudents(context.Background())

	var loginErr *LoginError
	require.ErrorAs(t, err, &loginErr)
	assert.Empty(t, srv.RequestsTo(PathInitDashboard))
}

func TestRequest_NonJSONSuccessBody(t *testing.T) {
	srv := webtoptest.NewServer(t)
	srv.HandleJSON(PathInitDashboard, http.StatusOK, `not json`)
	c := newTestClient(t, srv)

	_, err := c.GetStudents(context.Background())
	require.Error(t, err)

	var reqErr *RequestError
	assert.False(t, errors.As(err, &reqErr))
}

func TestRequest_ContextCancellation(t *testing.T) {
	srv := webtoptest.NewServer(t)
	c := newTestClient(t, srv)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Request(ctx, http.MethodPost, PathInitDashboard, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRequest_ContextTimeout(t *testing.T) {
	srv := webtoptest.NewServer(t)
	srv.Handle(PathInitDashboard, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(500 * time.Millisecond):
		case <-r.Context().Done():
		}
	})
	c := newTestClient(t, srv)
	_, err := c.Login(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = c.GetStudents(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRequest_ConcurrentFirstCalls(t *testing.T) {
	srv := webtoptest.NewServer(t)
	srv.HandleJSON(PathPreviewUnreadNotifications, http.StatusOK, `{"data":[]}`)
	c := newTestClient(t, srv)

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.GetPreviewUnreadNotifications(context.Background())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.GreaterOrEqual(t, srv.LoginCount(), 1)
	assert.Len(t, srv.RequestsTo(PathPreviewUnreadNotifications), 5)
}

func TestClose_Twice(t *testing.T) {
	c := New("jane", "secret")
	c.Close()
	c.Close()
}
