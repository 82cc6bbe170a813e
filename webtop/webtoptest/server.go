// ABOUTME: Fake Webtop portal for tests, built on httptest
// ABOUTME: Serves a canned login and records every request it receives

package webtoptest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/tidwall/gjson"
)

// Token is the session token issued by the default login handler.
const Token = "test-token"

// LoginPath is the portal's credential login endpoint.
const LoginPath = "/server/api/user/LoginByUserNameAndPassword"

// DefaultLoginResponse is the body served by the login endpoint unless overridden.
const DefaultLoginResponse = `{
  "status": true,
  "data": {
    "token": "` + Token + `",
    "id": "enc-student-1",
    "userId": "user-1",
    "studentId": "student-1",
    "schoolId": "school-1",
    "schoolName": "Test School",
    "firstName": "Jane",
    "lastName": "Doe"
  }
}`

// Request is a request as seen by the fake portal.
type Request struct {
	Method string
	Path   string
	// Token is the webToken cookie value, empty when the cookie was absent.
	Token  string
	Header http.Header
	Body   gjson.Result
}

// Server is a fake portal. Unregistered paths answer 404.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	requests []Request
	handlers map[string]http.HandlerFunc
}

// NewServer starts a fake portal that is closed when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()

	s := &Server{handlers: make(map[string]http.HandlerFunc)}
	s.HandleJSON(LoginPath, http.StatusOK, DefaultLoginResponse)
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Handle registers a handler for an exact path, replacing any previous one.
func (s *Server) Handle(path string, h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[path] = h
}

// HandleJSON registers a canned JSON reply for an exact path.
func (s *Server) HandleJSON(path string, status int, body string) {
	s.Handle(path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	})
}

// Requests returns every request received so far, in order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// RequestsTo returns the requests received for one path.
func (s *Server) RequestsTo(path string) []Request {
	var out []Request
	for _, r := range s.Requests() {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// LoginCount is the number of login calls received.
func (s *Server) LoginCount() int {
	return len(s.RequestsTo(LoginPath))
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	rec := Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Header: r.Header.Clone(),
		Body:   gjson.ParseBytes(body),
	}
	if cookie, err := r.Cookie("webToken"); err == nil {
		rec.Token = cookie.Value
	}

	s.mu.Lock()
	s.requests = append(s.requests, rec)
	h, ok := s.handlers[r.URL.Path]
	s.mu.Unlock()

	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"status":false,"errorDescription":"not found"}`)
		return
	}
	h(w, r)
}
