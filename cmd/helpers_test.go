// ABOUTME: Test helpers for command tests
// ABOUTME: Builds portal clients against the fake portal and resets global flags

package cmd

import (
	"os"
	"testing"

	"github.com/schoolkit/webtop/webtop"
	"github.com/schoolkit/webtop/webtop/webtoptest"
)

// newPortal starts a fake portal and returns a client logged in lazily against it.
func newPortal(t *testing.T) (*webtoptest.Server, *webtop.Client) {
	t.Helper()
	srv := webtoptest.NewServer(t)
	c := webtop.New("jane", "secret", webtop.WithBaseURL(srv.URL))
	t.Cleanup(c.Close)
	return srv, c
}

// withJSONOutput enables --json for the duration of a test.
func withJSONOutput(t *testing.T) {
	t.Helper()
	jsonOutput = true
	t.Cleanup(func() { jsonOutput = false })
}

// unsetEnv removes variables for the duration of a test. envconfig treats a
// variable set to "" as present, so t.Setenv(key, "") does not restore defaults.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		if value, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, value) })
		}
		os.Unsetenv(key)
	}
}
