// ABOUTME: Raw response returned by authenticated portal requests
// ABOUTME: Bodies are read eagerly and exposed as loosely-typed JSON

package webtop

import (
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// Response is a fully read portal response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// JSON returns the body as an opaque JSON value.
func (r *Response) JSON() (gjson.Result, error) {
	if !gjson.ValidBytes(r.Body) {
		return gjson.Result{}, fmt.Errorf("response is not valid JSON: %.200s", r.Body)
	}
	return gjson.ParseBytes(r.Body), nil
}
