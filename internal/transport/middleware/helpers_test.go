package middleware

import (
	"io"
	"net/http"
	"strings"
)

// okTransport answers every request with the given status and records the
// last request it saw.
type okTransport struct {
	status int
	last   *http.Request
	calls  int
}

func (t *okTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	t.calls++
	t.last = r
	status := t.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader("{}")),
		Header:     make(http.Header),
		Request:    r,
	}, nil
}
