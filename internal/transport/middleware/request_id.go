package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/backoffice/pkg/ctxutil"
)

// RequestIDHeader carries the correlation id to the API.
const RequestIDHeader = "X-Request-Id"

// RequestID tags each outgoing request with the id stored in its context,
// generating one when absent.
func RequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			id := ctxutil.RequestIDFromCtx(r.Context())
			if id == "" {
				id = uuid.New().String()
			}
			ctx := ctxutil.WithRequestID(r.Context(), id)
			r = r.Clone(ctx)
			r.Header.Set(RequestIDHeader, id)
			return next.RoundTrip(r)
		})
	}
}
