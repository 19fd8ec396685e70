package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// Recovery returns middleware that turns a panic in an inner round tripper
// into an error, logging it with a stack trace.
func Recovery(logger *slog.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (resp *http.Response, err error) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.ErrorContext(r.Context(), "panic recovered",
						slog.Any("error", rec),
						slog.String("stack", string(debug.Stack())),
						slog.String("url", r.URL.Redacted()),
					)
					resp = nil
					err = fmt.Errorf("round trip panicked: %v", rec)
				}
			}()
			return next.RoundTrip(r)
		})
	}
}
