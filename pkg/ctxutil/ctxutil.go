// Package ctxutil carries per-request values that the HTTP client
// middleware logs: the request id and the GraphQL operation name.
package ctxutil

import "context"

type key int

const (
	requestIDKey key = iota
	operationKey
)

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx returns "" when no id was set.
func RequestIDFromCtx(ctx context.Context) string {
	return stringValue(ctx, requestIDKey)
}

// WithOperation lets the logger name the operation without reading the
// request body.
func WithOperation(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, operationKey, name)
}

// OperationFromCtx returns "" when no operation was set.
func OperationFromCtx(ctx context.Context) string {
	return stringValue(ctx, operationKey)
}

func stringValue(ctx context.Context, k key) string {
	s, _ := ctx.Value(k).(string)
	return s
}
