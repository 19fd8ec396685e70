package graphql

import (
	"fmt"
	"strings"

	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/heartmarshall/backoffice/internal/domain"
)

// Extension codes the API attaches to errors.
const (
	CodeNotFound        = "NOT_FOUND"
	CodeAlreadyExists   = "ALREADY_EXISTS"
	CodeValidation      = "VALIDATION"
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeForbidden       = "FORBIDDEN"
	CodeConflict        = "CONFLICT"
	CodeInternal        = "INTERNAL"
)

// ResponseError carries the errors array of a GraphQL response. It unwraps
// to the domain sentinel matching the first error's extensions.code.
type ResponseError struct {
	Errors gqlerror.List
	kind   error
}

func (e *ResponseError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		if err == nil {
			continue
		}
		msgs = append(msgs, err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (e *ResponseError) Unwrap() error { return e.kind }

// Code returns the extensions.code of the first error, or "".
func (e *ResponseError) Code() string {
	if len(e.Errors) == 0 || e.Errors[0] == nil {
		return ""
	}
	code, _ := e.Errors[0].Extensions["code"].(string)
	return code
}

func newResponseError(list gqlerror.List) error {
	e := &ResponseError{Errors: list}
	switch e.Code() {
	case CodeNotFound:
		e.kind = domain.ErrNotFound
	case CodeAlreadyExists:
		e.kind = domain.ErrAlreadyExists
	case CodeValidation:
		e.kind = validationError(list[0])
	case CodeUnauthenticated:
		e.kind = domain.ErrUnauthorized
	case CodeForbidden:
		e.kind = domain.ErrForbidden
	case CodeConflict:
		e.kind = domain.ErrConflict
	}
	return e
}

// validationError rebuilds a domain.ValidationError from the "fields"
// extension when the server sends one.
func validationError(gqlErr *gqlerror.Error) error {
	raw, ok := gqlErr.Extensions["fields"].([]any)
	if !ok || len(raw) == 0 {
		return domain.NewValidationError("input", gqlErr.Message)
	}

	ve := &domain.ValidationError{}
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		ve.Errors = append(ve.Errors, domain.FieldError{
			Field:   fmt.Sprint(firstOf(m, "Field", "field")),
			Message: fmt.Sprint(firstOf(m, "Message", "message")),
		})
	}
	if len(ve.Errors) == 0 {
		return domain.NewValidationError("input", gqlErr.Message)
	}
	return ve
}

func firstOf(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return v
		}
	}
	return ""
}
