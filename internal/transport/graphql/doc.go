// Package graphql is the client side of the backoffice API: it builds
// query and mutation documents on the gqlparser AST, sends them in the
// gqlgen wire format and maps GraphQL error codes back to domain errors.
package graphql
