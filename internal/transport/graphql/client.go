package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/heartmarshall/backoffice/pkg/ctxutil"
)

const maxErrorBody = 4 << 10

// Client sends GraphQL documents to a single endpoint.
type Client struct {
	endpoint string
	http     *http.Client
	log      *slog.Logger
}

// NewClient creates a client. httpClient carries timeouts and the
// middleware chain; nil means http.DefaultClient.
func NewClient(endpoint string, httpClient *http.Client, log *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		endpoint: endpoint,
		http:     httpClient,
		log:      log.With("component", "graphql_client"),
	}
}

// Do executes doc with vars and decodes the response's data object into
// out. GraphQL errors are returned as *ResponseError; out is left untouched
// in that case.
func (c *Client) Do(ctx context.Context, doc *ast.QueryDocument, vars map[string]any, out any) error {
	query, err := Format(doc)
	if err != nil {
		return err
	}
	opName := operationName(doc)
	ctx = ctxutil.WithOperation(ctx, opName)

	body, err := json.Marshal(graphql.RawParams{
		Query:         query,
		OperationName: opName,
		Variables:     vars,
	})
	if err != nil {
		return fmt.Errorf("encode request %s: %w", opName, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request %s: %w", opName, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send %s: %w", opName, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", opName, err)
	}

	var gqlResp graphql.Response
	if err := json.Unmarshal(raw, &gqlResp); err != nil {
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("%s: unexpected status %d: %s", opName, resp.StatusCode, truncate(raw))
		}
		return fmt.Errorf("decode %s response: %w", opName, err)
	}

	if len(gqlResp.Errors) > 0 {
		c.log.DebugContext(ctx, "graphql errors",
			slog.String("operation", opName),
			slog.Int("count", len(gqlResp.Errors)),
		)
		return newResponseError(gqlResp.Errors)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %d: %s", opName, resp.StatusCode, truncate(raw))
	}

	if out == nil || len(gqlResp.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(gqlResp.Data, out); err != nil {
		return fmt.Errorf("decode %s data: %w", opName, err)
	}
	return nil
}

func operationName(doc *ast.QueryDocument) string {
	if doc == nil || len(doc.Operations) == 0 {
		return ""
	}
	return doc.Operations[0].Name
}

func truncate(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > maxErrorBody {
		return s[:maxErrorBody] + "..."
	}
	return s
}
