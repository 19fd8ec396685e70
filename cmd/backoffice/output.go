package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/heartmarshall/backoffice/internal/domain"
	"github.com/heartmarshall/backoffice/internal/workflow"
)

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printRows renders rows with their key and the names of custom actions.
func printRows(out io.Writer, headers []string, rows []workflow.RowView) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(append(append([]string{"ID"}, headers...), "Actions")...)
	for _, r := range rows {
		t.Row(append(append([]string{r.Key}, r.Cells...), actionNames(r))...)
	}
	_, err := fmt.Fprintln(out, t.String())
	return err
}

func actionNames(r workflow.RowView) string {
	names := make([]string, 0, len(r.Actions))
	for _, a := range r.Actions {
		if a.Name == workflow.ActionEdit || a.Name == workflow.ActionDelete {
			continue
		}
		names = append(names, a.Name)
	}
	return strings.Join(names, " ")
}

func printRecord(out io.Writer, rec domain.Record, asJSON bool) error {
	if asJSON {
		return printJSON(out, rec)
	}
	_, err := fmt.Fprintf(out, "%s saved\n", rec.ID())
	return err
}

// parseSets turns name=value flags into form input. A value may contain
// '='; only the first one splits.
func parseSets(sets []string) ([][2]string, error) {
	out := make([][2]string, 0, len(sets))
	for _, s := range sets {
		name, value, ok := strings.Cut(s, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, domain.NewValidationError("set", fmt.Sprintf("expected name=value, got %q", s))
		}
		out = append(out, [2]string{name, value})
	}
	return out, nil
}
