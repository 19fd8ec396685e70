package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/backoffice/internal/domain"
	"github.com/heartmarshall/backoffice/internal/workflow"
)

func TestParseSets(t *testing.T) {
	t.Parallel()

	got, err := parseSets([]string{"name=Alice", " note =a=b", "empty="})
	require.NoError(t, err)
	assert.Equal(t, [][2]string{{"name", "Alice"}, {"note", "a=b"}, {"empty", ""}}, got)
}

func TestParseSets_Invalid(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"name", "=value"} {
		_, err := parseSets([]string{in})
		assert.ErrorIs(t, err, domain.ErrValidation, in)
	}
}

func TestActionNames_SkipsBuiltins(t *testing.T) {
	t.Parallel()

	row := workflow.RowView{Actions: []workflow.Action{
		{Name: workflow.ActionEdit},
		{Name: workflow.ActionDelete},
		{Name: "approve"},
		{Name: "remove-detail:d1"},
	}}
	assert.Equal(t, "approve remove-detail:d1", actionNames(row))
}

func TestVersionCmd_SkipsSetup(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")

	var out bytes.Buffer
	root := newRootCmd(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "dev")
}

func TestRootCmd_MissingConfigFails(t *testing.T) {
	var out bytes.Buffer
	root := newRootCmd(&out)
	root.SetArgs([]string{"--config", t.TempDir() + "/missing.yaml", "list", "goods"})

	err := root.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config")
	assert.Empty(t, out.String())
}

func TestRun_TearsDownWhenCommandFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: error\n"), 0o600))

	var out bytes.Buffer
	c := &cli{out: &out}
	err := c.run(context.Background(), []string{"--config", path, "list", "nope"})

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "unknown screen")
	assert.Nil(t, c.app)
	assert.Nil(t, c.closeLog)
}

func TestExecute_Version(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")

	var out bytes.Buffer
	require.NoError(t, execute(context.Background(), &out, []string{"version"}))
	assert.Contains(t, out.String(), "dev")
}
