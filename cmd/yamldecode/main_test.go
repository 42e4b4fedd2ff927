package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDoc(t *testing.T, text string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "doc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))

	return path
}

func TestRunJSON(t *testing.T) {
	t.Parallel()

	path := writeDoc(t, "name: api\nports: [80, !!int 443]\nbase: &b {x: 1}\ncopy: *b\n")

	var stdout, stderr bytes.Buffer
	code := runWithArgs([]string{path}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	assert.JSONEq(t, `{
		"name": "api",
		"ports": ["80", 443],
		"base": {"x": "1"},
		"copy": {"x": "1"}
	}`, stdout.String())
}

func TestRunAll(t *testing.T) {
	t.Parallel()

	path := writeDoc(t, "one\n---\n[two]\n")

	var stdout, stderr bytes.Buffer
	code := runWithArgs([]string{"-all", path}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.JSONEq(t, `["one", ["two"]]`, stdout.String())
}

func TestRunDump(t *testing.T) {
	t.Parallel()

	path := writeDoc(t, "greeting: hello\n")

	var stdout, stderr bytes.Buffer
	code := runWithArgs([]string{"-format", "dump", path}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "greeting")
	assert.Contains(t, stdout.String(), "hello")
	assert.NotContains(t, stdout.String(), "!!map[")
}

func TestRunErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     func(t *testing.T) []string
		wantCode int
		wantErr  string
	}{
		{
			name:     "no file",
			args:     func(*testing.T) []string { return nil },
			wantCode: 2,
			wantErr:  "exactly one YAML file",
		},
		{
			name:     "unknown format",
			args:     func(t *testing.T) []string { return []string{"-format", "xml", writeDoc(t, "a")} },
			wantCode: 2,
			wantErr:  `unknown format "xml"`,
		},
		{
			name:     "missing file",
			args:     func(t *testing.T) []string { return []string{filepath.Join(t.TempDir(), "absent.yaml")} },
			wantCode: 1,
			wantErr:  "absent.yaml",
		},
		{
			name:     "unknown tag",
			args:     func(t *testing.T) []string { return []string{writeDoc(t, "!custom x")} },
			wantCode: 1,
			wantErr:  "unknown tag",
		},
		{
			name:     "undefined alias",
			args:     func(t *testing.T) []string { return []string{writeDoc(t, "a: 1\nb: *nope\n")} },
			wantCode: 1,
			wantErr:  "2:4: unresolved anchor *nope",
		},
		{
			name:     "bad depth",
			args:     func(t *testing.T) []string { return []string{"-max-depth", "0", writeDoc(t, "a")} },
			wantCode: 2,
			wantErr:  "depth must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var stdout, stderr bytes.Buffer
			code := runWithArgs(tt.args(t), &stdout, &stderr)
			assert.Equal(t, tt.wantCode, code)
			assert.Contains(t, stderr.String(), tt.wantErr)
		})
	}
}

func TestRunLenient(t *testing.T) {
	t.Parallel()

	path := writeDoc(t, "!custom x")

	var stdout, stderr bytes.Buffer
	code := runWithArgs([]string{"-lenient", path}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.JSONEq(t, `"x"`, stdout.String())
}
