package bridge

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/codegraph/pkg/graph"
)

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

// fakeAnalyzer writes a shell script that emulates an analyzer process and
// returns an Analyzer invoking it.
func fakeAnalyzer(t *testing.T, script string) *Analyzer {
	t.Helper()
	path := filepath.Join(t.TempDir(), "analyzer.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755))
	return New("/bin/sh", []string{path}, nil)
}

// TestCheck_MissingCommand verifies a command absent from the search path is
// reported as ErrInterpreterNotFound.
func TestCheck_MissingCommand(t *testing.T) {
	a := New("definitely-not-a-real-analyzer-binary", nil, nil)
	err := a.Check()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInterpreterNotFound)
}

func TestCheck_Found(t *testing.T) {
	skipWithoutShell(t)
	assert.NoError(t, New("sh", nil, nil).Check())
}

// TestRun_ValidPayload verifies a well-formed payload decodes and the root
// path is appended as the final argument.
func TestRun_ValidPayload(t *testing.T) {
	skipWithoutShell(t)
	a := fakeAnalyzer(t, `echo "scanning $1" >&2
printf '{"nodes": [{"id": "App", "label": "App", "type": "class", "file": "app.php", "line": 3}], "edges": [{"source": "App", "target": "Base", "type": "extends"}]}'`)

	res, err := a.Run(context.Background(), "/some/tree")
	require.NoError(t, err)

	require.Len(t, res.Nodes, 1)
	assert.Equal(t, "App", res.Nodes[0].ID)
	assert.Equal(t, graph.NodeKindClass, res.Nodes[0].Kind)
	require.Len(t, res.Edges, 1)
	assert.Equal(t, graph.EdgeKindExtends, res.Edges[0].Kind)
}

// TestRun_ExitError verifies a non-zero exit surfaces the code and stderr.
func TestRun_ExitError(t *testing.T) {
	skipWithoutShell(t)
	a := fakeAnalyzer(t, `echo "fatal: cannot parse" >&2
exit 3`)

	_, err := a.Run(context.Background(), "/tree")
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 3, exitErr.Code)
	assert.Contains(t, exitErr.Stderr, "cannot parse")
	assert.Contains(t, exitErr.Error(), "status 3")
}

// TestRun_MalformedOutput verifies non-JSON stdout becomes an OutputError
// carrying a snippet of the raw output.
func TestRun_MalformedOutput(t *testing.T) {
	skipWithoutShell(t)
	a := fakeAnalyzer(t, `echo "PHP Warning: something"`)

	_, err := a.Run(context.Background(), "/tree")
	require.Error(t, err)

	var outErr *OutputError
	require.ErrorAs(t, err, &outErr)
	assert.Contains(t, outErr.Snippet, "PHP Warning")
}

// TestRun_WrongShape verifies valid JSON without the required keys is
// rejected.
func TestRun_WrongShape(t *testing.T) {
	skipWithoutShell(t)
	a := fakeAnalyzer(t, `printf '{"symbols": []}'`)

	_, err := a.Run(context.Background(), "/tree")
	var outErr *OutputError
	require.ErrorAs(t, err, &outErr)
}

// TestDecodePayload_TruncatesSnippet verifies long malformed output is cut to
// the snippet bound.
func TestDecodePayload_TruncatesSnippet(t *testing.T) {
	raw := make([]byte, 2000)
	for i := range raw {
		raw[i] = 'x'
	}
	_, err := decodePayload(raw)

	var outErr *OutputError
	require.ErrorAs(t, err, &outErr)
	assert.Len(t, outErr.Snippet, outputSnippetLen)
}

// TestRun_ContextCancel verifies a canceled context stops the process.
func TestRun_ContextCancel(t *testing.T) {
	skipWithoutShell(t)
	a := fakeAnalyzer(t, `sleep 10`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := a.Run(ctx, "/tree")
	assert.Error(t, err)
}
