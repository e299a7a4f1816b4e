package main

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/codegraph/pkg/graph"
)

// TestRunScan_ExecBridge verifies the -exec path: extraction is delegated to
// the external command, -exclude is tolerated (the analyzer owns file
// selection), and the decoded payload lands in the artifact.
func TestRunScan_ExecBridge(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	dir := t.TempDir()
	payload := `{"nodes": [{"id": "App", "label": "App", "type": "class", "file": "app.php", "line": 1}], "edges": []}`
	script := filepath.Join(dir, "analyzer.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho '"+payload+"'\n"), 0o755))

	output := filepath.Join(dir, "graph.json")
	err := runScan([]string{
		"-exec", "/bin/sh " + script,
		"-exclude", "**/*.min.js",
		"-output", output,
		dir,
	})
	require.NoError(t, err)

	g, err := graph.LoadFromFile(output)
	require.NoError(t, err)
	_, ok := g.FindNode("App")
	assert.True(t, ok)
	assert.Equal(t, 1, g.Stats.Classes)
}

// TestRunScan_ExecMissingCommand verifies a missing analyzer is reported
// before any scan output is produced.
func TestRunScan_ExecMissingCommand(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "graph.json")

	err := runScan([]string{"-exec", "definitely-not-a-real-analyzer", "-output", output, dir})
	require.Error(t, err)
	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr))
}
