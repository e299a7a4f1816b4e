// Package bridge runs an external analyzer process and decodes its graph
// payload, so language front ends hosted by another interpreter (a PHP or
// Node analyzer script, for instance) can feed the same graph assembler as
// the native extractors.
//
// The contract is one process invocation per tree: the command is run with
// the root path appended as its final argument and must write a single JSON
// document {"nodes": [...], "edges": [...]} to standard output. There is no
// retry and no timeout; failures at this granularity abort the whole scan.
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/gnana997/codegraph/pkg/graph"
)

// outputSnippetLen bounds how much raw output a malformed-output error
// carries for diagnosis.
const outputSnippetLen = 500

// ErrInterpreterNotFound reports that the analyzer command is not on the
// search path. It is detected by Check before any scan attempt.
var ErrInterpreterNotFound = errors.New("analyzer command not found")

// ExitError reports a non-zero exit from the analyzer process. Stderr is the
// process's standard-error stream, surfaced verbatim.
type ExitError struct {
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("analyzer exited with status %d", e.Code)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

// OutputError reports that the analyzer's standard output was not a valid
// graph payload. Snippet is a truncated view of the raw output.
type OutputError struct {
	Snippet string
	Err     error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("analyzer produced malformed output: %v (output was: %q)", e.Err, e.Snippet)
}

func (e *OutputError) Unwrap() error { return e.Err }

// Analyzer invokes an external analyzer command.
type Analyzer struct {
	command string
	args    []string
	logger  *slog.Logger
}

// New creates an Analyzer for the given command and fixed arguments (for an
// interpreter, typically the script path). The target root path is appended
// per Run call.
func New(command string, args []string, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{command: command, args: args, logger: logger}
}

// Check verifies the analyzer command resolves on the search path. A missing
// interpreter is an environment failure reported before any scan runs.
func (a *Analyzer) Check() error {
	if _, err := exec.LookPath(a.command); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInterpreterNotFound, a.command, err)
	}
	return nil
}

// Run invokes the analyzer once for the whole tree and decodes its payload.
// The returned result merges into a graph.Builder like any native per-file
// result.
func (a *Analyzer) Run(ctx context.Context, root string) (*graph.FileResult, error) {
	args := append(append([]string{}, a.args...), root)
	a.logger.Info("running external analyzer", "command", a.command, "args", args)

	cmd := exec.CommandContext(ctx, a.command, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &ExitError{Code: exitErr.ExitCode(), Stderr: stderr.String()}
		}
		return nil, fmt.Errorf("run analyzer %q: %w", a.command, err)
	}

	res, err := decodePayload(stdout.Bytes())
	if err != nil {
		return nil, err
	}

	a.logger.Info("external analyzer finished",
		"nodes", len(res.Nodes),
		"edges", len(res.Edges))
	return res, nil
}

// decodePayload parses and shape-checks the analyzer's JSON document.
func decodePayload(raw []byte) (*graph.FileResult, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, &OutputError{Snippet: snippet(raw), Err: err}
	}
	nodesRaw, hasNodes := top["nodes"]
	edgesRaw, hasEdges := top["edges"]
	if !hasNodes || !hasEdges {
		return nil, &OutputError{
			Snippet: snippet(raw),
			Err:     errors.New(`missing top-level "nodes" or "edges"`),
		}
	}

	res := &graph.FileResult{}
	if err := json.Unmarshal(nodesRaw, &res.Nodes); err != nil {
		return nil, &OutputError{Snippet: snippet(raw), Err: fmt.Errorf("nodes: %w", err)}
	}
	if err := json.Unmarshal(edgesRaw, &res.Edges); err != nil {
		return nil, &OutputError{Snippet: snippet(raw), Err: fmt.Errorf("edges: %w", err)}
	}
	return res, nil
}

func snippet(raw []byte) string {
	s := string(raw)
	if len(s) > outputSnippetLen {
		s = s[:outputSnippetLen]
	}
	return s
}
