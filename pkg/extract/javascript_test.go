package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/codegraph/pkg/graph"
)

// TestJavaScript_Classes verifies class declarations, inheritance edges,
// method shorthand inside class bodies and call attribution to the
// innermost declared scope.
func TestJavaScript_Classes(t *testing.T) {
	src := []byte(`import { Sound } from './sound';

class Animal {
  speak() {
    console.log('...');
  }
}

class Dog extends Animal {
  bark() {
    new Sound();
    this.speak();
  }
}

function feed() {
  Bowl();
  helper();
}

greet();
`)

	res, err := NewJavaScript().ExtractFile("zoo.js", src)
	require.NoError(t, err)

	require.Len(t, res.Imports, 1)
	assert.Equal(t, "./sound", res.Imports[0].Module)

	ids := nodeIDs(res.Nodes)
	assert.Equal(t, []string{"Animal", "Animal::speak", "Dog", "Dog::bark", "feed"}, ids)

	speak := findNode(t, res.Nodes, "Animal::speak")
	assert.Equal(t, graph.NodeKindMethod, speak.Kind)
	assert.Equal(t, "speak", speak.Label)
	assert.Equal(t, "zoo.js", speak.File)
	assert.Equal(t, 4, speak.Line)

	assert.Equal(t, []graph.Edge{
		{Source: "Animal::speak", Target: "*.log", Kind: graph.EdgeKindMethodCall, File: "zoo.js", Line: 5},
		{Source: "Dog", Target: "Animal", Kind: graph.EdgeKindExtends, File: "zoo.js", Line: 9},
		{Source: "Dog::bark", Target: "Sound", Kind: graph.EdgeKindInstantiates, File: "zoo.js", Line: 11},
		{Source: "Dog::bark", Target: "Sound", Kind: graph.EdgeKindInstantiates, File: "zoo.js", Line: 11},
		{Source: "Dog::bark", Target: "*.speak", Kind: graph.EdgeKindMethodCall, File: "zoo.js", Line: 12},
		{Source: "feed", Target: "Bowl", Kind: graph.EdgeKindInstantiates, File: "zoo.js", Line: 17},
	}, res.Edges)
}

// TestJavaScript_NoCallerNoEdge verifies calls before any declaration have no
// attributable caller and emit nothing.
func TestJavaScript_NoCallerNoEdge(t *testing.T) {
	src := []byte(`App();
obj.run();
new Widget();
`)
	res, err := NewJavaScript().ExtractFile("top.js", src)
	require.NoError(t, err)
	assert.Empty(t, res.Nodes)
	assert.Empty(t, res.Edges)
}

// TestJavaScript_SuppressedCallees verifies module-system and console callees
// never produce edges even with a live caller.
func TestJavaScript_SuppressedCallees(t *testing.T) {
	src := []byte(`function boot() {
  const fs = require('fs');
  import('./lazy');
  console('raw');
}
`)
	res, err := NewJavaScript().ExtractFile("boot.js", src)
	require.NoError(t, err)
	require.Len(t, res.Nodes, 1)
	assert.Empty(t, res.Edges)
}

// TestJavaScript_MethodShorthandOutsideClass verifies the shorthand shape is
// ignored at file level and control-flow keywords never become methods.
func TestJavaScript_MethodShorthandOutsideClass(t *testing.T) {
	src := []byte(`class Timer {
  start() {
    if (this.stopped) {
      this.reset();
    }
  }
}

tick() {
`)
	res, err := NewJavaScript().ExtractFile("timer.js", src)
	require.NoError(t, err)

	ids := nodeIDs(res.Nodes)
	assert.Equal(t, []string{"Timer", "Timer::start"}, ids)
}

// TestJavaScript_FunctionScopePersists verifies the current function keeps
// collecting calls after its closing brace, matching the scanner's
// line-oriented scope model.
func TestJavaScript_FunctionScopePersists(t *testing.T) {
	src := []byte(`function setup() {
}
new Engine();
`)
	res, err := NewJavaScript().ExtractFile("app.js", src)
	require.NoError(t, err)

	require.Len(t, res.Edges, 2)
	for _, e := range res.Edges {
		assert.Equal(t, "setup", e.Source)
		assert.Equal(t, "Engine", e.Target)
		assert.Equal(t, graph.EdgeKindInstantiates, e.Kind)
	}
}

// TestJavaScript_ClassScopeCloses verifies the class context clears at the
// closing brace so later methods don't attach to it.
func TestJavaScript_ClassScopeCloses(t *testing.T) {
	src := []byte(`class Cache {
}

function lookup() {
}
`)
	res, err := NewJavaScript().ExtractFile("cache.js", src)
	require.NoError(t, err)

	lookup := findNode(t, res.Nodes, "lookup")
	assert.Equal(t, graph.NodeKindFunction, lookup.Kind)
}

func TestJavaScript_Extensions(t *testing.T) {
	exts := NewJavaScript().Extensions()
	assert.Contains(t, exts, ".ts")
	assert.Contains(t, exts, ".vue")
	assert.Equal(t, "javascript", NewJavaScript().Language())
}

func nodeIDs(nodes []graph.Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}

func findNode(t *testing.T, nodes []graph.Node, id string) graph.Node {
	t.Helper()
	for _, n := range nodes {
		if n.ID == id {
			return n
		}
	}
	t.Fatalf("node %q not found", id)
	return graph.Node{}
}
