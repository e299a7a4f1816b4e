package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/codegraph/pkg/graph"
)

// TestPHP_NamespacedClass verifies namespace qualification, use imports with
// and without aliases, extends edges, and the three call edge kinds.
func TestPHP_NamespacedClass(t *testing.T) {
	src := []byte(`<?php

namespace App\Models;

use App\Support\Logger as Log;
use App\Contracts\Resettable;

class Animal extends Model
{
    public function speak()
    {
        Log::info("...");
        $this->reset();
    }
}

function feed()
{
    $a = new Animal();
    $a->eat();
}
`)

	res, err := NewPHP().ExtractFile("models/animal.php", src)
	require.NoError(t, err)

	require.Len(t, res.Imports, 2)
	assert.Equal(t, graph.Import{Module: `App\Support\Logger`, Alias: "Log", Line: 5}, res.Imports[0])
	assert.Equal(t, graph.Import{Module: `App\Contracts\Resettable`, Alias: "Resettable", Line: 6}, res.Imports[1])

	require.Len(t, res.Nodes, 3)
	assert.Equal(t, graph.Node{
		ID: `App\Models\Animal`, Label: "Animal", Kind: graph.NodeKindClass,
		File: "models/animal.php", Line: 8,
	}, res.Nodes[0])
	assert.Equal(t, graph.Node{
		ID: `App\Models\Animal::speak`, Label: "speak", Kind: graph.NodeKindMethod,
		File: "models/animal.php", Line: 10,
	}, res.Nodes[1])
	assert.Equal(t, graph.Node{
		ID: `App\Models\feed`, Label: "feed", Kind: graph.NodeKindFunction,
		File: "models/animal.php", Line: 17,
	}, res.Nodes[2])

	assert.Equal(t, []graph.Edge{
		{Source: `App\Models\Animal`, Target: "Model", Kind: graph.EdgeKindExtends, File: "models/animal.php", Line: 8},
		{Source: `App\Models\Animal::speak`, Target: "Log::info", Kind: graph.EdgeKindStaticCall, File: "models/animal.php", Line: 12},
		{Source: `App\Models\Animal::speak`, Target: "*::reset", Kind: graph.EdgeKindMethodCall, File: "models/animal.php", Line: 13},
		{Source: `App\Models\feed`, Target: "Animal", Kind: graph.EdgeKindInstantiates, File: "models/animal.php", Line: 19},
		{Source: `App\Models\feed`, Target: "*::eat", Kind: graph.EdgeKindMethodCall, File: "models/animal.php", Line: 20},
	}, res.Edges)
}

// TestPHP_ClassConstant verifies Foo::class resolves a name and emits no edge
// and no spurious class declaration.
func TestPHP_ClassConstant(t *testing.T) {
	src := []byte(`<?php
function boot() {
    $name = Widget::class;
}
`)
	res, err := NewPHP().ExtractFile("boot.php", src)
	require.NoError(t, err)
	require.Len(t, res.Nodes, 1)
	assert.Equal(t, "boot", res.Nodes[0].ID)
	assert.Empty(t, res.Edges)
}

// TestPHP_AnonymousConstructs verifies anonymous classes and closures declare
// no symbols.
func TestPHP_AnonymousConstructs(t *testing.T) {
	src := []byte(`<?php
function make() {
    $handler = function ($x) { return $x; };
    $obj = new class {
    };
}
`)
	res, err := NewPHP().ExtractFile("make.php", src)
	require.NoError(t, err)
	require.Len(t, res.Nodes, 1)
	assert.Equal(t, "make", res.Nodes[0].ID)
	assert.Empty(t, res.Edges)
}

// TestPHP_TraitUseNotImport verifies a class-body "use Trait;" is not
// recorded as a file-level import.
func TestPHP_TraitUseNotImport(t *testing.T) {
	src := []byte(`<?php
use App\Kernel;

class Job
{
    use Dispatchable;
}
`)
	res, err := NewPHP().ExtractFile("job.php", src)
	require.NoError(t, err)
	require.Len(t, res.Imports, 1)
	assert.Equal(t, `App\Kernel`, res.Imports[0].Module)
}

// TestPHP_StringsAndComments verifies braces and keywords inside literals and
// comments never reach the matcher.
func TestPHP_StringsAndComments(t *testing.T) {
	src := []byte(`<?php
class Renderer
{
    // class Fake { }
    public function render()
    {
        $tpl = "function broken() { }";
        $raw = 'new Thing()';
        /* $x->hidden(); */
    }

    public function flush()
    {
    }
}
`)
	res, err := NewPHP().ExtractFile("renderer.php", src)
	require.NoError(t, err)

	assert.Equal(t, []string{"Renderer", "Renderer::render", "Renderer::flush"}, nodeIDs(res.Nodes))
	assert.Empty(t, res.Edges)
}

// TestPHP_Heredoc verifies heredoc bodies are skipped and the matcher resumes
// on the right line after the terminator.
func TestPHP_Heredoc(t *testing.T) {
	src := []byte(`<?php
function page() {
    $html = <<<HTML
<div>{ new Bogus() }</div>
HTML;
    $x = new Real();
}
`)
	res, err := NewPHP().ExtractFile("page.php", src)
	require.NoError(t, err)

	require.Len(t, res.Edges, 1)
	assert.Equal(t, "Real", res.Edges[0].Target)
	assert.Equal(t, 6, res.Edges[0].Line)
}

// TestPHP_StaticCallNeedsClassName verifies $var::member is skipped because
// no class name is known.
func TestPHP_StaticCallNeedsClassName(t *testing.T) {
	src := []byte(`<?php
function run() {
    $cls::build();
}
`)
	res, err := NewPHP().ExtractFile("run.php", src)
	require.NoError(t, err)
	assert.Empty(t, res.Edges)
}

// TestLexPHP covers token kinds, line numbers and inline HTML handling.
func TestLexPHP(t *testing.T) {
	src := []byte("<html>\n<?php\n$db->connect();\nA::b; # trailing\n?>\n<footer>\n")
	tokens := lexPHP(src)

	require.Len(t, tokens, 10)
	assert.Equal(t, phpToken{phpVariable, "$db", 3}, tokens[0])
	assert.Equal(t, phpToken{phpArrow, "->", 3}, tokens[1])
	assert.Equal(t, phpToken{phpIdent, "connect", 3}, tokens[2])
	assert.Equal(t, phpToken{phpChar, "(", 3}, tokens[3])
	assert.Equal(t, phpToken{phpChar, ")", 3}, tokens[4])
	assert.Equal(t, phpToken{phpChar, ";", 3}, tokens[5])
	assert.Equal(t, phpToken{phpIdent, "A", 4}, tokens[6])
	assert.Equal(t, phpToken{phpDoubleColon, "::", 4}, tokens[7])
	assert.Equal(t, phpToken{phpIdent, "b", 4}, tokens[8])
	assert.Equal(t, phpToken{phpChar, ";", 4}, tokens[9])
}

// TestLexPHP_EscapedQuote verifies escape sequences inside strings don't end
// the literal early.
func TestLexPHP_EscapedQuote(t *testing.T) {
	src := []byte(`<?php $s = "a \" } b"; $t = 1;`)
	tokens := lexPHP(src)

	var texts []string
	for _, tok := range tokens {
		texts = append(texts, tok.text)
	}
	assert.Equal(t, []string{"$s", "=", ";", "$t", "=", ";"}, texts)
}
