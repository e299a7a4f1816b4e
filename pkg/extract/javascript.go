package extract

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/gnana997/codegraph/pkg/graph"
)

// Ordered rule table for the JS/TS family. Each pattern is applied per line,
// in this order; all matches on a line are taken, not just the first.
var (
	jsImportRe = regexp.MustCompile(`import\s+.*?from\s+['"]([^'"]+)['"]`)
	jsClassRe  = regexp.MustCompile(`class\s+(\w+)(?:\s+extends\s+(\w+))?`)
	jsFuncRe   = regexp.MustCompile(`(?:export\s+)?(?:async\s+)?function\s+(\w+)\s*\(`)
	// Class-body method shorthand ("speak() {"). Anchored to the line start
	// so mid-line call expressions don't match; only applied inside a class.
	jsMethodRe = regexp.MustCompile(`^\s*(?:static\s+)?(?:async\s+)?(\w+)\s*\([^)]*\)\s*\{`)
	jsNewRe    = regexp.MustCompile(`new\s+(\w+)\s*\(`)
	jsCallRe   = regexp.MustCompile(`(\w+)\s*\(`)
)

// Control-flow keywords that look like method shorthand when followed by a
// parenthesized condition and a block.
var jsKeywords = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "catch": true,
	"return": true, "function": true, "do": true, "else": true, "try": true,
}

// Non-user-code callees that never produce edges.
var jsSuppressedCallees = map[string]bool{
	"console": true, "require": true, "import": true,
}

// JavaScript is the JS/TS family front end: a line-by-line regex scanner
// with brace-counted scope tracking. It covers JavaScript, TypeScript, JSX,
// TSX and the single-file component formats that embed them.
type JavaScript struct{}

// NewJavaScript returns the JS/TS family extractor.
func NewJavaScript() *JavaScript { return &JavaScript{} }

// Language returns "javascript".
func (j *JavaScript) Language() string { return "javascript" }

// Extensions returns the JS/TS family extension allow-list.
func (j *JavaScript) Extensions() []string {
	return []string{".js", ".jsx", ".ts", ".tsx", ".vue", ".svelte"}
}

// ExtractFile scans src line by line, applying the rule table against each
// line and threading a fresh scanContext through the scan.
func (j *JavaScript) ExtractFile(path string, src []byte) (*graph.FileResult, error) {
	res := &graph.FileResult{}
	ctx := &scanContext{}

	lines := strings.Split(string(src), "\n")
	for i, line := range lines {
		lineNo := i + 1

		for _, m := range jsImportRe.FindAllStringSubmatch(line, -1) {
			res.Imports = append(res.Imports, graph.Import{Module: m[1], Line: lineNo})
		}

		for _, m := range jsClassRe.FindAllStringSubmatch(line, -1) {
			className, superClass := m[1], m[2]
			res.Nodes = append(res.Nodes, graph.Node{
				ID:    className,
				Label: className,
				Kind:  graph.NodeKindClass,
				File:  path,
				Line:  lineNo,
			})
			ctx.enterClass(className)
			if superClass != "" {
				res.Edges = append(res.Edges, graph.Edge{
					Source: className,
					Target: superClass,
					Kind:   graph.EdgeKindExtends,
					File:   path,
					Line:   lineNo,
				})
			}
		}

		for _, m := range jsFuncRe.FindAllStringSubmatch(line, -1) {
			j.declareCallable(res, ctx, m[1], path, lineNo)
		}

		// Method shorthand only counts inside a class body; elsewhere the
		// same shape is a call expression or control flow.
		if ctx.inClass {
			if m := jsMethodRe.FindStringSubmatch(line); m != nil && !jsKeywords[m[1]] {
				j.declareCallable(res, ctx, m[1], path, lineNo)
			}
		}

		for _, m := range jsCallRe.FindAllStringSubmatchIndex(line, -1) {
			callee := line[m[2]:m[3]]
			caller := ctx.caller()
			if caller == "" || jsSuppressedCallees[callee] {
				continue
			}
			prefix := line[:m[0]]
			if strings.Contains(prefix, ".") {
				// Receiver type is unknown; a wildcard target records the
				// occurrence without inventing precision.
				res.Edges = append(res.Edges, graph.Edge{
					Source: caller,
					Target: "*." + callee,
					Kind:   graph.EdgeKindMethodCall,
					File:   path,
					Line:   lineNo,
				})
			} else if startsUpper(callee) {
				res.Edges = append(res.Edges, graph.Edge{
					Source: caller,
					Target: callee,
					Kind:   graph.EdgeKindInstantiates,
					File:   path,
					Line:   lineNo,
				})
			}
		}

		for _, m := range jsNewRe.FindAllStringSubmatch(line, -1) {
			caller := ctx.caller()
			if caller == "" {
				continue
			}
			res.Edges = append(res.Edges, graph.Edge{
				Source: caller,
				Target: m[1],
				Kind:   graph.EdgeKindInstantiates,
				File:   path,
				Line:   lineNo,
			})
		}

		ctx.trackBraces(strings.Count(line, "{"), strings.Count(line, "}"))
	}

	return res, nil
}

// declareCallable records a function or, inside a class, a method, and makes
// it the current scope for subsequent call attribution.
func (j *JavaScript) declareCallable(res *graph.FileResult, ctx *scanContext, name, path string, line int) {
	if ctx.inClass {
		qualified := ctx.class + "::" + name
		res.Nodes = append(res.Nodes, graph.Node{
			ID:    qualified,
			Label: name,
			Kind:  graph.NodeKindMethod,
			File:  path,
			Line:  line,
		})
		ctx.declareMethod(qualified)
		return
	}
	res.Nodes = append(res.Nodes, graph.Node{
		ID:    name,
		Label: name,
		Kind:  graph.NodeKindFunction,
		File:  path,
		Line:  line,
	})
	ctx.declareFunction(name)
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}
