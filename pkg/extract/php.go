package extract

import (
	"strings"

	"github.com/gnana997/codegraph/pkg/graph"
)

// PHP is the PHP family front end. Instead of line regexes it walks the
// token stream produced by lexPHP, mirroring how PHP's own tokenizer carves
// the source, and threads the same scanContext used by the JS family.
type PHP struct{}

// NewPHP returns the PHP family extractor.
func NewPHP() *PHP { return &PHP{} }

// Language returns "php".
func (p *PHP) Language() string { return "php" }

// Extensions returns the PHP family extension allow-list.
func (p *PHP) Extensions() []string { return []string{".php"} }

// ExtractFile tokenizes src and applies the token-driven rule table:
// namespace, use, class (with optional extends), function, new, static
// access (::) and member access (->).
func (p *PHP) ExtractFile(path string, src []byte) (*graph.FileResult, error) {
	res := &graph.FileResult{}
	ctx := &scanContext{}
	tokens := lexPHP(src)

	namespace := ""
	qualify := func(name string) string {
		if namespace == "" {
			return name
		}
		return namespace + `\` + name
	}

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		switch {
		case tok.kind == phpIdent && keywordIs(tok.text, "namespace"):
			ns, next := collectQualifiedName(tokens, i+1)
			if ns != "" {
				namespace = ns
			}
			i = next - 1

		case tok.kind == phpIdent && keywordIs(tok.text, "use") && !ctx.inClass:
			// Class-body "use Trait;" shares the keyword; only file-level
			// use statements are imports.
			name, next := collectQualifiedName(tokens, i+1)
			if name != "" {
				alias := lastSegment(name)
				if next < len(tokens)-1 && tokens[next].kind == phpIdent && keywordIs(tokens[next].text, "as") &&
					tokens[next+1].kind == phpIdent {
					alias = tokens[next+1].text
					next += 2
				}
				res.Imports = append(res.Imports, graph.Import{Module: name, Alias: alias, Line: tok.line})
			}
			i = next - 1

		case tok.kind == phpIdent && keywordIs(tok.text, "class"):
			// "::class" is the class-name constant, not a declaration.
			if i > 0 && tokens[i-1].kind == phpDoubleColon {
				continue
			}
			name, ok := nextIdent(tokens, i+1)
			if !ok {
				continue // anonymous class
			}
			fullName := qualify(tokens[name].text)
			res.Nodes = append(res.Nodes, graph.Node{
				ID:    fullName,
				Label: lastSegment(fullName),
				Kind:  graph.NodeKindClass,
				File:  path,
				Line:  tok.line,
			})
			ctx.enterClass(fullName)

			// Scan the declaration header for a superclass.
			for k := name + 1; k < len(tokens); k++ {
				if tokens[k].kind == phpChar && tokens[k].text == "{" {
					break
				}
				if tokens[k].kind == phpIdent && keywordIs(tokens[k].text, "extends") {
					if super, ok := nextIdent(tokens, k+1); ok {
						res.Edges = append(res.Edges, graph.Edge{
							Source: fullName,
							Target: tokens[super].text,
							Kind:   graph.EdgeKindExtends,
							File:   path,
							Line:   tok.line,
						})
					}
					break
				}
			}
			i = name

		case tok.kind == phpIdent && keywordIs(tok.text, "function"):
			// Skip the by-reference marker; a '(' right after the keyword
			// is a closure, which declares no symbol.
			j := i + 1
			if j < len(tokens) && tokens[j].kind == phpChar && tokens[j].text == "&" {
				j++
			}
			if j >= len(tokens) || tokens[j].kind != phpIdent {
				continue
			}
			funcName := tokens[j].text
			if ctx.inClass {
				qualified := ctx.class + "::" + funcName
				res.Nodes = append(res.Nodes, graph.Node{
					ID:    qualified,
					Label: funcName,
					Kind:  graph.NodeKindMethod,
					File:  path,
					Line:  tok.line,
				})
				ctx.declareMethod(qualified)
			} else {
				fullName := qualify(funcName)
				res.Nodes = append(res.Nodes, graph.Node{
					ID:    fullName,
					Label: lastSegment(fullName),
					Kind:  graph.NodeKindFunction,
					File:  path,
					Line:  tok.line,
				})
				ctx.declareFunction(fullName)
			}
			i = j

		case tok.kind == phpIdent && keywordIs(tok.text, "new"):
			idx, ok := nextIdent(tokens, i+1)
			if !ok || keywordIs(tokens[idx].text, "class") {
				continue // anonymous class instantiation
			}
			if caller := ctx.caller(); caller != "" {
				res.Edges = append(res.Edges, graph.Edge{
					Source: caller,
					Target: tokens[idx].text,
					Kind:   graph.EdgeKindInstantiates,
					File:   path,
					Line:   tok.line,
				})
			}
			i = idx

		case tok.kind == phpDoubleColon:
			// Both sides are captured textually; "$var::member" has no
			// class-name token on the left and is deliberately skipped.
			if i == 0 || i+1 >= len(tokens) {
				continue
			}
			left, right := tokens[i-1], tokens[i+1]
			if left.kind != phpIdent || right.kind != phpIdent {
				continue
			}
			if keywordIs(right.text, "class") {
				continue // Foo::class resolves a name, it calls nothing
			}
			if caller := ctx.caller(); caller != "" {
				res.Edges = append(res.Edges, graph.Edge{
					Source: caller,
					Target: left.text + "::" + right.text,
					Kind:   graph.EdgeKindStaticCall,
					File:   path,
					Line:   tok.line,
				})
			}

		case tok.kind == phpArrow:
			if i+1 >= len(tokens) || tokens[i+1].kind != phpIdent {
				continue
			}
			// The receiver's static type is unknown; record a wildcard
			// target rather than guessing.
			if caller := ctx.caller(); caller != "" {
				res.Edges = append(res.Edges, graph.Edge{
					Source: caller,
					Target: "*::" + tokens[i+1].text,
					Kind:   graph.EdgeKindMethodCall,
					File:   path,
					Line:   tok.line,
				})
			}

		case tok.kind == phpChar && tok.text == "{":
			ctx.trackBraces(1, 0)
		case tok.kind == phpChar && tok.text == "}":
			ctx.trackBraces(0, 1)
		}
	}

	return res, nil
}

// keywordIs compares an identifier token against a PHP keyword,
// case-insensitively as the language requires.
func keywordIs(text, keyword string) bool {
	return strings.EqualFold(text, keyword)
}

// nextIdent returns the index of the next identifier at or after start,
// skipping namespace separators. A non-identifier, non-separator token ends
// the search.
func nextIdent(tokens []phpToken, start int) (int, bool) {
	for k := start; k < len(tokens); k++ {
		switch tokens[k].kind {
		case phpIdent:
			return k, true
		case phpNsSep:
			continue
		default:
			return 0, false
		}
	}
	return 0, false
}

// collectQualifiedName joins identifier and namespace-separator tokens
// starting at start into a backslash-qualified name, returning the name and
// the index of the first token past it.
func collectQualifiedName(tokens []phpToken, start int) (string, int) {
	var b strings.Builder
	k := start
	prevIdent := false
	for ; k < len(tokens); k++ {
		switch tokens[k].kind {
		case phpIdent:
			// Two adjacent identifiers ("A as B") end the name.
			if prevIdent {
				return b.String(), k
			}
			b.WriteString(tokens[k].text)
			prevIdent = true
		case phpNsSep:
			b.WriteString(`\`)
			prevIdent = false
		default:
			return b.String(), k
		}
	}
	return b.String(), k
}
