package extract

import "strings"

// phpTokenKind classifies tokens produced by the PHP lexer.
type phpTokenKind int

const (
	phpIdent       phpTokenKind = iota // identifiers and keywords
	phpVariable                        // $name
	phpDoubleColon                     // ::
	phpArrow                           // ->
	phpNsSep                           // \
	phpChar                            // any other punctuation, one char
)

// phpToken is a lexed PHP token with its 1-based source line.
type phpToken struct {
	kind phpTokenKind
	text string
	line int
}

// lexPHP tokenizes PHP source the way the language's own tokenizer carves it
// up, to the extent the matcher needs: identifiers, variables, the :: and ->
// operators, namespace separators and bare punctuation. Whitespace, comments,
// string literals, numbers and inline HTML outside <?php tags produce no
// tokens, so braces inside strings or comments never reach the scope tracker.
//
// Heredoc/nowdoc bodies are skipped by looking for a line starting with the
// opening identifier; irregular terminators lose precision, which is accepted.
func lexPHP(src []byte) []phpToken {
	var tokens []phpToken
	s := string(src)
	line := 1
	i := 0
	inPHP := false

	countLines := func(text string) {
		line += strings.Count(text, "\n")
	}

	for i < len(s) {
		if !inPHP {
			// Inline HTML until the next open tag.
			open := strings.Index(s[i:], "<?")
			if open < 0 {
				countLines(s[i:])
				break
			}
			countLines(s[i : i+open])
			i += open + 2
			// Consume "php" or "=" after "<?".
			if strings.HasPrefix(s[i:], "php") {
				i += 3
			} else if strings.HasPrefix(s[i:], "=") {
				i++
			}
			inPHP = true
			continue
		}

		c := s[i]
		switch {
		case c == '?' && i+1 < len(s) && s[i+1] == '>':
			inPHP = false
			i += 2

		case c == '\n':
			line++
			i++
		case c == ' ' || c == '\t' || c == '\r':
			i++

		case c == '/' && i+1 < len(s) && s[i+1] == '/':
			i = skipToLineEnd(s, i)
		case c == '#':
			i = skipToLineEnd(s, i)
		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			end := strings.Index(s[i+2:], "*/")
			if end < 0 {
				countLines(s[i:])
				i = len(s)
			} else {
				countLines(s[i : i+2+end+2])
				i += 2 + end + 2
			}

		case c == '\'' || c == '"' || c == '`':
			j := i + 1
			for j < len(s) {
				if s[j] == '\\' {
					j += 2
					continue
				}
				if s[j] == c {
					j++
					break
				}
				j++
			}
			countLines(s[i:min(j, len(s))])
			i = min(j, len(s))

		case c == '<' && strings.HasPrefix(s[i:], "<<<"):
			i = skipHeredoc(s, i, &line)

		case c == '$':
			j := i + 1
			for j < len(s) && isPHPWordByte(s[j]) {
				j++
			}
			if j > i+1 {
				tokens = append(tokens, phpToken{phpVariable, s[i:j], line})
			}
			i = j

		case c == ':' && i+1 < len(s) && s[i+1] == ':':
			tokens = append(tokens, phpToken{phpDoubleColon, "::", line})
			i += 2
		case c == '-' && i+1 < len(s) && s[i+1] == '>':
			tokens = append(tokens, phpToken{phpArrow, "->", line})
			i += 2
		case c == '\\':
			tokens = append(tokens, phpToken{phpNsSep, `\`, line})
			i++

		case isPHPWordStartByte(c):
			j := i + 1
			for j < len(s) && isPHPWordByte(s[j]) {
				j++
			}
			tokens = append(tokens, phpToken{phpIdent, s[i:j], line})
			i = j

		case c >= '0' && c <= '9':
			j := i + 1
			for j < len(s) && (isPHPWordByte(s[j]) || s[j] == '.') {
				j++
			}
			i = j

		default:
			tokens = append(tokens, phpToken{phpChar, s[i : i+1], line})
			i++
		}
	}

	return tokens
}

// skipToLineEnd advances past a line comment, stopping before the newline or
// a closing tag so both keep their normal handling.
func skipToLineEnd(s string, i int) int {
	for i < len(s) && s[i] != '\n' {
		if s[i] == '?' && i+1 < len(s) && s[i+1] == '>' {
			return i
		}
		i++
	}
	return i
}

// skipHeredoc consumes a <<<IDENT ... IDENT block, best effort.
func skipHeredoc(s string, i int, line *int) int {
	j := i + 3
	for j < len(s) && (s[j] == ' ' || s[j] == '\t') {
		j++
	}
	// Nowdoc ('IDENT') and quoted heredoc ("IDENT") markers.
	for j < len(s) && (s[j] == '\'' || s[j] == '"') {
		j++
	}
	start := j
	for j < len(s) && isPHPWordByte(s[j]) {
		j++
	}
	marker := s[start:j]
	if marker == "" {
		return i + 3
	}
	rest := s[j:]
	for off := 0; ; {
		nl := strings.Index(rest[off:], "\n")
		if nl < 0 {
			*line += strings.Count(s[i:], "\n")
			return len(s)
		}
		off += nl + 1
		tail := strings.TrimLeft(rest[off:], " \t")
		if strings.HasPrefix(tail, marker) {
			consumed := j + off + (len(rest[off:]) - len(tail)) + len(marker)
			*line += strings.Count(s[i:consumed], "\n")
			return consumed
		}
	}
}

func isPHPWordStartByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isPHPWordByte(c byte) bool {
	return isPHPWordStartByte(c) || (c >= '0' && c <= '9')
}
