package jsparse

import "unicode/utf8"

// maskCtx is one open template literal on the lexer stack: either its text
// region or a `${}` expression within it, with the expression's raw brace
// depth so the closing brace can be told apart from object-literal braces.
type maskCtx struct {
	inExpr bool
	braces int
}

// Mask returns a copy of src with the interiors of comments, string
// literals, template-literal text, and regular-expression literals
// replaced by spaces. Delimiters of string-like literals (quotes,
// backticks, regex slashes, `${`/`}`) are kept so structural scanning
// still sees where they begin and end; comments are blanked entirely.
// Newlines always survive. len(Mask(src)) == len(src) and every byte kept
// is identical to the source byte at the same offset.
func Mask(src string) string {
	out := []byte(src)
	var stack []maskCtx

	i := 0
	for i < len(src) {
		// Template text: everything is blanked until a backtick closes the
		// literal or `${` opens an embedded expression.
		if n := len(stack); n > 0 && !stack[n-1].inExpr {
			c := src[i]
			switch {
			case c == '`':
				stack = stack[:n-1]
				i++
			case c == '$' && i+1 < len(src) && src[i+1] == '{':
				stack = append(stack, maskCtx{inExpr: true})
				i += 2
			case c == '\\' && i+1 < len(src):
				blank(out, i, i+2)
				i += 2
			default:
				blank(out, i, i+1)
				i++
			}
			continue
		}

		c := src[i]
		switch {
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			j := i
			for j < len(src) && src[j] != '\n' {
				j++
			}
			blank(out, i, j)
			i = j

		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			j := i + 2
			for j+1 < len(src) && !(src[j] == '*' && src[j+1] == '/') {
				j++
			}
			if j+1 < len(src) {
				j += 2
			} else {
				j = len(src)
			}
			blank(out, i, j)
			i = j

		case c == '\'' || c == '"':
			i = maskString(src, out, i)

		case c == '`':
			stack = append(stack, maskCtx{})
			i++

		case c == '/':
			if regexAllowed(out, i) {
				if end, ok := scanRegex(src, i); ok {
					// Keep both slashes, blank body and flags.
					closing := regexClose(src, i, end)
					blank(out, i+1, closing)
					blank(out, closing+1, end)
					i = end
					break
				}
			}
			i++

		case c == '{':
			if n := len(stack); n > 0 {
				stack[n-1].braces++
			}
			i++

		case c == '}':
			if n := len(stack); n > 0 {
				if stack[n-1].braces == 0 {
					// Closes the `${` expression; back to template text.
					stack = stack[:n-1]
				} else {
					stack[n-1].braces--
				}
			}
			i++

		default:
			i++
		}
	}
	return string(out)
}

// blank replaces out[from:to] with spaces, preserving newlines so line
// structure survives in the mask.
func blank(out []byte, from, to int) {
	for k := from; k < to && k < len(out); k++ {
		if out[k] != '\n' {
			out[k] = ' '
		}
	}
}

// maskString blanks a single- or double-quoted string starting at i,
// keeping both delimiters, and returns the index just past it. An
// unescaped newline terminates the literal early (malformed source).
func maskString(src string, out []byte, i int) int {
	quote := src[i]
	j := i + 1
	for j < len(src) {
		switch src[j] {
		case '\\':
			if j+1 < len(src) {
				blank(out, j, j+2)
				j += 2
				continue
			}
			blank(out, j, j+1)
			j++
		case quote:
			return j + 1
		case '\n':
			return j
		default:
			blank(out, j, j+1)
			j++
		}
	}
	return j
}

// regexAllowed reports whether a `/` at offset i can begin a regex literal,
// judged by the last significant byte already written to the mask. After a
// value (identifier, number, closing bracket, string delimiter) a slash is
// division; after an operator, opening bracket, statement boundary, or a
// value-position keyword it begins a regex.
func regexAllowed(out []byte, i int) bool {
	j := i - 1
	for j >= 0 && (out[j] == ' ' || out[j] == '\t' || out[j] == '\n' || out[j] == '\r') {
		j--
	}
	if j < 0 {
		return true
	}
	c := out[j]
	if isIdentByte(c) {
		start := j
		for start > 0 && isIdentByte(out[start-1]) {
			start--
		}
		return regexKeywords[string(out[start:j+1])]
	}
	switch c {
	case ')', ']', '"', '\'', '`':
		return false
	}
	return true
}

// regexKeywords are keywords after which a `/` starts a regex literal
// rather than division.
var regexKeywords = map[string]bool{
	"return": true, "typeof": true, "instanceof": true, "in": true,
	"of": true, "new": true, "delete": true, "void": true, "throw": true,
	"case": true, "do": true, "else": true, "yield": true, "await": true,
}

// scanRegex scans a candidate regex literal starting at the `/` at offset
// i and returns the offset just past its flags. A newline before the
// closing slash disqualifies the candidate (regex literals are single
// line), in which case the slash is treated as division by the caller.
func scanRegex(src string, i int) (int, bool) {
	j := i + 1
	inClass := false
	for j < len(src) {
		switch src[j] {
		case '\\':
			j += 2
			continue
		case '\n':
			return 0, false
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '/':
			if !inClass {
				k := j + 1
				for k < len(src) && isIdentByte(src[k]) {
					k++
				}
				return k, true
			}
		}
		j++
	}
	return 0, false
}

// regexClose returns the offset of the closing `/` of a regex literal
// whose span is [i, end) including flags.
func regexClose(src string, i, end int) int {
	j := end - 1
	for j > i && src[j] != '/' {
		j--
	}
	return j
}

// isIdentStart reports whether c can begin an identifier. Multibyte
// sequences are treated as identifier characters wholesale; exact Unicode
// ID_Start classification is not needed for span extraction.
func isIdentStart(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
		c >= utf8.RuneSelf
}

// isIdentByte reports whether c can continue an identifier.
func isIdentByte(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// IdentAt returns the identifier beginning at offset i of s, or "" when i
// does not start one. Offsets computed on a file's code mask are valid in
// its source and vice versa, so either text can be queried.
func IdentAt(s string, i int) string { return identAt(s, i) }

// identAt returns the identifier beginning at offset i of the mask, or ""
// when i does not start one.
func identAt(mask string, i int) string {
	if i >= len(mask) || !isIdentStart(mask[i]) {
		return ""
	}
	j := i
	for j < len(mask) && isIdentByte(mask[j]) {
		j++
	}
	return mask[i:j]
}
