package jsparse

import "strings"

// Span is a half-open byte range [Start, End) into a source text.
type Span struct {
	Start int
	End   int
}

// Slice returns the spanned text of src.
func (s Span) Slice(src string) string { return src[s.Start:s.End] }

// IsZero reports whether the span is unset.
func (s Span) IsZero() bool { return s.Start == 0 && s.End == 0 }

// Call is one identifier call expression.
type Call struct {
	// Callee is the identifier preceding the argument list.
	Callee string

	// Span covers the whole expression, callee through closing parenthesis.
	Span Span

	// Args are the top-level argument spans, whitespace-trimmed. Nested
	// brackets of any depth stay inside their span.
	Args []Span
}

// FindCalls returns every call of the named identifier in src. Member
// calls (`obj.callee(…)`) do not match, and a call whose argument list
// never closes yields no match.
func FindCalls(src, callee string) []Call {
	return NewFile(src).Calls(callee)
}

// Calls returns every call of the named identifier in the file.
func (f *File) Calls(callee string) []Call {
	var calls []Call
	for i := 0; i < len(f.mask); {
		j := strings.Index(f.mask[i:], callee)
		if j < 0 {
			break
		}
		at := i + j
		i = at + 1
		if !boundedIdent(f.mask, at, len(callee)) {
			continue
		}
		if prevSignificant(f.mask, at) == '.' {
			continue
		}
		k := at + len(callee)
		for k < len(f.mask) && isSpace(f.mask[k]) {
			k++
		}
		if k >= len(f.mask) || f.mask[k] != '(' {
			continue
		}
		closing, ok := matchBracket(f.mask, k)
		if !ok {
			continue
		}
		calls = append(calls, Call{
			Callee: callee,
			Span:   Span{Start: at, End: closing + 1},
			Args:   splitArgs(f.src, f.mask, k, closing),
		})
		i = closing + 1
	}
	return calls
}

// ListItems splits a bracketed list (delimiters included in the span) into
// its top-level comma-separated item spans. Empty items from trailing
// commas are dropped.
func (f *File) ListItems(list Span) []Span {
	if list.IsZero() || list.End-list.Start < 2 {
		return nil
	}
	return splitArgs(f.src, f.mask, list.Start, list.End-1)
}

// matchBracket returns the offset of the bracket closing the one at open.
// The three bracket kinds are counted together; literal interiors are
// blank in the mask, so only structural brackets participate.
func matchBracket(mask string, open int) (int, bool) {
	depth := 0
	for j := open; j < len(mask); j++ {
		switch mask[j] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
			if depth == 0 {
				return j, true
			}
		}
	}
	return 0, false
}

// splitArgs splits an argument list at top-level commas. Empty spans from
// trailing commas are dropped.
func splitArgs(src, mask string, open, closing int) []Span {
	var (
		args  []Span
		depth int
		start = open + 1
	)
	flush := func(end int) {
		s := trimSpan(src, Span{Start: start, End: end})
		if s.Start < s.End {
			args = append(args, s)
		}
	}
	for j := open; j < closing; j++ {
		switch mask[j] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 1 {
				flush(j)
				start = j + 1
			}
		}
	}
	flush(closing)
	return args
}

// trimSpan shrinks a span to exclude surrounding whitespace.
func trimSpan(src string, s Span) Span {
	for s.Start < s.End && isSpace(src[s.Start]) {
		s.Start++
	}
	for s.End > s.Start && isSpace(src[s.End-1]) {
		s.End--
	}
	return s
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// prevSignificant returns the last non-whitespace mask byte before offset
// i, or 0 at the start of the file.
func prevSignificant(mask string, i int) byte {
	for j := i - 1; j >= 0; j-- {
		if !isSpace(mask[j]) {
			return mask[j]
		}
	}
	return 0
}

// ArgKind classifies the syntactic shape of an argument expression.
type ArgKind int

const (
	ArgOther ArgKind = iota
	ArgIdent
	ArgArrayLiteral
	ArgObjectLiteral
)

// ClassifyArg reports whether an argument expression is a bare identifier,
// a single balanced array or object literal, or something else.
func ClassifyArg(expr string) ArgKind {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return ArgOther
	}
	if identAt(trimmed, 0) == trimmed {
		return ArgIdent
	}
	mask := Mask(trimmed)
	var want ArgKind
	switch trimmed[0] {
	case '[':
		want = ArgArrayLiteral
	case '{':
		want = ArgObjectLiteral
	default:
		return ArgOther
	}
	end, ok := matchBracket(mask, 0)
	if !ok || lastSignificant(mask) != end {
		return ArgOther
	}
	return want
}

// lastSignificant returns the offset of the last non-whitespace byte, or
// -1 for blank text.
func lastSignificant(mask string) int {
	for j := len(mask) - 1; j >= 0; j-- {
		if !isSpace(mask[j]) {
			return j
		}
	}
	return -1
}
