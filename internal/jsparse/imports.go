package jsparse

import "strings"

// BindingKind distinguishes the ways an import declaration binds a local
// name.
type BindingKind string

const (
	BindNamed     BindingKind = "named"
	BindDefault   BindingKind = "default"
	BindNamespace BindingKind = "namespace"
)

// Binding is one local name introduced by an import declaration.
type Binding struct {
	// Local is the identifier usable in the importing file.
	Local string

	// Imported is the exported name in the source module. It equals Local
	// for plain named imports, differs for renamed ones, and is empty for
	// default and namespace bindings.
	Imported string

	Kind BindingKind
}

// ImportDecl is one static import declaration.
type ImportDecl struct {
	// Module is the specifier as written, unquoted.
	Module string

	// Bindings lists the runtime names the declaration introduces. Side
	// effect imports and type-only declarations introduce none.
	Bindings []Binding

	// TypeOnly marks `import type` declarations.
	TypeOnly bool

	// Start and End delimit the whole declaration in the source, import
	// attributes and a same-line trailing semicolon included.
	Start, End int

	// Named delimits the named-import list, braces included. Zero when the
	// declaration has no named list. Rewriters use it to edit individual
	// entries without re-deriving bracket structure.
	Named Span
}

// ParseImports returns every static import declaration in src in source
// order. Dynamic `import(...)` expressions and `import.meta` are not
// declarations; malformed clauses yield no declaration rather than an
// error.
func ParseImports(src string) []ImportDecl {
	return NewFile(src).Imports()
}

// Imports returns every static import declaration in the file.
func (f *File) Imports() []ImportDecl {
	var decls []ImportDecl
	for i := 0; i < len(f.mask); {
		j := strings.Index(f.mask[i:], "import")
		if j < 0 {
			break
		}
		at := i + j
		i = at + len("import")
		if !boundedIdent(f.mask, at, len("import")) {
			continue
		}
		if d, ok := f.parseImportAt(at); ok {
			decls = append(decls, d)
			i = d.End
		}
	}
	return decls
}

func (f *File) parseImportAt(at int) (ImportDecl, bool) {
	c := &cursor{src: f.src, mask: f.mask, pos: at + len("import")}
	d := ImportDecl{Start: at}

	c.skipSpace()
	switch c.peek() {
	case '(', '.':
		// Dynamic import or import.meta.
		return d, false
	case '"', '\'':
		mod, ok := c.stringLit()
		if !ok {
			return d, false
		}
		d.Module = mod
		d.End = c.declEnd()
		return d, true
	}

	// `import type …` is type-only unless `type` itself is the default
	// binding, as in `import type from "m"`.
	if c.peekWord() == "type" {
		save := c.pos
		c.takeWord("type")
		c.skipSpace()
		if c.peekWord() == "from" {
			c.pos = save
		} else {
			d.TypeOnly = true
		}
	}

	if isIdentStart(c.peek()) && c.peekWord() != "from" {
		name, ok := c.ident()
		if !ok {
			return d, false
		}
		d.Bindings = append(d.Bindings, Binding{Local: name, Kind: BindDefault})
		c.skipSpace()
		if c.peek() == ',' {
			c.pos++
			c.skipSpace()
		}
	}

	switch c.peek() {
	case '{':
		open := c.pos
		bindings, ok := c.namedList()
		if !ok {
			return d, false
		}
		d.Named = Span{Start: open, End: c.pos}
		d.Bindings = append(d.Bindings, bindings...)
	case '*':
		c.pos++
		c.skipSpace()
		if !c.takeWord("as") {
			return d, false
		}
		c.skipSpace()
		name, ok := c.ident()
		if !ok {
			return d, false
		}
		d.Bindings = append(d.Bindings, Binding{Local: name, Kind: BindNamespace})
	}

	c.skipSpace()
	if !c.takeWord("from") {
		return d, false
	}
	c.skipSpace()
	mod, ok := c.stringLit()
	if !ok {
		return d, false
	}
	d.Module = mod
	if d.TypeOnly {
		d.Bindings = nil
	}
	d.End = c.declEnd()
	return d, true
}

// namedList parses `{ a, b as c, type T, "x" as y }`, returning the
// runtime bindings. Inline type-only entries are parsed and dropped.
func (c *cursor) namedList() ([]Binding, bool) {
	if c.peek() != '{' {
		return nil, false
	}
	c.pos++
	var out []Binding
	for {
		c.skipSpace()
		if c.peek() == '}' {
			c.pos++
			return out, true
		}
		b, typeOnly, ok := c.namedSpecifier()
		if !ok {
			return nil, false
		}
		if !typeOnly {
			out = append(out, b)
		}
		c.skipSpace()
		switch c.peek() {
		case ',':
			c.pos++
		case '}':
			c.pos++
			return out, true
		default:
			return nil, false
		}
	}
}

// namedSpecifier parses one named-import entry. The word `type` is a
// modifier only when another name follows it; `{ type }` and
// `{ type as x }` bind the name "type".
func (c *cursor) namedSpecifier() (b Binding, typeOnly, ok bool) {
	if c.peekWord() == "type" {
		save := c.pos
		c.takeWord("type")
		c.skipSpace()
		if next := c.peek(); next == ',' || next == '}' || c.peekWord() == "as" {
			c.pos = save
		} else {
			typeOnly = true
		}
	}

	var imported string
	if q := c.peek(); q == '"' || q == '\'' {
		s, sok := c.stringLit()
		if !sok {
			return Binding{}, false, false
		}
		imported = s
	} else {
		name, iok := c.ident()
		if !iok {
			return Binding{}, false, false
		}
		imported = name
	}

	local := imported
	c.skipSpace()
	if c.peekWord() == "as" {
		c.takeWord("as")
		c.skipSpace()
		name, iok := c.ident()
		if !iok {
			return Binding{}, false, false
		}
		local = name
	}
	return Binding{Local: local, Imported: imported, Kind: BindNamed}, typeOnly, true
}

// declEnd consumes trailing import attributes (`with { … }`, legacy
// `assert { … }`) and a same-line semicolon, returning the offset one past
// the declaration.
func (c *cursor) declEnd() int {
	end := c.pos
	save := c.pos
	c.skipSpace()
	if w := c.peekWord(); w == "with" || w == "assert" {
		c.takeWord(w)
		c.skipSpace()
		if c.peek() == '{' {
			if closing, bok := matchBracket(c.mask, c.pos); bok {
				end = closing + 1
			}
		}
	}
	c.pos = save

	k := end
	for k < len(c.mask) && (c.mask[k] == ' ' || c.mask[k] == '\t') {
		k++
	}
	if k < len(c.mask) && c.mask[k] == ';' {
		end = k + 1
	}
	return end
}
