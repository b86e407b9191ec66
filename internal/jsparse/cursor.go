package jsparse

// cursor walks a file's code mask; identifier and string values are sliced
// out of the original source at mask-computed offsets.
type cursor struct {
	src  string
	mask string
	pos  int
}

func (c *cursor) peek() byte {
	if c.pos >= len(c.mask) {
		return 0
	}
	return c.mask[c.pos]
}

// skipSpace advances over whitespace. Comments are spaces in the mask, so
// they are skipped here as well.
func (c *cursor) skipSpace() {
	for c.pos < len(c.mask) && isSpace(c.mask[c.pos]) {
		c.pos++
	}
}

// peekWord returns the identifier at the cursor without consuming it.
func (c *cursor) peekWord() string {
	return identAt(c.mask, c.pos)
}

// takeWord consumes w when the cursor sits exactly on it.
func (c *cursor) takeWord(w string) bool {
	if identAt(c.mask, c.pos) != w {
		return false
	}
	c.pos += len(w)
	return true
}

// ident consumes and returns the identifier at the cursor.
func (c *cursor) ident() (string, bool) {
	w := identAt(c.mask, c.pos)
	if w == "" {
		return "", false
	}
	c.pos += len(w)
	return w, true
}

// stringLit consumes a quoted literal and returns its contents. Interiors
// are blank in the mask, so the first recurrence of the opening quote is
// the closing delimiter; the value is sliced from the source.
func (c *cursor) stringLit() (string, bool) {
	quote := c.peek()
	if quote != '"' && quote != '\'' {
		return "", false
	}
	for j := c.pos + 1; j < len(c.mask); j++ {
		if c.mask[j] == quote {
			val := c.src[c.pos+1 : j]
			c.pos = j + 1
			return val, true
		}
		if c.mask[j] == '\n' {
			break
		}
	}
	return "", false
}
