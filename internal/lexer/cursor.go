// Package lexer provides the byte cursor shared by the literal codec and the
// fixture parser.
package lexer

import "strings"

// Cursor walks a string one byte at a time. The zero value is not useful,
// use New.
type Cursor struct {
	src string
	pos int
}

// New returns a cursor positioned at the start of src.
func New(src string) *Cursor {
	return &Cursor{src: src}
}

// Pos returns the current byte offset.
func (c *Cursor) Pos() int { return c.pos }

// EOF reports whether the cursor is past the last byte.
func (c *Cursor) EOF() bool { return c.pos >= len(c.src) }

// Peek returns the current byte, or 0 at the end of input.
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.src[c.pos]
}

// PeekAt returns the byte n positions ahead, or 0 past the end.
func (c *Cursor) PeekAt(n int) byte {
	if c.pos+n >= len(c.src) {
		return 0
	}
	return c.src[c.pos+n]
}

// Advance moves the cursor n bytes forward, stopping at the end of input.
func (c *Cursor) Advance(n int) {
	c.pos = min(c.pos+n, len(c.src))
}

// Rest returns the unread remainder.
func (c *Cursor) Rest() string { return c.src[c.pos:] }

// Slice returns src[from:current position].
func (c *Cursor) Slice(from int) string { return c.src[from:c.pos] }

// HasPrefix reports whether the unread remainder starts with s.
func (c *Cursor) HasPrefix(s string) bool {
	return strings.HasPrefix(c.Rest(), s)
}

// SkipWhitespace skips the C locale whitespace class.
func (c *Cursor) SkipWhitespace() {
	for !c.EOF() && IsSpace(c.src[c.pos]) {
		c.pos++
	}
}

// SkipSlashes skips leading comment markers.
func (c *Cursor) SkipSlashes() {
	for !c.EOF() && c.src[c.pos] == '/' {
		c.pos++
	}
}

// SkipUntil advances to the next occurrence of ch, or to the end of input.
func (c *Cursor) SkipUntil(ch byte) {
	for !c.EOF() && c.src[c.pos] != ch {
		c.pos++
	}
}

// Expect consumes ch if it is the current byte.
func (c *Cursor) Expect(ch byte) bool {
	if c.EOF() || c.src[c.pos] != ch {
		return false
	}
	c.pos++
	return true
}

// ExpectString consumes s if the unread remainder starts with it.
func (c *Cursor) ExpectString(s string) bool {
	if !c.HasPrefix(s) {
		return false
	}
	c.pos += len(s)
	return true
}

// IsSpace matches ' ', '\t', '\n', '\v', '\f' and '\r'.
func IsSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// IsDigit matches ASCII decimal digits.
func IsDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
