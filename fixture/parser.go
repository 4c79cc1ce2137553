package fixture

import (
	"strings"

	"github.com/clydemeng/semtest/codec"
	"github.com/clydemeng/semtest/internal/lexer"
	"github.com/clydemeng/semtest/semerr"
	"github.com/holiman/uint256"
)

// ParseCalls reads the call section of a fixture. Each call occupies two
// lines: the call itself and either "-> <literals>" or "REVERT". Comment
// markers and surrounding whitespace are ignored, blank lines between calls
// are skipped.
func ParseCalls(lines []string) ([]Call, error) {
	return parseCalls(lines, 0)
}

// parseCalls numbers lines starting after firstLine.
func parseCalls(lines []string, firstLine int) ([]Call, error) {
	var calls []Call
	for i := 0; i < len(lines); i++ {
		lineNo := firstLine + i + 1
		c := lexer.New(lines[i])
		c.SkipSlashes()
		c.SkipWhitespace()
		if c.EOF() {
			continue
		}
		call, err := parseCallLine(c)
		if err != nil {
			return nil, semerr.AtLine(err, lineNo, semerr.MalformedFixture)
		}
		call.Line = lineNo

		i++
		if i >= len(lines) {
			return nil, &semerr.Error{Class: semerr.MalformedFixture, Line: lineNo, Offset: -1, Message: "no result specified"}
		}
		if err := parseResultLine(lexer.New(lines[i]), &call); err != nil {
			return nil, semerr.AtLine(err, lineNo+1, semerr.MalformedFixture)
		}
		calls = append(calls, call)
	}
	return calls, nil
}

// parseCallLine parses "signature(...)[value]: arguments".
func parseCallLine(c *lexer.Cursor) (Call, error) {
	call := Call{Value: new(uint256.Int)}

	// Tuple parameters nest, the signature ends where the outermost
	// parameter list closes.
	start := c.Pos()
	for depth := 0; !c.EOF(); c.Advance(1) {
		if c.Peek() == '(' {
			depth++
		} else if c.Peek() == ')' {
			if depth--; depth <= 0 {
				break
			}
		}
	}
	if !c.Expect(')') {
		return call, semerr.New(semerr.MalformedFixture, c.Pos(), "expected ')'")
	}
	call.Signature = c.Slice(start)

	if c.Expect('[') {
		from := c.Pos()
		c.SkipUntil(']')
		text := strings.TrimSpace(c.Slice(from))
		if !c.Expect(']') {
			return call, semerr.New(semerr.MalformedFixture, c.Pos(), "expected ']'")
		}
		value, err := codec.ParseUnsigned(text)
		if err != nil {
			return call, semerr.Wrap(semerr.MalformedFixture, from, "invalid value "+text, err)
		}
		call.Value = value
	}

	c.SkipWhitespace()
	if c.EOF() {
		return call, nil
	}
	if !c.Expect(':') {
		return call, semerr.New(semerr.MalformedFixture, c.Pos(), "expected ':'")
	}
	c.SkipWhitespace()
	base := c.Pos()
	call.Arguments = strings.TrimRightFunc(c.Rest(), isSpace)
	args, _, err := codec.Encode(call.Arguments)
	if err != nil {
		return call, shift(err, base)
	}
	call.ArgumentBytes = args
	return call, nil
}

// parseResultLine parses "-> <literals>" or the revert sentinel.
func parseResultLine(c *lexer.Cursor, call *Call) error {
	c.SkipSlashes()
	c.SkipWhitespace()
	if c.ExpectString("->") {
		c.SkipWhitespace()
		base := c.Pos()
		call.ExpectedResult = strings.TrimRightFunc(c.Rest(), isSpace)
		expected, formats, err := codec.Encode(call.ExpectedResult)
		if err != nil {
			return shift(err, base)
		}
		if len(expected) == 0 {
			return semerr.New(semerr.MalformedFixture, base, "expected result encodes to no bytes, use "+RevertSentinel)
		}
		call.ExpectedBytes = expected
		call.ExpectedFormat = formats
		return nil
	}
	if !c.ExpectString(RevertSentinel) {
		return semerr.New(semerr.MalformedFixture, c.Pos(), "expected '->' or "+RevertSentinel)
	}
	c.SkipWhitespace()
	if !c.EOF() {
		return semerr.New(semerr.MalformedFixture, c.Pos(), "unexpected text after "+RevertSentinel)
	}
	return nil
}

// shift moves a literal error offset from the literal list to the line.
func shift(err error, base int) error {
	se, ok := err.(*semerr.Error)
	if !ok || se.Offset < 0 {
		return err
	}
	cp := *se
	cp.Offset += base
	return &cp
}

func isSpace(r rune) bool {
	return r < 0x80 && lexer.IsSpace(byte(r))
}
