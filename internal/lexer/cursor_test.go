package lexer

import "testing"

func TestCursorSkipping(t *testing.T) {
	c := New("// \t f(uint256): 1")
	c.SkipSlashes()
	c.SkipWhitespace()
	if c.Peek() != 'f' {
		t.Fatalf("peek = %q, want 'f'", c.Peek())
	}
	start := c.Pos()
	c.SkipUntil(')')
	if !c.Expect(')') {
		t.Fatal("expected ')'")
	}
	if got := c.Slice(start); got != "f(uint256)" {
		t.Fatalf("slice = %q", got)
	}
	if c.Expect(')') {
		t.Fatal("second ')' must not match")
	}
	if !c.ExpectString(": ") || c.Rest() != "1" {
		t.Fatalf("rest = %q", c.Rest())
	}
	c.Advance(10)
	if !c.EOF() || c.Peek() != 0 || c.PeekAt(1) != 0 {
		t.Fatal("cursor must clamp at end of input")
	}
}

func TestCharacterClasses(t *testing.T) {
	for _, b := range []byte(" \t\n\v\f\r") {
		if !IsSpace(b) {
			t.Errorf("IsSpace(%q) = false", b)
		}
	}
	if IsSpace('a') || IsSpace(0) {
		t.Error("IsSpace matched a non-space")
	}
	if !IsDigit('0') || !IsDigit('9') || IsDigit('a') {
		t.Error("IsDigit misclassified")
	}
}
