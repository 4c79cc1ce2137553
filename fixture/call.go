package fixture

import (
	"strings"

	"github.com/clydemeng/semtest/codec"
	"github.com/holiman/uint256"
)

// RevertSentinel is the result line of a call that is expected to fail.
const RevertSentinel = "REVERT"

// Call is one function call of a fixture together with its expectation.
type Call struct {
	// Signature is the function signature including the closing parenthesis,
	// e.g. "f(uint256)".
	Signature string
	// Arguments is the argument literal list as written, ArgumentBytes its
	// encoding.
	Arguments     string
	ArgumentBytes []byte
	// Value is the amount of wei sent along, never nil.
	Value *uint256.Int

	ExpectedResult string
	ExpectedBytes  []byte
	ExpectedFormat codec.FormatList

	// Line is the 1-based fixture line of the call.
	Line int
}

// ExpectsRevert reports whether the fixture expects the call to fail.
func (c *Call) ExpectsRevert() bool {
	return len(c.ExpectedBytes) == 0
}

// Header renders the first line of the call: signature, value and
// arguments.
func (c *Call) Header() string {
	var b strings.Builder
	b.WriteString(c.Signature)
	if c.Value != nil && !c.Value.IsZero() {
		b.WriteString("[" + c.Value.Dec() + "]")
	}
	if c.Arguments != "" {
		b.WriteString(": " + c.Arguments)
	}
	return b.String()
}

// ExpectationLine renders the expected result as written.
func (c *Call) ExpectationLine() string {
	return ResultLine(c.ExpectedResult)
}

// RenderResult renders raw return data in the notation of the expected
// result. Empty data renders as the empty string.
func (c *Call) RenderResult(result []byte) (string, error) {
	return codec.Decode(result, c.ExpectedFormat)
}

// ResultLine renders the second line of a call for a rendered result.
func ResultLine(rendered string) string {
	if rendered == "" {
		return RevertSentinel
	}
	return "-> " + rendered
}
