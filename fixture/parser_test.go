package fixture

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/clydemeng/semtest/codec"
	"github.com/clydemeng/semtest/semerr"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func word(v byte) []byte {
	return common.LeftPadBytes([]byte{v}, 32)
}

func TestParseCallsBasic(t *testing.T) {
	calls, err := ParseCalls([]string{
		"// f(uint256): 3",
		"// -> 9",
		"",
		"//",
		"g()",
		"REVERT",
	})
	require.NoError(t, err)
	require.Len(t, calls, 2)

	f := calls[0]
	require.Equal(t, "f(uint256)", f.Signature)
	require.Equal(t, "3", f.Arguments)
	require.Equal(t, word(3), f.ArgumentBytes)
	require.True(t, f.Value.IsZero())
	require.Equal(t, "9", f.ExpectedResult)
	require.Equal(t, word(9), f.ExpectedBytes)
	require.Equal(t, codec.FormatList{{Length: 32, Type: codec.Dec, Padded: true}}, f.ExpectedFormat)
	require.False(t, f.ExpectsRevert())
	require.Equal(t, 1, f.Line)

	g := calls[1]
	require.Equal(t, "g()", g.Signature)
	require.Empty(t, g.Arguments)
	require.Empty(t, g.ArgumentBytes)
	require.True(t, g.ExpectsRevert())
	require.Empty(t, g.ExpectedFormat)
	require.Equal(t, 5, g.Line)
}

func TestParseCallsValue(t *testing.T) {
	calls, err := ParseCalls([]string{
		"f(uint256)[100]: 3",
		"-> 3",
		"g()[0x10]",
		"-> true",
	})
	require.NoError(t, err)
	require.Equal(t, uint64(100), calls[0].Value.Uint64())
	require.Equal(t, "f(uint256)[100]: 3", calls[0].Header())
	require.Equal(t, uint64(16), calls[1].Value.Uint64())
	require.Equal(t, "g()[16]", calls[1].Header())
}

func TestParseCallsTupleSignature(t *testing.T) {
	calls, err := ParseCalls([]string{
		"f((uint256,bool),uint8): 1, true, 2",
		"-> 1",
	})
	require.NoError(t, err)
	require.Equal(t, "f((uint256,bool),uint8)", calls[0].Signature)
	require.Len(t, calls[0].ArgumentBytes, 96)
}

func TestParseCallsErrors(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		class semerr.Class
		line  int
		msg   string
	}{
		{"missing paren", []string{"f(uint256: 3", "-> 1"}, semerr.MalformedFixture, 1, "expected ')'"},
		{"missing colon", []string{"f(uint256) 3", "-> 1"}, semerr.MalformedFixture, 1, "expected ':'"},
		{"missing bracket", []string{"f()[100: 3", "-> 1"}, semerr.MalformedFixture, 1, "expected ']'"},
		{"bad value", []string{"f()[-1]", "-> 1"}, semerr.MalformedFixture, 1, "invalid value"},
		{"missing result", []string{"", "f()"}, semerr.MalformedFixture, 2, "no result specified"},
		{"bad sentinel", []string{"f()", "REVERTED"}, semerr.MalformedFixture, 2, "unexpected text"},
		{"bad result", []string{"f()", "=> 1"}, semerr.MalformedFixture, 2, "expected '->' or REVERT"},
		{"empty result", []string{"f()", "-> "}, semerr.MalformedFixture, 2, "encodes to no bytes"},
		{"bad argument", []string{"f(uint256): x", "-> 1"}, semerr.MalformedLiteral, 1, "invalid literal"},
		{"bad expectation", []string{"f()", "-> 1 2"}, semerr.MalformedLiteral, 2, "expected ','"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCalls(tt.lines)
			require.Error(t, err)
			var se *semerr.Error
			require.True(t, errors.As(err, &se))
			require.Equal(t, tt.class, se.Class)
			require.Equal(t, tt.line, se.Line)
			require.Contains(t, se.Error(), tt.msg)
		})
	}
}

func TestParseCallsLiteralOffsets(t *testing.T) {
	_, err := ParseCalls([]string{"f(uint256): 1 2", "-> 1"})
	var se *semerr.Error
	require.ErrorAs(t, err, &se)
	// "f(uint256): " is 12 bytes, the separator is missing at byte 2 of the list.
	require.Equal(t, 14, se.Offset)
}

const sampleFixture = `60 0e 60 0c 60 00 39 60 0e 60 00 f3
6004356003026000526020 6000f3
// ----
// f(uint256): 3
// -> 9
// f(uint256): 2
// -> 7
`

func TestParseFixture(t *testing.T) {
	fx, err := Parse(strings.NewReader(sampleFixture), "sample.semtest")
	require.NoError(t, err)
	require.Equal(t, "sample.semtest", fx.Path)
	require.Equal(t, "60 0e 60 0c 60 00 39 60 0e 60 00 f3\n6004356003026000526020 6000f3\n", fx.Source)
	require.Len(t, fx.Calls, 2)
	require.Equal(t, 4, fx.Calls[0].Line)
	require.Equal(t, 6, fx.Calls[1].Line)
}

func TestParseFixtureErrorLine(t *testing.T) {
	_, err := Parse(strings.NewReader("00\n// ----\n// f()\n// -> 1 2\n"), "bad.semtest")
	require.True(t, semerr.Is(err, semerr.MalformedLiteral))
	require.Contains(t, err.Error(), "bad.semtest")
	require.Contains(t, err.Error(), "line 4")
}

func TestParseFixtureWithoutSeparator(t *testing.T) {
	// A mistyped separator must not turn the calls into source.
	_, err := Parse(strings.NewReader("00\n// ---\n// f(): 1\n// -> 1\n"), "x")
	require.True(t, semerr.Is(err, semerr.MalformedFixture), "%v", err)
	require.ErrorContains(t, err, "line 4")
	require.ErrorContains(t, err, "missing // ---- separator")

	for _, blank := range []string{"", "\n", "  \n\t\n"} {
		fx, err := Parse(strings.NewReader(blank), "x")
		require.NoError(t, err, "%q", blank)
		require.Empty(t, fx.Calls)
	}

	fx, err := Parse(strings.NewReader("00\n01\n// ----  \n"), "x")
	require.NoError(t, err)
	require.Equal(t, "00\n01\n", fx.Source)
	require.Empty(t, fx.Calls)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ok.semtest")
	require.NoError(t, os.WriteFile(path, []byte(sampleFixture), 0o644))

	fx, err := Load(path)
	require.NoError(t, err)
	require.Len(t, fx.Calls, 2)

	_, err = Load(filepath.Join(dir, "missing.semtest"))
	require.True(t, semerr.Is(err, semerr.FixtureUnreadable))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteUpdated(t *testing.T) {
	fx, err := Parse(strings.NewReader(sampleFixture), "sample.semtest")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, fx.WriteUpdated(&buf, [][]byte{word(9), nil}))
	want := strings.Replace(sampleFixture, "// -> 7", "// REVERT", 1)
	require.Equal(t, want, buf.String())

	require.Error(t, fx.WriteUpdated(&buf, nil))
}
