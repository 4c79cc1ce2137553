package vm

import (
	"strings"
	"unicode"

	"github.com/clydemeng/semtest/semerr"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Compiler turns fixture source text into contract creation code.
type Compiler interface {
	Compile(source string) ([]byte, error)
}

// BytecodeCompiler accepts creation code written as hex. Whitespace is
// ignored, "//" starts a comment that runs to the end of the line and an
// optional 0x prefix is allowed.
type BytecodeCompiler struct{}

func (BytecodeCompiler) Compile(source string) ([]byte, error) {
	var b strings.Builder
	for n, line := range strings.Split(source, "\n") {
		if i := strings.Index(line, "//"); i >= 0 {
			line = line[:i]
		}
		line = strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, line)
		if b.Len() == 0 {
			line = strings.TrimPrefix(strings.TrimPrefix(line, "0x"), "0X")
		}
		for _, r := range line {
			if !isHexRune(r) {
				return nil, &semerr.Error{Class: semerr.InvalidSource, Line: n + 1, Offset: -1, Message: "invalid hex character " + string(r)}
			}
		}
		b.WriteString(line)
	}
	if b.Len() == 0 {
		return nil, semerr.New(semerr.InvalidSource, -1, "source contains no bytecode")
	}
	code, err := hexutil.Decode("0x" + b.String())
	if err != nil {
		return nil, semerr.Wrap(semerr.InvalidSource, -1, "invalid bytecode", err)
	}
	return code, nil
}

func isHexRune(r rune) bool {
	return ('0' <= r && r <= '9') || ('a' <= r && r <= 'f') || ('A' <= r && r <= 'F')
}
