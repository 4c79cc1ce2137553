package codec

import (
	"encoding/hex"
	"errors"
	"math/big"
	"strings"

	"github.com/clydemeng/semtest/internal/lexer"
	"github.com/clydemeng/semtest/semerr"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// ErrExpectedSeparator is the cause of a MalformedLiteral error raised when
// two literals are not separated by a comma.
var ErrExpectedSeparator = errors.New("literals must be comma separated")

var (
	errInvalidNumber  = errors.New("not a decimal or 0x-prefixed hex number")
	errNumberOverflow = errors.New("number exceeds 256 bits")
)

const (
	keccakPrefix   = "keccak256("
	hexPrefix      = `hex"`
	unpaddedPrefix = "unpadded("
)

// Encode converts a comma separated literal list into word aligned ABI
// bytes and records the format of every literal.
func Encode(list string) ([]byte, FormatList, error) {
	var formats FormatList
	out, err := encodeList(list, 0, true, &formats)
	if err != nil {
		return nil, nil, err
	}
	return out, formats, nil
}

// EncodePacked is Encode without padding, as if the whole list was wrapped
// in unpadded(...).
func EncodePacked(list string) ([]byte, FormatList, error) {
	var formats FormatList
	out, err := encodeList(list, 0, false, &formats)
	if err != nil {
		return nil, nil, err
	}
	return out, formats, nil
}

// encodeList encodes src, reporting errors at base+offset. formats may be
// nil when the caller does not need them.
func encodeList(src string, base int, padded bool, formats *FormatList) ([]byte, error) {
	var (
		out []byte
		c   = lexer.New(src)
	)
	record := func(f ByteRangeFormat) {
		if formats != nil {
			*formats = append(*formats, f)
		}
	}
	c.SkipWhitespace()
	for !c.EOF() {
		start := c.Pos()
		switch {
		case lexer.IsDigit(c.Peek()) || (c.Peek() == '-' && lexer.IsDigit(c.PeekAt(1))):
			for !c.EOF() && !lexer.IsSpace(c.Peek()) && c.Peek() != ',' {
				c.Advance(1)
			}
			text := c.Slice(start)
			value, typ, err := parseNumber(text)
			if err != nil {
				return nil, semerr.Wrap(semerr.MalformedLiteral, base+start, "bad number "+text, err)
			}
			enc := encodeNumber(value, padded)
			out = append(out, enc...)
			record(ByteRangeFormat{Length: len(enc), Type: typ, Padded: padded})

		case c.Peek() == '"':
			c.Advance(1)
			from := c.Pos()
			c.SkipUntil('"')
			text := c.Slice(from)
			if !c.Expect('"') {
				return nil, semerr.New(semerr.MalformedLiteral, base+c.Pos(), `expected '"'`)
			}
			out = append(out, text...)
			if padded {
				out = append(out, make([]byte, paddedLength(len(text))-len(text))...)
			}
			record(ByteRangeFormat{Length: len(text), Type: String, Padded: padded})

		case c.HasPrefix(keccakPrefix):
			c.Advance(len(keccakPrefix))
			inner, err := nestedList(c, base)
			if err != nil {
				return nil, err
			}
			data, err := encodeList(inner, base+start+len(keccakPrefix), false, nil)
			if err != nil {
				return nil, err
			}
			out = append(out, crypto.Keccak256(data)...)
			record(ByteRangeFormat{Length: WordSize, Type: Hash, Padded: padded})

		case c.HasPrefix(hexPrefix):
			c.Advance(len(hexPrefix))
			from := c.Pos()
			c.SkipUntil('"')
			digits := c.Slice(from)
			if !c.Expect('"') {
				return nil, semerr.New(semerr.MalformedLiteral, base+c.Pos(), `expected '"'`)
			}
			data, err := decodeHex(digits)
			if err != nil {
				return nil, semerr.Wrap(semerr.MalformedLiteral, base+from, "invalid hex string", err)
			}
			out = append(out, data...)
			if padded {
				out = append(out, make([]byte, paddedLength(len(data))-len(data))...)
			}
			record(ByteRangeFormat{Length: len(data), Type: HexString, Padded: padded})

		case c.HasPrefix(unpaddedPrefix):
			c.Advance(len(unpaddedPrefix))
			inner, err := nestedList(c, base)
			if err != nil {
				return nil, err
			}
			data, err := encodeList(inner, base+start+len(unpaddedPrefix), false, formats)
			if err != nil {
				return nil, err
			}
			out = append(out, data...)

		case c.ExpectString("true"):
			out = append(out, encodeBool(true, padded)...)
			record(ByteRangeFormat{Length: 1, Type: Bool, Padded: padded})

		case c.ExpectString("false"):
			out = append(out, encodeBool(false, padded)...)
			record(ByteRangeFormat{Length: 1, Type: Bool, Padded: padded})

		default:
			return nil, semerr.New(semerr.MalformedLiteral, base+start, "invalid literal")
		}

		c.SkipWhitespace()
		if !c.EOF() && !c.Expect(',') {
			return nil, semerr.Wrap(semerr.MalformedLiteral, base+c.Pos(), "expected ','", ErrExpectedSeparator)
		}
		c.SkipWhitespace()
	}
	return out, nil
}

// nestedList consumes a parenthesised list whose opening parenthesis was
// already read and returns its contents. Parentheses inside quotes do not
// count.
func nestedList(c *lexer.Cursor, base int) (string, error) {
	from := c.Pos()
	depth := 1
	quoted := false
	for ; !c.EOF(); c.Advance(1) {
		switch ch := c.Peek(); {
		case ch == '"':
			quoted = !quoted
		case quoted:
		case ch == '(':
			depth++
		case ch == ')':
			depth--
		}
		if depth == 0 {
			break
		}
	}
	inner := c.Slice(from)
	if !c.Expect(')') {
		return "", semerr.New(semerr.MalformedLiteral, base+c.Pos(), "expected ')'")
	}
	return inner, nil
}

// parseNumber parses a decimal or 0x prefixed literal with an optional
// minus sign. Negative values wrap to their 256 bit two's complement.
// Negative hex literals are typed SignedDec and re-render in decimal.
func parseNumber(text string) (*uint256.Int, Type, error) {
	negative := strings.HasPrefix(text, "-")
	value, err := ParseUnsigned(strings.TrimPrefix(text, "-"))
	if err != nil {
		return nil, 0, err
	}
	switch {
	case negative:
		return value.Neg(value), SignedDec, nil
	case strings.HasPrefix(text, "0x"):
		return value, Hex, nil
	}
	return value, Dec, nil
}

// ParseUnsigned parses a decimal or 0x prefixed hexadecimal number of at
// most 256 bits.
func ParseUnsigned(text string) (*uint256.Int, error) {
	if digits, ok := strings.CutPrefix(text, "0x"); ok {
		if digits == "" || !isHexDigits(digits) {
			return nil, errInvalidNumber
		}
		b, _ := new(big.Int).SetString(digits, 16)
		v, overflow := uint256.FromBig(b)
		if overflow {
			return nil, errNumberOverflow
		}
		return v, nil
	}
	if text == "" || strings.TrimLeft(text, "0123456789") != "" {
		return nil, errInvalidNumber
	}
	v, err := uint256.FromDecimal(text)
	if err != nil {
		return nil, errNumberOverflow
	}
	return v, nil
}

func encodeNumber(v *uint256.Int, padded bool) []byte {
	if padded {
		word := v.Bytes32()
		return word[:]
	}
	if v.IsZero() {
		return []byte{0}
	}
	return v.Bytes()
}

func encodeBool(v bool, padded bool) []byte {
	var b byte
	if v {
		b = 1
	}
	if padded {
		word := make([]byte, WordSize)
		word[WordSize-1] = b
		return word
	}
	return []byte{b}
}

// decodeHex accepts an odd number of digits by assuming a leading zero.
func decodeHex(digits string) ([]byte, error) {
	if len(digits)%2 == 1 {
		digits = "0" + digits
	}
	return hex.DecodeString(digits)
}

func isHexDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !lexer.IsDigit(c) && (c < 'a' || c > 'f') && (c < 'A' || c > 'F') {
			return false
		}
	}
	return true
}
