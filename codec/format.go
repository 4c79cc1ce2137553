// Package codec converts between the literal notation of semantic test
// fixtures and ABI encoded bytes.
//
// Encoding records one ByteRangeFormat per literal. Decoding walks raw bytes
// with such a list and renders them back into the notation they were written
// in, so that re-encoding the rendered text yields the same bytes. Ranges
// without a usable format are rendered with InferFormat.
package codec

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

// WordSize is the ABI word width in bytes.
const WordSize = 32

// Type selects how a byte range is rendered.
type Type int

const (
	Bool Type = iota
	Dec
	SignedDec
	Hex
	Hash
	HexString
	String
)

// String returns a human-readable name for the type.
func (t Type) String() string {
	switch t {
	case Bool:
		return "bool"
	case Dec:
		return "dec"
	case SignedDec:
		return "signed-dec"
	case Hex:
		return "hex"
	case Hash:
		return "hash"
	case HexString:
		return "hex-string"
	case String:
		return "string"
	}
	return "unknown"
}

// PadsLeft reports whether padding zeros precede the significant bytes.
func (t Type) PadsLeft() bool {
	switch t {
	case Bool, Dec, SignedDec, Hex:
		return true
	}
	return false
}

// numeric types are rendered as integers and re-encoded via the number rule.
func (t Type) numeric() bool {
	switch t {
	case Bool, Dec, SignedDec, Hex, Hash:
		return true
	}
	return false
}

// ByteRangeFormat describes one contiguous range of encoded bytes: Length
// significant bytes of the given Type, occupying a word aligned slot when
// Padded.
type ByteRangeFormat struct {
	Length int
	Type   Type
	Padded bool
}

// FormatList is the ordered sequence of formats recorded while encoding a
// literal list.
type FormatList []ByteRangeFormat

func (f ByteRangeFormat) String() string {
	pad := "unpadded"
	if f.Padded {
		pad = "padded"
	}
	return fmt.Sprintf("%s[%d,%s]", f.Type, f.Length, pad)
}

// Width returns the number of bytes the range occupies.
func (f ByteRangeFormat) Width() int {
	if f.Padded {
		return paddedLength(f.Length)
	}
	return f.Length
}

func paddedLength(n int) int {
	return (n + WordSize - 1) / WordSize * WordSize
}

// TryFormat renders the leading bytes of data according to f. It returns
// false if the bytes cannot be rendered in a way that re-encodes to exactly
// the bytes of the range.
func (f ByteRangeFormat) TryFormat(data []byte) (string, bool) {
	width := f.Width()
	if f.Length < 0 || len(data) < width {
		return "", false
	}
	rng := data[:width]
	if f.Padded {
		pad := width - f.Length
		if f.Type.PadsLeft() {
			if !allZero(rng[:pad]) {
				return "", false
			}
			rng = rng[pad:]
		} else {
			if !allZero(rng[f.Length:]) {
				return "", false
			}
			rng = rng[:f.Length]
		}
	}
	if f.Type.numeric() {
		// Numbers always re-encode to 32 bytes when padded and to their
		// minimal form when not.
		if f.Length == 0 || f.Length > WordSize {
			return "", false
		}
		if f.Padded && f.Length != WordSize && f.Type != Bool {
			return "", false
		}
		if !f.Padded && len(rng) > 1 && rng[0] == 0 {
			return "", false
		}
	}

	switch f.Type {
	case Dec:
		return new(uint256.Int).SetBytes(rng).Dec(), true
	case SignedDec:
		v := new(uint256.Int).SetBytes(rng)
		if rng[0]&0x80 == 0 {
			return v.Dec(), true
		}
		if len(rng) != WordSize {
			return "", false
		}
		return "-" + v.Neg(v).Dec(), true
	case Hex, Hash:
		return new(uint256.Int).SetBytes(rng).Hex(), true
	case HexString:
		return `hex"` + hex.EncodeToString(rng) + `"`, true
	case Bool:
		v := new(uint256.Int).SetBytes(rng)
		switch {
		case v.IsZero():
			return "false", true
		case v.Eq(uint256.NewInt(1)):
			return "true", true
		}
		return "", false
	case String:
		return formatString(rng, f.Padded)
	}
	return "", false
}

// formatString renders printable bytes followed by an optional run of
// zeros. The rendered text must occupy the same width once re-encoded.
func formatString(rng []byte, padded bool) (string, bool) {
	var b strings.Builder
	b.WriteByte('"')
	zeros := false
	n := 0
	for _, v := range rng {
		if v == 0 {
			zeros = true
			continue
		}
		if zeros || !isPrint(v) || v == '"' {
			return "", false
		}
		b.WriteByte(v)
		n++
	}
	b.WriteByte('"')
	if padded {
		if paddedLength(n) != paddedLength(len(rng)) {
			return "", false
		}
	} else if n != len(rng) {
		return "", false
	}
	return b.String(), true
}

func isPrint(b byte) bool {
	return b >= 0x20 && b < 0x7f
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
