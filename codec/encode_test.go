package codec

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/clydemeng/semtest/semerr"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func word(b ...byte) []byte {
	return common.LeftPadBytes(b, WordSize)
}

func rightWord(b []byte) []byte {
	return common.RightPadBytes(b, paddedLength(len(b)))
}

func TestEncodeScalars(t *testing.T) {
	tests := []struct {
		list    string
		want    []byte
		formats FormatList
	}{
		{"3", word(3), FormatList{{32, Dec, true}}},
		{"0x0a", word(10), FormatList{{32, Hex, true}}},
		{"true, false", append(word(1), word(0)...), FormatList{{1, Bool, true}, {1, Bool, true}}},
		{`"abc"`, rightWord([]byte("abc")), FormatList{{3, String, true}}},
		{`hex"0102"`, rightWord([]byte{1, 2}), FormatList{{2, HexString, true}}},
		{`hex"abc"`, rightWord([]byte{0x0a, 0xbc}), FormatList{{2, HexString, true}}},
		{`""`, nil, FormatList{{0, String, true}}},
		{"  1 ,2", append(word(1), word(2)...), FormatList{{32, Dec, true}, {32, Dec, true}}},
	}
	for _, tt := range tests {
		got, formats, err := Encode(tt.list)
		require.NoError(t, err, tt.list)
		require.True(t, bytes.Equal(tt.want, got), "%s: got %x want %x", tt.list, got, tt.want)
		require.Equal(t, tt.formats, formats, tt.list)
	}
}

func TestEncodeNegative(t *testing.T) {
	got, formats, err := Encode("-5")
	require.NoError(t, err)
	require.Len(t, got, 32)
	require.Equal(t, byte(0xff), got[0])
	require.Equal(t, byte(0xfb), got[31])
	require.Equal(t, FormatList{{32, SignedDec, true}}, formats)

	// Hex magnitudes are accepted but recorded as signed decimals.
	got, formats, err = Encode("-0x10")
	require.NoError(t, err)
	want := new(uint256.Int).Neg(uint256.NewInt(16)).Bytes32()
	require.Equal(t, want[:], got)
	require.Equal(t, SignedDec, formats[0].Type)
}

func TestEncodeUnpadded(t *testing.T) {
	got, formats, err := EncodePacked("0")
	require.NoError(t, err)
	require.Equal(t, []byte{0}, got)
	require.Equal(t, FormatList{{1, Dec, false}}, formats)

	got, formats, err = Encode(`unpadded("ab", 0x0102, true), 5`)
	require.NoError(t, err)
	require.Equal(t, append([]byte{'a', 'b', 1, 2, 1}, word(5)...), got)
	require.Equal(t, FormatList{{2, String, false}, {2, Hex, false}, {1, Bool, false}, {32, Dec, true}}, formats)

	// A negative number has no shorter form than a full word.
	got, _, err = EncodePacked("-1")
	require.NoError(t, err)
	require.Equal(t, bytes.Repeat([]byte{0xff}, 32), got)
}

func TestEncodeKeccak(t *testing.T) {
	empty := crypto.Keccak256(nil)

	got, formats, err := Encode(`keccak256("")`)
	require.NoError(t, err)
	require.Equal(t, empty, got)
	require.Equal(t, FormatList{{32, Hash, true}}, formats)

	got, formats, err = EncodePacked(`keccak256("")`)
	require.NoError(t, err)
	require.Equal(t, empty, got)
	require.Equal(t, FormatList{{32, Hash, false}}, formats)

	// The nested list is hashed without padding.
	got, _, err = Encode(`keccak256(1, "ab")`)
	require.NoError(t, err)
	require.Equal(t, crypto.Keccak256([]byte{1, 'a', 'b'}), got)

	got, _, err = Encode(`keccak256(unpadded(2), keccak256(""))`)
	require.NoError(t, err)
	require.Equal(t, crypto.Keccak256([]byte{2}, empty), got)
}

func TestEncodeQuotedParentheses(t *testing.T) {
	got, _, err := Encode(`unpadded(")(")`)
	require.NoError(t, err)
	require.Equal(t, []byte(")("), got)
}

func TestEncodeMalformed(t *testing.T) {
	tests := []struct {
		list   string
		offset int
	}{
		{"foo", 0},
		{"1 2", 2},
		{`1, "abc`, 7},
		{"unpadded(1", 10},
		{`hex"zz"`, 4},
		{"0x" + strings.Repeat("f", 65), 0},
		{"0x", 0},
		{"12ab", 0},
		{"1, unpadded(2 3)", 14},
	}
	for _, tt := range tests {
		_, _, err := Encode(tt.list)
		require.Error(t, err, tt.list)
		var se *semerr.Error
		require.ErrorAs(t, err, &se, tt.list)
		require.Equal(t, semerr.MalformedLiteral, se.Class, tt.list)
		require.Equal(t, tt.offset, se.Offset, tt.list)
	}
}

func TestParseUnsigned(t *testing.T) {
	v, err := ParseUnsigned("100")
	require.NoError(t, err)
	require.Equal(t, uint64(100), v.Uint64())

	v, err = ParseUnsigned("0xff")
	require.NoError(t, err)
	require.Equal(t, uint64(255), v.Uint64())

	v, err = ParseUnsigned("007")
	require.NoError(t, err)
	require.Equal(t, uint64(7), v.Uint64())

	maxWord := new(uint256.Int).SetAllOne()
	v, err = ParseUnsigned(maxWord.Dec())
	require.NoError(t, err)
	require.Equal(t, maxWord, v)

	// 2^256
	_, err = ParseUnsigned("115792089237316195423570985008687907853269984665640564039457584007913129639936")
	require.ErrorIs(t, err, errNumberOverflow)
	_, err = ParseUnsigned("1" + strings.Repeat("0", 80))
	require.ErrorIs(t, err, errNumberOverflow)

	for _, bad := range []string{"", "-1", "1e3", "0x", "0xg", "+5"} {
		_, err := ParseUnsigned(bad)
		require.ErrorIs(t, err, errInvalidNumber, bad)
	}
}

func TestEncodeMissingSeparator(t *testing.T) {
	for _, list := range []string{"1 2", `"a" "b"`, "true false", "1, unpadded(2 3)"} {
		_, _, err := Encode(list)
		require.ErrorIs(t, err, ErrExpectedSeparator, list)
		require.True(t, semerr.Is(err, semerr.MalformedLiteral), list)
	}
	_, _, err := Encode("12ab")
	require.False(t, errors.Is(err, ErrExpectedSeparator), "a bad number is not a missing separator")
}
