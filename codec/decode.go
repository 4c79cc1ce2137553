package codec

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/clydemeng/semtest/semerr"
)

// InferFormat guesses a format for bytes whose origin is unknown: a padded
// hex word while at least one word remains, otherwise an unpadded hex
// string covering the rest.
func InferFormat(rest []byte) ByteRangeFormat {
	if len(rest) >= WordSize {
		return ByteRangeFormat{Length: WordSize, Type: Hex, Padded: true}
	}
	return ByteRangeFormat{Length: len(rest), Type: HexString, Padded: false}
}

type decodeState int

const (
	// listDirected consumes the recorded formats in order.
	listDirected decodeState = iota
	// inferred renders everything that is left with InferFormat. There is
	// no way back to listDirected within one pass.
	inferred
)

type decoder struct {
	formats FormatList
	next    int
	state   decodeState

	out      strings.Builder
	rendered bool
	unpadded bool
}

// Decode renders data in literal notation, guided by formats. Once a
// recorded format does not match the bytes at the current offset, or the
// list runs out, the remaining bytes are rendered with InferFormat.
//
// The result re-encodes to exactly data. A violation of that property is a
// defect in the codec and is reported as a semerr.RoundTrip error.
func Decode(data []byte, formats FormatList) (string, error) {
	d := &decoder{formats: formats}
	text, err := d.decode(data)
	if err != nil {
		return "", err
	}
	reencoded, _, err := Encode(text)
	if err != nil {
		return "", semerr.Wrap(semerr.RoundTrip, -1, fmt.Sprintf("rendered text %q does not parse", text), err)
	}
	if !bytes.Equal(reencoded, data) {
		return "", semerr.Newf(semerr.RoundTrip, -1, "rendered text %q re-encodes to %x, want %x", text, reencoded, data)
	}
	return text, nil
}

func (d *decoder) nextFormat(rest []byte) ByteRangeFormat {
	if d.state == listDirected && d.next < len(d.formats) {
		return d.formats[d.next]
	}
	d.state = inferred
	return InferFormat(rest)
}

func (d *decoder) decode(data []byte) (string, error) {
	for pos := 0; pos < len(data); {
		f := d.nextFormat(data[pos:])
		text, ok := f.TryFormat(data[pos:])
		if !ok {
			if d.state == inferred {
				return "", semerr.Newf(semerr.RoundTrip, pos, "inferred format %s does not apply", f)
			}
			d.state = inferred
			continue
		}
		if d.state == listDirected {
			d.next++
		}
		d.emit(f, text)
		pos += f.Width()
	}
	if d.unpadded {
		d.out.WriteString(")")
	}
	return d.out.String(), nil
}

// emit appends one rendered range, opening or closing unpadded(...) when the
// padding mode changes.
func (d *decoder) emit(f ByteRangeFormat, text string) {
	if d.unpadded && f.Padded {
		d.out.WriteString(")")
		d.unpadded = false
	}
	if d.rendered {
		d.out.WriteString(", ")
	}
	if !d.unpadded && !f.Padded {
		d.out.WriteString("unpadded(")
		d.unpadded = true
	}
	d.out.WriteString(text)
	d.rendered = true
}
