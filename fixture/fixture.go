// Package fixture parses semantic test fixtures.
//
// A fixture starts with the contract source, followed by a separator line
// and the list of calls with their expected results:
//
//	<source>
//	// ----
//	// f(uint256): 3
//	// -> 9
//	// g()[100]:
//	// REVERT
package fixture

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/clydemeng/semtest/semerr"
)

// Separator divides the source from the calls.
const Separator = "// ----"

// Fixture is a parsed fixture file.
type Fixture struct {
	Path   string
	Source string
	Calls  []Call
}

// Load reads and parses the fixture at path.
func Load(path string) (*Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, semerr.Wrap(semerr.FixtureUnreadable, -1, "cannot open "+path, err)
	}
	defer f.Close()
	return Parse(f, path)
}

// Parse reads a fixture from r. path is only used for reporting.
func Parse(r io.Reader, path string) (*Fixture, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	source, sourceLines, found := ParseSource(sc)
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, semerr.Wrap(semerr.FixtureUnreadable, -1, "cannot read "+path, err)
	}
	if !found && strings.TrimFunc(source, isSpace) != "" {
		return nil, fmt.Errorf("%s: %w", path, &semerr.Error{
			Class:   semerr.MalformedFixture,
			Line:    sourceLines,
			Offset:  -1,
			Message: "missing " + Separator + " separator",
		})
	}
	calls, err := parseCalls(lines, sourceLines)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Fixture{Path: path, Source: source, Calls: calls}, nil
}

// ParseSource consumes lines up to and including the separator and returns
// the source text, the number of lines consumed and whether the separator
// was seen. Without a separator the whole input is source.
func ParseSource(sc *bufio.Scanner) (string, int, bool) {
	var (
		b strings.Builder
		n int
	)
	for sc.Scan() {
		n++
		line := sc.Text()
		if strings.TrimRightFunc(line, isSpace) == Separator {
			return b.String(), n, true
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String(), n, false
}

// WriteUpdated writes the fixture with every expectation replaced by the
// rendering of the corresponding obtained result.
func (f *Fixture) WriteUpdated(w io.Writer, results [][]byte) error {
	if len(results) != len(f.Calls) {
		return fmt.Errorf("have %d results for %d calls", len(results), len(f.Calls))
	}
	bw := bufio.NewWriter(w)
	bw.WriteString(f.Source)
	bw.WriteString(Separator + "\n")
	for i := range f.Calls {
		call := &f.Calls[i]
		rendered, err := call.RenderResult(results[i])
		if err != nil {
			return fmt.Errorf("call %d (%s): %w", i, call.Signature, err)
		}
		fmt.Fprintf(bw, "// %s\n// %s\n", call.Header(), ResultLine(rendered))
	}
	return bw.Flush()
}
