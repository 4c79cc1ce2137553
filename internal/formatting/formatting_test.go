package formatting

import (
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	require.Equal(t, "Expected result:", Header.Wrap(false, "Expected result:"))

	header := color.New(color.Bold, color.FgCyan)
	header.EnableColor()
	require.Equal(t, header.Sprint("Expected result:"), Header.Wrap(true, "Expected result:"))
	require.Contains(t, Header.Wrap(true, "Expected result:"), "\x1b[1;36mExpected result:")

	mismatch := color.New(color.BgRed)
	mismatch.EnableColor()
	require.Equal(t, mismatch.Sprint("-> 1"), Mismatch.Wrap(true, "-> 1"))
	require.Contains(t, Mismatch.Wrap(true, "-> 1"), "\x1b[41m-> 1")
}
