package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"scenenode-go/color"
	"scenenode-go/errcode"
)

func TestDump(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, dump(&buf, color.HSV{H: 0, S: 100, V: 20}, 80_000_000))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2+color.FrameLen)
	require.Contains(t, lines[0], "word=0x330000")

	// 0x33 = 0b00110011: slots 2 and 3 are the first ones.
	require.Regexp(t, `^0\s+0\s+350ns\s+800ns\s+28\s+64$`, strings.TrimSpace(lines[2]))
	require.Regexp(t, `^2\s+1\s+700ns\s+600ns\s+56\s+48$`, strings.TrimSpace(lines[4]))
}

func TestDump_Errors(t *testing.T) {
	var buf bytes.Buffer
	err := dump(&buf, color.HSV{H: 361}, 80_000_000)
	require.True(t, errcode.Is(err, errcode.InvalidColorInput), "got %v", err)

	err = dump(&buf, color.HSV{}, 1)
	require.True(t, errcode.Is(err, errcode.PeripheralError), "got %v", err)
	require.Empty(t, buf.String())
}
