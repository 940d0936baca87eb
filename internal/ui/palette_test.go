package ui_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/ignoreprune/internal/ui"
	"github.com/temirov/ignoreprune/internal/utils"
)

func TestPaletteColorModes(testInstance *testing.T) {
	testCases := []struct {
		name          string
		mode          ui.ColorMode
		expectEscapes bool
	}{
		{name: "always_colours_buffers", mode: ui.ColorModeAlways, expectEscapes: true},
		{name: "mode_is_case_insensitive", mode: ui.ColorMode(" ALWAYS "), expectEscapes: true},
		{name: "never_is_plain", mode: ui.ColorModeNever, expectEscapes: false},
		{name: "auto_is_plain_for_buffers", mode: ui.ColorModeAuto, expectEscapes: false},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			writer := utils.NewFlushingWriter(&bytes.Buffer{})
			palette := ui.NewPalette(writer, testCase.mode)

			rendered := []string{palette.Heading("heading"), palette.Success("ok"), palette.Notice("note"), palette.Failure("skipped")}
			plain := []string{"heading", "ok", "note", "skipped"}
			for index := range rendered {
				if testCase.expectEscapes {
					require.Contains(subtest, rendered[index], "\x1b[")
					require.Contains(subtest, rendered[index], plain[index])
				} else {
					require.Equal(subtest, plain[index], rendered[index])
				}
			}
		})
	}
}
