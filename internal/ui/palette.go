package ui

import (
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ColorMode selects when console output is colourised.
type ColorMode string

// Supported colour modes.
const (
	ColorModeAuto   ColorMode = ColorMode("auto")
	ColorModeAlways ColorMode = ColorMode("always")
	ColorModeNever  ColorMode = ColorMode("never")
)

// Palette holds the colour styles used by human-readable reports.
type Palette struct {
	heading *color.Color
	success *color.Color
	notice  *color.Color
	failure *color.Color
}

// NewPalette builds a palette for the writer; auto mode enables colour only for terminals.
func NewPalette(writer io.Writer, mode ColorMode) Palette {
	palette := Palette{
		heading: color.New(color.Bold, color.FgCyan),
		success: color.New(color.FgGreen),
		notice:  color.New(color.FgYellow),
		failure: color.New(color.FgRed),
	}

	enabled := colorEnabled(writer, mode)
	for _, style := range []*color.Color{palette.heading, palette.success, palette.notice, palette.failure} {
		if enabled {
			style.EnableColor()
		} else {
			style.DisableColor()
		}
	}
	return palette
}

// Heading styles section titles.
func (palette Palette) Heading(text string) string {
	return palette.render(palette.heading, text)
}

// Success styles positive outcomes.
func (palette Palette) Success(text string) string {
	return palette.render(palette.success, text)
}

// Notice styles informational outcomes that require no action.
func (palette Palette) Notice(text string) string {
	return palette.render(palette.notice, text)
}

// Failure styles skipped or failed units.
func (palette Palette) Failure(text string) string {
	return palette.render(palette.failure, text)
}

func (palette Palette) render(style *color.Color, text string) string {
	if style == nil {
		return text
	}
	return style.Sprint(text)
}

func colorEnabled(writer io.Writer, mode ColorMode) bool {
	switch ColorMode(strings.ToLower(strings.TrimSpace(string(mode)))) {
	case ColorModeAlways:
		return true
	case ColorModeNever:
		return false
	}

	for {
		wrapper, isWrapper := writer.(interface{ Unwrap() io.Writer })
		if !isWrapper {
			break
		}
		writer = wrapper.Unwrap()
	}

	file, isFile := writer.(*os.File)
	if !isFile {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}
