package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the callagent banner and version to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{"            _ _                        _   ", "#818cf8"},
		{"   ___ __ _| | | __ _  __ _  ___ _ __ | |_ ", "#a78bfa"},
		{"  / __/ _` | | |/ _` |/ _` |/ _ \\ '_ \\| __|", "#c084fc"},
		{" | (_| (_| | | | (_| | (_| |  __/ | | | |_ ", "#e879f9"},
		{"  \\___\\__,_|_|_|\\__,_|\\__, |\\___|_| |_|\\__|", "#f472b6"},
		{"                      |___/   " + version, "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w)
}

// Palette colors the simulator transcript.
type Palette struct {
	out *termenv.Output
}

// NewPalette detects the color profile of w.
func NewPalette(w io.Writer) Palette {
	return Palette{out: termenv.NewOutput(w)}
}

// Agent styles a line spoken by the agent.
func (p Palette) Agent(s string) string {
	return p.out.String(s).Foreground(p.out.Color("#a78bfa")).String()
}

// Caller styles the caller prompt marker.
func (p Palette) Caller(s string) string {
	return p.out.String(s).Bold().String()
}

// System styles status lines.
func (p Palette) System(s string) string {
	return p.out.String(s).Faint().String()
}
