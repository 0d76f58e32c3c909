package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the Turing ASCII art banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"  _____           _", "#818cf8"},
		{" |_   _|   _ _ __(_)_ __   __ _", "#a78bfa"},
		{"   | || | | | '__| | '_ \\ / _` |", "#c084fc"},
		{"   | || |_| | |  | | | | | (_| |", "#e879f9"},
		{"   |_| \\__,_|_|  |_|_| |_|\\__, |", "#f472b6"},
		{"                          |___/", "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
