package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the layergraph ASCII banner to w.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{" _                                               _     ", "#818cf8"},
		{"| | __ _ _   _  ___ _ __ __ _ _ __ __ _ _ __ | |__  ", "#a78bfa"},
		{"| |/ _` | | | |/ _ \\ '__/ _` | '__/ _` | '_ \\| '_ \\ ", "#c084fc"},
		{"| | (_| | |_| |  __/ | | (_| | | | (_| | |_) | | | |", "#e879f9"},
		{"|_|\\__,_|\\__, |\\___|_|  \\__, |_|  \\__,_| .__/|_| |_|", "#f472b6"},
		{"         |___/          |___/          |_|          ", "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w)
}
