// Package sidebar renders the flattened layer list as terminal text.
package sidebar

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/muesli/termenv"

	"github.com/aretw0/layergraph/pkg/graph"
	"github.com/aretw0/layergraph/pkg/projection"
)

// Renderer writes sidebar rows to a terminal.
type Renderer struct {
	out *termenv.Output
}

// NewRenderer creates a renderer for w. Without color every row is plain text.
func NewRenderer(w io.Writer, color bool) *Renderer {
	profile := termenv.Ascii
	if color {
		profile = termenv.ANSI256
	}
	return &Renderer{out: termenv.NewOutput(w, termenv.WithProfile(profile))}
}

// State is the editor state shown next to the rows.
type State struct {
	Selection []string
	Collapsed map[string]bool
}

// Render writes one line per item:
//
//	▾ Card  group
//	  • Title  text
//	▸ Footer  group (+2)
//
// Collapsed nodes show how many descendants they hide.
func (r *Renderer) Render(tree *graph.Tree, items []projection.FlattenedListItem, state State) error {
	for _, item := range items {
		n, ok := tree.Node(item.NodeID)
		if !ok {
			continue
		}

		marker := "•"
		suffix := ""
		if len(n.Children()) > 0 {
			marker = "▾"
			if state.Collapsed[n.ID()] {
				marker = "▸"
				suffix = fmt.Sprintf(" (+%d)", projection.HiddenCount(tree, state.Collapsed, n.ID()))
			}
		}

		title := r.out.String(n.Title())
		if slices.Contains(state.Selection, n.ID()) {
			title = title.Bold().Foreground(r.out.Color("#fbc02d"))
		}
		kind := r.out.String(string(n.LayerType())).Faint()

		line := fmt.Sprintf("%s%s %s  %s%s\n", strings.Repeat("  ", item.Depth), marker, title, kind, suffix)
		if _, err := io.WriteString(r.out, line); err != nil {
			return err
		}
	}
	return nil
}
