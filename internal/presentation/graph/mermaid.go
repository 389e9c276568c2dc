package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/layergraph/pkg/graph"
	"github.com/aretw0/layergraph/pkg/layers"
)

// GraphOverlay contains editor state to visualize on the graph.
type GraphOverlay struct {
	Selected  []string
	Collapsed []string
}

// GenerateMermaid produces a Mermaid flowchart of a layer tree.
// Hierarchy edges are solid lines, port connections are dotted arrows
// labelled "output → input". Shapes follow the layer type:
// - Group: [[Subroutine]]
// - Text, TextField: [/Parallelogram/]
// - Toggle: ((Circle))
// - Default: [Rectangle]
func GenerateMermaid(tree *graph.Tree, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	var edges []string
	tree.Walk(func(n *graph.Node, _ int) bool {
		safeID := sanitizeMermaidID(n.ID())

		opener, closer := "[", "]"
		switch n.LayerType() {
		case layers.Group:
			opener, closer = "[[", "]]"
		case layers.Text, layers.TextField:
			opener, closer = "[/", "/]"
		case layers.Toggle:
			opener, closer = "((", "))"
		}
		label := strings.ReplaceAll(n.Title(), "\"", "'")
		fmt.Fprintf(&sb, "    %s%s\"%s <br/> <small>%s</small>\"%s\n", safeID, opener, label, n.LayerType(), closer)

		if parent, ok := n.Parent(); ok {
			edges = append(edges, fmt.Sprintf("    %s --- %s\n", sanitizeMermaidID(parent), safeID))
		}
		for _, out := range n.Outputs() {
			for _, in := range out.Downstream() {
				edges = append(edges, fmt.Sprintf("    %s -. \"%s → %s\" .-> %s\n",
					safeID, out.Key(), in.Key(), sanitizeMermaidID(in.Node().ID())))
			}
		}
		return true
	})
	for _, e := range edges {
		sb.WriteString(e)
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef collapsed fill:#eceff1,stroke:#607d8b,stroke-dasharray:4 2,color:#000;\n")
		sb.WriteString("    classDef selected fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.Collapsed {
			if _, ok := tree.Node(id); ok {
				fmt.Fprintf(&sb, "    class %s collapsed;\n", sanitizeMermaidID(id))
			}
		}
		for _, id := range overlay.Selected {
			safeID := sanitizeMermaidID(id)
			if _, ok := tree.Node(id); ok && !seen[safeID] {
				seen[safeID] = true
				fmt.Fprintf(&sb, "    class %s selected;\n", safeID)
			}
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
