package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/layergraph/pkg/projection"
)

// InspectionMarkdown lays out an inspection as markdown: a heading, one
// table per section (collapsed sections keep only their heading) and the
// outputs table.
func InspectionMarkdown(insp *projection.Inspection) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", escape(insp.Header))
	if insp.Multiselect {
		fmt.Fprintf(&sb, "_%d shared inputs_\n\n", len(insp.Inputs))
	} else {
		fmt.Fprintf(&sb, "_%s · %s_\n\n", insp.Node.LayerType(), escape(insp.Node.ID()))
	}

	for _, sec := range insp.Sections {
		name := sec.Name
		if name == "" {
			name = "Other"
		}
		if sec.Collapsed {
			fmt.Fprintf(&sb, "## ▸ %s\n\n", escape(name))
			continue
		}
		fmt.Fprintf(&sb, "## %s\n\n", escape(name))
		sb.WriteString("| Port | Value |\n|---|---|\n")
		for _, in := range sec.Inputs {
			fmt.Fprintf(&sb, "| %s | %s |\n", escape(string(in.Key())), cell(in))
		}
		sb.WriteString("\n")
	}

	if len(insp.Outputs) > 0 {
		sb.WriteString("## Outputs\n\n| Port | Value |\n|---|---|\n")
		for _, out := range insp.Outputs {
			fmt.Fprintf(&sb, "| %s | %s |\n", escape(string(out.Key())), cell(out))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// markdown is the set of characters glamour would otherwise read as
// emphasis, links, html or table syntax inside user text.
var markdown = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`, "[", `\[`, "]", `\]`,
	"<", `\<`, ">", `\>`, "#", `\#`, "|", `\|`, "~", `\~`,
)

func escape(s string) string { return markdown.Replace(s) }

// Blocked inputs stay listed with a marker, even when every selected node
// blocks them.
func cell(in projection.InputObserver) string {
	var text string
	if m, ok := in.(*projection.MergedObserver); ok && m.Mixed() {
		text = "_mixed_"
	} else {
		text = escape(in.Value().String())
	}
	if in.Blocked() {
		text += " (blocked)"
	}
	return text
}
