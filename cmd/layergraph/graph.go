package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/layergraph/internal/presentation/graph"
	"github.com/aretw0/layergraph/pkg/store"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph FILE",
	Short: "Export the layer graph visualization",
	Long:  `Outputs a Mermaid diagram (graph TD) of the layer hierarchy and the port connections.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		doc, err := openDocument(cmd, args[0])
		if err != nil {
			fmt.Printf("Error loading document: %v\n", err)
			os.Exit(1)
		}

		collapsed := doc.Store.CollapsedGroups()
		var output string
		doc.Store.Read(func(v store.ReadView) {
			output = graph.GenerateMermaid(v.Tree, &graph.GraphOverlay{
				Selected:  v.Selection,
				Collapsed: collapsed,
			})
		})
		fmt.Print(output)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
