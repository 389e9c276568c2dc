package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/aretw0/layergraph/internal/presentation/sidebar"
	"github.com/aretw0/layergraph/pkg/store"
)

var flattenCmd = &cobra.Command{
	Use:   "flatten FILE",
	Short: "Print the sidebar layer list",
	Long:  `Flattens the layer tree in render order. Collapsed groups hide their descendants.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runFlatten(cmd, args[0]); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(flattenCmd)
	flattenCmd.Flags().StringSlice("collapse", nil, "Group ids to collapse")
}

func runFlatten(cmd *cobra.Command, arg string) error {
	doc, err := openDocument(cmd, arg)
	if err != nil {
		return err
	}

	collapse, _ := cmd.Flags().GetStringSlice("collapse")
	for _, id := range collapse {
		if slices.Contains(doc.Store.CollapsedGroups(), id) {
			continue
		}
		if _, err := doc.Store.ToggleGroupCollapsed(id); err != nil {
			return err
		}
	}

	r := sidebar.NewRenderer(os.Stdout, isTerminal())
	var renderErr error
	doc.Store.Read(func(v store.ReadView) {
		renderErr = r.Render(v.Tree, v.Flatten(), sidebar.State{
			Selection: v.Selection,
			Collapsed: v.CollapsedGroups,
		})
	})
	return renderErr
}
