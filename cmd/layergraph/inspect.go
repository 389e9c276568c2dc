package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/layergraph/internal/presentation/tui"
	"github.com/aretw0/layergraph/pkg/store"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect FILE",
	Short: "Print the inspector panel for a selection",
	Long: `Selects the given layers and renders the inspector: one layer shows its
inputs by section and its outputs, several layers show the inputs they share.
Without --select the document's saved selection is used.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runInspect(cmd, args[0]); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringSlice("select", nil, "Layer ids to inspect")
	inspectCmd.Flags().StringSlice("collapse-section", nil, "Inspector sections to collapse")
	inspectCmd.Flags().Bool("raw", false, "Print markdown without terminal styling")
}

func runInspect(cmd *cobra.Command, arg string) error {
	doc, err := openDocument(cmd, arg)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("select") {
		ids, _ := cmd.Flags().GetStringSlice("select")
		if err := doc.Store.SetSelection(ids...); err != nil {
			return err
		}
	}
	sections, _ := cmd.Flags().GetStringSlice("collapse-section")
	for _, name := range sections {
		doc.Store.ToggleSectionCollapsed(name)
	}

	md := ""
	doc.Store.Read(func(v store.ReadView) {
		if insp, ok := v.Inspect(); ok {
			md = tui.InspectionMarkdown(insp)
		}
	})
	if md == "" {
		fmt.Println("Nothing to inspect.")
		return nil
	}

	raw, _ := cmd.Flags().GetBool("raw")
	if raw || !isTerminal() {
		fmt.Print(md)
		return nil
	}
	render, err := tui.NewRenderer(0)
	if err != nil {
		return err
	}
	out, err := render(md)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}
