package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/layergraph/pkg/document"
)

var validateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Check a document for consistency",
	Long: `Builds the document and reports every problem found: unknown layer types,
duplicate ids, bad input values, invalid connections and stale selection.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		doc, err := loadDocument(cmd, args[0])
		if err != nil {
			fmt.Printf("Error loading document: %v\n", err)
			os.Exit(1)
		}
		if err := document.Validate(doc); err != nil {
			fmt.Println("Validation failed:")
			problems := document.ValidationErrors(err)
			if problems == nil {
				problems = []error{err}
			}
			for _, p := range problems {
				fmt.Printf("  - %v\n", p)
			}
			os.Exit(1)
		}
		fmt.Printf("Document is valid! ✅ (%d layers, %d connections)\n", doc.Count(), len(doc.Connections))
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
