package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "layergraph",
	Short: "layergraph edits hierarchical layer graphs",
	Long: `layergraph loads layer documents (YAML or JSON), projects them into the
sidebar list and the inspector panel, and serves them over HTTP.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".layergraph/documents", "Directory containing saved documents")
	rootCmd.PersistentFlags().Bool("debug", false, "Log store mutations to stderr")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format: text or json")
}
