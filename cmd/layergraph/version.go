package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/layergraph"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of layergraph",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("layergraph version %s\n", strings.TrimSpace(layergraph.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
