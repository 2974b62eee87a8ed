package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quelllabs/quell"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of quell",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("quell version %s\n", strings.TrimSpace(quell.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
