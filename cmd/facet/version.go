package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/facet"
	"github.com/aretw0/facet/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of facet",
	Run: func(cmd *cobra.Command, args []string) {
		if tui.IsTerminal(os.Stdout) {
			tui.PrintBanner(os.Stdout, facet.Version)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "facet version %s\n", strings.TrimSpace(facet.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
