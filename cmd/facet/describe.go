package main

import (
	"os"

	"github.com/aretw0/facet/internal/cli"
	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe [class...]",
	Short: "Describe classes and their properties",
	Long: `Describes the built-in classes and those of the loaded manifests.
Without --classes, a classes.yaml (or .yml/.json/.toml) in the working directory is loaded.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.DescribeOptions{Names: args}
		opts.Classes, _ = cmd.Flags().GetStringSlice("classes")
		opts.LogLevel, _ = cmd.Flags().GetString("log-level")
		opts.Plain, _ = cmd.Flags().GetBool("plain")
		opts.Mermaid, _ = cmd.Flags().GetBool("mermaid")

		return cli.Describe(opts, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)

	describeCmd.Flags().Bool("plain", false, "Print raw markdown")
	describeCmd.Flags().Bool("mermaid", false, "Print a Mermaid class diagram")
}
