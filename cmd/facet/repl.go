package main

import (
	"github.com/aretw0/facet/internal/cli"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl [script.lua]",
	Short: "Start an interactive Lua prompt",
	Long: `Opens an interactive prompt with every known class exposed as a global.
An optional script runs first, so its globals are available at the prompt.
Without --classes, a classes.yaml (or .yml/.json/.toml) is discovered as for run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.ReplOptions{}
		if len(args) > 0 {
			opts.Script = args[0]
		}
		opts.Classes, _ = cmd.Flags().GetStringSlice("classes")
		opts.LogLevel, _ = cmd.Flags().GetString("log-level")

		return cli.Repl(opts)
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
