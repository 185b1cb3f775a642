package main

import (
	"os"

	"github.com/aretw0/facet/internal/cli"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [script.lua]",
	Short: "Run a Lua script",
	Long: `Runs a Lua script with every known class exposed as a global.
Without --classes, a classes.yaml (or .yml/.json/.toml) next to the script,
or in the working directory when there is no script, is loaded.
With --watch, the script reruns in a fresh runtime whenever it or a manifest changes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.RunOptions{}
		if len(args) > 0 {
			opts.Script = args[0]
		}
		opts.Classes, _ = cmd.Flags().GetStringSlice("classes")
		opts.LogLevel, _ = cmd.Flags().GetString("log-level")
		opts.Eval, _ = cmd.Flags().GetString("eval")
		opts.Context, _ = cmd.Flags().GetString("context")
		opts.Debug, _ = cmd.Flags().GetBool("debug")
		opts.Metrics, _ = cmd.Flags().GetBool("metrics")
		opts.Quiet, _ = cmd.Flags().GetBool("quiet")
		opts.Watch, _ = cmd.Flags().GetBool("watch")

		return cli.Execute(opts, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("eval", "e", "", "Lua source to run (after the script, if any)")
	runCmd.Flags().String("context", "", "JSON object whose keys become globals")
	runCmd.Flags().Bool("debug", false, "Log every lifecycle event to stderr")
	runCmd.Flags().Bool("metrics", false, "Print metrics in Prometheus text format when done")
	runCmd.Flags().BoolP("quiet", "q", false, "Suppress status lines")
	runCmd.Flags().BoolP("watch", "w", false, "Rerun when the script or a manifest changes")
}
