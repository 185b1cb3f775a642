package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "facet",
	Short: "facet runs Lua scripts against an extensible object model",
	Long: `facet exposes classes with typed properties and signals to Lua scripts.
Classes come from the built-in set and from YAML, JSON or TOML manifests.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringSlice("classes", nil, "Class manifest files (YAML, JSON or TOML)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error); logging is off when empty")
}
