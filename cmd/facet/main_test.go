package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "facet version ")
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["run"])
	assert.True(t, names["describe"])
	assert.True(t, names["version"])
	assert.True(t, names["repl"])

	assert.NotNil(t, runCmd.Flags().Lookup("metrics"))
	assert.NotNil(t, runCmd.Flags().ShorthandLookup("w"))
	assert.NotNil(t, describeCmd.Flags().Lookup("mermaid"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("classes"))
}
