package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "listserver",
	Short: "Drawpile session listing server",
	Long:  `Public session announcement directory for Drawpile. Commands: api, command, seed.`,
	RunE:  runAPI, // default: run API (same as "listserver api")
}

func init() {
	rootCmd.AddCommand(apiCmd)
	rootCmd.AddCommand(commandCmd)
	rootCmd.AddCommand(seedCmd)
}

// Execute runs the root command and returns the error (for main to log.Fatal).
func Execute() error {
	return rootCmd.Execute()
}
