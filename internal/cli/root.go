// Package cli defines the cobra command tree of the jarr tool.
package cli

import (
	"github.com/spf13/cobra"
)

var (
	// cfgFile stores the path to the config file (if specified via flag)
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   "jarr",
		Short: "Append entries to a JSON array file in place",
		Long: `jarr patches a file holding a single JSON array by rewriting only its
tail, so appends stay cheap regardless of file size. Use 'append --help'
for entry and formatting options.`,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./jarr.yaml)")
}
