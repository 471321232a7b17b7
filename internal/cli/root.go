// Package cli provides the command-line interface for ipvsim.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for ipvsim.
func NewRootCmd(version, commit, buildDate string) *cobra.Command {
	var configFile string
	rootCmd := &cobra.Command{
		Use:   "ipvsim",
		Short: "Simulate IPV cache replacement",
		Long: `Replays synthetic access patterns through a 16-way set-associative cache
using the LRU insertion/promotion vector replacement policy.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (toml, yaml, or json)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ipvsim %s\n", version)
			fmt.Fprintf(out, "commit: %s\n", commit)
			fmt.Fprintf(out, "built: %s\n", buildDate)
		},
	}

	rootCmd.AddCommand(
		newRunCmd(&configFile),
		newVectorCmd(),
		versionCmd,
	)
	return rootCmd
}
