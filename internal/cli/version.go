package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version information (set at build time)
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		if jsonOutput {
			fmt.Printf(`{"version":"%s","commit":"%s"}`+"\n", Version, GitCommit)
		} else {
			fmt.Printf("crmcore version %s\n", Version)
			if verbose {
				fmt.Printf("  commit: %s\n", GitCommit)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
