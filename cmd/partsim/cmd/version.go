package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X ...cmd.version=v1.0.0".
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of partsim.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "partsim %s (%s)\n",
			version, runtime.Version())
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
