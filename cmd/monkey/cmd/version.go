package cmd

import (
	"github.com/spf13/cobra"

	"github.com/monkeylang/monkey/internal/cli"
)

var versionJSON bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.PrintVersion(cmd.OutOrStdout(), "monkey", versionJSON)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "output in JSON format")
}
