package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version はビルド時に -ldflags で上書きされます。
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "バージョンを表示します",
	Args:  cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ggsnap %s\n", version)
	},
}
