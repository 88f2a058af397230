package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var heroesCmd = &cobra.Command{
	Use:   "heroes",
	Short: "選択できるキャラクターを一覧表示します",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, category := range appCatalog.Categories() {
			fmt.Fprintln(out, styleHeader.Render(category))
			for _, ch := range appCatalog.ByCategory(category) {
				fmt.Fprintf(out, "  %-10s %s  %s\n", ch.ID, swatch(ch.Name, ch.Color), styleMuted.Render(ch.Description))
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}
