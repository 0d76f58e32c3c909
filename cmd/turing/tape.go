package main

import (
	"github.com/aretw0/turing/internal/cli"
	"github.com/spf13/cobra"
)

var tapeCmd = &cobra.Command{
	Use:   "tape",
	Short: "Work with tape files",
}

var tapeCheckCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Validate a tape file and print it in canonical form",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.CheckTape(args[0], cfg.DefaultSymbol, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(tapeCmd)
	tapeCmd.AddCommand(tapeCheckCmd)
}
