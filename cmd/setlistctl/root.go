package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "setlistctl",
		Short:         "Tools for setlist share links and tokens",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newDecodeCommand())
	rootCmd.AddCommand(newExportCommand())
	rootCmd.AddCommand(newQRCommand())
	rootCmd.AddCommand(newTokenCommand())

	return rootCmd
}
