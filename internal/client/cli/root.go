// Package cli implements the transcribed command-line client on cobra.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand returns the client command tree.
func NewRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "transcribed",
		Short:         "Client for the transcribed speech-to-text service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.ensure()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&ctx.serverFlag, "server", "", "Server base URL")
	rootCmd.PersistentFlags().StringVarP(&ctx.configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&ctx.tokenFileFlag, "token-file", "", "Where the access token is cached")

	for _, cmd := range newAccountCommands(ctx) {
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range newTranscriptCommands(ctx) {
		rootCmd.AddCommand(cmd)
	}

	return rootCmd
}
