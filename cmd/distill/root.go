package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "distill",
		Short:         "Multi-pass structured extraction from transcripts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "config/config.toml", "path to config file")

	cmd.AddCommand(newExtractCommand(&configPath))

	return cmd
}
