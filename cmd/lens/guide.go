package main

import (
	"github.com/Veraticus/corrosion-lens/internal/cli"
	"github.com/Veraticus/corrosion-lens/internal/model"
	"github.com/spf13/cobra"
)

func guideCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "guide",
		Short: "Show the corrosion rating guide",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reporter := cli.NewReporter(cmd.OutOrStdout(), cmd.ErrOrStderr(), jsonOutput)
			return reporter.PrintGuide(model.CorrosionGuide())
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print the guide as JSON")

	return cmd
}
