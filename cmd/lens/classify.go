package main

import (
	"fmt"

	"github.com/Veraticus/corrosion-lens/internal/classifier"
	"github.com/Veraticus/corrosion-lens/internal/cli"
	"github.com/Veraticus/corrosion-lens/internal/common"
	"github.com/Veraticus/corrosion-lens/internal/config"
	"github.com/Veraticus/corrosion-lens/internal/selection"
	"github.com/Veraticus/corrosion-lens/internal/session"
	"github.com/spf13/cobra"
)

func (a *app) classifyCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "classify <image> [images...]",
		Short: "Classify one image without the interactive UI",
		Long: `Upload an image to the classification service and print the predicted
corrosion level, its guide description and the heatmap URL.

Only the first image is classified; any further arguments are ignored, just
as dropping several files selects only the first.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reporter := cli.NewReporter(cmd.OutOrStdout(), cmd.ErrOrStderr(), jsonOutput)
			return a.classify(cmd, reporter, args)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print the result as JSON")

	return cmd
}

func (a *app) classify(cmd *cobra.Command, reporter *cli.Reporter, args []string) error {
	cfg := config.Load(a.v)
	client, err := classifier.NewHTTPClient(cfg.Classifier)
	if err != nil {
		return err
	}

	if len(args) > 1 {
		common.LogDebug("Ignoring extra images", common.Fields{
			"ignored": len(args) - 1,
		})
	}

	candidate, err := selection.LoadCandidate(args[0])
	if err != nil {
		return err
	}

	sess := session.New(client, session.WithNotifier(reporter))
	accepted, err := sess.Select([]selection.Candidate{candidate})
	if err != nil {
		return err
	}
	if !accepted {
		notImage := common.NewUserError(common.NoticeNotImage,
			fmt.Errorf("%w: %s is %s", common.ErrUnsupportedMediaType, candidate.Name, candidate.MediaType))
		if printErr := reporter.PrintFailure(nil, notImage); printErr != nil {
			return printErr
		}
		return fmt.Errorf("%w: %w", errReported, notImage)
	}

	interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx, stop := interrupts.HandleInterrupts(cmd.Context(), candidate.Name)
	defer stop()

	pending := sess.Snapshot().Pending
	reporter.StartProgress(*pending)
	err = sess.Submit(ctx)
	reporter.StopProgress()

	if err != nil {
		if interrupts.WasInterrupted() {
			return errReported
		}
		// The session has already raised the notice through the reporter.
		return fmt.Errorf("%w: %w", errReported, err)
	}

	view := sess.Snapshot()
	return reporter.PrintOutcome(*view.Pending, *view.Outcome)
}
