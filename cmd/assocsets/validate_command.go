package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LdDl/mot-assoc-go/mot"
)

func newValidateCommand(ctx *commandContext) *cobra.Command {
	var inputPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check labeled detections form a track association problem",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			input, err := loadHistories(inputPath, cfg.Build.MaxFrameGap)
			if err != nil {
				return err
			}
			if err := mot.ValidateTrackAssociationProblem(input.histories); err != nil {
				return err
			}
			numDims, err := inferNumDims(input, cfg)
			if err != nil {
				return err
			}

			steps, detections, problems := 0, 0, 0
			for _, history := range input.histories {
				steps += len(history)
				problems += max(len(history)-1, 0)
				for _, step := range history {
					detections += len(step)
				}
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Histories: %d\n", len(input.histories))
			fmt.Fprintf(out, "Time steps: %d\n", steps)
			fmt.Fprintf(out, "Detections: %d\n", detections)
			fmt.Fprintf(out, "Assignment problems: %d\n", problems)
			fmt.Fprintf(out, "Feature dimensions (%s tracks): %d\n", cfg.Tracks.Kind, numDims)
			fmt.Fprintln(out, "Track association problem valid")
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Labeled detections CSV")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
