package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/LdDl/mot-assoc-go/mot"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var inputPath string
	var outputPath string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Convert labeled detections into assignment problems (JSON lines)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			input, err := loadHistories(inputPath, cfg.Build.MaxFrameGap)
			if err != nil {
				return err
			}

			target := strings.TrimSpace(outputPath)
			toFile := target != "" && target != "-"
			var file *os.File
			out := cmd.OutOrStdout()
			if toFile {
				file, err = os.Create(target)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				out = file
			}
			buffered := bufio.NewWriter(out)

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			summary, err := exportWithConfig(signalCtx, buffered, input, cfg)
			if err == nil {
				if flushErr := buffered.Flush(); flushErr != nil {
					err = fmt.Errorf("write output: %w", flushErr)
				}
			}
			if file != nil {
				if closeErr := file.Close(); closeErr != nil && err == nil {
					err = fmt.Errorf("close output: %w", closeErr)
				}
			}
			if err != nil {
				return err
			}

			if cfg.Trainer.Verbose {
				mot.Logf("assocsets: histories=%d problems=%d detections=%d matched=%d dims=%d\n",
					summary.Histories, summary.Problems, summary.Detections, summary.Matched, summary.NumDims)
			}
			if toFile {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d assignment problems to %s\n", summary.Problems, target)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Labeled detections CSV")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "-", "Output JSON lines file ('-' for stdout)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func loadHistories(path string, maxFrameGap int) (*namedHistories, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer file.Close()
	return readHistories(file, maxFrameGap)
}
