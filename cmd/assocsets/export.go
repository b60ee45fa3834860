package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/LdDl/mot-assoc-go/internal/config"
	"github.com/LdDl/mot-assoc-go/mot"
)

type exportedSolver struct {
	SubproblemEpsilon       float64 `json:"subproblem_epsilon"`
	SubproblemMaxIterations uint    `json:"subproblem_max_iterations"`
	InactivePlaneThreshold  uint    `json:"inactive_plane_threshold"`
}

// exportedHeader is the first JSON line: trainer configuration prepared by the facade
type exportedHeader struct {
	C              float64        `json:"c"`
	Epsilon        float64        `json:"epsilon"`
	MaxCacheSize   uint           `json:"max_cache_size"`
	NumThreads     uint           `json:"num_threads"`
	Verbose        bool           `json:"verbose"`
	Solver         exportedSolver `json:"solver"`
	NumDims        int            `json:"num_dims"`
	NumNonnegative int            `json:"num_nonnegative"`
	Histories      []string       `json:"histories"`
	Problems       int            `json:"problems"`
}

// exportedProblem is a single assignment problem ready for an external trainer.
// Features[i][j] are similarity features of track j against detection i.
type exportedProblem struct {
	History   string        `json:"history"`
	Step      int           `json:"step"`
	NumTracks int           `json:"num_tracks"`
	Features  [][][]float64 `json:"features"`
	Labels    []int         `json:"labels"`
}

type exportSummary struct {
	Histories  int
	Problems   int
	Detections int
	Matched    int
	NumDims    int
}

func newExportedHeader(cfg mot.AssignmentTrainerConfig, input *namedHistories, numProblems int) exportedHeader {
	return exportedHeader{
		C:            cfg.C,
		Epsilon:      cfg.Epsilon,
		MaxCacheSize: cfg.MaxCacheSize,
		NumThreads:   cfg.NumThreads,
		Verbose:      cfg.Verbose,
		Solver: exportedSolver{
			SubproblemEpsilon:       cfg.Solver.SubproblemEpsilon,
			SubproblemMaxIterations: cfg.Solver.SubproblemMaxIterations,
			InactivePlaneThreshold:  cfg.Solver.InactivePlaneThreshold,
		},
		NumDims:        cfg.Features.NumDims,
		NumNonnegative: cfg.Features.NumNonnegative,
		Histories:      input.names,
		Problems:       numProblems,
	}
}

// exportTrainingSet runs the training facade with an assignment trainer which writes its input
// as JSON lines (header first, then one line per assignment problem) instead of optimizing.
func exportTrainingSet[T mot.Track[mot.BBoxDetection, T]](ctx context.Context, w io.Writer, input *namedHistories, newTrack mot.NewTrackFunc[T], trainerCfg mot.TrainerConfig) (exportSummary, error) {
	summary := exportSummary{Histories: len(input.histories)}
	exporter := mot.AssignmentTrainerFunc[mot.BBoxDetection, T](func(ctx context.Context, cfg mot.AssignmentTrainerConfig, problems []mot.AssignmentProblem[mot.BBoxDetection, T], labels [][]int) ([]float64, error) {
		encoder := json.NewEncoder(w)
		if err := encoder.Encode(newExportedHeader(cfg, input, len(problems))); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
		summary.NumDims = cfg.Features.NumDims
		idx := 0
		for h, history := range input.histories {
			for step := 1; step < len(history); step++ {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				problem := problems[idx]
				features := make([][][]float64, len(problem.Detections))
				for i, det := range problem.Detections {
					features[i] = make([][]float64, len(problem.Tracks))
					for j, track := range problem.Tracks {
						features[i][j] = track.SimilarityFeatures(det)
					}
				}
				for _, label := range labels[idx] {
					if label != mot.NotMatched {
						summary.Matched++
					}
				}
				summary.Detections += len(problem.Detections)
				err := encoder.Encode(exportedProblem{
					History:   input.names[h],
					Step:      step,
					NumTracks: len(problem.Tracks),
					Features:  features,
					Labels:    labels[idx],
				})
				if err != nil {
					return nil, fmt.Errorf("write problem %d: %w", idx, err)
				}
				idx++
			}
		}
		summary.Problems = idx
		// Nothing is learned here
		return make([]float64, cfg.Features.NumDims), nil
	})

	trainer := mot.NewStructuralTrackAssociationTrainer[mot.BBoxDetection, mot.DefaultLabel, T](newTrack, exporter)
	if err := trainer.ApplyConfig(trainerCfg); err != nil {
		return summary, err
	}
	if _, err := trainer.Train(ctx, input.histories); err != nil {
		return summary, err
	}
	return summary, nil
}

// exportWithConfig picks reference track implementation from configuration
func exportWithConfig(ctx context.Context, w io.Writer, input *namedHistories, cfg *config.Config) (exportSummary, error) {
	switch cfg.Tracks.Kind {
	case config.TrackKindCenter:
		return exportTrainingSet(ctx, w, input, mot.NewCenterTrackFunc(cfg.Tracks.DT), cfg.TrainerConfig())
	default:
		return exportTrainingSet(ctx, w, input, mot.NewBBoxTrackFunc(cfg.Tracks.DT), cfg.TrainerConfig())
	}
}

// inferNumDims returns feature dimensionality the configured tracks produce for given input
func inferNumDims(input *namedHistories, cfg *config.Config) (int, error) {
	if cfg.Tracks.Kind == config.TrackKindCenter {
		return mot.FeatureDimensions(input.histories, mot.NewCenterTrackFunc(cfg.Tracks.DT))
	}
	return mot.FeatureDimensions(input.histories, mot.NewBBoxTrackFunc(cfg.Tracks.DT))
}
