package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LdDl/mot-assoc-go/mot"
)

const sampleCSV = `history;frame;label;x;y;width;height;confidence
scene-a;0;1;378;147;173;243;0.9
scene-a;0;2;70;14;227;254;0.8
scene-a;1;1;374;147;180;253;0.9
scene-a;3;3;610;47;324;355;0.7
scene-a;3;2;67;23;236;246;0.8
scene-b;10;7;10;10;20;20;0.5
scene-b;11;7;12;11;20;20;0.5
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestReadHistories(t *testing.T) {
	input, err := readHistories(strings.NewReader(sampleCSV), 1000)
	require.NoError(t, err)
	require.Equal(t, []string{"scene-a", "scene-b"}, input.names)
	require.Len(t, input.histories, 2)

	sceneA := input.histories[0]
	// Frames 0..3, frame 2 is empty
	require.Len(t, sceneA, 4)
	assert.Len(t, sceneA[0], 2)
	assert.Len(t, sceneA[1], 1)
	assert.Empty(t, sceneA[2])
	assert.Len(t, sceneA[3], 2)
	assert.Equal(t, mot.DefaultLabel(3), sceneA[3][0].Label)
	assert.Equal(t, mot.NewRect(610, 47, 324, 355), sceneA[3][0].Detection.BBox)
	assert.Equal(t, 0.7, sceneA[3][0].Detection.Confidence)

	sceneB := input.histories[1]
	require.Len(t, sceneB, 2)
}

func TestReadHistoriesErrors(t *testing.T) {
	cases := map[string]string{
		"empty":       "",
		"bad header":  "a;b;c;d;e;f;g;h\n",
		"bad frame":   "history;frame;label;x;y;width;height;confidence\nh;x;1;0;0;1;1;1\n",
		"neg frame":   "history;frame;label;x;y;width;height;confidence\nh;-1;1;0;0;1;1;1\n",
		"bad label":   "history;frame;label;x;y;width;height;confidence\nh;0;-5;0;0;1;1;1\n",
		"bad number":  "history;frame;label;x;y;width;height;confidence\nh;0;1;0;zero;1;1;1\n",
		"few columns": "history;frame;label;x;y;width;height;confidence\nh;0;1;0\n",
		"frame gap":   "history;frame;label;x;y;width;height;confidence\nh;0;1;0;0;1;1;1\nh;2000000000;1;0;0;1;1;1\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := readHistories(strings.NewReader(body), 1000)
			assert.Error(t, err)
		})
	}
}

func TestReadHistoriesFrameGapLimit(t *testing.T) {
	body := "history;frame;label;x;y;width;height;confidence\nh;10;1;0;0;1;1;1\nh;13;1;0;0;1;1;1\n"
	input, err := readHistories(strings.NewReader(body), 2)
	require.NoError(t, err)
	require.Len(t, input.histories[0], 4)

	_, err = readHistories(strings.NewReader(body), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_frame_gap")
	assert.Contains(t, err.Error(), `history "h"`)
}

// readExport splits JSON lines output into header and assignment problems
func readExport(t *testing.T, data []byte) (exportedHeader, []exportedProblem) {
	t.Helper()
	var header exportedHeader
	problems := make([]exportedProblem, 0)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	require.True(t, scanner.Scan(), "header line is missing")
	require.NoError(t, json.Unmarshal(scanner.Bytes(), &header))
	for scanner.Scan() {
		var p exportedProblem
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &p))
		problems = append(problems, p)
	}
	require.NoError(t, scanner.Err())
	return header, problems
}

func TestBuildCommandWritesProblems(t *testing.T) {
	inputPath := writeFile(t, "detections.csv", sampleCSV)
	outputPath := filepath.Join(t.TempDir(), "sets.jsonl")

	out, err := runCLI(t, "build", "--input", inputPath, "--output", outputPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 4 assignment problems")

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	header, problems := readExport(t, data)

	defaults := mot.DefaultTrainerConfig()
	assert.Equal(t, defaults.C, header.C)
	assert.Equal(t, defaults.Epsilon, header.Epsilon)
	assert.Equal(t, defaults.MaxCacheSize, header.MaxCacheSize)
	assert.Equal(t, defaults.NumThreads, header.NumThreads)
	assert.Equal(t, defaults.Solver.SubproblemMaxIterations, header.Solver.SubproblemMaxIterations)
	assert.Equal(t, mot.BBoxTrackFeatures, header.NumDims)
	assert.Equal(t, 0, header.NumNonnegative)
	assert.Equal(t, []string{"scene-a", "scene-b"}, header.Histories)
	assert.Equal(t, 4, header.Problems)
	require.Len(t, problems, 4)

	assert.Equal(t, "scene-a", problems[0].History)
	assert.Equal(t, 1, problems[0].Step)
	assert.Equal(t, 2, problems[0].NumTracks)
	assert.Equal(t, []int{0}, problems[0].Labels)
	require.Len(t, problems[0].Features, 1)
	require.Len(t, problems[0].Features[0], 2)
	assert.Len(t, problems[0].Features[0][0], mot.BBoxTrackFeatures)

	// Empty frame
	assert.Equal(t, 2, problems[1].Step)
	assert.Empty(t, problems[1].Labels)

	assert.Equal(t, []int{mot.NotMatched, 1}, problems[2].Labels)

	assert.Equal(t, "scene-b", problems[3].History)
	assert.Equal(t, []int{0}, problems[3].Labels)
}

func TestBuildCommandUsesTrainerSection(t *testing.T) {
	inputPath := writeFile(t, "detections.csv", sampleCSV)
	configPath := writeFile(t, "assocsets.toml", `
[trainer]
c = 7.5
epsilon = 0.01
max_cache_size = 9
num_threads = 4
learn_nonnegative_weights = true

[trainer.solver]
subproblem_max_iterations = 100

[tracks]
kind = "center"
`)

	out, err := runCLI(t, "--config", configPath, "build", "--input", inputPath)
	require.NoError(t, err)

	header, problems := readExport(t, []byte(out))
	assert.Equal(t, 7.5, header.C)
	assert.Equal(t, 0.01, header.Epsilon)
	assert.Equal(t, uint(9), header.MaxCacheSize)
	assert.Equal(t, uint(4), header.NumThreads)
	assert.Equal(t, uint(100), header.Solver.SubproblemMaxIterations)
	assert.Equal(t, mot.CenterTrackFeatures, header.NumDims)
	assert.Equal(t, mot.CenterTrackFeatures, header.NumNonnegative)
	require.Len(t, problems, 4)
	assert.Len(t, problems[0].Features[0][0], mot.CenterTrackFeatures)
}

func TestBuildCommandReportsWriteFailure(t *testing.T) {
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("/dev/full is not available")
	}
	inputPath := writeFile(t, "detections.csv", sampleCSV)
	out, err := runCLI(t, "build", "--input", inputPath, "--output", "/dev/full")
	require.Error(t, err)
	assert.NotContains(t, out, "Wrote")
}

func TestBuildCommandRejectsFrameGap(t *testing.T) {
	inputPath := writeFile(t, "detections.csv", "history;frame;label;x;y;width;height;confidence\nh;0;1;0;0;1;1;1\nh;50;1;0;0;1;1;1\n")
	configPath := writeFile(t, "assocsets.toml", "[build]\nmax_frame_gap = 10\n")
	_, err := runCLI(t, "--config", configPath, "build", "--input", inputPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_frame_gap")
}

func TestBuildCommandRejectsDuplicatedLabels(t *testing.T) {
	inputPath := writeFile(t, "detections.csv", "history;frame;label;x;y;width;height;confidence\nh;0;1;0;0;1;1;1\nh;0;1;5;5;1;1;1\n")
	_, err := runCLI(t, "build", "--input", inputPath)
	require.Error(t, err)
	assert.ErrorIs(t, err, mot.ErrMalformedProblem)
}

func TestValidateCommand(t *testing.T) {
	inputPath := writeFile(t, "detections.csv", sampleCSV)
	out, err := runCLI(t, "validate", "--input", inputPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Histories: 2")
	assert.Contains(t, out, "Time steps: 6")
	assert.Contains(t, out, "Detections: 7")
	assert.Contains(t, out, "Assignment problems: 4")
	assert.Contains(t, out, "Feature dimensions (bbox tracks): 6")
	assert.Contains(t, out, "Track association problem valid")
}

func TestConfigCommand(t *testing.T) {
	configPath := writeFile(t, "assocsets.toml", "[trainer]\nc = 25.0\n")
	out, err := runCLI(t, "--config", configPath, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "[trainer]")
	assert.Contains(t, out, "c = 25.0")
	assert.Contains(t, out, "kind = 'bbox'")
}

func TestConfigCommandInvalidConfig(t *testing.T) {
	configPath := writeFile(t, "assocsets.toml", "[trainer]\nc = -1.0\n")
	_, err := runCLI(t, "--config", configPath, "config")
	assert.ErrorIs(t, err, mot.ErrInvalidC)
}
