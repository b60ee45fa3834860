package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/LdDl/mot-assoc-go/mot"
)

type detectionHistory = mot.TrackHistory[mot.BBoxDetection, mot.DefaultLabel]

var csvHeader = []string{"history", "frame", "label", "x", "y", "width", "height", "confidence"}

// namedHistories keeps histories in the order they first appear in the input
type namedHistories struct {
	names     []string
	histories []detectionHistory
}

type csvRow struct {
	frame int
	det   mot.LabeledDetection[mot.BBoxDetection, mot.DefaultLabel]
}

// readHistories parses ';' separated CSV. Frames of a history are sorted ascending and
// missing frames between first and last one become empty time steps.
// More than maxFrameGap missing frames in a row is an error.
func readHistories(r io.Reader, maxFrameGap int) (*namedHistories, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = len(csvHeader)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty input")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range csvHeader {
		if strings.ToLower(strings.TrimSpace(header[i])) != csvHeader[i] {
			return nil, fmt.Errorf("unexpected header %q, expected %q", strings.Join(header, ";"), strings.Join(csvHeader, ";"))
		}
	}

	order := make([]string, 0)
	rows := make(map[string][]csvRow)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		line, _ := reader.FieldPos(0)
		row, err := parseRow(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		name := strings.TrimSpace(record[0])
		if _, ok := rows[name]; !ok {
			order = append(order, name)
		}
		rows[name] = append(rows[name], row)
	}

	result := &namedHistories{
		names:     order,
		histories: make([]detectionHistory, len(order)),
	}
	for i, name := range order {
		history, err := groupFrames(rows[name], maxFrameGap)
		if err != nil {
			return nil, fmt.Errorf("history %q: %w", name, err)
		}
		result.histories[i] = history
	}
	return result, nil
}

func parseRow(record []string) (csvRow, error) {
	frame, err := strconv.Atoi(strings.TrimSpace(record[1]))
	if err != nil {
		return csvRow{}, fmt.Errorf("parse frame: %w", err)
	}
	if frame < 0 {
		return csvRow{}, fmt.Errorf("frame must not be negative, got %d", frame)
	}
	label, err := strconv.ParseUint(strings.TrimSpace(record[2]), 10, 64)
	if err != nil {
		return csvRow{}, fmt.Errorf("parse label: %w", err)
	}
	values := make([]float64, 5)
	for i := range values {
		field := csvHeader[3+i]
		values[i], err = strconv.ParseFloat(strings.TrimSpace(record[3+i]), 64)
		if err != nil {
			return csvRow{}, fmt.Errorf("parse %s: %w", field, err)
		}
	}
	bbox := mot.NewRect(values[0], values[1], values[2], values[3])
	return csvRow{
		frame: frame,
		det:   mot.NewLabeledDetection(mot.NewBBoxDetection(bbox, values[4]), mot.DefaultLabel(label)),
	}, nil
}

func groupFrames(rows []csvRow, maxFrameGap int) (detectionHistory, error) {
	// Stable sort keeps detection order within a frame
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].frame < rows[j].frame
	})
	for i := 1; i < len(rows); i++ {
		if gap := rows[i].frame - rows[i-1].frame - 1; gap > maxFrameGap {
			return nil, fmt.Errorf("%d empty frames between frames %d and %d, at most %d allowed (build.max_frame_gap)", gap, rows[i-1].frame, rows[i].frame, maxFrameGap)
		}
	}
	first := rows[0].frame
	last := rows[len(rows)-1].frame
	history := make(detectionHistory, last-first+1)
	for i := range history {
		history[i] = make(mot.TimeStep[mot.BBoxDetection, mot.DefaultLabel], 0)
	}
	for _, row := range rows {
		step := row.frame - first
		history[step] = append(history[step], row.det)
	}
	return history, nil
}
