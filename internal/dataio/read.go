package dataio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Table is a parsed dataset.
type Table struct {
	// Points holds one row per data line.
	Points [][]float64
	// Labels holds the integer label of each row when a label column was
	// read, nil otherwise. Labels are numbered in order of first appearance.
	Labels []int
	// LabelNames maps a label back to its text.
	LabelNames []string
}

// ReadOptions controls Read.
type ReadOptions struct {
	// LabelColumn is the 0-based column holding a class label, or -1 for
	// none. Negative values other than -1 count from the end (-2 is the
	// last column).
	LabelColumn int
}

// Read parses a dataset with one point per line. Values are separated by
// commas, semicolons, tabs or spaces. Blank lines and lines starting with
// '#' or '%' are skipped. Every row must have the same number of values.
func Read(r io.Reader, opts ReadOptions) (*Table, error) {
	t := &Table{}
	labelIDs := map[string]int{}
	dims := -1

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' || line[0] == '%' {
			continue
		}
		fields := strings.FieldsFunc(line, isSeparator)

		labelCol := opts.LabelColumn
		if labelCol < -1 {
			labelCol = len(fields) + labelCol + 1
			if labelCol < 0 {
				return nil, fmt.Errorf("dataio: line %d: no label column %d", lineNo, opts.LabelColumn)
			}
		}
		row := make([]float64, 0, len(fields))
		for i, f := range fields {
			if i == labelCol {
				id, ok := labelIDs[f]
				if !ok {
					id = len(t.LabelNames)
					labelIDs[f] = id
					t.LabelNames = append(t.LabelNames, f)
				}
				t.Labels = append(t.Labels, id)
				continue
			}
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("dataio: line %d column %d: %w", lineNo, i, err)
			}
			row = append(row, v)
		}
		if labelCol >= len(fields) {
			return nil, fmt.Errorf("dataio: line %d: no label column %d", lineNo, labelCol)
		}

		if dims < 0 {
			dims = len(row)
		} else if len(row) != dims {
			return nil, fmt.Errorf("dataio: line %d: %d values, expected %d", lineNo, len(row), dims)
		}
		t.Points = append(t.Points, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("dataio: %w", err)
	}
	return t, nil
}

func isSeparator(r rune) bool {
	return r == ',' || r == ';' || r == ' ' || r == '\t'
}
