// Package calib reads multi-camera calibration files and splits camera poses
// into rotation and translation.
//
// A calibration file is plain text with one matrix row per line. Rows of three
// numbers belong to 3x3 intrinsic matrices and rows of four numbers belong to
// 3x4 camera poses, each completed to 4x4 with a [0 0 0 1] row. Lines with any
// other token count are ignored.
package calib

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

const (
	intrinsicCols = 3
	poseCols      = 4
	rowsPerGroup  = 3
)

// Parse reads the calibration file at path and returns the 4x4 camera poses
// and 3x3 intrinsic matrices in file order.
func Parse(path string) ([]*mat.Dense, []*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open calibration file")
	}
	defer f.Close()

	poses, intrinsics, err := ParseReader(f)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "parse %s", path)
	}
	return poses, intrinsics, nil
}

// ParseReader is Parse over an arbitrary reader.
//
// A trailing group with fewer than three rows is dropped without error.
func ParseReader(r io.Reader) ([]*mat.Dense, []*mat.Dense, error) {
	var poseRows, intrinsicRows [][]float64

	br := bufio.NewReader(r)
	for lineNo := 1; ; lineNo++ {
		line, readErr := br.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return nil, nil, errors.Wrap(readErr, "read calibration")
		}

		row, err := parseRow(line)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "line %d", lineNo)
		}
		switch len(row) {
		case intrinsicCols:
			intrinsicRows = append(intrinsicRows, row)
		case poseCols:
			poseRows = append(poseRows, row)
		}

		if readErr == io.EOF {
			break
		}
	}

	return groupPoses(poseRows), groupIntrinsics(intrinsicRows), nil
}

// parseRow returns the numbers on a matrix row, or nil for lines that hold
// neither an intrinsic nor a pose row.
func parseRow(line string) ([]float64, error) {
	words := strings.Fields(line)
	if len(words) != intrinsicCols && len(words) != poseCols {
		return nil, nil
	}
	row := make([]float64, len(words))
	for i, w := range words {
		v, err := strconv.ParseFloat(w, 64)
		if err != nil {
			return nil, err
		}
		row[i] = v
	}
	return row, nil
}

func groupIntrinsics(rows [][]float64) []*mat.Dense {
	n := len(rows) / rowsPerGroup
	out := make([]*mat.Dense, 0, n)
	for g := 0; g < n; g++ {
		data := make([]float64, 0, rowsPerGroup*intrinsicCols)
		for _, row := range rows[g*rowsPerGroup : (g+1)*rowsPerGroup] {
			data = append(data, row...)
		}
		out = append(out, mat.NewDense(rowsPerGroup, intrinsicCols, data))
	}
	return out
}

func groupPoses(rows [][]float64) []*mat.Dense {
	n := len(rows) / rowsPerGroup
	out := make([]*mat.Dense, 0, n)
	for g := 0; g < n; g++ {
		data := make([]float64, 0, poseCols*poseCols)
		for _, row := range rows[g*rowsPerGroup : (g+1)*rowsPerGroup] {
			data = append(data, row...)
		}
		// homogeneous row
		data = append(data, 0, 0, 0, 1)
		out = append(out, mat.NewDense(poseCols, poseCols, data))
	}
	return out
}
