package joints

import (
	"github.com/pkg/errors"
)

// Model types.
const (
	ModelSMPL    = "smpl"
	ModelSMPLLSP = "smpllsp"
)

// Pose formats.
const (
	FormatCOCO17 = "coco17"
	FormatLSP14  = "lsp14"
)

var (
	// ErrUnsupportedModel is returned for a known pose format with a model
	// type that has no mapping to it.
	ErrUnsupportedModel = errors.New("unsupported model type")

	// ErrUnsupportedFormat is returned for an unknown pose format.
	ErrUnsupportedFormat = errors.New("unsupported joint format")
)

type formatTable struct {
	model string
	index []int
}

// Joint order in both tables:
// Nose Leye Reye Lear Rear LS RS LE RE LW RW LH RH LK RK LA RA
var formats = map[string]formatTable{
	FormatCOCO17: {
		model: ModelSMPL,
		index: []int{24, 25, 26, 27, 28, 16, 17, 18, 19, 20, 21, 1, 2, 4, 5, 7, 8},
	},
	FormatLSP14: {
		model: ModelSMPLLSP,
		index: []int{14, 15, 16, 17, 18, 9, 8, 10, 7, 11, 6, 3, 2, 4, 1, 5, 0},
	},
}

// BuildIndex returns the joint selection that maps modelType's output onto
// poseFormat.
func BuildIndex(modelType, poseFormat string) ([]int, error) {
	table, ok := formats[poseFormat]
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%q", poseFormat)
	}
	if modelType != table.model {
		return nil, errors.Wrapf(ErrUnsupportedModel, "%q for format %q", modelType, poseFormat)
	}
	return append([]int(nil), table.index...), nil
}

// NewFormatMapper is BuildIndex followed by NewMapper.
func NewFormatMapper(modelType, poseFormat string) (*Mapper, error) {
	index, err := BuildIndex(modelType, poseFormat)
	if err != nil {
		return nil, err
	}
	return NewMapper(index), nil
}
