// Package joints maps body-model joints onto 2D annotation skeletons.
package joints

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// ErrIndexOutOfRange is returned when a joint index exceeds the model output.
var ErrIndexOutOfRange = errors.New("joint index out of range")

// Mapper selects and reorders joints along the joint axis. A Mapper with no
// index passes joints through unchanged.
type Mapper struct {
	index []int
}

// NewMapper creates a Mapper. The index is copied.
func NewMapper(index []int) *Mapper {
	if index == nil {
		return &Mapper{}
	}
	return &Mapper{index: append([]int(nil), index...)}
}

// Index returns a copy of the selection, or nil for a pass-through mapper.
func (m *Mapper) Index() []int {
	if m.index == nil {
		return nil
	}
	return append([]int(nil), m.index...)
}

// Map applies the selection to every batch entry. joints is indexed
// [batch][joint].
func (m *Mapper) Map(joints [][]r3.Vector) ([][]r3.Vector, error) {
	if m.index == nil {
		return joints, nil
	}

	out := make([][]r3.Vector, len(joints))
	for b, src := range joints {
		dst := make([]r3.Vector, len(m.index))
		for i, j := range m.index {
			if j < 0 || j >= len(src) {
				return nil, errors.Wrapf(ErrIndexOutOfRange, "index %d with %d joints", j, len(src))
			}
			dst[i] = src[j]
		}
		out[b] = dst
	}
	return out, nil
}
