// Package mesh exports fitted body meshes as Wavefront OBJ.
package mesh

import (
	"bufio"
	"io"
	"os"
	"strconv"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// ErrFaceIndex is returned when a face references a missing vertex.
var ErrFaceIndex = errors.New("face index out of range")

// WriteOBJ writes vertices and triangle faces as OBJ. Faces use 0-based
// vertex indices and are written 1-based. Vertices are written as given;
// duplicates are not merged.
func WriteOBJ(w io.Writer, vertices []r3.Vector, faces [][3]int) error {
	for i, f := range faces {
		for _, idx := range f {
			if idx < 0 || idx >= len(vertices) {
				return errors.Wrapf(ErrFaceIndex, "face %d references vertex %d of %d", i, idx, len(vertices))
			}
		}
	}

	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 64)
	for _, v := range vertices {
		buf = append(buf[:0], 'v')
		for _, c := range [3]float64{v.X, v.Y, v.Z} {
			buf = append(buf, ' ')
			buf = strconv.AppendFloat(buf, c, 'f', -1, 64)
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	for _, f := range faces {
		buf = append(buf[:0], 'f')
		for _, idx := range f {
			buf = append(buf, ' ')
			buf = strconv.AppendInt(buf, int64(idx+1), 10)
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// OBJExporter writes meshes to files.
type OBJExporter struct{}

// Export writes the mesh to path, replacing any existing file.
func (OBJExporter) Export(path string, vertices []r3.Vector, faces [][3]int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create mesh file")
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()

	if err := WriteOBJ(f, vertices, faces); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}
