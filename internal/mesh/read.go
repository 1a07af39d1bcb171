package mesh

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// ReadOBJ reads vertex positions and faces from an OBJ stream. Polygons with
// more than three vertices are fan-triangulated. Texture and normal indices
// in "v/vt/vn" references are ignored, as are all other statements.
func ReadOBJ(r io.Reader) ([]r3.Vector, [][3]int, error) {
	var vertices []r3.Vector
	var faces [][3]int

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, nil, errors.Errorf("line %d: vertex needs 3 coordinates", lineNo)
			}
			var c [3]float64
			for i := range c {
				v, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, nil, errors.Wrapf(err, "line %d", lineNo)
				}
				c[i] = v
			}
			vertices = append(vertices, r3.Vector{X: c[0], Y: c[1], Z: c[2]})
		case "f":
			if len(fields) < 4 {
				return nil, nil, errors.Errorf("line %d: face needs at least 3 vertices", lineNo)
			}
			idx := make([]int, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				if slash := strings.IndexByte(ref, '/'); slash >= 0 {
					ref = ref[:slash]
				}
				n, err := strconv.Atoi(ref)
				if err != nil {
					return nil, nil, errors.Wrapf(err, "line %d", lineNo)
				}
				if n < 0 {
					// relative to the vertices read so far
					n = len(vertices) + n + 1
				}
				idx = append(idx, n-1)
			}
			for i := 1; i+1 < len(idx); i++ {
				faces = append(faces, [3]int{idx[0], idx[i], idx[i+1]})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, errors.Wrap(err, "read mesh")
	}

	for i, f := range faces {
		for _, v := range f {
			if v < 0 || v >= len(vertices) {
				return nil, nil, errors.Wrapf(ErrFaceIndex, "face %d references vertex %d of %d", i, v, len(vertices))
			}
		}
	}
	return vertices, faces, nil
}

// Load reads an OBJ file from disk.
func Load(path string) ([]r3.Vector, [][3]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open mesh file")
	}
	defer f.Close()

	vertices, faces, err := ReadOBJ(f)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "load %s", path)
	}
	return vertices, faces, nil
}
