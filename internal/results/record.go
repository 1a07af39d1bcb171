package results

import (
	"io"
	"os"
	"sort"

	ogórek "github.com/kisielk/og-rek"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// pickleProtocol keeps records readable by Python 2 tooling.
const pickleProtocol = 2

var (
	pyDict       = ogórek.Class{Module: "__builtin__", Name: "dict"}
	pyNumpyArray = ogórek.Class{Module: "numpy", Name: "array"}
)

// WriteRecord pickles res as a dict of (1, N) float64 numpy arrays. Items are
// emitted in key order so identical results produce identical bytes.
func WriteRecord(w io.Writer, res Result) error {
	keys := make([]string, 0, len(res))
	for k := range res {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	items := make([]ogórek.Tuple, 0, len(keys))
	for _, k := range keys {
		items = append(items, ogórek.Tuple{k, ndarray(res[k])})
	}
	record := ogórek.Call{Callable: pyDict, Args: ogórek.Tuple{items}}

	enc := ogórek.NewEncoderWithConfig(w, &ogórek.EncoderConfig{Protocol: pickleProtocol})
	return errors.Wrap(enc.Encode(record), "encode result")
}

// ndarray builds numpy.array([values]), a single-row array.
func ndarray(values []float64) ogórek.Call {
	row := append([]float64{}, values...)
	return ogórek.Call{Callable: pyNumpyArray, Args: ogórek.Tuple{[][]float64{row}}}
}

func writeRecordFile(path string, res Result) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create result file")
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()
	return WriteRecord(f, res)
}
