package output

import (
	"bufio"
	"io"
	"math"
	"os"
	"strconv"

	"golang.org/x/xerrors"

	"github.com/shreekarashastry/selfishmining/simulation"
)

// WriteText writes m as whitespace separated rows, one row per alpha grid
// point, every value printed with six decimals.
func WriteText(w io.Writer, m *simulation.ResultMatrix) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 16*m.Cols())
	for i := 0; i < m.Rows(); i++ {
		buf = buf[:0]
		for j, v := range m.Row(i) {
			if j > 0 {
				buf = append(buf, ' ')
			}
			buf = appendValue(buf, v)
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return xerrors.Errorf("writing row %d: %w", i, err)
		}
	}
	return bw.Flush()
}

func appendValue(buf []byte, v float64) []byte {
	if math.IsNaN(v) {
		return append(buf, "NaN"...)
	}
	return strconv.AppendFloat(buf, v, 'f', 6, 64)
}

// WriteFile writes m to path, replacing any existing file.
func WriteFile(path string, m *simulation.ResultMatrix) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return xerrors.Errorf("creating data file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = xerrors.Errorf("closing data file: %w", cerr)
		}
	}()
	return WriteText(f, m)
}
