package simulation

import (
	"golang.org/x/xerrors"
)

const (
	// ColAlpha holds the selfish pool's share of the hash power.
	ColAlpha = 0
	// ColHonest holds the honest mining reference, which equals alpha.
	ColHonest = 1

	firstGammaCol = 2
)

// ResultMatrix is a dense row major matrix with one row per alpha grid point
// and one column per curve.
type ResultMatrix struct {
	rows   int
	cols   int
	gammas []float64
	data   []float64
}

// NewResultMatrix allocates a rows x (2 + len(gammas)) matrix after checking
// the dimensions against MaxSampleCount.
func NewResultMatrix(rows int, gammas []float64) (*ResultMatrix, error) {
	if rows < 1 || rows > MaxSampleCount {
		return nil, xerrors.Errorf("%d rows: %w", rows, ErrMatrixTooLarge)
	}
	if len(gammas) == 0 || len(gammas) > maxGammaColumns {
		return nil, xerrors.Errorf("%d gamma columns: %w", len(gammas), ErrMatrixTooLarge)
	}
	cols := firstGammaCol + len(gammas)
	return &ResultMatrix{
		rows:   rows,
		cols:   cols,
		gammas: append([]float64(nil), gammas...),
		data:   make([]float64, rows*cols),
	}, nil
}

func (m *ResultMatrix) Rows() int {
	return m.rows
}

func (m *ResultMatrix) Cols() int {
	return m.cols
}

// Gammas returns the gamma value of every simulated column, in column order.
func (m *ResultMatrix) Gammas() []float64 {
	return append([]float64(nil), m.gammas...)
}

// GammaColumn maps the k-th gamma value to its column index.
func (m *ResultMatrix) GammaColumn(k int) int {
	return firstGammaCol + k
}

func (m *ResultMatrix) At(row, col int) float64 {
	return m.data[row*m.cols+col]
}

func (m *ResultMatrix) Set(row, col int, v float64) {
	m.data[row*m.cols+col] = v
}

// Row returns a view of one row. Writes through it change the matrix.
func (m *ResultMatrix) Row(row int) []float64 {
	return m.data[row*m.cols : (row+1)*m.cols]
}

// Column copies one column out of the matrix.
func (m *ResultMatrix) Column(col int) []float64 {
	out := make([]float64, m.rows)
	for i := range out {
		out[i] = m.At(i, col)
	}
	return out
}
