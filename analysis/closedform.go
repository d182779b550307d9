// Package analysis compares simulated revenue curves with the closed form
// derived by Eyal and Sirer.
package analysis

import (
	"math"

	"github.com/montanaflynn/stats"

	"github.com/shreekarashastry/selfishmining/simulation"
)

// ClosedForm is the expected relative revenue of a selfish pool with hash
// share alpha and tie-breaking share gamma.
func ClosedForm(alpha, gamma float64) float64 {
	num := alpha*(1-alpha)*(1-alpha)*(4*alpha+gamma*(1-2*alpha)) - alpha*alpha*alpha
	den := 1 - alpha*(1+(2-alpha)*alpha)
	return num / den
}

// Threshold is the smallest alpha for which selfish mining pays more than
// honest mining.
func Threshold(gamma float64) float64 {
	return (1 - gamma) / (3 - 2*gamma)
}

// Deviation summarises one simulated column against ClosedForm.
type Deviation struct {
	Gamma float64

	// Rows is the number of rows compared. NaN rows are skipped.
	Rows    int
	MeanAbs float64
	MaxAbs  float64

	// Profitable is the first alpha on the grid where the simulated revenue
	// beats honest mining, or NaN if none does.
	Profitable float64
}

// Compare computes a Deviation for every gamma column of m.
func Compare(m *simulation.ResultMatrix) []Deviation {
	gammas := m.Gammas()
	out := make([]Deviation, 0, len(gammas))
	for k, gamma := range gammas {
		col := m.GammaColumn(k)
		dev := Deviation{Gamma: gamma, Profitable: math.NaN()}
		var diffs stats.Float64Data
		for i := 0; i < m.Rows(); i++ {
			alpha := m.At(i, simulation.ColAlpha)
			got := m.At(i, col)
			if math.IsNaN(got) {
				continue
			}
			diffs = append(diffs, math.Abs(got-ClosedForm(alpha, gamma)))
			if math.IsNaN(dev.Profitable) && alpha > 0 && got > m.At(i, simulation.ColHonest) {
				dev.Profitable = alpha
			}
		}
		dev.Rows = len(diffs)
		if len(diffs) > 0 {
			dev.MeanAbs, _ = stats.Mean(diffs)
			dev.MaxAbs, _ = stats.Max(diffs)
		}
		out = append(out, dev)
	}
	return out
}
