package output

import (
	"fmt"
	"image/color"
	"math"

	"golang.org/x/image/colornames"
	"golang.org/x/xerrors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/shreekarashastry/selfishmining/simulation"
)

var curveColors = []color.Color{colornames.Red, colornames.Green, colornames.Blue}

// RenderPNG draws the honest reference and every gamma curve of m into an
// image at path. The format follows the file extension.
func RenderPNG(m *simulation.ResultMatrix, path string) error {
	p := plot.New()
	p.Title.Text = "Selfish mining"
	p.X.Label.Text = "Pool size"
	p.Y.Label.Text = "Relative pool revenue"
	p.X.Min = 0
	p.X.Max = 0.5
	p.Y.Min = 0
	p.Y.Max = 1
	p.Legend.Top = true
	p.Legend.Left = true
	p.Add(plotter.NewGrid())

	honest, err := plotter.NewLine(column(m, simulation.ColHonest))
	if err != nil {
		return xerrors.Errorf("honest curve: %w", err)
	}
	honest.Color = colornames.Grey
	honest.Width = vg.Points(2)
	p.Add(honest)
	p.Legend.Add("Honest mining", honest)

	for k, gamma := range m.Gammas() {
		line, err := plotter.NewLine(column(m, m.GammaColumn(k)))
		if err != nil {
			return xerrors.Errorf("gamma=%.1f curve: %w", gamma, err)
		}
		line.Color = curveColors[k%len(curveColors)]
		line.Width = vg.Points(2)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("gamma=%.1f", gamma), line)
	}

	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return xerrors.Errorf("saving plot: %w", err)
	}
	return nil
}

// column pairs a column with alpha, dropping NaN cells which plotter rejects.
func column(m *simulation.ResultMatrix, col int) plotter.XYs {
	xys := make(plotter.XYs, 0, m.Rows())
	for i := 0; i < m.Rows(); i++ {
		y := m.At(i, col)
		if math.IsNaN(y) {
			continue
		}
		xys = append(xys, plotter.XY{X: m.At(i, simulation.ColAlpha), Y: y})
	}
	return xys
}
