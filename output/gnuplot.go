package output

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"golang.org/x/xerrors"
)

// ErrGnuplotMissing is returned when no gnuplot binary is on PATH.
var ErrGnuplotMissing = errors.New("gnuplot not found in PATH")

var gnuplotColors = []string{"red", "green", "blue"}

// GnuplotScript renders the script that plots dataPath into a PNG at
// plotPath. gammas labels the curves in the order they appear in the file.
func GnuplotScript(dataPath, plotPath string, gammas []float64) string {
	var b strings.Builder
	b.WriteString("set term pngcairo enhanced font 'Arial,14'\n")
	fmt.Fprintf(&b, "set output '%s'\n", plotPath)
	b.WriteString("set size 1,1\n")
	b.WriteString("set xlabel 'Pool size'\n")
	b.WriteString("set ylabel 'Relative pool revenue'\n")
	b.WriteString("set xtics 0.1\n")
	b.WriteString("set ytics 0.2\n")
	b.WriteString("set grid lw 1.5\n")
	b.WriteString("set key left top\n")
	fmt.Fprintf(&b, "plot '%s' u 1:2 with lines lw 2 lc rgb 'grey' title 'Honest mining'", dataPath)
	for k, gamma := range gammas {
		fmt.Fprintf(&b, ", \\\n     '%s' u 1:%d with lines lw 2 lc rgb '%s' title 'gamma=%.1f'",
			dataPath, k+3, gnuplotColors[k%len(gnuplotColors)], gamma)
	}
	b.WriteString("\n")
	return b.String()
}

// Gnuplot runs gnuplot as a separate process and feeds it the plot script on
// stdin.
func Gnuplot(dataPath, plotPath string, gammas []float64) error {
	bin, err := exec.LookPath("gnuplot")
	if err != nil {
		return ErrGnuplotMissing
	}
	cmd := exec.Command(bin, "-persist")
	cmd.Stdin = strings.NewReader(GnuplotScript(dataPath, plotPath, gammas))
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return xerrors.Errorf("gnuplot: %s: %w", strings.TrimSpace(stderr.String()), err)
	}
	return nil
}
