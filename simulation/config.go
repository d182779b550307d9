package simulation

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/xerrors"
)

const (
	// MaxSampleCount bounds the alpha grid resolution.
	MaxSampleCount = 100000

	maxGammaColumns = 16

	DefaultSampleCount   = 1000
	DefaultEventsPerCell = 1000000

	// alphaSpan is the width of the alpha grid. Only minority pools are
	// simulated.
	alphaSpan = 0.5
)

// ScanGammas is the reference gamma set of a scan.
var ScanGammas = []float64{0, 0.5, 1}

type Mode uint8

const (
	ModeScan Mode = iota
	ModeSingle
)

func (m Mode) String() string {
	switch m {
	case ModeScan:
		return "scan"
	case ModeSingle:
		return "single"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "scan", "":
		return ModeScan, nil
	case "single":
		return ModeSingle, nil
	}
	return 0, RangeError{Field: "mode", Value: s, Expected: "scan | single"}
}

// StreamMode decides how the sampler stream is laid over the cells.
type StreamMode uint8

const (
	// StreamPerCell reseeds the sampler at the start of every cell from a
	// seed derived from the base seed and the cell coordinates.
	StreamPerCell StreamMode = iota
	// StreamShared seeds the sampler once and lets every cell continue the
	// same stream.
	StreamShared
)

func (m StreamMode) String() string {
	switch m {
	case StreamPerCell:
		return "per-cell"
	case StreamShared:
		return "shared"
	default:
		return fmt.Sprintf("StreamMode(%d)", uint8(m))
	}
}

func ParseStreamMode(s string) (StreamMode, error) {
	switch strings.ToLower(s) {
	case "per-cell", "":
		return StreamPerCell, nil
	case "shared":
		return StreamShared, nil
	}
	return 0, RangeError{Field: "stream", Value: s, Expected: "per-cell | shared"}
}

// DegeneratePolicy decides what a sweep does with a cell that credited no
// revenue.
type DegeneratePolicy uint8

const (
	AbortOnDegenerate DegeneratePolicy = iota
	RecordNaN
)

func (p DegeneratePolicy) String() string {
	switch p {
	case AbortOnDegenerate:
		return "abort"
	case RecordNaN:
		return "nan"
	default:
		return fmt.Sprintf("DegeneratePolicy(%d)", uint8(p))
	}
}

func ParseDegeneratePolicy(s string) (DegeneratePolicy, error) {
	switch strings.ToLower(s) {
	case "abort", "":
		return AbortOnDegenerate, nil
	case "nan":
		return RecordNaN, nil
	}
	return 0, RangeError{Field: "on_degenerate", Value: s, Expected: "abort | nan"}
}

// SweepConfig fully describes a sweep. Two sweeps with equal configs produce
// identical matrices.
type SweepConfig struct {
	Mode          Mode
	SampleCount   int
	Gammas        []float64
	EventsPerCell int64
	Seed          int64
	Stream        StreamMode
	OnDegenerate  DegeneratePolicy
}

// ScanConfig sweeps the reference gamma set.
func ScanConfig(sampleCount int, eventsPerCell int64, seed int64) SweepConfig {
	return SweepConfig{
		Mode:          ModeScan,
		SampleCount:   sampleCount,
		Gammas:        append([]float64(nil), ScanGammas...),
		EventsPerCell: eventsPerCell,
		Seed:          seed,
	}
}

// SingleConfig sweeps a single gamma value.
func SingleConfig(gamma float64, sampleCount int, eventsPerCell int64, seed int64) SweepConfig {
	return SweepConfig{
		Mode:          ModeSingle,
		SampleCount:   sampleCount,
		Gammas:        []float64{gamma},
		EventsPerCell: eventsPerCell,
		Seed:          seed,
	}
}

// Validate reports every value outside its bound at once.
func (c SweepConfig) Validate() error {
	var errs RangeErrors
	if c.SampleCount < 1 || c.SampleCount > MaxSampleCount {
		errs = append(errs, RangeError{
			Field:    "sample_count",
			Value:    c.SampleCount,
			Expected: fmt.Sprintf("1 <= sample_count <= %d", MaxSampleCount),
		})
	}
	if c.EventsPerCell < 0 {
		errs = append(errs, RangeError{Field: "events_per_cell", Value: c.EventsPerCell, Expected: "events_per_cell >= 0"})
	}
	if len(c.Gammas) == 0 || len(c.Gammas) > maxGammaColumns {
		errs = append(errs, RangeError{
			Field:    "gammas",
			Value:    len(c.Gammas),
			Expected: fmt.Sprintf("1 to %d gamma values", maxGammaColumns),
		})
	}
	for _, gamma := range c.Gammas {
		if math.IsNaN(gamma) || gamma < 0 || gamma > 1 {
			errs = append(errs, RangeError{Field: "gamma", Value: gamma, Expected: "0 <= gamma <= 1"})
		}
	}
	if c.Mode == ModeSingle && len(c.Gammas) != 1 {
		errs = append(errs, RangeError{Field: "gammas", Value: len(c.Gammas), Expected: "exactly one gamma in single mode"})
	}
	if err := errs.Err(); err != nil {
		return xerrors.Errorf("sweep config: %w", err)
	}
	return nil
}

// AlphaAt is the alpha value of grid point i on an n point grid over
// [0, 0.5).
func AlphaAt(i, n int) float64 {
	return float64(i) * (alphaSpan / float64(n))
}
