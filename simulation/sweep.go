package simulation

import (
	"errors"
	"math"
	"time"

	"github.com/dominant-strategies/go-quai/event"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"

	"github.com/shreekarashastry/selfishmining/log"
)

// Sweep runs one cell per (gamma, alpha) grid point, one after another.
type Sweep struct {
	config  SweepConfig
	sampler Sampler
	cache   *CellCache
	store   ResultStore

	cellFeed event.Feed
}

type Option func(*Sweep)

// WithSampler replaces the default math/rand sampler.
func WithSampler(sampler Sampler) Option {
	return func(s *Sweep) {
		s.sampler = sampler
	}
}

// WithCache shares an in-memory cell cache between sweeps. A nil cache
// disables memoisation.
func WithCache(cache *CellCache) Option {
	return func(s *Sweep) {
		s.cache = cache
	}
}

// WithStore adds a second, usually persistent, store consulted after the
// in-memory cache.
func WithStore(store ResultStore) Option {
	return func(s *Sweep) {
		s.store = store
	}
}

// SweepReport is what a finished sweep hands back to its caller.
type SweepReport struct {
	Matrix     *ResultMatrix
	Cells      int
	Cached     int
	Degenerate int
	Events     int64
	Elapsed    time.Duration
}

func NewSweep(config SweepConfig, opts ...Option) (*Sweep, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	config.Gammas = append([]float64(nil), config.Gammas...)

	sweep := &Sweep{config: config}
	cache, err := NewCellCache(DefaultCacheSize)
	if err != nil {
		return nil, err
	}
	sweep.cache = cache
	for _, opt := range opts {
		opt(sweep)
	}
	if sweep.sampler == nil {
		sweep.sampler = NewUniformSampler(config.Seed)
	}
	return sweep, nil
}

func (s *Sweep) Config() SweepConfig {
	return s.config
}

// Run executes the sweep. Under AbortOnDegenerate the first degenerate cell
// stops the sweep and no matrix is returned.
func (s *Sweep) Run() (*SweepReport, error) {
	n := s.config.SampleCount
	matrix, err := NewResultMatrix(n, s.config.Gammas)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		alpha := AlphaAt(i, n)
		matrix.Set(i, ColAlpha, alpha)
		matrix.Set(i, ColHonest, alpha)
	}

	if s.config.Stream == StreamShared {
		s.sampler.Reseed(s.config.Seed)
	}

	start := time.Now()
	report := &SweepReport{Matrix: matrix}
	total := n * len(s.config.Gammas)
	logger := log.Global.WithFields(logrus.Fields{
		"mode":    s.config.Mode,
		"rows":    n,
		"gammas":  s.config.Gammas,
		"events":  s.config.EventsPerCell,
		"seed":    s.config.Seed,
		"stream":  s.config.Stream,
		"onDegen": s.config.OnDegenerate,
	})
	logger.Info("Starting sweep")

	for k, gamma := range s.config.Gammas {
		col := matrix.GammaColumn(k)
		for i := 0; i < n; i++ {
			alpha := matrix.At(i, ColAlpha)
			result, ratio, cached, err := s.cell(alpha, gamma)
			if err != nil {
				var degenerate *DegenerateCellError
				if !errors.As(err, &degenerate) || s.config.OnDegenerate == AbortOnDegenerate {
					return nil, xerrors.Errorf("sweep aborted at row %d gamma %g: %w", i, gamma, err)
				}
				log.Global.WithFields(logrus.Fields{
					"alpha":  alpha,
					"gamma":  gamma,
					"events": s.config.EventsPerCell,
				}).Warn("Degenerate cell recorded as NaN")
				ratio = math.NaN()
				report.Degenerate++
			}
			matrix.Set(i, col, ratio)

			report.Cells++
			if cached {
				report.Cached++
			} else {
				report.Events += result.Events
			}
			s.cellFeed.Send(CellEvent{
				Row:    i,
				Column: col,
				Result: result,
				Ratio:  ratio,
				Cached: cached,
				Done:   report.Cells,
				Total:  total,
			})
		}
		logger.WithField("gamma", gamma).Debug("Column finished")
	}

	report.Elapsed = time.Since(start)
	logger.WithFields(logrus.Fields{
		"cells":      report.Cells,
		"cached":     report.Cached,
		"degenerate": report.Degenerate,
		"simulated":  report.Events,
		"elapsed":    report.Elapsed,
	}).Info("Sweep finished")
	return report, nil
}

// cell runs or recalls a single cell.
func (s *Sweep) cell(alpha, gamma float64) (CellResult, float64, bool, error) {
	if s.config.Stream == StreamShared {
		result, ratio, err := RunCell(alpha, gamma, s.config.EventsPerCell, s.sampler)
		return result, ratio, false, err
	}

	key := CellKey{
		BaseSeed: s.config.Seed,
		Alpha:    alpha,
		Gamma:    gamma,
		Events:   s.config.EventsPerCell,
	}
	if result, ok, err := s.lookup(key); err != nil {
		return CellResult{}, 0, false, err
	} else if ok {
		ratio, err := result.Ratio()
		return result, ratio, true, err
	}

	s.sampler.Reseed(key.Seed())
	result, ratio, err := RunCell(alpha, gamma, s.config.EventsPerCell, s.sampler)
	if err != nil {
		return result, ratio, false, err
	}
	if err := s.save(key, result); err != nil {
		return result, ratio, false, err
	}
	return result, ratio, false, nil
}

func (s *Sweep) lookup(key CellKey) (CellResult, bool, error) {
	if s.cache != nil {
		if result, ok, _ := s.cache.Lookup(key); ok {
			return result, true, nil
		}
	}
	if s.store == nil {
		return CellResult{}, false, nil
	}
	result, ok, err := s.store.Lookup(key)
	if err != nil {
		return CellResult{}, false, xerrors.Errorf("looking up cell %v: %w", key.Hash(), err)
	}
	if ok && s.cache != nil {
		s.cache.Save(key, result)
	}
	return result, ok, nil
}

func (s *Sweep) save(key CellKey, result CellResult) error {
	if s.cache != nil {
		s.cache.Save(key, result)
	}
	if s.store == nil {
		return nil
	}
	if err := s.store.Save(key, result); err != nil {
		return xerrors.Errorf("saving cell %v: %w", key.Hash(), err)
	}
	return nil
}
