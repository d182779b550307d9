package config

import (
	"errors"
	"os"

	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"

	"github.com/shreekarashastry/selfishmining/log"
	"github.com/shreekarashastry/selfishmining/simulation"
)

// Config is the root struct for the entire configuration file.
type Config struct {
	Sweep  SweepConfig  `yaml:"sweep"`
	Output OutputConfig `yaml:"output"`
	Log    log.Config   `yaml:"log"`
	Cache  CacheConfig  `yaml:"cache"`
}

// SweepConfig holds the parameters of the alpha/gamma sweep.
type SweepConfig struct {
	Mode          string  `yaml:"mode"`
	Gamma         float64 `yaml:"gamma"`
	SampleCount   int     `yaml:"sample_count"`
	EventsPerCell int64   `yaml:"events_per_cell"`

	// Seed is drawn at random when unset.
	Seed         *int64 `yaml:"seed"`
	Stream       string `yaml:"stream"`
	OnDegenerate string `yaml:"on_degenerate"`
}

// OutputConfig names the files a sweep produces.
type OutputConfig struct {
	Data    string `yaml:"data"`
	Plot    string `yaml:"plot"`
	Gnuplot bool   `yaml:"gnuplot"`
}

// CacheConfig sizes the in-memory cell cache and optionally names a bolt
// database that keeps cells between runs.
type CacheConfig struct {
	Size int    `yaml:"size"`
	DB   string `yaml:"db"`
}

// Default reproduces the reference scan: 1000 alpha points, a million
// events per cell, gamma in {0, 0.5, 1}.
func Default() *Config {
	return &Config{
		Sweep: SweepConfig{
			Mode:          simulation.ModeScan.String(),
			SampleCount:   simulation.DefaultSampleCount,
			EventsPerCell: simulation.DefaultEventsPerCell,
			Stream:        simulation.StreamPerCell.String(),
			OnDegenerate:  simulation.AbortOnDegenerate.String(),
		},
		Output: OutputConfig{
			Data: "data.txt",
			Plot: "plot.png",
		},
		Log: log.Config{
			Level: "info",
		},
		Cache: CacheConfig{
			Size: simulation.DefaultCacheSize,
		},
	}
}

// LoadConfig loads the YAML file at path over the defaults. The result is not
// validated, callers layer their overrides first and then call Validate.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, xerrors.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, xerrors.Errorf("failed to unmarshal config YAML: %w", err)
	}
	return config, nil
}

// Validate checks every field and reports all range violations together.
func (c *Config) Validate() error {
	_, err := c.build(0)
	return err
}

// SimulationConfig resolves the sweep section into a simulation.SweepConfig,
// drawing a random seed if none was configured.
func (c *Config) SimulationConfig() (simulation.SweepConfig, error) {
	seed := int64(0)
	if c.Sweep.Seed != nil {
		seed = *c.Sweep.Seed
	} else {
		drawn, err := simulation.RandomSeed()
		if err != nil {
			return simulation.SweepConfig{}, err
		}
		seed = drawn
	}
	return c.build(seed)
}

func (c *Config) build(seed int64) (simulation.SweepConfig, error) {
	var errs simulation.RangeErrors
	collect := func(err error) {
		var rangeErr simulation.RangeError
		if errors.As(err, &rangeErr) {
			errs = append(errs, rangeErr)
		}
	}

	mode, err := simulation.ParseMode(c.Sweep.Mode)
	collect(err)
	stream, err := simulation.ParseStreamMode(c.Sweep.Stream)
	collect(err)
	policy, err := simulation.ParseDegeneratePolicy(c.Sweep.OnDegenerate)
	collect(err)

	if c.Cache.Size < 1 {
		errs = append(errs, simulation.RangeError{Field: "cache.size", Value: c.Cache.Size, Expected: "cache.size >= 1"})
	}

	var sweep simulation.SweepConfig
	if mode == simulation.ModeSingle {
		sweep = simulation.SingleConfig(c.Sweep.Gamma, c.Sweep.SampleCount, c.Sweep.EventsPerCell, seed)
	} else {
		sweep = simulation.ScanConfig(c.Sweep.SampleCount, c.Sweep.EventsPerCell, seed)
	}
	sweep.Stream = stream
	sweep.OnDegenerate = policy

	var sweepErrs simulation.RangeErrors
	if err := sweep.Validate(); errors.As(err, &sweepErrs) {
		errs = append(errs, sweepErrs...)
	}
	if err := errs.Err(); err != nil {
		return simulation.SweepConfig{}, err
	}
	return sweep, nil
}
