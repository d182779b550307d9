package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shreekarashastry/selfishmining/simulation"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func rangeFields(t *testing.T, err error) []string {
	t.Helper()
	var errs simulation.RangeErrors
	require.True(t, errors.As(err, &errs), "expected range errors, got %v", err)
	fields := make([]string, len(errs))
	for i, e := range errs {
		fields[i] = e.Field
	}
	return fields
}

func TestDefaultIsScan(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	seed := int64(5)
	cfg.Sweep.Seed = &seed
	sweep, err := cfg.SimulationConfig()
	require.NoError(t, err)
	assert.Equal(t, simulation.ModeScan, sweep.Mode)
	assert.Equal(t, []float64{0, 0.5, 1}, sweep.Gammas)
	assert.Equal(t, 1000, sweep.SampleCount)
	assert.Equal(t, int64(1000000), sweep.EventsPerCell)
	assert.Equal(t, int64(5), sweep.Seed)
	assert.Equal(t, simulation.StreamPerCell, sweep.Stream)
	assert.Equal(t, simulation.AbortOnDegenerate, sweep.OnDegenerate)
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
sweep:
  mode: single
  gamma: 0.25
  sample_count: 50
  events_per_cell: 10000
  seed: 11
  stream: shared
  on_degenerate: nan
output:
  data: out.txt
  gnuplot: true
log:
  level: debug
cache:
  db: cells.db
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "out.txt", cfg.Output.Data)
	assert.Equal(t, "plot.png", cfg.Output.Plot)
	assert.True(t, cfg.Output.Gnuplot)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "cells.db", cfg.Cache.DB)
	assert.Equal(t, simulation.DefaultCacheSize, cfg.Cache.Size)

	sweep, err := cfg.SimulationConfig()
	require.NoError(t, err)
	assert.Equal(t, simulation.ModeSingle, sweep.Mode)
	assert.Equal(t, []float64{0.25}, sweep.Gammas)
	assert.Equal(t, 50, sweep.SampleCount)
	assert.Equal(t, int64(10000), sweep.EventsPerCell)
	assert.Equal(t, int64(11), sweep.Seed)
	assert.Equal(t, simulation.StreamShared, sweep.Stream)
	assert.Equal(t, simulation.RecordNaN, sweep.OnDegenerate)
}

func TestLoadConfigRangeErrors(t *testing.T) {
	path := writeConfig(t, `
sweep:
  mode: single
  gamma: 1.5
  sample_count: 0
  events_per_cell: -1
  stream: sideways
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.ElementsMatch(t,
		[]string{"stream", "sample_count", "events_per_cell", "gamma"},
		rangeFields(t, cfg.Validate()))
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
	require.True(t, errors.Is(err, os.ErrNotExist))
}

func TestSampleCountUpperBound(t *testing.T) {
	cfg := Default()
	cfg.Sweep.SampleCount = simulation.MaxSampleCount + 1
	assert.Equal(t, []string{"sample_count"}, rangeFields(t, cfg.Validate()))

	cfg.Sweep.SampleCount = simulation.MaxSampleCount
	assert.NoError(t, cfg.Validate())
}

func TestRandomSeedWhenUnset(t *testing.T) {
	cfg := Default()
	sweep, err := cfg.SimulationConfig()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, sweep.Seed, int64(0))
}
