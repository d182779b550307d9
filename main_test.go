package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dominant-strategies/go-quai/event"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/shreekarashastry/selfishmining/config"
	"github.com/shreekarashastry/selfishmining/log"
	"github.com/shreekarashastry/selfishmining/simulation"
	"github.com/shreekarashastry/selfishmining/store"
)

func TestApplyPositionalNone(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, applyPositional(nil, cfg))
	assert.Equal(t, "scan", cfg.Sweep.Mode)
}

func TestApplyPositionalSingle(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, applyPositional([]string{"0.35", "200", "50000"}, cfg))
	assert.Equal(t, "single", cfg.Sweep.Mode)
	assert.Equal(t, 0.35, cfg.Sweep.Gamma)
	assert.Equal(t, 200, cfg.Sweep.SampleCount)
	assert.Equal(t, int64(50000), cfg.Sweep.EventsPerCell)
	require.NoError(t, cfg.Validate())
}

func TestApplyPositionalWrongCount(t *testing.T) {
	for _, args := range [][]string{{"0.5"}, {"0.5", "10"}, {"0.5", "10", "10", "10"}} {
		err := applyPositional(args, config.Default())
		assert.True(t, errors.Is(err, errUsage), "args=%v", args)
	}
}

func TestApplyPositionalNotNumbers(t *testing.T) {
	err := applyPositional([]string{"half", "ten", "-"}, config.Default())
	var errs simulation.RangeErrors
	require.True(t, errors.As(err, &errs))
	require.Len(t, errs, 3)
}

func TestOutOfRangePositional(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, applyPositional([]string{"1.2", "0", "-3"}, cfg))
	err := badInput(cfg.Validate())

	var exit cli.ExitCoder
	require.True(t, errors.As(err, &exit))
	assert.Equal(t, exitBadInput, exit.ExitCode())
	msg := err.Error()
	assert.True(t, strings.HasPrefix(msg, "parameter out of range:"))
	assert.Contains(t, msg, "gamma = 1.2, expected 0 <= gamma <= 1")
	assert.Contains(t, msg, "sample_count = 0")
	assert.Contains(t, msg, "events_per_cell = -3")
}

func TestPositionalOverridesConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("sweep:\n  sample_count: 0\n"), 0o644))

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	require.Error(t, cfg.Validate())

	require.NoError(t, applyPositional([]string{"0.5", "10", "100"}, cfg))
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 10, cfg.Sweep.SampleCount)
}

func TestReportProgressDrainsAfterUnsubscribe(t *testing.T) {
	hook := logtest.NewLocal(log.Global)
	level := log.Global.GetLevel()
	log.Global.SetLevel(logrus.InfoLevel)
	defer func() {
		log.Global.SetLevel(level)
		log.Global.ReplaceHooks(make(logrus.LevelHooks))
	}()

	var feed event.Feed
	events := make(chan simulation.CellEvent, 10)
	sub := feed.Subscribe(events)
	for i := 1; i <= 10; i++ {
		events <- simulation.CellEvent{Done: i, Total: 10}
	}
	sub.Unsubscribe()

	done := make(chan struct{})
	reportProgress(events, sub, done)
	<-done

	require.Empty(t, events)
	require.Len(t, hook.AllEntries(), 10)
	assert.Equal(t, "Sweep 100% complete", hook.LastEntry().Message)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	seed := int64(1)
	cfg := config.Default()
	cfg.Sweep.Seed = &seed
	cfg.Sweep.SampleCount = 10
	cfg.Sweep.EventsPerCell = 5000
	cfg.Output.Data = filepath.Join(dir, "data.txt")
	cfg.Output.Plot = filepath.Join(dir, "plot.png")
	cfg.Log.Level = "warn"
	return cfg
}

func TestExecuteScan(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, execute(cfg))

	data, err := os.ReadFile(cfg.Output.Data)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 10)
	for _, line := range lines {
		require.Len(t, strings.Fields(line), 5)
	}

	_, err = os.Stat(cfg.Output.Plot)
	require.NoError(t, err)
}

func TestExecuteWithCacheDB(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output.Plot = ""
	cfg.Cache.DB = filepath.Join(t.TempDir(), "cells.db")
	require.NoError(t, applyPositional([]string{"0.5", "4", "1000"}, cfg))
	require.NoError(t, execute(cfg))

	cells, err := store.Open(cfg.Cache.DB)
	require.NoError(t, err)
	defer cells.Close()
	n, err := cells.Len()
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestExecuteDegenerateAborts(t *testing.T) {
	cfg := testConfig(t)
	cfg.Sweep.EventsPerCell = 0
	err := execute(cfg)
	require.True(t, errors.Is(err, simulation.ErrDegenerateCell))

	_, statErr := os.Stat(cfg.Output.Data)
	require.True(t, os.IsNotExist(statErr))
}
