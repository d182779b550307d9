package log

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestConfigureLevel(t *testing.T) {
	defer Global.SetLevel(logrus.InfoLevel)

	require.NoError(t, Configure(Config{Level: "debug"}))
	require.Equal(t, logrus.DebugLevel, Global.GetLevel())

	require.Error(t, Configure(Config{Level: "chatty"}))
}

func TestConfigureFile(t *testing.T) {
	defer func() {
		Global.SetOutput(os.Stderr)
		Global.SetLevel(logrus.InfoLevel)
	}()

	path := filepath.Join(t.TempDir(), "sweep.log")
	require.NoError(t, Configure(Config{Level: "info", File: path}))

	Global.WithField("cells", 3).Info("sweep finished")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "sweep finished")
	require.Contains(t, string(data), "cells=3")
}
