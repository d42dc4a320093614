package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qmt-data/internal/app"
	"qmt-data/internal/saver"
)

func TestInitializeApp(t *testing.T) {
	a, cleanup, err := InitializeApp(app.Overrides{
		EnvFile:    filepath.Join(t.TempDir(), "none.env"),
		SaveFormat: "json",
		Workers:    3,
	})
	require.NoError(t, err)
	defer cleanup()

	assert.Nil(t, a.Store)
	assert.Nil(t, a.Runner.Sink)
	assert.Equal(t, 3, a.Runner.Workers)
	assert.IsType(t, saver.JSONSaver{}, a.Saver)
	assert.Same(t, a.Parser, a.Runner.Parser)
	assert.Same(t, a.Metrics, a.Runner.Metrics)
}

func TestInitializeAppRejectsFormat(t *testing.T) {
	_, _, err := InitializeApp(app.Overrides{
		EnvFile:    filepath.Join(t.TempDir(), "none.env"),
		SaveFormat: "orc",
	})
	assert.Error(t, err)
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCMD.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"parse", "batch", "markets", "serve"} {
		assert.True(t, names[want], want)
	}
}
