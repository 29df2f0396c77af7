package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chazu/meshalyzer/pkg/config"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "meshalyzer.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
log_level = "debug"
cells = 64
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, 64, cfg.Cells)
	// Unset fields keep their defaults.
	require.Equal(t, config.Default().WeldTolerance, cfg.WeldTolerance)
	require.Equal(t, config.Default().EvalTimeout, cfg.EvalTimeout)
}

func TestLoadDuration(t *testing.T) {
	path := writeConfig(t, `eval_timeout = 2000000000`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, 2*time.Second, cfg.EvalTimeout)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{"bad log level", `log_level = "loud"`},
		{"zero cells", `cells = 0`},
		{"negative tolerance", `weld_tolerance = -1.0`},
		{"malformed toml", `cells = `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.contents))
			require.Error(t, err)
		})
	}
}
