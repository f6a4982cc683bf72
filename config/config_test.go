package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/marcobambini/TileDB/config"
)

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	require.Equal(t, 1.0, cfg.Estimation.Amplification)
	require.Equal(t, 0, cfg.Executor.MaxConcurrency)
}

func TestParse_OverridesGivenFields(t *testing.T) {
	cfg, err := config.Parse([]byte(`
[estimation]
amplification = 1.5

[executor]
max-concurrency = 8
`))
	require.NoError(t, err)
	require.Equal(t, 1.5, cfg.Estimation.Amplification)
	require.Equal(t, 8, cfg.Executor.MaxConcurrency)
}

func TestParse_PartialFileKeepsOtherDefaults(t *testing.T) {
	cfg, err := config.Parse([]byte(`
[executor]
max-concurrency = 2
`))
	require.NoError(t, err)
	require.Equal(t, 1.0, cfg.Estimation.Amplification)
	require.Equal(t, 2, cfg.Executor.MaxConcurrency)
}

func TestParse_InvalidTOMLFails(t *testing.T) {
	_, err := config.Parse([]byte(`not = [valid toml`))
	require.Error(t, err)
}

func TestLoad_ReadsFileFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[estimation]
amplification = 2.0
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, 2.0, cfg.Estimation.Amplification)
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.Error(t, err)
}
