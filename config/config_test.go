package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[search]
window = "1MiB"
limit = 50

[resources]
memory_limit = "256 MiB"
io_limit = "10MB"

[cache]
sharded = true

[log]
level = "debug"
format = "json"

[s3]
region = "eu-west-1"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, Size(1<<20), cfg.Search.Window)
	assert.Equal(t, uint32(50), cfg.Search.Limit)
	// Untouched keys keep their defaults.
	assert.Equal(t, Size(32<<20), cfg.Search.AsyncThreshold)
	assert.Equal(t, Size(256<<20), cfg.Resources.MemoryLimit)
	assert.Equal(t, Size(10_000_000), cfg.Resources.IOLimit)
	assert.True(t, cfg.Cache.Enabled)
	assert.True(t, cfg.Cache.Sharded)
	assert.Equal(t, "eu-west-1", cfg.S3.Region)
	assert.Equal(t, "localhost:9000", cfg.Minio.Endpoint)

	lvl, err := cfg.Log.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(writeConfig(t, "[search]\nlimit = 0\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Load(writeConfig(t, "[log]\nlevel = \"loud\"\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Load(writeConfig(t, "[log]\nformat = \"xml\"\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Load(writeConfig(t, "[search]\nwindow = \"lots\"\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "not toml ["))
	assert.Error(t, err)
}

func TestLoadOrDefault_Missing(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestSave_RoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Search.Window = 8 << 20
	cfg.Minio.Secure = true

	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestSize_Text(t *testing.T) {
	for in, want := range map[Size]string{
		0:          "0",
		64 << 10:   "64KiB",
		3 << 30:    "3GiB",
		10_000_000: "10000000",
	} {
		b, err := in.MarshalText()
		require.NoError(t, err)
		assert.Equal(t, want, string(b))

		var back Size
		require.NoError(t, back.UnmarshalText(b))
		assert.Equal(t, in, back)
	}
	assert.Equal(t, "64 KiB", Size(64<<10).String())
}
