package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DisasterPipeline/internal/domain"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{configPathEnv, logLevelEnv, ifExistsEnv, strictEnv, batchSizeEnv} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load("")
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, ',', cfg.Input.DelimiterRune())
	assert.Equal(t, "id", cfg.Input.JoinKey)
	assert.Equal(t, "categories", cfg.Cleaning.Field)
	assert.Equal(t, ";", cfg.Cleaning.Separator)
	assert.False(t, cfg.Cleaning.Strict)
	assert.Equal(t, "fail", cfg.Storage.IfExists)
	assert.Equal(t, 500, cfg.Storage.BatchSize)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "etl.yaml")
	content := `logging:
  level: debug
input:
  delimiter: "\t"
cleaning:
  strict: true
storage:
  ifExists: replace
  batchSize: 50
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := Load(path)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, '\t', cfg.Input.DelimiterRune())
	assert.Equal(t, "id", cfg.Input.JoinKey)
	assert.True(t, cfg.Cleaning.Strict)
	assert.Equal(t, "categories", cfg.Cleaning.Field)
	assert.Equal(t, "replace", cfg.Storage.IfExists)
	assert.Equal(t, 50, cfg.Storage.BatchSize)
}

func TestLoadFileFromEnvPath(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "etl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("input:\n  joinKey: message_id\n"), 0o644))
	t.Setenv(configPathEnv, path)

	cfg := Load("")
	assert.Equal(t, "message_id", cfg.Input.JoinKey)
}

func TestLoadFallsBackOnBadFile(t *testing.T) {
	clearEnv(t)

	cfg := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Equal(t, defaultConfig(), cfg)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage: [unclosed"), 0o644))
	cfg = Load(path)
	assert.Equal(t, defaultConfig(), cfg)
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "etl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  ifExists: replace\n"), 0o644))

	t.Setenv(logLevelEnv, "warn")
	t.Setenv(ifExistsEnv, "append")
	t.Setenv(strictEnv, "true")
	t.Setenv(batchSizeEnv, "25")

	cfg := Load(path)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "append", cfg.Storage.IfExists)
	assert.True(t, cfg.Cleaning.Strict)
	assert.Equal(t, 25, cfg.Storage.BatchSize)
}

func TestEnvOverridesIgnoreGarbage(t *testing.T) {
	clearEnv(t)
	t.Setenv(strictEnv, "maybe")
	t.Setenv(batchSizeEnv, "lots")

	cfg := Load("")
	assert.False(t, cfg.Cleaning.Strict)
	assert.Equal(t, 500, cfg.Storage.BatchSize)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "multi-char delimiter", mutate: func(c *Config) { c.Input.Delimiter = ";;" }},
		{name: "empty delimiter", mutate: func(c *Config) { c.Input.Delimiter = "" }},
		{name: "empty join key", mutate: func(c *Config) { c.Input.JoinKey = " " }},
		{name: "empty separator", mutate: func(c *Config) { c.Cleaning.Separator = "" }},
		{name: "zero batch", mutate: func(c *Config) { c.Storage.BatchSize = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			assert.True(t, errors.Is(err, domain.ErrInvalidConfig), "got %v", err)
		})
	}
}
