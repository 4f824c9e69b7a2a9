package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("config", "", "")
	fs.String("database", "", "")
	fs.String("schema", "", "")
	fs.String("inspector", "", "")
	fs.String("log-level", "", "")
	fs.Bool("tx", true, "")
	fs.BoolP("verbose", "v", false, "")
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultDatabase, cfg.Database)
	assert.Equal(t, DefaultSchema, cfg.Schema)
	assert.Equal(t, InspectorPragma, cfg.Inspector)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.True(t, cfg.Tx)
	assert.False(t, cfg.Verbose)
	assert.Empty(t, cfg.File)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "liteddl.yaml"), []byte(`
database: from-file.db
schema: from-file.yaml
inspector: atlas
log_format: json
tx: false
`), 0o600))
	t.Setenv("LITEDDL_SCHEMA", "from-env.yaml")
	t.Setenv("LITEDDL_LOG_LEVEL", "warn")

	fs := newFlags()
	require.NoError(t, fs.Parse([]string{"--log-level", "error"}))

	cfg, err := Load("", fs)
	require.NoError(t, err)
	assert.Equal(t, "liteddl.yaml", cfg.File)
	assert.Equal(t, "from-file.db", cfg.Database)
	assert.Equal(t, "from-env.yaml", cfg.Schema)
	assert.Equal(t, InspectorAtlas, cfg.Inspector)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.False(t, cfg.Tx)

	// Unchanged flags keep lower sources.
	fs = newFlags()
	require.NoError(t, fs.Parse([]string{"--database", "flag.db"}))
	cfg, err = Load("", fs)
	require.NoError(t, err)
	assert.Equal(t, "flag.db", cfg.Database)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.False(t, cfg.Tx)
}

func TestLoad_ExplicitFile(t *testing.T) {
	chdir(t, t.TempDir())
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database: custom.db\n"), 0o600))
	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.File)
	assert.Equal(t, "custom.db", cfg.Database)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{Inspector: InspectorPragma, LogFormat: "text", LogLevel: "debug"}
	require.NoError(t, valid.Validate())

	c := valid
	c.Inspector = "magic"
	assert.ErrorContains(t, c.Validate(), `invalid inspector "magic"`)

	c = valid
	c.LogFormat = "xml"
	assert.ErrorContains(t, c.Validate(), `invalid log_format "xml"`)

	c = valid
	c.LogLevel = "loud"
	assert.ErrorContains(t, c.Validate(), `invalid log_level "loud"`)
}

func TestConfig_Level(t *testing.T) {
	c := Config{LogLevel: "warn"}
	l, err := c.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, l)

	c.Verbose = true
	l, err = c.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, l)
}

func TestLoad_InvalidEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("LITEDDL_INSPECTOR", "nope")
	_, err := Load("", nil)
	require.Error(t, err)
}
