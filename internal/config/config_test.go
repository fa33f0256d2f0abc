package config

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindConfigFile_ExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("schemas_dir: defs"), 0o644))

	got, err := findConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, got)
}

func TestFindConfigFile_ExplicitPathNotFound(t *testing.T) {
	_, err := findConfigFile("/nonexistent/path/worm.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestFindConfigFile_AutoDiscovery(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	path := filepath.Join(root, "worm.yml")
	require.NoError(t, os.WriteFile(path, []byte("schemas_dir: defs"), 0o644))
	nested := filepath.Join(root, "deep", "nested")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	t.Chdir(nested)

	got, err := findConfigFile("")
	require.NoError(t, err)

	// Resolve symlinks for comparison (macOS /var -> /private/var)
	want, _ := filepath.EvalSymlinks(path)
	got, _ = filepath.EvalSymlinks(got)
	assert.Equal(t, want, got)
}

func TestFindConfigFile_StopsAtRepoRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "worm.yaml"), []byte(""), 0o644))
	repo := filepath.Join(root, "repo")
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o755))
	t.Chdir(repo)

	got, err := findConfigFile("")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.Mkdir(".git", 0o755))

	cfg, path, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, &Config{
		SchemasDir: "schemas",
		Database:   DatabaseConfig{Driver: "sqlite", DSN: "file:worm.db"},
		Log:        LogConfig{Level: "info"},
	}, cfg)
	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worm.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`schemas_dir: defs
database:
  dsn: "file:test.db?mode=memory"
  debug: true
log:
  level: debug
`), 0o644))
	t.Setenv("WORM_SCHEMAS_DIR", "from-env")

	cfg, got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, got)
	assert.Equal(t, "from-env", cfg.SchemasDir)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "file:test.db?mode=memory", cfg.Database.DSN)
	assert.True(t, cfg.Database.Debug)
	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	assert.Equal(t, "override", cfg.ResolvedSchemasDir("override"))
	assert.Equal(t, "from-env", cfg.ResolvedSchemasDir(""))
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "worm.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("schemas_dir: [unclosed"), 0o644))
	_, _, err := Load(bad)
	assert.ErrorContains(t, err, "reading config file")

	level := filepath.Join(dir, "level.yaml")
	require.NoError(t, os.WriteFile(level, []byte("log:\n  level: loud\n"), 0o644))
	_, _, err = Load(level)
	assert.ErrorContains(t, err, "log.level")
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	code := Report(&buf, SchemaError("checking schemas", errors.New("bad field")))
	assert.Equal(t, ExitSchema, code)
	assert.Equal(t, "Error: checking schemas: bad field\n", buf.String())

	buf.Reset()
	assert.Equal(t, ExitGeneral, Report(&buf, errors.New("boom")))
	assert.Equal(t, ExitConfig, Report(&buf, ConfigError("loading configuration", nil)))
	assert.Equal(t, ExitDatabase, Report(&buf, DatabaseError("opening database", nil)))
	assert.Contains(t, buf.String(), "Error: opening database\n")
}
