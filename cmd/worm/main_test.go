package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remdragon/worm"
	"github.com/remdragon/worm/dialect/sql"
	"github.com/remdragon/worm/internal/config"
)

const usersYAML = `entity: Users
fields:
  - name: user_id
    type: uint32
    attribute: integer(primary = true)
  - name: user_name
    type: string
    attribute: varchar(size = 120, null = false, unique = true)
  - name: note
    type: string
    attribute: text
`

// setup writes a config file and a schemas directory under a temporary
// directory and returns the config path and the directory.
func setup(t *testing.T, schemas map[string]string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	schemasDir := filepath.Join(dir, "schemas")
	require.NoError(t, os.Mkdir(schemasDir, 0o755))
	for name, content := range schemas {
		require.NoError(t, os.WriteFile(filepath.Join(schemasDir, name), []byte(content), 0o644))
	}
	cfgPath := filepath.Join(dir, "worm.yaml")
	cfg := "schemas_dir: " + schemasDir + "\ndatabase:\n  dsn: file:" + filepath.Join(dir, "app.db") + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))
	return cfgPath, dir
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestSQL(t *testing.T) {
	cfgPath, _ := setup(t, map[string]string{"users.yaml": usersYAML})

	out, _, err := run(t, "--config", cfgPath, "sql", "--variants")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, []string{
		"-- Users",
		"CREATE TABLE IF NOT EXISTS Users ( user_id INTEGER NOT NULL PRIMARY KEY, user_name VARCHAR(120) NOT NULL UNIQUE, note TEXT );",
		"DROP TABLE Users;",
		"INSERT INTO Users (user_id, user_name, note) VALUES (?1, ?2, ?3);",
		"UPDATE Users SET user_id = ?2, user_name = ?3, note = ?4 WHERE user_id = ?1;",
		"UPDATE Users SET user_id = ?4, user_name = ?5, note = ?6 WHERE user_id = ?1 AND user_name = ?2 AND note = ?3;",
		"SELECT user_id, user_name, note FROM Users;",
		"SELECT COUNT( user_id ) FROM Users;",
		"DELETE FROM Users;",
	}, lines[:9])
	assert.Equal(t, "-- filter UserIdGreaterThan", lines[9])
	assert.Len(t, lines, 9+15)
}

func TestSQL_NoPrimaryKey(t *testing.T) {
	cfgPath, dir := setup(t, nil)
	path := filepath.Join(dir, "log.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"entity": "Log", "fields": [{"name": "line", "type": "string", "attribute": "text"}]}`), 0o644))

	out, _, err := run(t, "--config", cfgPath, "sql", path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "UPDATE "))
	assert.Contains(t, out, "UPDATE Log SET line = ?2 WHERE line = ?1;")
}

func TestCheck(t *testing.T) {
	cfgPath, _ := setup(t, map[string]string{"users.yaml": usersYAML})
	out, _, err := run(t, "--config", cfgPath, "check")
	require.NoError(t, err)
	assert.Equal(t, "1 schemas are valid:\n  - Users (table Users, 3 columns)\n", out)

	cfgPath, _ = setup(t, map[string]string{"bad.yaml": "entity: Bad\nfields:\n  - name: id\n    type: int32\n    attribute: varchar(size = 3)\n"})
	_, _, err = run(t, "--config", cfgPath, "check")
	require.Error(t, err)
	var buf bytes.Buffer
	assert.Equal(t, config.ExitSchema, config.Report(&buf, err))
	assert.Contains(t, buf.String(), "type incompatible with varchar")

	_, _, err = run(t, "--config", cfgPath, "check", "no-such-dir")
	assert.Equal(t, config.ExitSchema, config.Report(&buf, err))
}

func TestApply(t *testing.T) {
	cfgPath, dir := setup(t, map[string]string{"users.yaml": usersYAML})

	out, _, err := run(t, "--config", cfgPath, "apply", "--dry-run")
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE IF NOT EXISTS Users ( user_id INTEGER NOT NULL PRIMARY KEY, user_name VARCHAR(120) NOT NULL UNIQUE, note TEXT );\n", out)

	out, _, err = run(t, "--config", cfgPath, "apply")
	require.NoError(t, err)
	assert.Equal(t, "Created 1 tables.\n", out)

	drv, err := worm.Open("sqlite", "file:"+filepath.Join(dir, "app.db"))
	require.NoError(t, err)
	defer drv.Close()
	rows := &sql.Rows{}
	require.NoError(t, drv.Query(context.Background(), "SELECT name FROM sqlite_master WHERE type = 'table'", []any{}, rows))
	var tables []string
	require.NoError(t, sql.ScanAll(rows, func(sc sql.ColumnScanner) error {
		var name string
		if err := sc.Scan(&name); err != nil {
			return err
		}
		tables = append(tables, name)
		return nil
	}))
	assert.Equal(t, []string{"Users"}, tables)
}

func TestConfigShow(t *testing.T) {
	cfgPath, dir := setup(t, nil)
	out, _, err := run(t, "--config", cfgPath, "config", "show", "--source")
	require.NoError(t, err)
	assert.Contains(t, out, "Config file: "+cfgPath)
	assert.Contains(t, out, "schemas_dir: "+filepath.Join(dir, "schemas"))
	assert.Contains(t, out, "driver: sqlite")
}

func TestConfigError(t *testing.T) {
	_, _, err := run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "check")
	var buf bytes.Buffer
	assert.Equal(t, config.ExitConfig, config.Report(&buf, err))
}

func TestApply_Debug(t *testing.T) {
	cfgPath, _ := setup(t, map[string]string{"users.yaml": usersYAML})
	t.Setenv("WORM_DATABASE_DEBUG", "true")

	_, stderr, err := run(t, "--config", cfgPath, "-v", "apply")
	require.NoError(t, err)
	assert.Contains(t, stderr, "exec: CREATE TABLE IF NOT EXISTS Users")
	assert.Contains(t, stderr, "create=1 total=1")
}
