package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmaster/internal/storage/sqlstore"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"TODO_CONFIG", "TODO_DB_DRIVER", "TODO_DB_DSN", "TODO_DB_PATH", "TODO_LOG_LEVEL", "TODO_LOG_FORMAT"} {
		t.Setenv(key, "")
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "todo version "+Version)
}

func TestMigrateCommand(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	db := filepath.Join(dir, "todo.db")
	env := filepath.Join(dir, "none.env")

	out, err := run(t, "migrate", "--env-file", env, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "applied migration")
	assert.Contains(t, out, "schema version 3")

	out, err = run(t, "migrate", "--env-file", env, "--db", db)
	require.NoError(t, err)
	assert.NotContains(t, out, "applied migration")
	assert.Contains(t, out, "schema version 3")
	assert.Equal(t, 3, sqlstore.LatestVersion())
}

func TestInvalidConfigurationIsRejected(t *testing.T) {
	isolateEnv(t)
	env := filepath.Join(t.TempDir(), "none.env")

	_, err := run(t, "migrate", "--env-file", env, "--db-driver", "mysql")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")

	_, err = run(t, "serve", "--env-file", env, "--log-level", "loud", "--db", filepath.Join(t.TempDir(), "x.db"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
	assert.Contains(t, err.Error(), `invalid log level "loud"`)

	t.Setenv("TODO_BCRYPT_COST", "99")
	_, err = run(t, "migrate", "--env-file", env, "--db", filepath.Join(t.TempDir(), "y.db"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
	assert.Contains(t, err.Error(), "bcrypt_cost 99")
}
