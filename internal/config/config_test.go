package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, DefaultAddr, cfg.Addr)
	require.Equal(t, DefaultDBPath, cfg.DBPath)
	require.Empty(t, cfg.AdminUsername)
	require.Empty(t, cfg.AdminPassword)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MLAF_ADDR", ":9090")
	t.Setenv("MLAF_ADMIN_USERNAME", "superadmin")
	t.Setenv("MLAF_ADMIN_PASSWORD", "hunter2hunter2")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.Addr)
	require.Equal(t, "superadmin", cfg.AdminUsername)
	require.Equal(t, "hunter2hunter2", cfg.AdminPassword)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "addr: \":7070\"\ndb: /tmp/test.sqlite3\njwt_secret: file-secret\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":7070", cfg.Addr)
	require.Equal(t, "/tmp/test.sqlite3", cfg.DBPath)
	require.Equal(t, "file-secret", cfg.JWTSecret)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestEnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":7070\"\n"), 0o644))

	t.Setenv("MLAF_ADDR", ":6060")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":6060", cfg.Addr)
}
