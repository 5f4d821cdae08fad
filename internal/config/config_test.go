package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	cwd, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(cwd) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 15*time.Second, cfg.Search.Timeout)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "dev", cfg.Log.Env)
	assert.Empty(t, cfg.AdminEmails)
	assert.ErrorIs(t, cfg.RequireSecret(), ErrMissingSecret)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("BOOKCLUB_JWT_SECRET", "s3cret")
	t.Setenv("BOOKCLUB_ADMIN_EMAILS", "a@club.test, B@club.test")
	t.Setenv("BOOKCLUB_NYT_API_KEY", "nyt-key")
	t.Setenv("BOOKCLUB_SEARCH_TIMEOUT", "3s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.NoError(t, cfg.RequireSecret())
	assert.Equal(t, []string{"a@club.test", "B@club.test"}, cfg.AdminEmails)
	assert.Equal(t, "nyt-key", cfg.NYT.APIKey)
	assert.Equal(t, 3*time.Second, cfg.Search.Timeout)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	p := filepath.Join(dir, "bookclub.yml")
	require.NoError(t, os.WriteFile(p, []byte(`
addr: ":9090"
admin_emails:
  - admin@club.test
import:
  csv_url: https://sheet.example/export.csv
`), 0o644))

	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, []string{"admin@club.test"}, cfg.AdminEmails)
	assert.Equal(t, "https://sheet.example/export.csv", cfg.Import.CSVURL)
}

func TestLoad_MissingFileIsFine(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	assert.NoError(t, err)
}

func TestLoadEnvFiles_DoesNotOverrideExistingEnv(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmp, ".env"), []byte("BOOKCLUB_DB_DSN=from_file\nBOOKCLUB_ADDR=:7070\n"), 0o644))
	t.Setenv("BOOKCLUB_DB_DSN", "from_env")
	t.Cleanup(func() { _ = os.Unsetenv("BOOKCLUB_ADDR") })
	chdir(t, tmp)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "from_env", cfg.DBDSN)
	assert.Equal(t, ":7070", cfg.Addr)
}
