package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Account = "someone@example.com"
	cfg.RunLog = "logs/import-log.csv"
	cfg.Gmail.Query = "from:monzo.com"

	path := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "me", cfg.Account)
	assert.Equal(t, 500, cfg.MaxResults)
	assert.Equal(t, "transactions.json", cfg.Output)
	assert.Equal(t, "json", cfg.Format)
	assert.Empty(t, cfg.RunLog)
	assert.Empty(t, cfg.Gmail.Query)
	assert.Equal(t, "credentials.json", cfg.Gmail.CredentialsFile)
	assert.Equal(t, "token.json", cfg.Gmail.TokenFile)
	assert.Equal(t, 8, cfg.Gmail.Concurrency)
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte("max_results: 50\ngmail:\n  token_file: tok.json\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.MaxResults)
	assert.Equal(t, "tok.json", cfg.Gmail.TokenFile)
	assert.Equal(t, "transactions.json", cfg.Output)
	assert.Equal(t, "credentials.json", cfg.Gmail.CredentialsFile)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadOptional(t *testing.T) {
	cfg, err := LoadOptional(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte("max_results: [nope"), 0o644))

	_, err := LoadOptional(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "account: me")
	assert.Contains(t, contents, "max_results: 500")
	assert.Contains(t, contents, "output: transactions.json")
	assert.Contains(t, contents, "credentials_file: credentials.json")
	assert.NotContains(t, contents, "run_log")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvAccount:   "other@example.com",
		EnvTokenFile: "/secrets/token.json",
	}
	cfg := Default()
	cfg.ApplyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "other@example.com", cfg.Account)
	assert.Equal(t, "/secrets/token.json", cfg.Gmail.TokenFile)
	assert.Equal(t, "transactions.json", cfg.Output)
	assert.Equal(t, "credentials.json", cfg.Gmail.CredentialsFile)
}

func TestLoadEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("MONZO_MAIL_TEST_ONLY=from-dotenv\n"), 0o644))
	t.Setenv("MONZO_MAIL_TEST_ONLY", "")
	os.Unsetenv("MONZO_MAIL_TEST_ONLY")

	require.NoError(t, LoadEnv(path))
	assert.Equal(t, "from-dotenv", os.Getenv("MONZO_MAIL_TEST_ONLY"))
}

func TestLoadEnv_Missing(t *testing.T) {
	assert.NoError(t, LoadEnv(filepath.Join(t.TempDir(), ".env")))
}
