package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
)

// chdir runs the test inside an empty directory so no stray .env is loaded.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

// clearEnv unsets the bookkeeper variables for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvDB, EnvLogLevel, EnvExportDir} {
		t.Setenv(key, "")
		assert.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadDefaults(t *testing.T) {
	chdir(t)
	clearEnv(t)

	cfg, err := Load("")
	assert.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadLayers(t *testing.T) {
	dir := chdir(t)
	clearEnv(t)
	t.Setenv(EnvExportDir, "/from/env")

	path := filepath.Join(dir, "bookkeeper.yaml")
	assert.NoError(t, os.WriteFile(path, []byte("db: /from/yaml.sqlite\nlog_level: warn\nexport_dir: /from/yaml\n"), 0o644))

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, "/from/yaml.sqlite", cfg.DB)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "/from/env", cfg.ExportDir)
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdir(t)
	clearEnv(t)
	t.Setenv(EnvLogLevel, "debug")
	assert.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("BOOKKEEPER_DB=/from/dotenv.sqlite\nBOOKKEEPER_LOG_LEVEL=error\n"), 0o644))

	cfg, err := Load("")
	assert.NoError(t, err)
	assert.Equal(t, "/from/dotenv.sqlite", cfg.DB)
	// variables that are already set win over .env
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadExpandsHome(t *testing.T) {
	chdir(t)
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnv(t)
	t.Setenv(EnvDB, "~/books/data.sqlite")

	cfg, err := Load("")
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "books", "data.sqlite"), cfg.DB)
}

func TestLoadErrors(t *testing.T) {
	dir := chdir(t)

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(dir, "broken.yaml")
	assert.NoError(t, os.WriteFile(path, []byte("db: [unterminated"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestValidateCollectsProblems(t *testing.T) {
	cfg := &Config{DB: " ", LogLevel: "loud", ExportDir: ""}
	assert.EqualError(t, cfg.Validate(),
		`invalid configuration: db path must not be empty; unknown log level "loud"; export dir must not be empty`)
}
