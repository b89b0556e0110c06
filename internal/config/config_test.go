package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"SETUP_PACKAGE_MANAGER", "SETUP_LOG_LEVEL", "SETUP_LOG_FILE", "SETUP_DB_PROBE", "PORT"} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.BackendDir != "backend" {
		t.Errorf("expected BackendDir=backend, got %s", cfg.BackendDir)
	}
	if cfg.MinRuntimeMajor != 22 {
		t.Errorf("expected MinRuntimeMajor=22, got %d", cfg.MinRuntimeMajor)
	}
	if cfg.Server.Port != "9000" {
		t.Errorf("expected Server.Port=9000, got %s", cfg.Server.Port)
	}
	if cfg.FrontendAPIURL != "http://localhost:9000" {
		t.Errorf("unexpected FrontendAPIURL %s", cfg.FrontendAPIURL)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestConfig_SaveLoad(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "nested", FileName)

	cfg := DefaultConfig()
	cfg.PackageManager = "pnpm"
	cfg.InstallArgs = []string{"install", "--frozen-lockfile"}
	cfg.Database.Probe = true

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "pnpm", loaded.PackageManager)
	assert.Equal(t, []string{"install", "--frozen-lockfile"}, loaded.InstallArgs)
	assert.True(t, loaded.Database.Probe)
}

func TestLoad_PartialFileKeepsOtherDefaults(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("min_runtime_major: 20\nserver:\n  port: \"8081\"\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.MinRuntimeMajor)
	assert.Equal(t, "8081", cfg.Server.Port)
	assert.Equal(t, "frontend", cfg.FrontendDir)
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("backend_dir: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Run("package manager updates prerequisite too", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SETUP_PACKAGE_MANAGER", "yarn")

		cfg := DefaultConfig()
		cfg.ApplyEnvOverrides()

		assert.Equal(t, "yarn", cfg.PackageManager)
		assert.Equal(t, "yarn", cfg.Prerequisites.PackageManager)
	})

	t.Run("probe parses booleans and ignores garbage", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SETUP_DB_PROBE", "true")
		cfg := DefaultConfig()
		cfg.ApplyEnvOverrides()
		assert.True(t, cfg.Database.Probe)

		t.Setenv("SETUP_DB_PROBE", "maybe")
		cfg = DefaultConfig()
		cfg.ApplyEnvOverrides()
		assert.False(t, cfg.Database.Probe)
	})

	t.Run("PORT overrides server port", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PORT", "7000")
		cfg := DefaultConfig()
		cfg.ApplyEnvOverrides()
		assert.Equal(t, ":7000", cfg.ServerAddr())
	})
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BackendDir = ""
	cfg.MinRuntimeMajor = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend_dir")
	assert.Contains(t, err.Error(), "min_runtime_major")
}

func TestGetProbeTimeout(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 3*time.Second, cfg.GetProbeTimeout())

	cfg.Database.ProbeTimeout = "500ms"
	assert.Equal(t, 500*time.Millisecond, cfg.GetProbeTimeout())

	cfg.Database.ProbeTimeout = "soon"
	assert.Equal(t, 3*time.Second, cfg.GetProbeTimeout())
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, LoadEnvFile(filepath.Join(dir, ".env")))

	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("SETUP_TEST_LOADED=yes\n"), 0644))
	t.Setenv("SETUP_TEST_LOADED", "")
	os.Unsetenv("SETUP_TEST_LOADED")

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "yes", os.Getenv("SETUP_TEST_LOADED"))
}
