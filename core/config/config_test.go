package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "bulkdozer", cfg.Storage.Bucket)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 4, cfg.Remote.Retries)
	assert.Equal(t, 8*time.Second, cfg.Remote.RetryDelay)
	assert.Equal(t, 6*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "memory", cfg.Cache.SharedBackend)
	assert.Equal(t, "Store", cfg.Sync.StoreTable)
	assert.Equal(t, "exports", cfg.Sync.ExportPrefix)
	assert.False(t, cfg.Sync.ContinueOnError)
	assert.Equal(t, 20, cfg.Sync.BackupKeep)
}

func TestLoadConfig_EnvFile(t *testing.T) {
	dir := t.TempDir()
	env := "REMOTE_PROFILE_ID=4321\nSYNC_CONTINUE_ON_ERROR=true\nCACHE_TTL=30m\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("REMOTE_PROFILE_ID")
		os.Unsetenv("SYNC_CONTINUE_ON_ERROR")
		os.Unsetenv("CACHE_TTL")
	})

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "4321", cfg.Remote.ProfileID)
	assert.True(t, cfg.Sync.ContinueOnError)
	assert.Equal(t, 30*time.Minute, cfg.Cache.TTL)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SYNC_STORE_TABLE", "Ids")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "Ids", cfg.Sync.StoreTable)
}
