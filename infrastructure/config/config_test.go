package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":5001", cfg.ServerAddress)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "Profiles", cfg.ProfilesTable)
	assert.Equal(t, "Posts", cfg.PostsTable)
	assert.Equal(t, "Follows", cfg.FollowsTable)
	assert.False(t, cfg.DemoFeedEnabled())
	assert.False(t, cfg.RequireAuth)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":8080")
	t.Setenv("PROFILES_TABLE", "ProfilesTest")
	t.Setenv("ENABLE_DEMO_FEED", "true")
	t.Setenv("REQUIRE_AUTH", "1")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "ProfilesTest", cfg.ProfilesTable)
	assert.True(t, cfg.DemoFeedEnabled())
	assert.True(t, cfg.RequireAuth)
}

func TestLoadConfigFileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overlay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"serverAddress: \":9000\"\ntunables:\n  demoFeed: true\n",
	), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.ServerAddress)
	assert.True(t, cfg.DemoFeedEnabled())
}

func TestApplyFileReplacesTunables(t *testing.T) {
	cfg := &Config{ServerAddress: ":5001", tunables: Tunables{DemoFeed: true}}

	path := filepath.Join(t.TempDir(), "overlay.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tunables:\n  demoFeed: false\n"), 0o600))

	require.NoError(t, cfg.ApplyFile(path))
	assert.False(t, cfg.DemoFeedEnabled())
	assert.Equal(t, ":5001", cfg.ServerAddress)
}

func TestApplyFileConcurrentWithReads(t *testing.T) {
	cfg := &Config{ServerAddress: ":5001"}
	path := filepath.Join(t.TempDir(), "overlay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"logLevel: debug\ntunables:\n  demoFeed: true\n",
	), 0o600))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				cfg.DemoFeedEnabled()
			}
		}()
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				assert.NoError(t, cfg.ApplyFile(path))
			}
		}()
	}
	wg.Wait()

	assert.True(t, cfg.DemoFeedEnabled())
}

func TestApplyFileInvalidYAML(t *testing.T) {
	cfg := &Config{}
	path := filepath.Join(t.TempDir(), "overlay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":::"), 0o600))

	assert.Error(t, cfg.ApplyFile(path))
}

func TestValidate(t *testing.T) {
	cfg := &Config{ServerAddress: ":5001", ProfilesTable: "P", PostsTable: "P", FollowsTable: "F"}
	assert.NoError(t, cfg.Validate())

	cfg.ProfilesTable = ""
	assert.Error(t, cfg.Validate())
}

func TestSetTunables(t *testing.T) {
	cfg := &Config{}
	assert.False(t, cfg.DemoFeedEnabled())

	cfg.SetTunables(Tunables{DemoFeed: true})
	assert.True(t, cfg.DemoFeedEnabled())
}
