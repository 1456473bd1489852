package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/newsdaily/newsdaily/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, ":3333", cfg.Addr)
	require.Equal(t, "list", cfg.FeaturedMode)
	require.Equal(t, 3, cfg.RevealStep)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"addr: \":8080\"\nfeatured_mode: random\ndb_path: news.db\n"), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Addr)
	require.Equal(t, "random", cfg.FeaturedMode)
	require.Equal(t, "news.db", cfg.DBPath)
	// Untouched keys keep their defaults.
	require.Equal(t, ":9999", cfg.DiagAddr)
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("featured_mode: shuffled\n"), 0o600))

	_, err := config.Load(path)
	require.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("reveal_step: -1\n"), 0o600))
	_, err = config.Load(path)
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("NEWSDAILY_TEST_KEY", "value")
	require.Equal(t, "value", config.GetEnv("NEWSDAILY_TEST_KEY", "fallback"))
	require.Equal(t, "fallback", config.GetEnv("NEWSDAILY_TEST_MISSING", "fallback"))

	t.Setenv("NEWSDAILY_TEST_BOOL", "true")
	require.True(t, config.GetEnvBool("NEWSDAILY_TEST_BOOL", false))
	require.False(t, config.GetEnvBool("NEWSDAILY_TEST_MISSING", false))

	t.Setenv("NEWSDAILY_TEST_BOOL", "not-a-bool")
	require.True(t, config.GetEnvBool("NEWSDAILY_TEST_BOOL", true))
}
