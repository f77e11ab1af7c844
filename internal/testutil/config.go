package testutil

import (
	"testing"

	"github.com/lepinkainen/stacks/internal/config"
	"github.com/spf13/viper"
)

// ConfigState holds the state of the config package variables.
type ConfigState struct {
	OverwriteFiles bool
	DownloadCovers bool
}

// SaveConfigState captures the current state of config package variables.
func SaveConfigState() ConfigState {
	return ConfigState{
		OverwriteFiles: config.OverwriteFiles,
		DownloadCovers: config.DownloadCovers,
	}
}

// RestoreConfigState restores the config package variables to a saved state.
func RestoreConfigState(state ConfigState) {
	config.OverwriteFiles = state.OverwriteFiles
	config.DownloadCovers = state.DownloadCovers
}

// ResetConfig saves the current config state and schedules restoration
// when the test completes. It also resets viper.
func ResetConfig(t *testing.T) {
	t.Helper()

	state := SaveConfigState()

	viper.Reset()

	t.Cleanup(func() {
		RestoreConfigState(state)
		viper.Reset()
	})
}

// SetTestConfig sets up a test configuration with common defaults.
// It saves the current state and restores it when the test completes.
func SetTestConfig(t *testing.T) {
	t.Helper()

	state := SaveConfigState()

	viper.Reset()

	// Set common test defaults
	config.OverwriteFiles = true
	config.DownloadCovers = false

	t.Cleanup(func() {
		RestoreConfigState(state)
		viper.Reset()
	})
}

// SetViperValue sets a viper configuration value and schedules cleanup.
func SetViperValue(t *testing.T, key string, value any) {
	t.Helper()

	oldValue := viper.Get(key)
	hadValue := viper.IsSet(key)

	viper.Set(key, value)

	t.Cleanup(func() {
		if hadValue {
			viper.Set(key, oldValue)
		}
		// Note: viper doesn't have an Unset function, so we can't
		// restore the "unset" state. This is a known limitation.
	})
}

// SetupTestCache configures viper for test caching with a temporary directory.
// It creates the cache directory and sets up viper configuration.
func SetupTestCache(t *testing.T, env *TestEnv) string {
	t.Helper()

	cacheDir := env.Path("cache")
	env.MkdirAll("cache")

	viper.Set("cache.dbfile", env.Path("cache", "test-cache.db"))
	viper.Set("cache.shelfttl", "24h")

	return cacheDir
}

// SetupDatasetteDB configures the datasette database for E2E tests.
// It creates a temporary database file and configures viper with automatic cleanup.
// Returns the database path.
func SetupDatasetteDB(t *testing.T, env *TestEnv) string {
	t.Helper()

	dbPath := env.Path("test.db")

	SetViperValue(t, "datasette.enabled", true)
	SetViperValue(t, "datasette.dbfile", dbPath)

	return dbPath
}

// SetupE2EMarkdownOutput configures the markdown output directory for E2E tests.
// It sets the markdown output directory to the test environment and configures cleanup.
func SetupE2EMarkdownOutput(t *testing.T, env *TestEnv) {
	t.Helper()

	SetViperValue(t, "markdownoutputdir", env.RootDir())
}
