package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lepinkainen/stacks/internal/config"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestEnv_Path(t *testing.T) {
	env := NewTestEnv(t)

	path := env.Path("subdir", "file.txt")
	assert.True(t, filepath.IsAbs(path))
	assert.Contains(t, path, "subdir")
	assert.Contains(t, path, "file.txt")
}

func TestTestEnv_WriteReadFile(t *testing.T) {
	env := NewTestEnv(t)

	content := []byte("test content")
	env.WriteFile("test.txt", content)

	read := env.ReadFile("test.txt")
	assert.Equal(t, content, read)
}

func TestTestEnv_WriteReadFileString(t *testing.T) {
	env := NewTestEnv(t)

	content := "test string content"
	env.WriteFileString("test.txt", content)

	read := env.ReadFileString("test.txt")
	assert.Equal(t, content, read)
}

func TestTestEnv_WriteFileCreatesParents(t *testing.T) {
	env := NewTestEnv(t)

	env.WriteFileString("nested/dir/file.txt", "content")
	env.RequireFileExists("nested/dir/file.txt")
}

func TestTestEnv_MkdirAll(t *testing.T) {
	env := NewTestEnv(t)

	env.MkdirAll("nested/dir/structure")

	path := env.Path("nested/dir/structure")
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestTestEnv_FileExists(t *testing.T) {
	env := NewTestEnv(t)

	assert.False(t, env.FileExists("nonexistent.txt"))

	env.WriteFileString("exists.txt", "content")
	assert.True(t, env.FileExists("exists.txt"))
}

func TestTestEnv_RequireFileNotExists(t *testing.T) {
	env := NewTestEnv(t)

	env.RequireFileNotExists("nonexistent.txt")
}

func TestTestEnv_ListFiles(t *testing.T) {
	env := NewTestEnv(t)

	env.WriteFileString("a.txt", "a")
	env.WriteFileString("b.txt", "b")

	files := env.ListFiles(".")
	assert.Contains(t, files, "a.txt")
	assert.Contains(t, files, "b.txt")
}

func TestTestEnv_AssertFileContains(t *testing.T) {
	env := NewTestEnv(t)

	env.WriteFileString("note.md", "# Seveneves\n\nCall number: SF STEPHENSON")
	env.AssertFileContains("note.md", "SF STEPHENSON")
}

func TestTestEnv_SetEnv(t *testing.T) {
	env := NewTestEnv(t)

	env.SetEnv("STACKS_TEST_VAR", "value")
	assert.Equal(t, "value", os.Getenv("STACKS_TEST_VAR"))
}

func TestTestEnv_Chdir(t *testing.T) {
	env := NewTestEnv(t)
	env.MkdirAll("work")

	env.Chdir("work")

	cwd, err := os.Getwd()
	require.NoError(t, err)
	assert.Contains(t, cwd, "work")
}

func TestSetTestConfig(t *testing.T) {
	origOverwrite := config.OverwriteFiles
	origCovers := config.DownloadCovers

	SetTestConfig(t)

	assert.True(t, config.OverwriteFiles)
	assert.False(t, config.DownloadCovers)

	// Cleanup restores the previous values; verify the save captured them
	state := ConfigState{OverwriteFiles: origOverwrite, DownloadCovers: origCovers}
	RestoreConfigState(state)
	assert.Equal(t, origOverwrite, config.OverwriteFiles)
}

func TestSetViperValue(t *testing.T) {
	ResetConfig(t)

	SetViperValue(t, "bibliocommons.branch", "Central Library")
	assert.Equal(t, "Central Library", viper.GetString("bibliocommons.branch"))
}

func TestSetupTestCache(t *testing.T) {
	ResetConfig(t)
	env := NewTestEnv(t)

	cacheDir := SetupTestCache(t, env)

	assert.DirExists(t, cacheDir)
	assert.Contains(t, viper.GetString("cache.dbfile"), "test-cache.db")
	assert.Equal(t, "24h", viper.GetString("cache.shelfttl"))
}

func TestGoldenHelper(t *testing.T) {
	env := NewTestEnv(t)
	golden := NewGoldenHelper(t, env.RootDir())

	env.WriteFileString("expected.golden", "golden content")
	golden.AssertGoldenString("expected.golden", "golden content")
}
