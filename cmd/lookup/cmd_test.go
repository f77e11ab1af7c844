package lookup

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/stacks/internal/testutil"
)

func TestLookupWithParams(t *testing.T) {
	t.Cleanup(func() { lookupFunc = Lookup })
	testutil.ResetConfig(t)

	env := testutil.NewTestEnv(t)
	testutil.SetViperValue(t, "markdownoutputdir", env.RootDir())
	testutil.SetViperValue(t, "jsonoutputdir", env.Path("json"))

	var called bool
	lookupFunc = func() error {
		called = true
		assert.Equal(t, "12345", userID)
		assert.Equal(t, "secret", devKey)
		assert.Equal(t, "to-read", shelfName)
		assert.Equal(t, "Central Library", branchName)
		assert.Equal(t, "seattle", catalog)
		assert.Equal(t, "eng", language)
		assert.Equal(t, env.Path("library"), outputDir)
		assert.True(t, writeJSON)
		assert.Equal(t, env.Path("json", "library.json"), jsonOutput)
		assert.Equal(t, env.Path("available.csv"), csvOutput)
		assert.True(t, skipCache)
		assert.True(t, interactive)
		assert.True(t, allFormats)
		return nil
	}

	err := LookupWithParams(Params{
		UserID:      "12345",
		DevKey:      "secret",
		Shelf:       "to-read",
		Branch:      "Central Library",
		Catalog:     "seattle",
		Language:    "eng",
		WriteJSON:   true,
		CSVOutput:   env.Path("available.csv"),
		SkipCache:   true,
		Interactive: true,
		AllFormats:  true,
	})

	require.NoError(t, err, "LookupWithParams should not error")
	assert.True(t, called, "lookupFunc should have been called")
	require.DirExists(t, env.Path("library"))
}

func TestLookupWithParamsDefaults(t *testing.T) {
	t.Cleanup(func() { lookupFunc = Lookup })
	testutil.ResetConfig(t)

	env := testutil.NewTestEnv(t)
	testutil.SetViperValue(t, "markdownoutputdir", env.RootDir())

	lookupFunc = func() error {
		assert.Equal(t, env.Path("library"), outputDir)
		assert.False(t, writeJSON)
		assert.Equal(t, "", jsonOutput)
		assert.Equal(t, "", csvOutput)
		assert.Equal(t, "", branchName)
		assert.False(t, interactive)
		return nil
	}

	err := LookupWithParams(Params{
		UserID: "12345",
		DevKey: "secret",
		Shelf:  "to-read",
	})

	require.NoError(t, err)
}

func TestLookupWithParamsExplicitJSONOutput(t *testing.T) {
	t.Cleanup(func() { lookupFunc = Lookup })
	testutil.ResetConfig(t)

	env := testutil.NewTestEnv(t)
	testutil.SetViperValue(t, "markdownoutputdir", env.RootDir())

	lookupFunc = func() error {
		assert.True(t, writeJSON)
		assert.Equal(t, env.Path("custom", "books.json"), jsonOutput)
		return nil
	}

	err := LookupWithParams(Params{
		UserID:     "12345",
		DevKey:     "secret",
		Shelf:      "to-read",
		WriteJSON:  true,
		JSONOutput: env.Path("custom", "books.json"),
	})

	require.NoError(t, err)
	require.DirExists(t, env.Path("custom"))
}
