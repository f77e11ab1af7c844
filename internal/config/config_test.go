package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestSetOverwriteFiles(t *testing.T) {
	// Save the original value to restore after the test
	originalValue := OverwriteFiles

	testCases := []struct {
		name     string
		input    bool
		expected bool
	}{
		{
			name:     "set to true",
			input:    true,
			expected: true,
		},
		{
			name:     "set to false",
			input:    false,
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Set the value
			SetOverwriteFiles(tc.input)

			// Check that the global variable was updated
			assert.Equal(t, tc.expected, OverwriteFiles)
		})
	}

	// Restore the original value
	OverwriteFiles = originalValue
}

func TestSetDownloadCovers(t *testing.T) {
	originalValue := DownloadCovers

	SetDownloadCovers(true)
	assert.True(t, DownloadCovers)

	SetDownloadCovers(false)
	assert.False(t, DownloadCovers)

	DownloadCovers = originalValue
}

func TestInitConfigReadsViper(t *testing.T) {
	originalOverwrite := OverwriteFiles
	originalCovers := DownloadCovers
	viper.Reset()
	t.Cleanup(func() {
		OverwriteFiles = originalOverwrite
		DownloadCovers = originalCovers
		viper.Reset()
	})

	viper.Set("OverwriteFiles", true)
	viper.Set("DownloadCovers", true)

	InitConfig()

	assert.True(t, OverwriteFiles)
	assert.True(t, DownloadCovers)
	assert.Equal(t, "./markdown/", viper.GetString("MarkdownOutputDir"))
	assert.Equal(t, "./json/", viper.GetString("JSONOutputDir"))
}
