package config

import (
	"github.com/spf13/viper"
)

// Global configuration variables
var (
	// OverwriteFiles controls whether existing markdown files should be overwritten
	OverwriteFiles bool
	// DownloadCovers controls whether cover images are downloaded next to notes
	DownloadCovers bool
)

// InitConfig initializes the global configuration
func InitConfig() {
	// Set default values
	viper.SetDefault("MarkdownOutputDir", "./markdown/")
	viper.SetDefault("JSONOutputDir", "./json/")
	viper.SetDefault("OverwriteFiles", false)
	viper.SetDefault("DownloadCovers", false)

	// Get values from viper
	OverwriteFiles = viper.GetBool("OverwriteFiles")
	DownloadCovers = viper.GetBool("DownloadCovers")
}

// SetOverwriteFiles sets the OverwriteFiles flag
func SetOverwriteFiles(overwrite bool) {
	OverwriteFiles = overwrite
}

// SetDownloadCovers sets the DownloadCovers flag
func SetDownloadCovers(download bool) {
	DownloadCovers = download
}
