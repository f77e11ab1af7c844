package shelf

import (
	"path/filepath"

	"github.com/spf13/viper"
)

// Package-level state shared between the entry point and the listing.
var (
	userID     string
	devKey     string
	shelfName  string
	writeJSON  bool
	jsonOutput string
	skipCache  bool
)

var listFunc = List

// Params carries everything one shelf listing needs.
type Params struct {
	UserID     string
	DevKey     string
	Shelf      string
	WriteJSON  bool
	JSONOutput string
	SkipCache  bool
}

// ListWithParams resolves the JSON output path and lists the shelf. This is
// the entry point used by the Kong-based CLI.
func ListWithParams(params Params) error {
	userID = params.UserID
	devKey = params.DevKey
	shelfName = params.Shelf
	writeJSON = params.WriteJSON
	jsonOutput = params.JSONOutput
	skipCache = params.SkipCache

	if writeJSON && jsonOutput == "" {
		jsonBaseDir := viper.GetString("jsonoutputdir")
		if jsonBaseDir == "" {
			jsonBaseDir = "json"
		}
		jsonOutput = filepath.Clean(filepath.Join(jsonBaseDir, "shelf.json"))
	}

	return listFunc()
}
