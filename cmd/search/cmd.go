package search

import (
	"path/filepath"

	"github.com/spf13/viper"
)

// Package-level state shared between the entry point and the search run.
var (
	inputFile  string
	branchName string
	catalog    string
	language   string
	writeJSON  bool
	jsonOutput string
	csvOutput  string
	allFormats bool
)

var searchFunc = Search

// Params carries everything one ad-hoc availability search needs.
type Params struct {
	Input      string
	Branch     string
	Catalog    string
	Language   string
	WriteJSON  bool
	JSONOutput string
	CSVOutput  string
	AllFormats bool
}

// SearchWithParams resolves the JSON output path and runs the search. This
// is the entry point used by the Kong-based CLI.
func SearchWithParams(params Params) error {
	inputFile = params.Input
	branchName = params.Branch
	catalog = params.Catalog
	language = params.Language
	writeJSON = params.WriteJSON
	jsonOutput = params.JSONOutput
	csvOutput = params.CSVOutput
	allFormats = params.AllFormats

	if writeJSON && jsonOutput == "" {
		jsonBaseDir := viper.GetString("jsonoutputdir")
		if jsonBaseDir == "" {
			jsonBaseDir = "json"
		}
		jsonOutput = filepath.Clean(filepath.Join(jsonBaseDir, "search.json"))
	}

	return searchFunc()
}
