package lookup

import (
	"github.com/lepinkainen/stacks/internal/cmdutil"
)

// Package-level state shared between the entry point and the pipeline.
var (
	userID     string
	devKey     string
	shelfName  string
	branchName string
	catalog    string
	language   string

	outputDir  string
	writeJSON  bool
	jsonOutput string
	csvOutput  string

	skipCache   bool
	interactive bool
	allFormats  bool

	cmdConfig *cmdutil.BaseCommandConfig
)

var lookupFunc = Lookup

// Params carries everything one availability lookup needs. Zero values on
// optional fields mean "not requested".
type Params struct {
	UserID   string
	DevKey   string
	Shelf    string
	Branch   string
	Catalog  string
	Language string

	OutputDir  string
	WriteJSON  bool
	JSONOutput string
	CSVOutput  string

	SkipCache   bool
	Interactive bool
	AllFormats  bool
}

// LookupWithParams resolves the output layout and runs the availability
// lookup. This is the entry point used by the Kong-based CLI.
func LookupWithParams(params Params) error {
	userID = params.UserID
	devKey = params.DevKey
	shelfName = params.Shelf
	branchName = params.Branch
	catalog = params.Catalog
	language = params.Language
	csvOutput = params.CSVOutput
	skipCache = params.SkipCache
	interactive = params.Interactive
	allFormats = params.AllFormats

	cmdConfig = &cmdutil.BaseCommandConfig{
		OutputDir:  params.OutputDir,
		ConfigKey:  "library",
		WriteJSON:  params.WriteJSON,
		JSONOutput: params.JSONOutput,
	}
	if err := cmdutil.SetupOutputDir(cmdConfig); err != nil {
		return err
	}

	outputDir = cmdConfig.OutputDir
	writeJSON = cmdConfig.WriteJSON
	jsonOutput = cmdConfig.JSONOutput

	return lookupFunc()
}
