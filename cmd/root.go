package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"

	"github.com/lepinkainen/stacks/cmd/lookup"
	"github.com/lepinkainen/stacks/cmd/search"
	"github.com/lepinkainen/stacks/cmd/shelf"
	"github.com/lepinkainen/stacks/internal/bibliocommons"
	"github.com/lepinkainen/stacks/internal/cache"
	"github.com/lepinkainen/stacks/internal/config"
)

var (
	runLookup = lookup.LookupWithParams
	runShelf  = shelf.ListWithParams
	runSearch = search.SearchWithParams
)

// CLI represents the complete command structure for the stacks application
type CLI struct {
	// Global flags
	Overwrite bool `help:"Overwrite existing markdown files when processing"`
	Covers    bool `help:"Download cover images next to the markdown notes"`

	// Datasette flags
	Datasette   bool   `help:"Enable Datasette output" default:"true"`
	DatasetteDB string `help:"Path to SQLite database file" default:"./stacks.db"`

	// Cache flags
	CacheDBFile string `help:"Path to cache SQLite database file" default:"./cache.db"`
	CacheTTL    string `help:"Shelf cache time-to-live duration (e.g., 24h)" default:"24h"`

	Lookup LookupCmd `cmd:"" help:"Check which shelf books are available at the library"`
	Shelf  ShelfCmd  `cmd:"" help:"List the books on the want-to-read shelf"`
	Search SearchCmd `cmd:"" help:"Check catalog availability for books listed in a CSV file"`
	Cache  CacheCmd  `cmd:"" help:"Manage cached API responses"`
}

// LookupCmd represents the main shelf-against-catalog lookup command
type LookupCmd struct {
	UserID     string `help:"Goodreads user ID whose shelf to read"`
	Shelf      string `help:"Shelf name to read (defaults to goodreads.shelf in config)"`
	Branch     string `help:"Library branch to check availability at"`
	Catalog    string `help:"BiblioCommons catalog subdomain, e.g. seattle"`
	Language   string `help:"Restrict results to an ISO language code, e.g. eng"`
	Output     string `short:"o" help:"Subdirectory under markdown output directory for availability notes" default:"library"`
	JSON       bool   `help:"Write data to JSON format"`
	JSONOutput string `help:"Path to JSON output file (defaults to json/library.json)"`
	CSV        string `help:"Path to CSV output file"`
	AllFormats bool   `help:"Include non-print formats in title and author searches"`
	SkipCache  bool   `help:"Bypass the shelf cache and fetch fresh data"`

	NoInteractive bool `help:"Disable the interactive branch picker" default:"false"`
}

// ShelfCmd represents the shelf listing command
type ShelfCmd struct {
	UserID     string `help:"Goodreads user ID whose shelf to read"`
	Shelf      string `help:"Shelf name to read (defaults to goodreads.shelf in config)"`
	JSON       bool   `help:"Write data to JSON format"`
	JSONOutput string `help:"Path to JSON output file (defaults to json/shelf.json)"`
	SkipCache  bool   `help:"Bypass the shelf cache and fetch fresh data"`
}

// SearchCmd represents the CSV-driven availability search command
type SearchCmd struct {
	Input      string `short:"f" help:"Path to CSV file with isbn,title,author rows"`
	Branch     string `help:"Library branch to check availability at"`
	Catalog    string `help:"BiblioCommons catalog subdomain, e.g. seattle"`
	Language   string `help:"Restrict results to an ISO language code, e.g. eng"`
	JSON       bool   `help:"Write data to JSON format"`
	JSONOutput string `help:"Path to JSON output file (defaults to json/search.json)"`
	CSV        string `help:"Path to CSV output file"`
	AllFormats bool   `help:"Include non-print formats in title and author searches"`
}

// CacheCmd represents the cache management command
type CacheCmd struct {
	Invalidate cache.InvalidateCacheCmd `cmd:"" help:"Invalidate cached API responses for a source"`
}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging()
	initConfig()

	// Create CLI instance
	var cli CLI

	// Parse command line with Kong
	ctx := kong.Parse(&cli,
		kong.Name("stacks"),
		kong.Description("Find out which books from your want-to-read shelf are on the library shelves."),
		kong.UsageOnError(),
	)

	// Update global config based on parsed flags
	updateGlobalConfig(&cli)

	// Execute the selected command
	err := ctx.Run()
	if err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetDefault("MarkdownOutputDir", "./markdown/")
	viper.SetDefault("JSONOutputDir", "./json/")
	viper.SetDefault("OverwriteFiles", false)
	viper.SetDefault("DownloadCovers", false)

	// Shelf defaults
	viper.SetDefault("goodreads.shelf", "to-read")

	// Catalog defaults
	viper.SetDefault("bibliocommons.subdomain", "seattle")
	viper.SetDefault("bibliocommons.batchsize", bibliocommons.DefaultBatchSize)
	viper.SetDefault("bibliocommons.maxquerylen", bibliocommons.DefaultMaxQueryLen)

	// Datasette defaults
	viper.SetDefault("datasette.enabled", true)
	viper.SetDefault("datasette.mode", "local")
	viper.SetDefault("datasette.dbfile", "./stacks.db")

	// Cache defaults
	viper.SetDefault("cache.dbfile", "./cache.db")
	viper.SetDefault("cache.shelfttl", "24h")

	// Enable environment variable support
	viper.AutomaticEnv()
	// Bind specific environment variables to config keys
	if err := viper.BindEnv("goodreads.devkey", "GOODREADS_DEV_KEY"); err != nil {
		slog.Error("Failed to bind environment variable", "error", err)
	}
	if err := viper.BindEnv("goodreads.userid", "GOODREADS_USER_ID"); err != nil {
		slog.Error("Failed to bind environment variable", "error", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Info("Config file not found, writing default config file...")
			if err := viper.SafeWriteConfig(); err != nil {
				slog.Error("Error writing config file", "error", err)
			}
			os.Exit(0)
		} else {
			slog.Error("Fatal error config file", "error", err)
			os.Exit(1)
		}
	}

	// Initialize global config
	config.InitConfig()
}

func updateGlobalConfig(cli *CLI) {
	// The config file can turn these on too, so an absent flag must not
	// clobber the file's value.
	if cli.Overwrite {
		config.SetOverwriteFiles(true)
	}
	if cli.Covers {
		config.SetDownloadCovers(true)
	}

	// Update datasette config
	viper.Set("datasette.enabled", cli.Datasette)
	viper.Set("datasette.dbfile", cli.DatasetteDB)

	// Update cache config
	viper.Set("cache.dbfile", cli.CacheDBFile)
	viper.Set("cache.shelfttl", cli.CacheTTL)
}

// Run methods for each command

func (l *LookupCmd) Run() error {
	userID, devKey, err := shelfCredentials(l.UserID)
	if err != nil {
		return err
	}

	// Read from config if values not provided via flags
	shelfName := l.Shelf
	if shelfName == "" {
		shelfName = viper.GetString("goodreads.shelf")
	}

	branch := l.Branch
	if branch == "" {
		branch = viper.GetString("bibliocommons.branch")
	}

	catalog := l.Catalog
	if catalog == "" {
		catalog = viper.GetString("bibliocommons.subdomain")
	}

	language := l.Language
	if language == "" {
		language = viper.GetString("bibliocommons.isolanguage")
	}

	return runLookup(lookup.Params{
		UserID:      userID,
		DevKey:      devKey,
		Shelf:       shelfName,
		Branch:      branch,
		Catalog:     catalog,
		Language:    language,
		OutputDir:   l.Output,
		WriteJSON:   l.JSON,
		JSONOutput:  l.JSONOutput,
		CSVOutput:   l.CSV,
		SkipCache:   l.SkipCache,
		Interactive: !l.NoInteractive, // Invert: default is interactive
		AllFormats:  l.AllFormats,
	})
}

func (s *ShelfCmd) Run() error {
	userID, devKey, err := shelfCredentials(s.UserID)
	if err != nil {
		return err
	}

	shelfName := s.Shelf
	if shelfName == "" {
		shelfName = viper.GetString("goodreads.shelf")
	}

	return runShelf(shelf.Params{
		UserID:     userID,
		DevKey:     devKey,
		Shelf:      shelfName,
		WriteJSON:  s.JSON,
		JSONOutput: s.JSONOutput,
		SkipCache:  s.SkipCache,
	})
}

func (s *SearchCmd) Run() error {
	// Read from config if value not provided via flag
	input := s.Input
	if input == "" {
		input = viper.GetString("search.csvfile")
	}

	// Check if required value is still missing
	if input == "" {
		return fmt.Errorf("input CSV file is required (provide via --input flag or search.csvfile in config)")
	}

	branch := s.Branch
	if branch == "" {
		branch = viper.GetString("bibliocommons.branch")
	}

	catalog := s.Catalog
	if catalog == "" {
		catalog = viper.GetString("bibliocommons.subdomain")
	}

	language := s.Language
	if language == "" {
		language = viper.GetString("bibliocommons.isolanguage")
	}

	return runSearch(search.Params{
		Input:      input,
		Branch:     branch,
		Catalog:    catalog,
		Language:   language,
		WriteJSON:  s.JSON,
		JSONOutput: s.JSONOutput,
		CSVOutput:  s.CSV,
		AllFormats: s.AllFormats,
	})
}

// shelfCredentials resolves the Goodreads user ID and developer key from
// the flag and config, erroring when either is missing.
func shelfCredentials(flagUserID string) (string, string, error) {
	userID := flagUserID
	if userID == "" {
		userID = viper.GetString("goodreads.userid")
	}
	if userID == "" {
		return "", "", fmt.Errorf("goodreads user ID is required (provide via --user-id flag, goodreads.userid in config or GOODREADS_USER_ID)")
	}

	devKey := viper.GetString("goodreads.devkey")
	if devKey == "" {
		return "", "", fmt.Errorf("goodreads developer key is required (set goodreads.devkey in config or GOODREADS_DEV_KEY)")
	}

	return userID, devKey, nil
}

func initLogging() {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("STACKS_LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	// Create a human-readable handler for logging
	handler := humanlog.NewHandler(os.Stdout, &humanlog.Options{
		Level: level,
	})

	// Set the default logger
	slog.SetDefault(slog.New(handler))
}
