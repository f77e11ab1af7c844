package lookup

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lepinkainen/stacks/internal/bibliocommons"
	"github.com/lepinkainen/stacks/internal/book"
	"github.com/lepinkainen/stacks/internal/errors"
	"github.com/lepinkainen/stacks/internal/goodreads"
	"github.com/lepinkainen/stacks/internal/tui"
	"github.com/spf13/viper"
)

// Swappable collaborators so tests can run the pipeline against stub shelves
// and httptest catalogs.
var (
	readShelf    = goodreads.ReadShelfCached
	selectBranch = tui.SelectBranch
	newCatalog   = func(subdomain string) *bibliocommons.Client {
		return bibliocommons.New(subdomain)
	}
)

// Lookup reads the want-to-read shelf, reconciles it against the library
// catalog and writes every requested output.
func Lookup() error {
	ctx := context.Background()

	books, fromCache, err := readShelf(ctx, userID, devKey, shelfName, skipCache)
	if err != nil {
		return fmt.Errorf("failed to read shelf: %w", err)
	}
	slog.Info("Read shelf", "shelf", shelfName, "books", len(books), "cached", fromCache)
	if len(books) == 0 {
		slog.Info("Shelf is empty, nothing to look up")
		return nil
	}

	branch, err := resolveBranch()
	if err != nil {
		if errors.IsStopProcessingError(err) {
			slog.Info("Lookup cancelled")
			return nil
		}
		return err
	}

	reconciler := bibliocommons.NewReconciler(newCatalog(catalog), bibliocommons.ReconcileOptions{
		Branch:      branch,
		Language:    language,
		AllFormats:  allFormats,
		BatchSize:   viper.GetInt("bibliocommons.batchsize"),
		MaxQueryLen: viper.GetInt("bibliocommons.maxquerylen"),
	})

	index := indexShelf(books)
	var available []book.AvailableBook
	err = reconciler.Reconcile(ctx, goodreads.Descriptors(books), func(record book.Record) {
		ab := decorate(record, branch, index)
		logAvailable(ab)
		available = append(available, ab)
	})
	if err != nil {
		return fmt.Errorf("catalog lookup failed: %w", err)
	}

	slog.Info("Lookup finished", "wanted", len(books), "available", len(available), "branch", branch)

	return writeOutputs(ctx, available)
}

// resolveBranch decides the branch filter: an explicit branch wins, then the
// interactive picker over the configured favorites, then the whole system.
func resolveBranch() (string, error) {
	if branchName != "" {
		return branchName, nil
	}
	if !interactive {
		return "", nil
	}

	favorites := viper.GetStringSlice("bibliocommons.branches")
	result, err := selectBranch("Check availability at which branch?", favorites)
	if err != nil {
		return "", fmt.Errorf("branch selection failed: %w", err)
	}

	switch result.Action {
	case tui.ActionSelected:
		return result.Branch, nil
	case tui.ActionStopped:
		return "", errors.NewStopProcessingError("branch selection aborted")
	default:
		return "", nil
	}
}

// decorate turns a reconciled record into an AvailableBook, pulling shelf
// metadata into the gaps the catalog left. The catalog never returns an
// ISBN, and its descriptions and covers are frequently missing.
func decorate(record book.Record, branch string, index shelfIndex) book.AvailableBook {
	ab := book.AvailableBook{Record: record, Branch: branch}

	sb := index.match(record.Title)
	if sb == nil {
		return ab
	}

	ab.ISBN = sb.ISBN
	if ab.Description == "" {
		ab.Description = sb.Description
	}
	if ab.CoverImage == "" {
		ab.CoverImage = sb.CoverURL
	}
	return ab
}

func logAvailable(ab book.AvailableBook) {
	if ab.CallNumber != "" {
		slog.Info(fmt.Sprintf("%s - %s", ab.Title, ab.CallNumber))
	} else {
		slog.Info(fmt.Sprintf("%s - call number not listed", ab.Title))
	}
}

func writeOutputs(ctx context.Context, available []book.AvailableBook) error {
	for _, ab := range available {
		if err := writeBookToMarkdown(ctx, ab, outputDir); err != nil {
			slog.Error("Error writing markdown for book", "title", ab.Title, "error", err)
		}
	}

	if writeJSON {
		if err := writeRecordsToJSON(available, jsonOutput); err != nil {
			slog.Error("Error writing books to JSON", "error", err)
		}
	}

	if csvOutput != "" {
		if err := writeRecordsToCSV(available, csvOutput); err != nil {
			slog.Error("Error writing books to CSV", "error", err)
		}
	}

	return writeRecordsToDatastoreIfEnabled(available)
}
