// Package shelf implements the command that lists a reader's want-to-read
// shelf without touching the library catalog.
package shelf

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lepinkainen/stacks/internal/fileutil"
	"github.com/lepinkainen/stacks/internal/goodreads"
)

var readShelf = goodreads.ReadShelfCached

// List prints every book on the shelf and optionally exports the listing
// as JSON.
func List() error {
	ctx := context.Background()

	books, fromCache, err := readShelf(ctx, userID, devKey, shelfName, skipCache)
	if err != nil {
		return fmt.Errorf("failed to read shelf: %w", err)
	}

	for _, sb := range books {
		if sb.Author != "" {
			fmt.Printf("%s by %s\n", sb.Title, sb.Author)
		} else {
			fmt.Println(sb.Title)
		}
	}
	slog.Info("Shelf listed", "shelf", shelfName, "books", len(books), "cached", fromCache)

	if writeJSON {
		if _, err := fileutil.WriteJSONFile(books, jsonOutput, true); err != nil {
			return fmt.Errorf("failed to write shelf JSON: %w", err)
		}
	}
	return nil
}
