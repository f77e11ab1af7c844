package lookup

import (
	"fmt"

	"github.com/lepinkainen/stacks/internal/book"
	"github.com/lepinkainen/stacks/internal/fileutil"
)

// writeRecordsToJSON writes the availability snapshot as a JSON array. The
// file is always overwritten; a snapshot from a previous run is stale by
// definition.
func writeRecordsToJSON(records []book.AvailableBook, filename string) error {
	if _, err := fileutil.WriteJSONFile(records, filename, true); err != nil {
		return fmt.Errorf("failed to write JSON output: %w", err)
	}
	return nil
}
