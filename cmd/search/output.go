package search

import (
	"fmt"

	"github.com/lepinkainen/stacks/internal/book"
	"github.com/lepinkainen/stacks/internal/csvutil"
	"github.com/lepinkainen/stacks/internal/fileutil"
)

var csvHeader = []string{"Title", "Author", "Call Number", "Description"}

// The search outputs are availability snapshots and always overwrite.
func writeRecordsToJSON(records []book.AvailableBook, filename string) error {
	if _, err := fileutil.WriteJSONFile(records, filename, true); err != nil {
		return fmt.Errorf("failed to write JSON output: %w", err)
	}
	return nil
}

func writeRecordsToCSV(records []book.AvailableBook, filename string) error {
	rows := make([][]string, 0, len(records))
	for _, ab := range records {
		rows = append(rows, []string{ab.Title, ab.Author, ab.CallNumber, ab.Description})
	}
	return csvutil.WriteRecords(filename, csvHeader, rows)
}
