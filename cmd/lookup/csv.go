package lookup

import (
	"github.com/lepinkainen/stacks/internal/book"
	"github.com/lepinkainen/stacks/internal/csvutil"
)

var csvHeader = []string{"Title", "Author", "Call Number", "Description"}

func writeRecordsToCSV(records []book.AvailableBook, filename string) error {
	rows := make([][]string, 0, len(records))
	for _, ab := range records {
		rows = append(rows, []string{ab.Title, ab.Author, ab.CallNumber, ab.Description})
	}
	return csvutil.WriteRecords(filename, csvHeader, rows)
}
