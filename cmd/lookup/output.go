package lookup

import (
	"github.com/lepinkainen/stacks/internal/book"
	"github.com/lepinkainen/stacks/internal/cmdutil"
)

const availableBooksSchema = `
CREATE TABLE IF NOT EXISTS available_books (
	title TEXT,
	author TEXT,
	description TEXT,
	call_number TEXT,
	cover_image TEXT,
	full_record_link TEXT,
	branch TEXT,
	isbn TEXT
)`

func availableBookToMap(ab book.AvailableBook) map[string]any {
	return cmdutil.StructToMap(ab, cmdutil.StructToMapOptions{})
}

func writeRecordsToDatastoreIfEnabled(records []book.AvailableBook) error {
	return cmdutil.WriteToDatastore(records, availableBooksSchema, "available_books", "available books", availableBookToMap)
}
