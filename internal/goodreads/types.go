package goodreads

import (
	"encoding/xml"

	"github.com/lepinkainen/stacks/internal/book"
)

// ShelfBook is one entry on a reader's shelf. The embedded Descriptor is
// what the catalog reconciler consumes; the rest is shelf-only metadata.
type ShelfBook struct {
	book.Descriptor
	GoodreadsID string `json:"goodreads_id"`
	Description string `json:"description,omitempty"`
	CoverURL    string `json:"cover_url,omitempty"`
}

// Descriptors extracts the catalog lookup descriptors from shelf books.
func Descriptors(books []ShelfBook) []book.Descriptor {
	descriptors := make([]book.Descriptor, len(books))
	for i, b := range books {
		descriptors[i] = b.Descriptor
	}
	return descriptors
}

// shelfResponse mirrors the review/list XML payload. Only the fields we
// read are mapped; the API returns far more.
type shelfResponse struct {
	XMLName xml.Name     `xml:"GoodreadsResponse"`
	Reviews []reviewItem `xml:"reviews>review"`
}

type reviewItem struct {
	Book struct {
		ID          string   `xml:"id"`
		ISBN        string   `xml:"isbn"`
		Title       string   `xml:"title"`
		Description string   `xml:"description"`
		ImageURL    string   `xml:"image_url"`
		AuthorNames []string `xml:"authors>author>name"`
	} `xml:"book"`
}
