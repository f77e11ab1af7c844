// Package book holds the domain types shared by the shelf and catalog clients.
package book

// Descriptor identifies a single wanted book. The ISBN is preferred for
// catalog lookups but is frequently blank (e-books, older editions), in
// which case the title and author pair identifies the book instead.
type Descriptor struct {
	ISBN   string `json:"isbn"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

// HasISBN reports whether the descriptor carries a usable ISBN.
func (d Descriptor) HasISBN() bool {
	return d.ISBN != ""
}

// Identity returns a human-readable identity for logging. ISBN when present,
// otherwise "title by author".
func (d Descriptor) Identity() string {
	if d.HasISBN() {
		return d.ISBN
	}
	return d.Title + " by " + d.Author
}

// Record is one reconciled catalog result. It starts life as a partial
// record parsed from a search feed item and may later gain a call number
// from a full-record lookup. Once handed to a consumer it is final.
type Record struct {
	Title          string `json:"title"`
	Author         string `json:"author,omitempty"`
	Description    string `json:"description,omitempty"`
	CallNumber     string `json:"call_number,omitempty"`
	CoverImage     string `json:"cover_image,omitempty"`
	FullRecordLink string `json:"full_record_link,omitempty"`
}

// Resolved reports whether the record already carries a call number.
func (r Record) Resolved() bool {
	return r.CallNumber != ""
}

// AvailableBook is a reconciled record together with the branch scope the
// lookup ran under. The ISBN is filled in when the record could be matched
// back to a shelf descriptor; the catalog itself never returns one.
type AvailableBook struct {
	Record
	Branch string `json:"branch,omitempty"`
	ISBN   string `json:"isbn,omitempty"`
}
