package bibliocommons

import (
	"fmt"
	"strings"

	"github.com/lepinkainen/stacks/internal/book"
)

// Both ceilings are assumptions about the undocumented search API, not a
// published contract. They hold empirically and are configurable upstream.
const (
	// DefaultBatchSize is the largest number of books one search accepts.
	DefaultBatchSize = 10
	// DefaultMaxQueryLen is the longest custom query the catalog accepts.
	DefaultMaxQueryLen = 900
)

// QuerySpec scopes a batch query.
type QuerySpec struct {
	// Branch restricts matches to copies available at this branch.
	// Empty means any branch.
	Branch string
	// Language restricts matches to this ISO language code, e.g. "eng".
	// Empty means any language.
	Language string
	// AllFormats includes non-print formats in title+author queries.
	// The default restricts those queries to print books.
	AllFormats bool
	// MaxLength overrides DefaultMaxQueryLen when positive.
	MaxLength int
}

func (s QuerySpec) maxLength() int {
	if s.MaxLength > 0 {
		return s.MaxLength
	}
	return DefaultMaxQueryLen
}

// SingleQuery builds the boolean search clause for one book. The ISBN is
// used alone when present; otherwise the contributor and title are
// conjoined, restricted to print books when printOnly. Multiple conjuncts
// are parenthesized as a group, a single conjunct is not.
func SingleQuery(d book.Descriptor, printOnly bool) string {
	var rules []string

	if d.HasISBN() {
		rules = []string{fmt.Sprintf("identifier:(%s)", d.ISBN)}
	} else {
		rules = []string{
			fmt.Sprintf("contributor:(%s)", d.Author),
			fmt.Sprintf("title:(%s)", d.Title),
		}
		if printOnly {
			rules = append(rules, "formatcode:(BK)")
		}
	}

	query := strings.Join(rules, " AND ")
	if len(rules) > 1 {
		return "(" + query + ")"
	}
	return query
}

// BatchQuery builds the query for "any of these books, available at this
// branch". The per-book clauses are OR-joined; branch and language scopes,
// when present, are appended outside the parenthesized group. The same
// query works in any BiblioCommons-driven catalog.
func BatchQuery(descriptors []book.Descriptor, spec QuerySpec) (string, error) {
	singles := make([]string, len(descriptors))
	for i, d := range descriptors {
		singles[i] = SingleQuery(d, !spec.AllFormats)
	}
	query := strings.Join(singles, " OR ")

	var scopes string
	if spec.Branch != "" {
		scopes += fmt.Sprintf(" available:%q", spec.Branch)
	}
	if spec.Language != "" {
		scopes += fmt.Sprintf(" isolanguage:%q", spec.Language)
	}
	if scopes != "" {
		query = "(" + query + ")" + scopes
	}

	if len(query) > spec.maxLength() {
		return "", &QueryTooLargeError{Length: len(query), Limit: spec.maxLength()}
	}
	return query, nil
}

// chunk splits descriptors into windows of at most size, preserving input
// order within each window.
func chunk(descriptors []book.Descriptor, size int) [][]book.Descriptor {
	if size <= 0 {
		size = DefaultBatchSize
	}

	var batches [][]book.Descriptor
	for start := 0; start < len(descriptors); start += size {
		end := min(start+size, len(descriptors))
		batches = append(batches, descriptors[start:end])
	}
	return batches
}
