package lookup

import (
	"strings"

	"github.com/lepinkainen/stacks/internal/goodreads"
)

// shelfIndex matches catalog result titles back to shelf books. Catalog
// titles often carry a subtitle the shelf entry does not (or the other way
// around), so the full title and the part before a subtitle separator are
// both indexed and tried.
type shelfIndex map[string]*goodreads.ShelfBook

func indexShelf(books []goodreads.ShelfBook) shelfIndex {
	index := make(shelfIndex, len(books)*2)
	for i := range books {
		indexTitle(index, books[i].Title, &books[i])
	}
	return index
}

func indexTitle(index shelfIndex, title string, sb *goodreads.ShelfBook) {
	key := normalizeTitle(title)
	if key == "" {
		return
	}
	if _, taken := index[key]; !taken {
		index[key] = sb
	}

	head := subtitleHead(key)
	if head == "" || head == key {
		return
	}
	if _, taken := index[head]; !taken {
		index[head] = sb
	}
}

func (idx shelfIndex) match(title string) *goodreads.ShelfBook {
	key := normalizeTitle(title)
	if sb, ok := idx[key]; ok {
		return sb
	}
	if head := subtitleHead(key); head != "" {
		if sb, ok := idx[head]; ok {
			return sb
		}
	}
	return nil
}

func normalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

func subtitleHead(title string) string {
	head, _, found := strings.Cut(title, ":")
	if !found {
		return ""
	}
	return strings.TrimSpace(head)
}
