package goodreads

import (
	"context"
	"fmt"

	"github.com/lepinkainen/stacks/internal/cache"
)

const shelfCacheTable = "goodreads_shelf_cache"

// ReadShelfCached returns the books on a shelf, serving repeat reads from the
// shelf cache. skipCache forces a fresh API read that still refreshes the
// stored entry, so a later cached read sees the new data.
// The boolean reports whether the result came from cache.
func ReadShelfCached(ctx context.Context, userID, devKey, shelf string, skipCache bool) ([]ShelfBook, bool, error) {
	reader, err := NewShelfReader(userID, devKey)
	if err != nil {
		return nil, false, err
	}

	cacheKey := fmt.Sprintf("%s-%s", userID, shelf)
	fetch := func() ([]ShelfBook, error) {
		return reader.WantedBooks(ctx, shelf)
	}

	if skipCache {
		books, err := cache.Refresh(shelfCacheTable, cacheKey, fetch)
		return books, false, err
	}

	return cache.GetOrFetch(shelfCacheTable, cacheKey, fetch)
}
