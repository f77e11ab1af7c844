package cache

// SQL schemas for cache tables
// All cache tables use "cache_key" as the primary key column for consistency

// GoodreadsShelfCacheSchema defines the schema for cached Goodreads shelf
// responses, one row per user+shelf pair
const GoodreadsShelfCacheSchema = `
CREATE TABLE IF NOT EXISTS goodreads_shelf_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_goodreads_shelf_cached_at ON goodreads_shelf_cache(cached_at);
`

// AllCacheSchemas contains all cache table schemas for easy initialization
var AllCacheSchemas = []string{
	GoodreadsShelfCacheSchema,
}

// ValidCacheTableNames is the whitelist of allowed cache table names
// Used to prevent SQL injection when interpolating table names
var ValidCacheTableNames = map[string]bool{
	"goodreads_shelf_cache": true,
}
