package bibliocommons

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/stacks/internal/book"
)

func TestSingleQueryPrefersISBN(t *testing.T) {
	d := book.Descriptor{
		ISBN:   "9780316246620",
		Title:  "Ancillary Justice",
		Author: "Ann Leckie",
	}

	query := SingleQuery(d, true)

	assert.Equal(t, "identifier:(9780316246620)", query)
	assert.NotContains(t, query, "title:")
	assert.NotContains(t, query, "contributor:")
	assert.NotContains(t, query, "formatcode:")
}

func TestSingleQueryTitleAuthorFallback(t *testing.T) {
	d := book.Descriptor{
		Title:  "Ancillary Justice",
		Author: "Ann Leckie",
	}

	query := SingleQuery(d, true)

	assert.Equal(t, "(contributor:(Ann Leckie) AND title:(Ancillary Justice) AND formatcode:(BK))", query)
}

func TestSingleQueryAllFormats(t *testing.T) {
	d := book.Descriptor{
		Title:  "Ancillary Justice",
		Author: "Ann Leckie",
	}

	query := SingleQuery(d, false)

	assert.Equal(t, "(contributor:(Ann Leckie) AND title:(Ancillary Justice))", query)
}

func TestBatchQueryScopesToBranch(t *testing.T) {
	descriptors := []book.Descriptor{
		{ISBN: "9780316246620"},
		{Title: "Seveneves", Author: "Neal Stephenson"},
	}

	query, err := BatchQuery(descriptors, QuerySpec{Branch: "Central Library"})
	require.NoError(t, err)

	assert.Equal(t,
		`(identifier:(9780316246620) OR (contributor:(Neal Stephenson) AND title:(Seveneves) AND formatcode:(BK))) available:"Central Library"`,
		query)
}

func TestBatchQueryLanguageScope(t *testing.T) {
	descriptors := []book.Descriptor{{ISBN: "9780316246620"}}

	query, err := BatchQuery(descriptors, QuerySpec{Branch: "Fremont Branch", Language: "eng"})
	require.NoError(t, err)

	assert.Equal(t,
		`(identifier:(9780316246620)) available:"Fremont Branch" isolanguage:"eng"`,
		query)
}

func TestBatchQueryWithoutScopes(t *testing.T) {
	descriptors := []book.Descriptor{
		{ISBN: "111"},
		{ISBN: "222"},
	}

	query, err := BatchQuery(descriptors, QuerySpec{})
	require.NoError(t, err)

	// No scope clauses, no outer parentheses either.
	assert.Equal(t, "identifier:(111) OR identifier:(222)", query)
}

func TestBatchQueryTooLarge(t *testing.T) {
	descriptors := []book.Descriptor{
		{Title: strings.Repeat("Remembrance of Things Past ", 40), Author: "Marcel Proust"},
	}

	query, err := BatchQuery(descriptors, QuerySpec{Branch: "Central Library"})
	require.Error(t, err)
	assert.Empty(t, query)
	assert.True(t, IsQueryTooLargeError(err))
	assert.Contains(t, err.Error(), "the limit is 900")
}

func TestBatchQueryCustomLimit(t *testing.T) {
	descriptors := []book.Descriptor{{ISBN: "9780316246620"}}

	_, err := BatchQuery(descriptors, QuerySpec{MaxLength: 10})
	require.Error(t, err)
	assert.True(t, IsQueryTooLargeError(err))

	_, err = BatchQuery(descriptors, QuerySpec{MaxLength: 500})
	require.NoError(t, err)
}

func TestChunkSplitsPreservingOrder(t *testing.T) {
	descriptors := make([]book.Descriptor, 12)
	for i := range descriptors {
		descriptors[i] = book.Descriptor{Title: string(rune('A' + i))}
	}

	batches := chunk(descriptors, 10)

	require.Len(t, batches, 2)
	require.Len(t, batches[0], 10)
	require.Len(t, batches[1], 2)
	assert.Equal(t, "A", batches[0][0].Title)
	assert.Equal(t, "J", batches[0][9].Title)
	assert.Equal(t, "K", batches[1][0].Title)
	assert.Equal(t, "L", batches[1][1].Title)
}

func TestChunkEmptyAndDefaults(t *testing.T) {
	assert.Nil(t, chunk(nil, 10))

	descriptors := make([]book.Descriptor, DefaultBatchSize+1)
	batches := chunk(descriptors, 0)
	require.Len(t, batches, 2)
	assert.Len(t, batches[0], DefaultBatchSize)
}
