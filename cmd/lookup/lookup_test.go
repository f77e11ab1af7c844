package lookup

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/stacks/internal/bibliocommons"
	"github.com/lepinkainen/stacks/internal/book"
	"github.com/lepinkainen/stacks/internal/errors"
	"github.com/lepinkainen/stacks/internal/goodreads"
	"github.com/lepinkainen/stacks/internal/ratelimit"
	"github.com/lepinkainen/stacks/internal/testutil"
	"github.com/lepinkainen/stacks/internal/tui"
)

// resetSeams restores the swappable collaborators once the test is done.
func resetSeams(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		readShelf = goodreads.ReadShelfCached
		selectBranch = tui.SelectBranch
		newCatalog = func(subdomain string) *bibliocommons.Client {
			return bibliocommons.New(subdomain)
		}
	})
}

// fakeCatalog serves a canned search feed and canned full-record call
// numbers keyed by item ID.
type fakeCatalog struct {
	mu      sync.Mutex
	queries []string
	feed    string
	details map[string]string
}

func (f *fakeCatalog) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/search/rss":
			f.mu.Lock()
			f.queries = append(f.queries, r.URL.Query().Get("custom_query"))
			f.mu.Unlock()
			_, _ = w.Write([]byte(f.feed))

		case strings.HasPrefix(r.URL.Path, "/item/full_record/"):
			id := strings.TrimPrefix(r.URL.Path, "/item/full_record/")
			f.mu.Lock()
			callNumber, ok := f.details[id]
			f.mu.Unlock()
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			fragment := fmt.Sprintf("<div testid=%q><span class=%q>%s</span></div>", "callnum_branch", "value", callNumber)
			_ = json.NewEncoder(w).Encode(map[string]string{"html": fragment})

		default:
			http.NotFound(w, r)
		}
	})
}

func (f *fakeCatalog) recordedQueries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

func useCatalog(t *testing.T, f *fakeCatalog) {
	t.Helper()
	server := httptest.NewServer(f.handler())
	t.Cleanup(server.Close)
	newCatalog = func(string) *bibliocommons.Client {
		return bibliocommons.New("test",
			bibliocommons.WithBaseURL(server.URL),
			bibliocommons.WithHTTPClient(server.Client()),
			bibliocommons.WithRateLimiter(ratelimit.New("test", 1000)),
			bibliocommons.WithRetryAttempts(1),
		)
	}
}

type feedEntry struct {
	title      string
	link       string
	author     string
	callNumber string
}

func renderFeed(entries ...feedEntry) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel>`)
	for _, e := range entries {
		sb.WriteString("<item>")
		sb.WriteString("<title>" + e.title + "</title>")
		if e.link != "" {
			sb.WriteString("<link>" + e.link + "</link>")
		}
		var desc strings.Builder
		if e.callNumber != "" {
			desc.WriteString("&lt;b&gt;Call #:&lt;/b&gt; " + e.callNumber)
		}
		if e.author != "" {
			desc.WriteString(" &lt;b&gt;Author:&lt;/b&gt; &lt;a href='/author'&gt;" + e.author + "&lt;/a&gt;")
		}
		sb.WriteString("<description>" + desc.String() + "</description>")
		sb.WriteString("</item>")
	}
	sb.WriteString("</channel></rss>")
	return sb.String()
}

func stubShelf(books []goodreads.ShelfBook) {
	readShelf = func(context.Context, string, string, string, bool) ([]goodreads.ShelfBook, bool, error) {
		return books, false, nil
	}
}

func TestLookupEndToEnd(t *testing.T) {
	resetSeams(t)
	testutil.SetTestConfig(t)

	env := testutil.NewTestEnv(t)
	testutil.SetViperValue(t, "markdownoutputdir", env.RootDir())
	testutil.SetViperValue(t, "jsonoutputdir", env.Path("json"))

	stubShelf([]goodreads.ShelfBook{
		{
			Descriptor:  book.Descriptor{ISBN: "9780062190376", Title: "Seveneves", Author: "Neal Stephenson"},
			GoodreadsID: "22816087",
			Description: "The moon blew up without warning and for no apparent reason.",
			CoverURL:    "https://images.example/seveneves.jpg",
		},
		{
			Descriptor:  book.Descriptor{Title: "Piranesi", Author: "Susanna Clarke"},
			GoodreadsID: "50202953",
		},
	})

	catalog := &fakeCatalog{
		feed: renderFeed(
			feedEntry{
				title:      "Seveneves",
				link:       "https://test.bibliocommons.com/item/show/2001_seveneves",
				callNumber: "SF STEPHENSON",
			},
			feedEntry{
				title:  "Piranesi: A Novel",
				link:   "https://test.bibliocommons.com/item/show/2002_piranesi",
				author: "Clarke, Susanna",
			},
		),
		details: map[string]string{"2002": "FIC CLARKE"},
	}
	useCatalog(t, catalog)

	err := LookupWithParams(Params{
		UserID:    "12345",
		DevKey:    "secret",
		Shelf:     "to-read",
		Branch:    "Central Library",
		Catalog:   "test",
		WriteJSON: true,
		CSVOutput: env.Path("available.csv"),
	})
	require.NoError(t, err)

	// Both books fit one batch, scoped to the branch.
	queries := catalog.recordedQueries()
	require.Len(t, queries, 1)
	assert.Contains(t, queries[0], "identifier:(9780062190376)")
	assert.Contains(t, queries[0], "(contributor:(Susanna Clarke) AND title:(Piranesi) AND formatcode:(BK))")
	assert.True(t, strings.HasSuffix(queries[0], ` available:"Central Library"`), queries[0])

	// Markdown notes for both hits, enriched from the shelf where the
	// catalog record had gaps.
	sevenevesPath := filepath.Join("library", "Seveneves.md")
	env.RequireFileExists(sevenevesPath)
	env.AssertFileContains(sevenevesPath, "SF STEPHENSON")
	env.AssertFileContains(sevenevesPath, "Central Library")
	env.AssertFileContains(sevenevesPath, "9780062190376")
	env.AssertFileContains(sevenevesPath, "The moon blew up")
	env.AssertFileContains(sevenevesPath, "https://images.example/seveneves.jpg")

	piranesiPath := filepath.Join("library", "Piranesi - A Novel.md")
	env.RequireFileExists(piranesiPath)
	env.AssertFileContains(piranesiPath, "FIC CLARKE")
	env.AssertFileContains(piranesiPath, "Clarke, Susanna")

	var exported []book.AvailableBook
	require.NoError(t, json.Unmarshal(env.ReadFile(filepath.Join("json", "library.json")), &exported))
	require.Len(t, exported, 2)

	byTitle := make(map[string]book.AvailableBook, len(exported))
	for _, ab := range exported {
		byTitle[ab.Title] = ab
	}
	seveneves := byTitle["Seveneves"]
	assert.Equal(t, "SF STEPHENSON", seveneves.CallNumber)
	assert.Equal(t, "9780062190376", seveneves.ISBN)
	assert.Equal(t, "Central Library", seveneves.Branch)
	assert.Equal(t, "https://images.example/seveneves.jpg", seveneves.CoverImage)

	piranesi := byTitle["Piranesi: A Novel"]
	assert.Equal(t, "FIC CLARKE", piranesi.CallNumber)
	assert.Empty(t, piranesi.ISBN)
	assert.Equal(t, "https://test.bibliocommons.com/item/show/2002_piranesi", piranesi.FullRecordLink)

	csv := env.ReadFileString("available.csv")
	assert.Contains(t, csv, "Title,Author,Call Number,Description")
	assert.Contains(t, csv, "Seveneves")
	assert.Contains(t, csv, "Piranesi: A Novel")
}

func TestLookupInteractiveBranchSelection(t *testing.T) {
	resetSeams(t)
	testutil.SetTestConfig(t)

	env := testutil.NewTestEnv(t)
	testutil.SetViperValue(t, "markdownoutputdir", env.RootDir())
	testutil.SetViperValue(t, "bibliocommons.branches", []string{"Central Library", "Fremont"})

	stubShelf([]goodreads.ShelfBook{
		{Descriptor: book.Descriptor{ISBN: "9780062190376", Title: "Seveneves", Author: "Neal Stephenson"}},
	})

	var gotPrompt string
	var gotBranches []string
	selectBranch = func(prompt string, branches []string) (tui.SelectionResult, error) {
		gotPrompt = prompt
		gotBranches = branches
		return tui.SelectionResult{Action: tui.ActionSelected, Branch: "Fremont"}, nil
	}

	catalog := &fakeCatalog{
		feed: renderFeed(feedEntry{
			title:      "Seveneves",
			link:       "https://test.bibliocommons.com/item/show/2001_seveneves",
			callNumber: "SF STEPHENSON",
		}),
	}
	useCatalog(t, catalog)

	err := LookupWithParams(Params{
		UserID:      "12345",
		DevKey:      "secret",
		Shelf:       "to-read",
		Catalog:     "test",
		Interactive: true,
	})
	require.NoError(t, err)

	assert.Contains(t, gotPrompt, "branch")
	assert.Equal(t, []string{"Central Library", "Fremont"}, gotBranches)

	queries := catalog.recordedQueries()
	require.Len(t, queries, 1)
	assert.True(t, strings.HasSuffix(queries[0], ` available:"Fremont"`), queries[0])
}

func TestLookupCancelledBySelection(t *testing.T) {
	resetSeams(t)
	testutil.SetTestConfig(t)

	env := testutil.NewTestEnv(t)
	testutil.SetViperValue(t, "markdownoutputdir", env.RootDir())

	stubShelf([]goodreads.ShelfBook{
		{Descriptor: book.Descriptor{ISBN: "9780062190376", Title: "Seveneves", Author: "Neal Stephenson"}},
	})

	selectBranch = func(string, []string) (tui.SelectionResult, error) {
		return tui.SelectionResult{Action: tui.ActionStopped}, nil
	}

	catalog := &fakeCatalog{feed: renderFeed()}
	useCatalog(t, catalog)

	err := LookupWithParams(Params{
		UserID:      "12345",
		DevKey:      "secret",
		Shelf:       "to-read",
		Catalog:     "test",
		Interactive: true,
	})
	require.NoError(t, err)
	assert.Empty(t, catalog.recordedQueries(), "a cancelled lookup should never hit the catalog")
}

func TestLookupEmptyShelf(t *testing.T) {
	resetSeams(t)
	testutil.SetTestConfig(t)

	env := testutil.NewTestEnv(t)
	testutil.SetViperValue(t, "markdownoutputdir", env.RootDir())

	stubShelf(nil)
	catalog := &fakeCatalog{feed: renderFeed()}
	useCatalog(t, catalog)

	err := LookupWithParams(Params{UserID: "12345", DevKey: "secret", Shelf: "to-read", Catalog: "test"})
	require.NoError(t, err)
	assert.Empty(t, catalog.recordedQueries())
}

func TestLookupShelfError(t *testing.T) {
	resetSeams(t)
	testutil.SetTestConfig(t)

	env := testutil.NewTestEnv(t)
	testutil.SetViperValue(t, "markdownoutputdir", env.RootDir())

	readShelf = func(context.Context, string, string, string, bool) ([]goodreads.ShelfBook, bool, error) {
		return nil, false, stdErrors.New("shelf is private")
	}

	err := LookupWithParams(Params{UserID: "12345", DevKey: "secret", Shelf: "to-read", Catalog: "test"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read shelf")
}

func TestLookupCatalogDrift(t *testing.T) {
	resetSeams(t)
	testutil.SetTestConfig(t)

	env := testutil.NewTestEnv(t)
	testutil.SetViperValue(t, "markdownoutputdir", env.RootDir())

	stubShelf([]goodreads.ShelfBook{
		{Descriptor: book.Descriptor{ISBN: "9780062190376", Title: "Seveneves", Author: "Neal Stephenson"}},
	})

	catalog := &fakeCatalog{feed: "<html><body>search moved</body></html>"}
	useCatalog(t, catalog)

	err := LookupWithParams(Params{UserID: "12345", DevKey: "secret", Shelf: "to-read", Catalog: "test"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog lookup failed")
	assert.True(t, bibliocommons.IsUnstableAPIError(err))
}

func TestResolveBranchExplicitWins(t *testing.T) {
	resetSeams(t)
	t.Cleanup(func() { branchName = ""; interactive = false })

	branchName = "Central Library"
	interactive = true
	selectBranch = func(string, []string) (tui.SelectionResult, error) {
		t.Error("an explicit branch should skip the picker")
		return tui.SelectionResult{}, nil
	}

	branch, err := resolveBranch()
	require.NoError(t, err)
	assert.Equal(t, "Central Library", branch)
}

func TestResolveBranchNonInteractive(t *testing.T) {
	resetSeams(t)
	t.Cleanup(func() { branchName = ""; interactive = false })

	branchName = ""
	interactive = false

	branch, err := resolveBranch()
	require.NoError(t, err)
	assert.Empty(t, branch)
}

func TestResolveBranchSkipped(t *testing.T) {
	resetSeams(t)
	t.Cleanup(func() { branchName = ""; interactive = false })

	branchName = ""
	interactive = true
	selectBranch = func(string, []string) (tui.SelectionResult, error) {
		return tui.SelectionResult{Action: tui.ActionSkipped}, nil
	}

	branch, err := resolveBranch()
	require.NoError(t, err)
	assert.Empty(t, branch)
}

func TestResolveBranchStopped(t *testing.T) {
	resetSeams(t)
	t.Cleanup(func() { branchName = ""; interactive = false })

	branchName = ""
	interactive = true
	selectBranch = func(string, []string) (tui.SelectionResult, error) {
		return tui.SelectionResult{Action: tui.ActionStopped}, nil
	}

	_, err := resolveBranch()
	require.Error(t, err)
	assert.True(t, errors.IsStopProcessingError(err))
}
