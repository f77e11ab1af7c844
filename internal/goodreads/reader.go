// Package goodreads reads the books on a user's Goodreads shelf through
// the review/list XML API.
package goodreads

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/lepinkainen/stacks/internal/errors"
	"github.com/lepinkainen/stacks/internal/ratelimit"
)

// The API supports pagination; one page of 200 covers the typical shelf.
const shelfPageSize = 200

var (
	goodreadsBaseURL = "https://www.goodreads.com"
	goodreadsHTTPDo  = func(req *http.Request) (*http.Response, error) {
		return http.DefaultClient.Do(req)
	}
)

// getShelfRateLimiter returns the shared Goodreads limiter.
// The API terms ask for at most one request per second.
func getShelfRateLimiter() *ratelimit.Limiter {
	return ratelimit.For("Goodreads", 1)
}

// ShelfReader fetches books from one user's shelves.
type ShelfReader struct {
	userID string
	devKey string
}

// NewShelfReader validates credentials and returns a reader.
func NewShelfReader(userID, devKey string) (*ShelfReader, error) {
	if userID == "" {
		return nil, fmt.Errorf("goodreads user id is required (provide via --user-id flag or goodreads.userid in config)")
	}
	if devKey == "" {
		return nil, fmt.Errorf("goodreads developer key is required (set goodreads.devkey in config or GOODREADS_DEV_KEY)")
	}
	return &ShelfReader{userID: userID, devKey: devKey}, nil
}

// WantedBooks returns all books on the named shelf. ISBNs can be blank
// (e-books commonly lack one); cover URLs are upgraded to the large variant.
func (r *ShelfReader) WantedBooks(ctx context.Context, shelf string) ([]ShelfBook, error) {
	if err := getShelfRateLimiter().Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed: %w", err)
	}

	slog.Info("Fetching books on shelf", "shelf", shelf, "user", r.userID)

	params := url.Values{}
	params.Set("v", "2")
	params.Set("id", r.userID)
	params.Set("shelf", shelf)
	params.Set("key", r.devKey)
	params.Set("per_page", strconv.Itoa(shelfPageSize))

	reqURL := fmt.Sprintf("%s/review/list?%s", goodreadsBaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := goodreadsHTTPDo(req)
	if err != nil {
		return nil, fmt.Errorf("goodreads API request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewShelfAccessError(resp.StatusCode, r.userID)
	}

	var payload shelfResponse
	if err := xml.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode shelf response: %w", err)
	}

	books := make([]ShelfBook, 0, len(payload.Reviews))
	for _, item := range payload.Reviews {
		sb := ShelfBook{
			GoodreadsID: item.Book.ID,
			Description: item.Book.Description,
		}
		sb.ISBN = item.Book.ISBN
		sb.Title = item.Book.Title
		if len(item.Book.AuthorNames) > 0 {
			sb.Author = item.Book.AuthorNames[0]
		}
		if item.Book.ImageURL != "" {
			sb.CoverURL = HigherQualityCover(item.Book.ImageURL)
		}
		books = append(books, sb)
	}

	return books, nil
}
