package goodreads

import (
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
)

// Cover image paths encode a size letter: s(mall), m(edium), or l(arge).
var coverPathRegex = regexp.MustCompile(`^/books/(\d*)([sml])/(\d*)\.jpg$`)

// HigherQualityCover rewrites a Goodreads cover image URL to request the
// large variant. URLs that don't match the known path shape (such as the
// "nophoto" placeholder) are returned unchanged with a warning.
func HigherQualityCover(imageURL string) string {
	parsed, err := url.Parse(imageURL)
	if err != nil {
		slog.Warn("Unparseable cover image URL, keeping original", "url", imageURL)
		return imageURL
	}

	match := coverPathRegex.FindStringSubmatch(parsed.Path)
	if match == nil {
		slog.Warn("Goodreads image format changed, keeping original quality", "path", parsed.Path)
		return imageURL
	}

	parsed.Path = fmt.Sprintf("/books/%sl/%s.jpg", match[1], match[3])
	return parsed.String()
}
