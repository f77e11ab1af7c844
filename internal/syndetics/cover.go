// Package syndetics rewrites Syndetics cover image URLs to request
// higher-quality variants.
package syndetics

import (
	"log/slog"
	"net/url"
	"strings"
)

// HigherQualityCover returns a URL for the large JPEG variant of a Syndetics
// cover image. Catalog feeds embed the small GIF thumbnail (187x187); the same
// resource is available as a 400x400 JPEG by rewriting the isbn parameter from
// "<isbn>/SC.GIF" to "<isbn>/LC.jpg". All other query parameters (client id,
// metadata options) are left as-is.
//
// A URL without an isbn parameter is a placeholder image and is returned
// unchanged. Unrecognized shapes are returned unchanged with a warning.
func HigherQualityCover(imageURL string) string {
	parsed, err := url.Parse(imageURL)
	if err != nil {
		slog.Warn("Unparseable cover image URL, keeping original", "url", imageURL)
		return imageURL
	}

	params := parsed.Query()
	if !params.Has("isbn") {
		// Placeholder image, use it as-is
		return imageURL
	}

	isbn, _, found := strings.Cut(params.Get("isbn"), "/")
	if !found {
		slog.Warn("Syndetics isbn parameter format changed, keeping original", "url", imageURL)
		return imageURL
	}

	params.Set("isbn", isbn+"/LC.jpg")
	parsed.RawQuery = params.Encode()
	return parsed.String()
}
