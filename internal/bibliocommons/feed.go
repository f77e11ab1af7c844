package bibliocommons

import (
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/net/html"

	"github.com/lepinkainen/stacks/internal/book"
	"github.com/lepinkainen/stacks/internal/syndetics"
)

// searchFeed mirrors the search RSS payload.
type searchFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Items   []feedItem `xml:"channel>item"`
}

type feedItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
}

// parseFeed decodes a search RSS body into partial records. A malformed
// item is skipped with a warning; a body that is not an RSS channel at all
// means the search API itself changed shape, which no item survives.
func parseFeed(r io.Reader, logger *slog.Logger) ([]book.Record, error) {
	var feed searchFeed
	if err := xml.NewDecoder(r).Decode(&feed); err != nil {
		return nil, NewUnstableAPIError(fmt.Sprintf("search feed format changed: %v", err))
	}

	records := make([]book.Record, 0, len(feed.Items))
	for _, item := range feed.Items {
		record, err := recordFromItem(item)
		if err != nil {
			logger.Warn("Skipping malformed search result", "title", item.Title, "error", err)
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// recordFromItem parses one feed item into a partial record. The item
// description is escaped HTML carrying <b> labels; every labeled field is
// optional and defaults to empty. The XML decoder has already unescaped
// the title and the description blob.
func recordFromItem(item feedItem) (book.Record, error) {
	record := book.Record{
		Title:          item.Title,
		FullRecordLink: item.Link, // Can be empty!
	}

	if strings.TrimSpace(item.Description) == "" {
		return record, nil
	}

	doc, err := html.Parse(strings.NewReader(item.Description))
	if err != nil {
		return book.Record{}, fmt.Errorf("unparseable item description: %w", err)
	}

	// Some catalogs put the call number right in the feed
	if label := labelNode(doc, "Call #:"); label != nil {
		record.CallNumber = trailingText(label)
	}

	if label := labelNode(doc, "Author:"); label != nil {
		if link := nextElement(label, "a"); link != nil {
			record.Author = strings.TrimSpace(nodeText(link))
		}
	}

	if label := labelNode(doc, "Description:"); label != nil {
		if para := nextElement(label, "p"); para != nil {
			record.Description = strings.TrimSpace(nodeText(para))
		}
	}

	// The feed thumbnail is a medium-quality GIF, upgrade it
	if div := findNode(doc, func(n *html.Node) bool {
		return isElement(n, "div") && hasClass(n, "jacketCoverDiv")
	}); div != nil {
		if img := findNode(div, func(n *html.Node) bool { return isElement(n, "img") }); img != nil {
			if src := attrValue(img, "src"); src != "" {
				record.CoverImage = syndetics.HigherQualityCover(src)
			}
		}
	}

	return record, nil
}
