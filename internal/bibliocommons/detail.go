package bibliocommons

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// ExtractItemID pulls the numeric item id out of a full-record link.
//
//	https://seattle.bibliocommons.com/item/show/2837203030_moby_dick -> 2837203030
//
// Search feed items link to a summary page whose URL slug carries the item
// id we need to address other endpoints. The path shape is an undocumented
// convention, so any mismatch is treated as API drift.
func ExtractItemID(link string) (int64, error) {
	parsed, err := url.Parse(link)
	if err != nil {
		return 0, NewUnstableAPIError(fmt.Sprintf("unparseable full record link: %v", err))
	}

	if !strings.HasPrefix(parsed.Path, "/item/show/") {
		return 0, NewUnstableAPIError("full record link format changed")
	}

	slug := parsed.Path[strings.LastIndex(parsed.Path, "/")+1:] // "2837203030_moby_dick"
	idPart, _, _ := strings.Cut(slug, "_")                      // "2837203030"
	id, err := strconv.ParseUint(idPart, 10, 63)
	if err != nil {
		return 0, NewUnstableAPIError("item slug format changed")
	}
	return int64(id), nil
}

// fullRecord is the detail endpoint's envelope. Yes, that is a JSON
// endpoint that returns HTML.
type fullRecord struct {
	HTML string `json:"html"`
}

// parseCallNumber extracts the branch call number from a full-record HTML
// fragment. The fragment tags the shelving block with testid attributes;
// the value lives in a nested span.
func parseCallNumber(fragment string) (string, error) {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return "", NewUnstableAPIError(fmt.Sprintf("unparseable full record fragment: %v", err))
	}

	branchNode := findNode(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && attrValue(n, "testid") == "callnum_branch"
	})
	if branchNode == nil {
		return "", NewUnstableAPIError("full record fragment has no call number node")
	}

	value := findNode(branchNode, func(n *html.Node) bool {
		return isElement(n, "span") && hasClass(n, "value")
	})
	if value == nil {
		return "", NewUnstableAPIError("full record fragment has no call number value")
	}

	return strings.TrimSpace(nodeText(value)), nil
}
