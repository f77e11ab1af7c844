package bibliocommons

import (
	"strings"

	"golang.org/x/net/html"
)

// Tree helpers for the escaped-HTML blobs the catalog embeds in its feeds.

// findNode returns the first node in n's subtree matching pred, depth-first.
func findNode(n *html.Node, pred func(*html.Node) bool) *html.Node {
	if pred(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findNode(c, pred); found != nil {
			return found
		}
	}
	return nil
}

// nodeText returns the concatenated text content of n's subtree.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func isElement(n *html.Node, tag string) bool {
	return n.Type == html.ElementNode && n.Data == tag
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attrValue(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// labelNode returns the <b> element whose text content is exactly label.
func labelNode(root *html.Node, label string) *html.Node {
	return findNode(root, func(n *html.Node) bool {
		return isElement(n, "b") && nodeText(n) == label
	})
}

// trailingText returns the trimmed text node immediately following n, or ""
// when the next sibling is absent or not text.
func trailingText(n *html.Node) string {
	if s := n.NextSibling; s != nil && s.Type == html.TextNode {
		return strings.TrimSpace(s.Data)
	}
	return ""
}

// nextInDocument advances one step in document order: first child, else
// next sibling, else the nearest ancestor's next sibling.
func nextInDocument(n *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	for ; n != nil; n = n.Parent {
		if n.NextSibling != nil {
			return n.NextSibling
		}
	}
	return nil
}

// nextElement returns the first element with the given tag that follows n
// in document order.
func nextElement(n *html.Node, tag string) *html.Node {
	for cur := nextInDocument(n); cur != nil; cur = nextInDocument(cur) {
		if isElement(cur, tag) {
			return cur
		}
	}
	return nil
}
