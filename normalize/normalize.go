package normalize

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Elements whose subtrees never contribute canonical text.
var strippedElements = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Iframe:   true,
	atom.Nav:      true,
	atom.Header:   true,
	atom.Footer:   true,
	atom.Aside:    true,
	atom.Form:     true,
}

// Elements that mark the main content region, in preference order.
var mainContentElements = []atom.Atom{atom.Main, atom.Article}

// DefaultVolatileMarkers match class/id attribute fragments of regions that
// change on every fetch: timestamps, session counters, share widgets,
// breadcrumbs, cookie banners. Matching is case-insensitive substring.
var DefaultVolatileMarkers = []string{
	"timestamp",
	"last-updated",
	"session",
	"visitor-count",
	"social",
	"share",
	"breadcrumb",
	"cookie",
	"banner",
	"advert",
}

// Normalizer extracts canonical text from raw HTML.
type Normalizer struct {
	volatileMarkers []string
	mainContentIDs  []string
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithVolatileMarkers replaces the default volatile-region markers.
func WithVolatileMarkers(markers []string) Option {
	return func(n *Normalizer) {
		n.volatileMarkers = markers
	}
}

// WithMainContentIDs sets additional class/id fragments that identify the
// main content container when no <main> or <article> element exists.
func WithMainContentIDs(ids []string) Option {
	return func(n *Normalizer) {
		n.mainContentIDs = ids
	}
}

// New creates a Normalizer with the default volatile markers.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		volatileMarkers: DefaultVolatileMarkers,
		mainContentIDs:  []string{"main-content", "content", "page-content"},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize strips volatile and non-semantic markup from raw HTML and
// returns canonical text with whitespace runs collapsed to single spaces.
// Identical substantive content always yields identical output.
func (n *Normalizer) Normalize(raw string) string {
	root, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		// html.Parse only fails on reader errors; degrade to the raw
		// input with whitespace collapsed.
		return collapseWhitespace(raw)
	}

	content := n.findMainContent(root)
	if content == nil {
		content = root
	}

	var sb strings.Builder
	n.collectText(content, &sb)
	return collapseWhitespace(sb.String())
}

// findMainContent returns the designated main content node, or nil when no
// structural marker identifies one.
func (n *Normalizer) findMainContent(root *html.Node) *html.Node {
	for _, a := range mainContentElements {
		if node := findElement(root, a); node != nil {
			return node
		}
	}
	return n.findByContentID(root)
}

func (n *Normalizer) findByContentID(node *html.Node) *html.Node {
	if node.Type == html.ElementNode {
		marker := attrMarkerText(node)
		for _, id := range n.mainContentIDs {
			if strings.Contains(marker, id) {
				return node
			}
		}
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if found := n.findByContentID(child); found != nil {
			return found
		}
	}
	return nil
}

// collectText walks the subtree accumulating text, skipping stripped
// elements and volatile regions.
func (n *Normalizer) collectText(node *html.Node, sb *strings.Builder) {
	switch node.Type {
	case html.TextNode:
		sb.WriteString(node.Data)
		sb.WriteByte(' ')
		return
	case html.ElementNode:
		if strippedElements[node.DataAtom] {
			return
		}
		if n.isVolatile(node) {
			return
		}
	case html.CommentNode, html.DoctypeNode:
		return
	}

	for child := node.FirstChild; child != nil; child = child.NextSibling {
		n.collectText(child, sb)
	}
}

// isVolatile reports whether the element's class or id matches a volatile
// marker.
func (n *Normalizer) isVolatile(node *html.Node) bool {
	marker := attrMarkerText(node)
	if marker == "" {
		return false
	}
	for _, m := range n.volatileMarkers {
		if strings.Contains(marker, m) {
			return true
		}
	}
	return false
}

func attrMarkerText(node *html.Node) string {
	var parts []string
	for _, attr := range node.Attr {
		if attr.Key == "class" || attr.Key == "id" {
			parts = append(parts, strings.ToLower(attr.Val))
		}
	}
	return strings.Join(parts, " ")
}

func findElement(node *html.Node, a atom.Atom) *html.Node {
	if node.Type == html.ElementNode && node.DataAtom == a {
		return node
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if found := findElement(child, a); found != nil {
			return found
		}
	}
	return nil
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
