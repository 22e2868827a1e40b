package parse

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// nodeKind identifies the structural elements the walkers care about.
type nodeKind int

const (
	nodeSection  nodeKind = iota // h2
	nodeEntry                    // h3.change-title
	nodeSub                      // h4
	nodeEmphasis                 // strong
	nodeList                     // ul / ol
)

// node is one element of the flattened document: the walkers run as state
// machines over this sequence instead of chasing sibling pointers, which
// keeps each layout family testable in isolation.
type node struct {
	Kind nodeKind
	Text string
	// ID is the element id (section anchors carry one).
	ID string
	// DetailTitle marks h4 elements with the change-detail-title class, the
	// entity headings of the catalog-style layouts.
	DetailTitle bool
	// Items holds the list-item texts of a nodeList.
	Items []string
}

// flatten reduces a document to the ordered sequence of relevant nodes. The
// walk is restricted to the patch-notes container when present, else the
// whole document.
func flatten(html string) ([]node, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	root := doc.Selection
	if container := doc.Find("#patch-notes-container"); container.Length() > 0 {
		root = container
	}

	var nodes []node
	root.Find("h2, h3, h4, strong, ul, ol").Each(func(_ int, s *goquery.Selection) {
		switch goquery.NodeName(s) {
		case "h2":
			nodes = append(nodes, node{
				Kind: nodeSection,
				Text: CleanText(s.Text()),
				ID:   s.AttrOr("id", ""),
			})
		case "h3":
			if s.HasClass("change-title") {
				nodes = append(nodes, node{Kind: nodeEntry, Text: CleanText(s.Text())})
			}
		case "h4":
			nodes = append(nodes, node{
				Kind:        nodeSub,
				Text:        CleanText(s.Text()),
				DetailTitle: s.HasClass("change-detail-title"),
			})
		case "strong":
			// Only sibling-level emphasis matters (the catalog-layout name
			// override); emphasis inside list items is just formatting.
			if s.ParentsFiltered("li").Length() == 0 {
				nodes = append(nodes, node{Kind: nodeEmphasis, Text: CleanText(s.Text())})
			}
		case "ul", "ol":
			// Nested lists flatten into their outermost list node.
			if s.ParentsFiltered("ul, ol").Length() > 0 {
				return
			}
			var items []string
			s.Find("li").Each(func(_ int, li *goquery.Selection) {
				items = append(items, li.Text())
			})
			nodes = append(nodes, node{Kind: nodeList, Items: items})
		}
	})

	return nodes, nil
}
